package main

import (
	"github.com/spf13/cobra"

	"github.com/toyz/entrait/internal/cli"
	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/utils"
)

// flag name -> configuration key
var generateBindings = map[string]string{
	"async-strategy":  "async_strategy",
	"future-send":     "future_send",
	"unimock":         "unimock",
	"mockall":         "mockall",
	"export":          "export",
	"crate-path":      "crate_path",
	"manifest":        "manifest",
	"detect-mocks":    "detect_mocks",
	"suffix":          "output_suffix",
	"stdout":          "stdout",
	"rustfmt":         "rustfmt",
	"rustfmt-edition": "rustfmt_edition",
	"debug":           "debug",
	"fail-fast":       "fail_fast",
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate [targets...]",
		Short: "Expand #[entrait] items",
		Long: `Expand every #[entrait] item found in the targets. Each source file with at
least one annotated item gets an expanded copy next to it (lib.rs becomes
lib.entrait.rs), or is printed with --stdout.`,
		Example: `  entrait generate ./...
  entrait generate src/lib.rs --stdout
  entrait generate --async-strategy box_future --unimock ./src/...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root, args)
		},
	}

	flags := cmd.Flags()
	flags.String("async-strategy", "none", "Default async strategy: none, box_future or associated_future")
	flags.Bool("future-send", true, "Require generated futures to be Send")
	flags.Bool("unimock", false, "Generate unimock attributes for every trait")
	flags.Bool("mockall", false, "Generate mockall attributes for every trait")
	flags.Bool("export", false, "Generate mock attributes outside of cfg(test)")
	flags.String("crate-path", "::entrait", "Path of the entrait crate in generated code")
	flags.String("manifest", "", "Cargo.toml used to detect mock libraries (default: nearest to the sources)")
	flags.Bool("detect-mocks", true, "Enable unimock/mockall when Cargo.toml depends on them")
	flags.String("suffix", ".entrait.rs", "Suffix of the expanded files")
	flags.Bool("stdout", false, "Print expanded files instead of writing them")
	flags.Bool("rustfmt", false, "Format expanded files with rustfmt")
	flags.String("rustfmt-edition", "2021", "Rust edition passed to rustfmt")
	flags.Bool("debug", false, "Print every expansion")
	flags.Bool("fail-fast", false, "Stop at the first file with an error")
	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, args []string) error {
	config, err := root.loadConfig(cmd, args, generateBindings)
	if err != nil {
		return err
	}

	diagnostics := root.diagnostics(cmd, config.Stdout)
	diagnostics.Section("Entrait Code Generator")
	diagnostics.Verbose("Targets: %v", config.Targets)

	generator := cli.NewGenerator(config, diagnostics)
	generator.SetOutput(cmd.OutOrStdout())
	runErr := generator.Run(cmd.Context())

	summary := generator.GetSummary()
	diagnostics.Summary("Generation complete", map[string]interface{}{
		"Files scanned":  summary.FilesScanned,
		"Files expanded": summary.FilesExpanded,
		"Files failed":   summary.FilesFailed,
		"Items expanded": summary.ItemsExpanded,
	})

	if root.verbose && len(summary.GeneratedFiles) > 0 {
		diagnostics.Subsection("Generated files")
		diagnostics.Indent()
		for _, file := range summary.GeneratedFiles {
			diagnostics.List("%s", file)
		}
		diagnostics.Unindent()
	}

	if runErr != nil {
		reportError(diagnostics, runErr)
		return reported{runErr}
	}
	return nil
}

// reported marks an error already printed through diagnostics
type reported struct{ error }

func (r reported) Unwrap() error { return r.error }

// reportError prints each collected error with its hints
func reportError(diagnostics *utils.DiagnosticSystem, err error) {
	var list []errors.EntraitError
	if multi, ok := err.(*errors.MultipleErrors); ok {
		list = multi.Errors
	} else if e, ok := errors.AsEntraitError(err); ok {
		list = []errors.EntraitError{e}
	} else {
		diagnostics.Error("%v", err)
		return
	}
	for _, e := range list {
		diagnostics.Error("%s", e.Error())
		for _, hint := range e.Suggestions() {
			diagnostics.List("help: %s", hint)
		}
	}
}
