package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toyz/entrait/internal/cli"
	"github.com/toyz/entrait/internal/utils"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// rootOptions are the flags shared by every subcommand
type rootOptions struct {
	configFile string
	verbose    bool
	quiet      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "entrait",
		Short: "Entrait code generator for Rust",
		Long: `entrait scans Rust sources for items annotated with #[entrait(...)] and writes
an expanded copy of every such file: the original items, plus a trait for each
annotated fn or module and impl blocks delegating to it.

Targets are files, directories, or Go-style recursive patterns such as ./...`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("entrait version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to entrait.toml (default: searched upward from the working directory)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Only show errors")

	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newCleanCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig reads entrait.toml and the environment, then applies the
// command's flags that were explicitly set
func (o *rootOptions) loadConfig(cmd *cobra.Command, args []string, bindings map[string]string) (*cli.Config, error) {
	v, err := cli.NewViper(o.configFile)
	if err != nil {
		return nil, err
	}
	if err := bindFlags(v, cmd, bindings); err != nil {
		return nil, err
	}
	config, err := cli.LoadConfig(v)
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		config.Targets = args
	}
	if len(config.Targets) == 0 {
		config.Targets = []string{"./..."}
	}
	return config, nil
}

// bindFlags binds flag names to config keys
func bindFlags(v *viper.Viper, cmd *cobra.Command, bindings map[string]string) error {
	for flag, key := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

// diagnostics creates the output system for the command, writing to
// stderr when stdout carries generated code. Output redirected with SetOut
// (as in tests) is written without colors.
func (o *rootOptions) diagnostics(cmd *cobra.Command, toStderr bool) *utils.DiagnosticSystem {
	level := utils.ParseDiagnosticLevel(o.quiet, o.verbose, false)
	if toStderr {
		return utils.NewWriterDiagnostics(level, cmd.ErrOrStderr())
	}
	if out := cmd.OutOrStdout(); out != io.Writer(os.Stdout) {
		return utils.NewSplitDiagnostics(level, out, cmd.ErrOrStderr())
	}
	return utils.NewDiagnosticSystem(level)
}
