package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/generator"
	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/parser"
	"github.com/toyz/entrait/internal/syntax"
	"github.com/toyz/entrait/internal/utils"
)

// GenerationSummary collects statistics about a run
type GenerationSummary struct {
	FilesScanned   int
	FilesExpanded  int
	FilesFailed    int
	ItemsExpanded  int
	GeneratedFiles []string
}

// Generator coordinates the CLI generation process
type Generator struct {
	config        *Config
	files         *utils.FileProcessor
	scanner       *DirectoryScanner
	codeGenerator generator.CodeGenerator
	formatter     *utils.Formatter
	diagnostics   *utils.DiagnosticSystem
	stdout        io.Writer
	summary       GenerationSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator(config *Config, diagnostics *utils.DiagnosticSystem) *Generator {
	files := utils.NewFileProcessorWithSuffix(config.OutputSuffix)
	return &Generator{
		config:        config,
		files:         files,
		scanner:       NewDirectoryScannerWithProcessor(files),
		codeGenerator: generator.NewGenerator(),
		formatter:     utils.NewFormatter("rustfmt", config.RustfmtEdition),
		diagnostics:   diagnostics,
		stdout:        os.Stdout,
	}
}

// SetOutput redirects --stdout output
func (g *Generator) SetOutput(w io.Writer) {
	g.stdout = w
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// Run expands every annotated item found under the configured targets.
// Files are processed independently; the returned error collects one entry
// per failed item.
func (g *Generator) Run(ctx context.Context) error {
	startTime := time.Now()
	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}

	g.diagnostics.Verbose("Starting code generation at %s", startTime.Format("15:04:05"))
	g.diagnostics.Debug("Targets: %v", g.config.Targets)

	sources, err := g.scanner.ScanSources(g.config.Targets)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return errors.New(errors.FileSystemErrorCode, "no Rust source files found").
			WithSuggestion("pass a directory containing .rs files, or use the './...' pattern").
			WithContext("targets", g.config.Targets)
	}
	g.summary.FilesScanned = len(sources)
	g.diagnostics.Info("Found %d Rust files", len(sources))

	manifest, err := g.loadManifest(sources[0])
	if err != nil {
		return err
	}
	base, err := g.config.BaseOptions(manifest)
	if err != nil {
		return err
	}
	g.diagnostics.Debug("Base options: async=%s unimock=%t mockall=%t legacy=%t",
		base.AsyncStrategy, base.Unimock, base.Mockall, base.UnimockLegacy)

	format := g.config.Rustfmt && !g.config.Stdout
	if g.config.Rustfmt && !g.formatter.Available() {
		g.diagnostics.Warn("rustfmt not found on PATH, output is left unformatted")
		format = false
	}

	failures := errors.NewMultipleErrors()
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.processFile(ctx, source, base, format); err != nil {
			g.summary.FilesFailed++
			collect(failures, err)
			if g.config.FailFast {
				break
			}
		}
	}

	g.diagnostics.Verbose("Generation finished in %s", time.Since(startTime).Round(time.Millisecond))
	return failures.ErrorOrNil()
}

func (g *Generator) loadManifest(firstSource string) (*Manifest, error) {
	if g.config.Manifest != "" {
		return LoadManifest(g.config.Manifest)
	}
	manifest, err := FindManifest(firstSource)
	if err != nil {
		return nil, err
	}
	if manifest != nil {
		g.diagnostics.Verbose("Using manifest %s", manifest.Path)
	}
	return manifest, nil
}

// processFile expands one source file and writes the result
func (g *Generator) processFile(ctx context.Context, path string, base models.Options, format bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WrapFileSystemError("read", path, err)
	}

	result, err := g.ExpandSource(path, string(data), base)
	if err != nil {
		return err
	}
	if result.Items == 0 {
		g.diagnostics.Debug("No #[entrait] items in %s", path)
		return nil
	}
	g.summary.ItemsExpanded += result.Items
	g.summary.FilesExpanded++
	g.diagnostics.PhaseItem("%s: expanded %d item(s)", path, result.Items)

	if g.config.Stdout {
		_, err := fmt.Fprintf(g.stdout, "// %s\n%s", path, result.Code)
		return err
	}

	code := result.Code
	if format {
		formatted, err := g.formatter.FormatRustCode(ctx, code)
		if err != nil {
			g.diagnostics.Warn("%s: %v", path, err)
		} else {
			code = formatted
		}
	}

	out := g.files.OutputPath(path)
	g.diagnostics.Writing(out)
	if err := os.WriteFile(out, []byte(generatedHeader(path)+code), 0644); err != nil {
		return errors.WrapFileSystemError("write", out, err)
	}
	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, out)
	return nil
}

func generatedHeader(source string) string {
	return "// @generated by entrait from " + filepath.Base(source) + ". Do not edit.\n\n"
}

// FileResult is the expanded text of one source file
type FileResult struct {
	Code  string
	Items int
}

// replacement swaps the bytes [start, end) of a file for text
type replacement struct {
	start, end int
	text       string
}

// ExpandSource expands every annotated item in src, including those nested
// in modules that are not annotated themselves. On failure no code is
// returned and the error lists every item that could not be expanded.
func (g *Generator) ExpandSource(path, src string, base models.Options) (FileResult, error) {
	file, err := parser.ParseFile(path, src)
	if err != nil {
		return FileResult{}, err
	}

	failures := errors.NewMultipleErrors()
	var replacements []replacement
	g.expandItems(path, src, file.Items, base, &replacements, failures)
	if !failures.IsEmpty() {
		return FileResult{}, failures
	}

	// later spans first so earlier offsets stay valid
	sort.Slice(replacements, func(i, j int) bool {
		return replacements[i].start > replacements[j].start
	})
	code := src
	for _, r := range replacements {
		code = code[:r.start] + r.text + code[r.end:]
	}
	return FileResult{Code: code, Items: len(replacements)}, nil
}

func (g *Generator) expandItems(path, src string, items []syntax.Item, base models.Options, out *[]replacement, failures *errors.MultipleErrors) {
	for _, item := range items {
		if !generator.IsAnnotated(item) {
			if mod, ok := item.(*syntax.ItemMod); ok {
				g.expandItems(path, src, mod.Items, base, out, failures)
			}
			continue
		}

		span := item.ItemSpan()
		exp, err := g.codeGenerator.Expand(src, item, base)
		if err != nil {
			collect(failures, withFile(err, path))
			if exp != nil && (exp.Options.Debug || g.config.Debug) {
				g.diagnostics.Code(fmt.Sprintf("%s:%d (unexpanded)", path, span.Start.Line), exp.Source)
			}
			continue
		}

		if exp.Options.Debug || g.config.Debug {
			g.diagnostics.Code(fmt.Sprintf("%s:%d %s %s", path, span.Start.Line, exp.Kind, exp.TraitIdent), exp.Code())
		}
		*out = append(*out, replacement{
			start: span.Start.Offset,
			end:   span.End,
			text:  exp.Indented(lineIndent(src, span.Start.Offset)),
		})
	}
}

// lineIndent returns the whitespace between the start of the line and offset
func lineIndent(src string, offset int) string {
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	indent := src[lineStart:offset]
	if strings.TrimLeft(indent, " \t") != "" {
		return ""
	}
	return indent
}

// withFile fills the file name into positioned errors
func withFile(err error, path string) error {
	if base, ok := err.(*errors.BaseError); ok && base.Loc.File == "" {
		return base.WithFile(path)
	}
	return err
}

// collect flattens err into failures
func collect(failures *errors.MultipleErrors, err error) {
	switch e := err.(type) {
	case *errors.MultipleErrors:
		for _, inner := range e.Errors {
			failures.Add(inner)
		}
	case errors.EntraitError:
		failures.Add(e)
	default:
		failures.Add(errors.Wrap(errors.UnknownErrorCode, "generation failed", err))
	}
}
