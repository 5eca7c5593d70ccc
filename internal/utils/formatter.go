package utils

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Formatter pipes Rust source through rustfmt
type Formatter struct {
	command string
	edition string
}

// NewFormatter creates a formatter running command (normally "rustfmt")
// with the given edition, or rustfmt's default edition when empty
func NewFormatter(command, edition string) *Formatter {
	if command == "" {
		command = "rustfmt"
	}
	return &Formatter{command: command, edition: edition}
}

// Available reports whether the formatter binary is on PATH
func (f *Formatter) Available() bool {
	_, err := exec.LookPath(f.command)
	return err == nil
}

// FormatRustCode formats source, returning the input unchanged with an
// error when rustfmt fails
func (f *Formatter) FormatRustCode(ctx context.Context, source string) (string, error) {
	args := []string{"--emit", "stdout"}
	if f.edition != "" {
		args = append(args, "--edition", f.edition)
	}

	cmd := exec.CommandContext(ctx, f.command, args...)
	cmd.Stdin = strings.NewReader(source)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return source, fmt.Errorf("%s failed: %w (stderr: %s)", f.command, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
