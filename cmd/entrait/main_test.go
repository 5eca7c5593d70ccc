package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const annotated = `#[entrait(pub Greet, no_deps)]
fn greet(name: &str) -> String {
    format!("hi {name}")
}
`

// execute runs the CLI in-process and returns stdout and stderr
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLI_Help(t *testing.T) {
	stdout, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage:")
	assert.Contains(t, stdout, "generate")
	assert.Contains(t, stdout, "clean")
	assert.Contains(t, stdout, "--config")
}

func TestCLI_Version(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "entrait ")

	stdout, _, err = execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "entrait version dev\n", stdout)
}

func TestCLI_Generate(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "lib.rs")
	require.NoError(t, os.WriteFile(source, []byte(annotated), 0644))

	t.Run("writes expanded file", func(t *testing.T) {
		stdout, _, err := execute(t, "generate", dir)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Entrait Code Generator")
		assert.Contains(t, stdout, "Items expanded: 1")

		data, err := os.ReadFile(filepath.Join(dir, "lib.entrait.rs"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "pub trait Greet {\n    fn greet(&self, name: &str) -> String;\n}")
	})

	t.Run("stdout keeps diagnostics apart", func(t *testing.T) {
		stdout, stderr, err := execute(t, "generate", "--stdout", "--unimock", source)
		require.NoError(t, err)
		assert.Contains(t, stdout, "#[cfg_attr(test, ::entrait::__unimock::unimock(prefix=::entrait::__unimock))]")
		assert.NotContains(t, stdout, "Entrait Code Generator")
		assert.Contains(t, stderr, "Entrait Code Generator")
	})

	t.Run("custom suffix and clean", func(t *testing.T) {
		_, _, err := execute(t, "generate", "--suffix", ".gen.rs", "-q", dir)
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "lib.gen.rs"))
		require.NoError(t, err)

		stdout, _, err := execute(t, "clean", "--suffix", ".gen.rs", dir)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Removed 1 generated file(s)")
		_, err = os.Stat(filepath.Join(dir, "lib.gen.rs"))
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(filepath.Join(dir, "lib.entrait.rs"))
		assert.NoError(t, err)
	})
}

func TestCLI_GenerateErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.rs"), []byte("#[entrait(Foo)]\nfn foo() {}\n"), 0644))

	_, stderr, err := execute(t, "generate", dir)
	require.Error(t, err)
	assert.Contains(t, stderr, "must have a dependency receiver")
	assert.Contains(t, stderr, "help: ")

	_, _, err = execute(t, "generate", "--async-strategy", "threads", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid async_strategy")

	_, _, err = execute(t, "generate", filepath.Join(dir, "missing"))
	require.Error(t, err)
}
