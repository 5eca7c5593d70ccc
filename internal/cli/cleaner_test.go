package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleaner_CleanGeneratedFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"lib.rs":              "",
		"lib.entrait.rs":      "",
		"app/mod.entrait.rs":  "",
		"app/mod.rs":          "",
		"target/x.entrait.rs": "",
	})

	t.Run("single directory", func(t *testing.T) {
		removed, err := NewCleaner("").CleanGeneratedFiles([]string{root})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "lib.entrait.rs")}, removed)
	})

	t.Run("recursive", func(t *testing.T) {
		removed, err := NewCleaner(".entrait.rs").CleanGeneratedFiles([]string{root + "/..."})
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "app", "mod.entrait.rs")}, removed)
	})

	for _, kept := range []string{"lib.rs", "app/mod.rs", "target/x.entrait.rs"} {
		_, err := os.Stat(filepath.Join(root, kept))
		assert.NoError(t, err, kept)
	}
}

func TestDirectoryScanner_ScanSources(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/lib.rs":         "",
		"src/lib.entrait.rs": "",
		"src/a/b.rs":         "",
		".hidden/c.rs":       "",
	})

	files, err := NewDirectoryScanner().ScanSources([]string{root + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "src", "a", "b.rs"),
		filepath.Join(root, "src", "lib.rs"),
	}, files)

	generated, err := NewDirectoryScanner().ScanGenerated([]string{root + "/..."})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "src", "lib.entrait.rs")}, generated)
}
