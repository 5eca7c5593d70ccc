package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// testConfig returns the default configuration for targets
func testConfig(t *testing.T, targets ...string) *Config {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	config, err := LoadConfig(v)
	require.NoError(t, err)
	config.Targets = targets
	return config
}

// writeFiles creates files (relative path -> content) under root
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}
