package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest(t *testing.T) {
	manifest, err := ParseManifest("Cargo.toml", []byte(`
[package]
name = "app"

[dependencies]
entrait = "0.7"
um = { package = "unimock", version = "^0.6.1", optional = true }
local = { path = "../local" }
`))
	require.NoError(t, err)

	assert.Equal(t, "app", manifest.PackageName)
	assert.Equal(t, Dependency{Version: "0.7"}, manifest.Dependencies["entrait"])
	assert.Equal(t, "^0.6.1", manifest.Dependencies["unimock"].Version)
	assert.Equal(t, "../local", manifest.Dependencies["local"].Path)
	assert.True(t, manifest.HasUnimock())
	assert.False(t, manifest.HasMockall())
	assert.False(t, manifest.UnimockLegacy())
}

func TestParseManifest_Invalid(t *testing.T) {
	_, err := ParseManifest("Cargo.toml", []byte("[package\nname ="))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Cargo.toml")
}

func TestManifest_UnimockLegacy(t *testing.T) {
	tests := []struct {
		version  string
		expected bool
	}{
		{"0.4", true},
		{"0.4.12", true},
		{"=0.3.0", true},
		{"0.5", false},
		{"^0.5.0", false},
		{"1", false},
		{"*", false},
		{"", false},
	}
	for _, tt := range tests {
		m := &Manifest{Dependencies: map[string]Dependency{"unimock": {Version: tt.version}}}
		assert.Equal(t, tt.expected, m.UnimockLegacy(), tt.version)
	}
	assert.False(t, (&Manifest{}).UnimockLegacy())
}

func TestCargoVersion(t *testing.T) {
	tests := map[string]string{
		"0.4":           "v0.4",
		"^1.2.3":        "v1.2.3",
		"~0.5":          "v0.5",
		">=0.4, <0.6":   "v0.4",
		"0.4.*":         "v0.4",
		"*":             "",
		"not-a-version": "",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, CargoVersion(input), input)
	}
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"Cargo.toml":     "[package]\nname = \"found\"\n",
		"src/app/mod.rs": "",
	})

	manifest, err := FindManifest(filepath.Join(root, "src", "app", "mod.rs"))
	require.NoError(t, err)
	require.NotNil(t, manifest)
	assert.Equal(t, "found", manifest.PackageName)
	assert.Equal(t, filepath.Join(root, "Cargo.toml"), manifest.Path)
}
