package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/semver"

	"github.com/toyz/entrait/internal/errors"
)

// ManifestFileName is the Cargo manifest looked up next to the sources
const ManifestFileName = "Cargo.toml"

// first unimock release using `api=` instead of `mod=`
const unimockAPIVersion = "v0.5.0"

// Dependency is one entry of a Cargo dependency table. Both the short
// `name = "1.0"` form and the table form decode into it.
type Dependency struct {
	Version  string
	Features []string
	Path     string
}

// Manifest is the subset of Cargo.toml used to pick generator defaults
type Manifest struct {
	Path            string
	PackageName     string
	Dependencies    map[string]Dependency
	DevDependencies map[string]Dependency
}

type rawManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Dependencies    map[string]any `toml:"dependencies"`
	DevDependencies map[string]any `toml:"dev-dependencies"`
}

// LoadManifest reads and decodes a Cargo.toml
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return ParseManifest(path, data)
}

// ParseManifest decodes Cargo.toml content read from path
func ParseManifest(path string, data []byte) (*Manifest, error) {
	var raw rawManifest
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ConfigurationErrorCode, "failed to parse "+ManifestFileName, err).
			WithFile(path)
	}
	return &Manifest{
		Path:            path,
		PackageName:     raw.Package.Name,
		Dependencies:    decodeDependencies(raw.Dependencies),
		DevDependencies: decodeDependencies(raw.DevDependencies),
	}, nil
}

// FindManifest walks up from start (a file or directory) to the nearest
// Cargo.toml and loads it. It returns nil without error when none exists.
func FindManifest(start string) (*Manifest, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, errors.WrapFileSystemError("resolve", start, err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}
	path := findUpward(abs, ManifestFileName)
	if path == "" {
		return nil, nil
	}
	return LoadManifest(path)
}

func decodeDependencies(table map[string]any) map[string]Dependency {
	deps := make(map[string]Dependency, len(table))
	for name, value := range table {
		var dep Dependency
		switch v := value.(type) {
		case string:
			dep.Version = v
		case map[string]any:
			dep.Version, _ = v["version"].(string)
			dep.Path, _ = v["path"].(string)
			if features, ok := v["features"].([]any); ok {
				for _, f := range features {
					if s, ok := f.(string); ok {
						dep.Features = append(dep.Features, s)
					}
				}
			}
			// renamed dependencies: `um = { package = "unimock", ... }`
			if pkg, ok := v["package"].(string); ok && pkg != "" {
				name = pkg
			}
		}
		deps[name] = dep
	}
	return deps
}

// lookup finds a dependency in the regular or dev tables
func (m *Manifest) lookup(name string) (Dependency, bool) {
	if dep, ok := m.Dependencies[name]; ok {
		return dep, true
	}
	dep, ok := m.DevDependencies[name]
	return dep, ok
}

// HasUnimock reports whether unimock is a dependency, directly or through
// entrait's `unimock` feature
func (m *Manifest) HasUnimock() bool {
	if _, ok := m.lookup("unimock"); ok {
		return true
	}
	if dep, ok := m.lookup("entrait"); ok {
		for _, f := range dep.Features {
			if f == "unimock" {
				return true
			}
		}
	}
	return false
}

// HasMockall reports whether mockall is a dependency
func (m *Manifest) HasMockall() bool {
	_, ok := m.lookup("mockall")
	return ok
}

// UnimockLegacy reports whether the unimock requirement predates the
// `api=` keyword. Unknown or unparseable versions count as current.
func (m *Manifest) UnimockLegacy() bool {
	dep, ok := m.lookup("unimock")
	if !ok {
		return false
	}
	version := CargoVersion(dep.Version)
	if version == "" {
		return false
	}
	return semver.Compare(version, unimockAPIVersion) < 0
}

// CargoVersion converts the lower bound of a Cargo version requirement into
// a semver string ("^0.4.2" becomes "v0.4.2"), or "" when it has none
func CargoVersion(req string) string {
	req = strings.TrimSpace(req)
	if i := strings.IndexByte(req, ','); i >= 0 {
		req = req[:i]
	}
	req = strings.TrimLeft(req, "^~=>< \t")

	var parts []string
	for _, part := range strings.Split(req, ".") {
		if part == "*" || part == "x" || part == "X" {
			break
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return ""
	}

	version := "v" + strings.Join(parts, ".")
	if !semver.IsValid(version) {
		return ""
	}
	return version
}
