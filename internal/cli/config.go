package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/toyz/entrait/internal/errors"
	"github.com/toyz/entrait/internal/models"
	"github.com/toyz/entrait/internal/utils"
)

// ConfigFileName is the project configuration file searched for upward
// from the working directory
const ConfigFileName = "entrait.toml"

// Config holds the configuration for the CLI generator
type Config struct {
	// Targets are files, directories, or "dir/..." patterns to expand
	Targets []string `mapstructure:"targets"`

	// Defaults applied to every item before its own #[entrait] arguments
	AsyncStrategy string `mapstructure:"async_strategy"`
	FutureSend    bool   `mapstructure:"future_send"`
	Unimock       bool   `mapstructure:"unimock"`
	Mockall       bool   `mapstructure:"mockall"`
	Export        bool   `mapstructure:"export"`
	CratePath     string `mapstructure:"crate_path"`

	// Manifest is the Cargo.toml used to detect mock libraries; searched
	// upward from the first target when empty
	Manifest string `mapstructure:"manifest"`
	// DetectMocks enables unimock/mockall when Cargo.toml depends on them
	DetectMocks bool `mapstructure:"detect_mocks"`

	OutputSuffix   string `mapstructure:"output_suffix"`
	Stdout         bool   `mapstructure:"stdout"`
	Rustfmt        bool   `mapstructure:"rustfmt"`
	RustfmtEdition string `mapstructure:"rustfmt_edition"`

	// Debug prints every expansion, as if each item had `debug`
	Debug bool `mapstructure:"debug"`
	// FailFast stops at the first file with an error
	FailFast bool `mapstructure:"fail_fast"`
}

// SetDefaults registers the default value of every configuration key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("async_strategy", models.AsyncNone.String())
	v.SetDefault("future_send", true)
	v.SetDefault("unimock", false)
	v.SetDefault("mockall", false)
	v.SetDefault("export", false)
	v.SetDefault("crate_path", "::entrait")
	v.SetDefault("manifest", "")
	v.SetDefault("detect_mocks", true)
	v.SetDefault("output_suffix", utils.DefaultGeneratedSuffix)
	v.SetDefault("stdout", false)
	v.SetDefault("rustfmt", false)
	v.SetDefault("rustfmt_edition", "2021")
	v.SetDefault("debug", false)
	v.SetDefault("fail_fast", false)
}

// NewViper creates a viper instance reading defaults, then the nearest
// entrait.toml, then ENTRAIT_* environment variables. configFile overrides
// the search when not empty.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("ENTRAIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if configFile == "" {
		configFile = findProjectConfig()
	}
	if configFile == "" {
		return v, nil
	}

	v.SetConfigFile(configFile)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.WrapConfigurationError(configFile, err).WithFile(configFile)
	}
	return v, nil
}

// LoadConfig decodes the configuration held by v
func LoadConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(errors.ConfigurationErrorCode, "failed to unmarshal config", err)
	}
	if config.OutputSuffix == "" || !strings.HasSuffix(config.OutputSuffix, ".rs") {
		return nil, errors.Newf(errors.ConfigurationErrorCode,
			"output_suffix must end in .rs, got '%s'", config.OutputSuffix)
	}
	return &config, nil
}

// BaseOptions returns the options every #[entrait] attribute is layered
// over. Mock libraries found in the manifest are switched on when
// DetectMocks is set.
func (c *Config) BaseOptions(manifest *Manifest) (models.Options, error) {
	opts := models.DefaultOptions()

	strategy, err := models.ParseAsyncStrategy(c.AsyncStrategy)
	if err != nil {
		return opts, errors.Wrap(errors.ConfigurationErrorCode, "invalid async_strategy", err)
	}
	opts.AsyncStrategy = strategy
	opts.FutureSend = c.FutureSend
	opts.Unimock = c.Unimock
	opts.Mockall = c.Mockall
	opts.Export = c.Export
	if c.CratePath != "" {
		opts.CratePath = c.CratePath
	}

	if manifest != nil {
		opts.UnimockLegacy = manifest.UnimockLegacy()
		if c.DetectMocks {
			opts.Unimock = opts.Unimock || manifest.HasUnimock()
			opts.Mockall = opts.Mockall || manifest.HasMockall()
		}
	}
	return opts, nil
}

// findProjectConfig walks up from the working directory looking for entrait.toml
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findUpward(dir, ConfigFileName)
}

// findUpward returns the first dir/name found walking up from dir, or ""
func findUpward(dir, name string) string {
	for {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
