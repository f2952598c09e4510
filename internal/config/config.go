// Package config loads extpack settings with Viper.
//
// Values come, lowest precedence first, from built-in defaults, an optional
// extpack.yaml in the root directory (or an explicit --config file),
// EXTPACK_* environment variables, and finally command-line flags bound by
// the CLI. Relative directories are resolved against Root.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	wheelext "github.com/nwierzbowski/elbo-sdk"
)

const (
	// AppName is the application name.
	AppName = "extpack"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "extpack"
	// EnvPrefix prefixes environment overrides, e.g. EXTPACK_OUTPUT_DIR.
	EnvPrefix = "EXTPACK"
)

// Packager names accepted by the "packager" key.
const (
	PackagerCommand = "command"
	PackagerBuiltin = "builtin"
)

// Config holds every extpack setting.
type Config struct {
	Root        string `mapstructure:"root"`
	PackageName string `mapstructure:"package_name"`
	Namespace   string `mapstructure:"namespace"`
	Version     string `mapstructure:"version"`

	PackageDir string `mapstructure:"package_dir"`
	SourceDir  string `mapstructure:"source_dir"`
	OutputDir  string `mapstructure:"output_dir"`

	Packager string `mapstructure:"packager"`
	Python   string `mapstructure:"python"`

	PythonTag   string `mapstructure:"python_tag"`
	AbiTag      string `mapstructure:"abi_tag"`
	PlatformTag string `mapstructure:"platform_tag"`

	KeepStaleArtifacts bool   `mapstructure:"keep_stale_artifacts"`
	Verbose            bool   `mapstructure:"verbose"`
	Report             string `mapstructure:"report"`
}

// DefaultConfig returns the defaults: the layout of the SDK checkout, with
// build_wheel/ as the package root, lib/ holding the CMake output and dist/
// receiving wheels.
func DefaultConfig() *Config {
	return &Config{
		Root:        ".",
		PackageName: "elbo_sdk",
		PackageDir:  "build_wheel",
		SourceDir:   "lib",
		OutputDir:   "dist",
		Packager:    PackagerCommand,
		Python:      "python3",
		PythonTag:   "py3",
		AbiTag:      "none",
	}
}

// New returns a Viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("root", defaults.Root)
	v.SetDefault("package_name", defaults.PackageName)
	v.SetDefault("namespace", defaults.Namespace)
	v.SetDefault("version", defaults.Version)
	v.SetDefault("package_dir", defaults.PackageDir)
	v.SetDefault("source_dir", defaults.SourceDir)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("packager", defaults.Packager)
	v.SetDefault("python", defaults.Python)
	v.SetDefault("python_tag", defaults.PythonTag)
	v.SetDefault("abi_tag", defaults.AbiTag)
	v.SetDefault("platform_tag", defaults.PlatformTag)
	v.SetDefault("keep_stale_artifacts", defaults.KeepStaleArtifacts)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("report", defaults.Report)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file into v and decodes the result.
//
// With an explicit path the file must exist. Otherwise extpack.yaml is looked
// up in the root directory and silently skipped when absent.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("root"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values Viper cannot type-check.
func (c *Config) Validate() error {
	if c.PackageName == "" {
		return errors.New("package_name must not be empty")
	}
	switch c.Packager {
	case PackagerCommand, PackagerBuiltin:
	default:
		return fmt.Errorf("unknown packager %q (want %q or %q)", c.Packager, PackagerCommand, PackagerBuiltin)
	}
	return nil
}

// Resolve joins rel onto Root unless it is already absolute.
func (c *Config) Resolve(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(c.Root, rel)
}

// PackageConfig converts the settings into a wheelext.PackageConfig with
// resolved paths.
func (c *Config) PackageConfig() *wheelext.PackageConfig {
	return &wheelext.PackageConfig{
		PackageName:        c.PackageName,
		Namespace:          c.Namespace,
		Version:            c.Version,
		PackageDir:         c.Resolve(c.PackageDir),
		SourceDir:          c.Resolve(c.SourceDir),
		OutputDir:          c.Resolve(c.OutputDir),
		PythonTag:          c.PythonTag,
		AbiTag:             c.AbiTag,
		PlatformTag:        c.PlatformTag,
		KeepStaleArtifacts: c.KeepStaleArtifacts,
		Verbose:            c.Verbose,
	}
}
