package config

import (
	"path/filepath"
	"time"

	"github.com/quantmind-br/conceptmerge/internal/utils"
)

// Config represents the application configuration
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths" yaml:"paths"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// PathsConfig locates the manifest, the output and the referenced files
type PathsConfig struct {
	// BaseDir anchors relative manifest and output paths; empty means the
	// directory of the executable
	BaseDir  string `mapstructure:"base_dir" yaml:"base_dir"`
	Manifest string `mapstructure:"manifest" yaml:"manifest"`
	Output   string `mapstructure:"output" yaml:"output"`
	// SourceRoot anchors relative paths listed in the manifest; empty means
	// they are used as given
	SourceRoot string `mapstructure:"source_root" yaml:"source_root"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	DryRun        bool   `mapstructure:"dry_run" yaml:"dry_run"`
	VerifyAnchors bool   `mapstructure:"verify_anchors" yaml:"verify_anchors"`
	Progress      bool   `mapstructure:"progress" yaml:"progress"`
	Report        string `mapstructure:"report" yaml:"report"`
}

// WatchConfig contains watch mode settings
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration, replacing invalid values with defaults
func (c *Config) Validate() error {
	if c.Paths.Manifest == "" {
		c.Paths.Manifest = DefaultManifestFile
	}
	if c.Paths.Output == "" {
		c.Paths.Output = DefaultOutputFile
	}
	if c.Watch.Debounce < MinDebounce {
		c.Watch.Debounce = DefaultDebounce
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format != "pretty" && c.Logging.Format != "json" {
		c.Logging.Format = DefaultLogFormat
	}
	return nil
}

// BaseDir returns the directory relative paths are anchored to
func (c *Config) BaseDir() string {
	if c.Paths.BaseDir == "" {
		return utils.ExecutableDir()
	}
	return utils.ExpandPath(c.Paths.BaseDir)
}

// ManifestPath returns the resolved manifest path
func (c *Config) ManifestPath() string {
	return c.resolve(c.Paths.Manifest)
}

// OutputPath returns the resolved output path
func (c *Config) OutputPath() string {
	return c.resolve(c.Paths.Output)
}

func (c *Config) resolve(path string) string {
	path = utils.ExpandPath(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.BaseDir(), path)
}
