package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default values
const (
	// Path defaults
	DefaultManifestFile = "concepts.md"
	DefaultOutputFile   = "combined_concepts.md"

	// Output defaults
	DefaultVerifyAnchors = true

	// Watch defaults
	DefaultDebounce = 500 * time.Millisecond
	MinDebounce     = 50 * time.Millisecond

	// Logging defaults
	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"

	// EnvPrefix prefixes every environment override
	EnvPrefix = "CONCEPTMERGE"
)

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".conceptmerge"
	}
	return filepath.Join(home, ".conceptmerge")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Manifest: DefaultManifestFile,
			Output:   DefaultOutputFile,
		},
		Output: OutputConfig{
			VerifyAnchors: DefaultVerifyAnchors,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
