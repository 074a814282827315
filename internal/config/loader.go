package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load loads configuration from file, environment, and defaults.
// Uses the global viper instance to access CLI flag bindings.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration into v. Precedence, lowest first: defaults,
// config.yaml (~/.conceptmerge or the working directory), .env, CONCEPTMERGE_*
// environment variables, flags bound to v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(ConfigDir())
	v.AddConfigPath(".")

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// .env never overrides variables already set in the environment
	_ = godotenv.Load()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper) {
	// Path defaults
	v.SetDefault("paths.base_dir", "")
	v.SetDefault("paths.manifest", DefaultManifestFile)
	v.SetDefault("paths.output", DefaultOutputFile)
	v.SetDefault("paths.source_root", "")

	// Output defaults
	v.SetDefault("output.dry_run", false)
	v.SetDefault("output.verify_anchors", DefaultVerifyAnchors)
	v.SetDefault("output.progress", false)
	v.SetDefault("output.report", "")

	// Watch defaults
	v.SetDefault("watch.enabled", false)
	v.SetDefault("watch.debounce", DefaultDebounce)

	// Logging defaults
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
}
