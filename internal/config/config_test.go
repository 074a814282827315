package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig_Validate tests configuration validation
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		check  func(*testing.T, *Config)
	}{
		{
			name:   "empty manifest defaults to concepts.md",
			modify: func(c *Config) { c.Paths.Manifest = "" },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultManifestFile, c.Paths.Manifest)
			},
		},
		{
			name:   "empty output defaults to combined_concepts.md",
			modify: func(c *Config) { c.Paths.Output = "" },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultOutputFile, c.Paths.Output)
			},
		},
		{
			name:   "debounce below minimum defaults",
			modify: func(c *Config) { c.Watch.Debounce = time.Millisecond },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultDebounce, c.Watch.Debounce)
			},
		},
		{
			name:   "valid debounce kept",
			modify: func(c *Config) { c.Watch.Debounce = 2 * time.Second },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 2*time.Second, c.Watch.Debounce)
			},
		},
		{
			name:   "unknown log level defaults to info",
			modify: func(c *Config) { c.Logging.Level = "loud" },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultLogLevel, c.Logging.Level)
			},
		},
		{
			name:   "unknown log format defaults to pretty",
			modify: func(c *Config) { c.Logging.Format = "xml" },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultLogFormat, c.Logging.Format)
			},
		},
		{
			name:   "json format kept",
			modify: func(c *Config) { c.Logging.Format = "json" },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "json", c.Logging.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			require.NoError(t, cfg.Validate())
			tt.check(t, cfg)
		})
	}
}

// TestDefault tests default configuration
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "concepts.md", cfg.Paths.Manifest)
	assert.Equal(t, "combined_concepts.md", cfg.Paths.Output)
	assert.Empty(t, cfg.Paths.BaseDir)
	assert.Empty(t, cfg.Paths.SourceRoot)
	assert.False(t, cfg.Output.DryRun)
	assert.True(t, cfg.Output.VerifyAnchors)
	assert.False(t, cfg.Output.Progress)
	assert.False(t, cfg.Watch.Enabled)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "pretty", cfg.Logging.Format)
}

func TestConfig_Paths(t *testing.T) {
	t.Run("relative paths join base dir", func(t *testing.T) {
		cfg := Default()
		cfg.Paths.BaseDir = "/srv/docs"

		assert.Equal(t, filepath.Join("/srv/docs", "concepts.md"), cfg.ManifestPath())
		assert.Equal(t, filepath.Join("/srv/docs", "combined_concepts.md"), cfg.OutputPath())
	})

	t.Run("absolute paths unchanged", func(t *testing.T) {
		cfg := Default()
		cfg.Paths.BaseDir = "/srv/docs"
		cfg.Paths.Manifest = "/etc/concepts.md"

		assert.Equal(t, "/etc/concepts.md", cfg.ManifestPath())
	})

	t.Run("empty base dir uses executable dir", func(t *testing.T) {
		cfg := Default()

		assert.True(t, filepath.IsAbs(cfg.BaseDir()))
		assert.Equal(t, filepath.Join(cfg.BaseDir(), "concepts.md"), cfg.ManifestPath())
	})
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	assert.Contains(t, dir, ".conceptmerge")
	assert.Equal(t, filepath.Join(dir, "config.yaml"), ConfigFilePath())
}

func TestLoadFrom_MissingConfig(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DefaultManifestFile, cfg.Paths.Manifest)
	assert.True(t, cfg.Output.VerifyAnchors)
}

func TestLoadFrom_InvalidConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("paths: [unclosed"), 0644))
	chdir(t, tmpDir)

	cfg, err := LoadFrom(viper.New())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadFrom_ValidConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `
paths:
  manifest: "docs/concepts.md"
  source_root: "./content"
output:
  verify_anchors: false
  report: "report.yaml"
watch:
  debounce: 2s
logging:
  level: "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(configContent), 0644))
	chdir(t, tmpDir)

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "docs/concepts.md", cfg.Paths.Manifest)
	assert.Equal(t, DefaultOutputFile, cfg.Paths.Output)
	assert.Equal(t, "./content", cfg.Paths.SourceRoot)
	assert.False(t, cfg.Output.VerifyAnchors)
	assert.Equal(t, "report.yaml", cfg.Output.Report)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFrom_EnvironmentVariable(t *testing.T) {
	t.Setenv("CONCEPTMERGE_PATHS_OUTPUT", "env-output.md")
	t.Setenv("CONCEPTMERGE_OUTPUT_DRY_RUN", "true")
	chdir(t, t.TempDir())

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "env-output.md", cfg.Paths.Output)
	assert.True(t, cfg.Output.DryRun)
}

func TestLoadFrom_DotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("CONCEPTMERGE_PATHS_MANIFEST=from-dotenv.md\n"), 0644))
	chdir(t, tmpDir)
	// godotenv sets the variable process-wide; register it for cleanup
	t.Setenv("CONCEPTMERGE_PATHS_MANIFEST", "")
	require.NoError(t, os.Unsetenv("CONCEPTMERGE_PATHS_MANIFEST"))

	cfg, err := LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "from-dotenv.md", cfg.Paths.Manifest)
}

func TestLoad_GlobalViper(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
