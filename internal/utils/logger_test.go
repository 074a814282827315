package utils

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("custom output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LoggerOptions{
			Level:  "info",
			Format: "json",
			Output: &buf,
		})
		require.NotNil(t, logger)
		logger.Info().Msg("test")
		assert.Contains(t, buf.String(), "test")
	})

	t.Run("pretty format", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LoggerOptions{
			Level:  "info",
			Format: "pretty",
			Output: &buf,
		})
		require.NotNil(t, logger)
		logger.Info().Msg("test")
		assert.Contains(t, buf.String(), "test")
	})

	t.Run("verbose option", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(LoggerOptions{
			Level:   "info",
			Format:  "json",
			Output:  &buf,
			Verbose: true,
		})
		require.NotNil(t, logger)
		// Verbose should enable debug level
		logger.Debug().Msg("debug test")
		assert.Contains(t, buf.String(), "debug test")
	})
}

func TestLoggerWithComponent(t *testing.T) {

	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{
		Level:  "info",
		Format: "json",
		Output: &buf,
	})

	componentLogger := logger.WithComponent("watcher")
	require.NotNil(t, componentLogger)

	componentLogger.Info().Msg("test message")
	output := buf.String()
	assert.Contains(t, output, "watcher")
	assert.Contains(t, output, "test message")
}

func TestLoggerWithRunID(t *testing.T) {

	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{
		Level:  "info",
		Format: "json",
		Output: &buf,
	})

	runLogger := logger.WithRunID("3f1c9a2e")
	require.NotNil(t, runLogger)

	runLogger.Info().Msg("test message")
	output := buf.String()
	assert.Contains(t, output, `"run_id":"3f1c9a2e"`)
	assert.Contains(t, output, "test message")
}

func TestLoggerWithConcept(t *testing.T) {

	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{
		Level:  "info",
		Format: "json",
		Output: &buf,
	})

	conceptLogger := logger.WithConcept("Intro")
	require.NotNil(t, conceptLogger)

	conceptLogger.Warn().Msg("test message")
	output := buf.String()
	assert.Contains(t, output, `"concept":"Intro"`)
	assert.Contains(t, output, "test message")
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	require.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.Error().Msg("discarded")
	})
}

func TestLoggerLevels(t *testing.T) {

	tests := []struct {
		name      string
		level     string
		logFunc   func(*Logger)
		shouldLog bool
	}{
		{
			name:      "debug level logs debug",
			level:     "debug",
			logFunc:   func(l *Logger) { l.Debug().Msg("debug") },
			shouldLog: true,
		},
		{
			name:      "info level doesn't log debug",
			level:     "info",
			logFunc:   func(l *Logger) { l.Debug().Msg("debug") },
			shouldLog: false,
		},
		{
			name:      "info level logs info",
			level:     "info",
			logFunc:   func(l *Logger) { l.Info().Msg("info") },
			shouldLog: true,
		},
		{
			name:      "warn level logs warn",
			level:     "warn",
			logFunc:   func(l *Logger) { l.Warn().Msg("warn") },
			shouldLog: true,
		},
		{
			name:      "error level logs error",
			level:     "error",
			logFunc:   func(l *Logger) { l.Error().Msg("error") },
			shouldLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(LoggerOptions{
				Level:  tt.level,
				Format: "json",
				Output: &buf,
			})

			tt.logFunc(logger)
			output := buf.String()

			if tt.shouldLog {
				assert.NotEmpty(t, output)
			} else {
				assert.Empty(t, output)
			}
		})
	}
}

func TestSetGlobalLevel(t *testing.T) {

	// This test just ensures the function doesn't panic
	// The actual behavior depends on zerolog's global state
	assert.NotPanics(t, func() {
		SetGlobalLevel("debug")
		SetGlobalLevel("info")
		SetGlobalLevel("warn")
		SetGlobalLevel("error")
	})

	// Reset to zerolog's default so later tests still see debug output
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

func TestParseLogLevel(t *testing.T) {

	// Test through NewLogger since parseLogLevel is not exported
	tests := []struct {
		level    string
		expected string
	}{
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"error", "error"},
		{"unknown", "info"}, // default
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(LoggerOptions{
				Level:  tt.level,
				Format: "json",
				Output: &buf,
			})
			require.NotNil(t, logger)
			// Just verify it was created successfully
		})
	}
}

func TestLoggerChaining(t *testing.T) {

	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{
		Level:  "info",
		Format: "json",
		Output: &buf,
	})

	// Test chaining multiple With methods
	chained := logger.WithComponent("combiner").WithRunID("run-1").WithConcept("Intro")
	require.NotNil(t, chained)

	chained.Info().Msg("chained test")
	output := buf.String()

	assert.Contains(t, output, "combiner")
	assert.Contains(t, output, "run-1")
	assert.Contains(t, output, "Intro")
	assert.Contains(t, output, "chained test")
}

func TestLoggerOutputDefault(t *testing.T) {

	// Test that default output is stderr (we can't easily verify this,
	// but we can verify it doesn't panic)
	logger := NewLogger(LoggerOptions{
		Level:  "info",
		Format: "json",
	})
	require.NotNil(t, logger)
}
