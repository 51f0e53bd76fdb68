// SPDX-FileCopyrightText: 2025 Jon Thor Kristinsson
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("with config", func(t *testing.T) {
		logger := NewLogger(&Config{Level: slog.LevelDebug, Format: FormatJSON, Output: os.Stdout, Version: "1.0.0"})
		require.NotNil(t, logger)
		_, ok := logger.(*slogLogger)
		assert.True(t, ok)
	})

	t.Run("with nil config", func(t *testing.T) {
		logger := NewLogger(nil)
		require.NotNil(t, logger)
	})
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.NotNil(t, config)
	assert.Equal(t, slog.LevelInfo, config.Level)
	assert.Equal(t, FormatText, config.Format)
	assert.Equal(t, os.Stdout, config.Output)
	assert.Equal(t, "unknown", config.Version)
}

func TestSlogLoggerLogMethodsDoNotPanic(t *testing.T) {
	logger := NewLogger(&Config{Level: slog.LevelDebug, Format: FormatJSON, Output: os.Stdout, Version: "test"})
	logger.Debug("debug message", "key", "value")
	logger.Info("info message", "key", "value")
	logger.Warn("warn message", "key", "value")
	logger.Error("error message", "key", "value")
}

func TestSlogLoggerWith(t *testing.T) {
	logger := NewLogger(&Config{Level: slog.LevelDebug, Format: FormatText, Output: os.Stdout, Version: "test"})
	newLogger := logger.With("component", "test", "job_id", 123)
	assert.NotEqual(t, logger, newLogger)
	assert.IsType(t, &slogLogger{}, newLogger)
}

func TestSlogLoggerWithContext(t *testing.T) {
	logger := NewLogger(&Config{Level: slog.LevelDebug, Format: FormatText, Output: os.Stdout, Version: "test"})

	t.Run("context with run id", func(t *testing.T) {
		ctx := WithRunID(context.Background(), "run-123")
		contextLogger := logger.WithContext(ctx)
		assert.NotEqual(t, logger, contextLogger)
		assert.IsType(t, &slogLogger{}, contextLogger)
	})

	t.Run("context without run id", func(t *testing.T) {
		contextLogger := logger.WithContext(context.Background())
		assert.Equal(t, logger, contextLogger)
	})
}

func TestLogDuration(t *testing.T) {
	logger := NewLogger(&Config{Level: slog.LevelDebug, Format: FormatText, Output: os.Stdout, Version: "test"})
	start := time.Now().Add(-100 * time.Millisecond)
	LogDuration(logger, start, "test-run")
}

func TestSanitizeLogValueStripsControlChars(t *testing.T) {
	assert.Equal(t, "a b c", sanitizeLogValue("a\nb\tc"))
	assert.Equal(t, 42, sanitizeLogValue(42))
}

func TestNoOpLogger(t *testing.T) {
	logger := NoOpLogger{}
	logger.Debug("test")
	logger.Info("test")
	logger.Warn("test")
	logger.Error("test")

	assert.Equal(t, NoOpLogger{}, logger.With("key", "value"))
	assert.Equal(t, NoOpLogger{}, logger.WithContext(context.Background()))
}

func TestDefaultLogger(t *testing.T) {
	assert.NotNil(t, DefaultLogger)
	DefaultLogger.Info("test message")
}

func TestSetDefaultLogger(t *testing.T) {
	original := DefaultLogger
	defer SetDefaultLogger(original)

	newLogger := NoOpLogger{}
	SetDefaultLogger(newLogger)
	assert.Equal(t, newLogger, DefaultLogger)
}

func TestFormatConstants(t *testing.T) {
	assert.Equal(t, Format("text"), FormatText)
	assert.Equal(t, Format("json"), FormatJSON)
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = (*slogLogger)(nil)
	var _ Logger = NoOpLogger{}
}

func TestLoggerOutput(t *testing.T) {
	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger := &slogLogger{logger: slog.New(handler).With("service", "bwsched", "version", "test")}

		logger.Info("tick advanced", "tick", 3)

		output := buf.String()
		assert.Contains(t, output, "tick advanced")
		assert.Contains(t, output, "tick=3")
		assert.Contains(t, output, "service=bwsched")
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		logger := &slogLogger{logger: slog.New(handler).With("service", "bwsched", "version", "test")}

		logger.Info("tick advanced", "tick", 3)

		output := buf.String()
		assert.True(t, json.Valid([]byte(output)), "output should be valid JSON")
		assert.Contains(t, output, "tick advanced")
		assert.Contains(t, output, "\"tick\":3")
	})
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		name        string
		level       slog.Level
		shouldLog   []string
		shouldntLog []string
	}{
		{"debug level", slog.LevelDebug, []string{"debug", "info", "warn", "error"}, nil},
		{"info level", slog.LevelInfo, []string{"info", "warn", "error"}, []string{"debug"}},
		{"warn level", slog.LevelWarn, []string{"warn", "error"}, []string{"debug", "info"}},
		{"error level", slog.LevelError, []string{"error"}, []string{"debug", "info", "warn"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: tt.level})
			logger := &slogLogger{logger: slog.New(handler)}

			logger.Debug("debug message")
			logger.Info("info message")
			logger.Warn("warn message")
			logger.Error("error message")

			output := buf.String()
			for _, should := range tt.shouldLog {
				assert.Contains(t, output, should+" message")
			}
			for _, shouldnt := range tt.shouldntLog {
				assert.NotContains(t, output, shouldnt+" message")
			}
		})
	}
}
