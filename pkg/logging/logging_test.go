package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		enable slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"warn level", "warn", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"default info", "", slog.LevelInfo},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level)
			if !logger.Enabled(ctx, tt.enable) {
				t.Fatalf("expected level %s to be enabled", tt.enable)
			}
		})
	}
}

func TestDefaultLogger(t *testing.T) {
	logger := Default()
	logger.Info("test message", "key", "value")

	ctx := context.Background()
	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("Default() should enable info level")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("Default() should not enable debug level")
	}
	if logger.Logger == nil {
		t.Fatal("Default() returned Logger with nil slog.Logger")
	}
}

func TestNewTextLogger(t *testing.T) {
	logger := NewText("debug")
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("NewText should honor the requested level")
	}
	logger.Debug("text handler works", "key", "value")
}
