package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"peg-plot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNewWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWriter(&buf, "json", "info")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("data loaded", "rows", 42)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "data loaded", rec["msg"])
	assert.Equal(t, float64(42), rec["rows"])
}

func TestNewWriterText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewWriter(&buf, "text", "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("satellite not present", "prn", 7)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "prn=7")
}

func TestNewInvalidFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, "xml", "info")
	assert.Error(t, err)

	_, _, err = New(config.LoggingConfig{Format: "xml"}, false)
	assert.Error(t, err)
}

func TestNewLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pegplot.log")
	logger, closer, err := New(config.LoggingConfig{Level: "error", Format: "text", File: path}, true)
	require.NoError(t, err)

	logger.Debug("chart saved", "path", "xpl.png")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "chart saved")
}

func TestNewLogFileUnwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "pegplot.log")
	_, _, err := New(config.LoggingConfig{File: path}, false)
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
