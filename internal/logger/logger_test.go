package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogLevels(t *testing.T) {
	var console bytes.Buffer
	log, err := NewWithFileConfig("warn", FileConfig{}, &console)
	require.NoError(t, err)

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message", zap.Int("segment", 4))
	log.Error("error message")
	Sync(log)

	output := console.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, `"segment": 4`)
	assert.Contains(t, output, "error message")
}

func TestFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "cdt.log")
	cfg := DefaultFileConfig(logFile)
	cfg.Compress = false

	log, err := NewWithFileConfig("debug", cfg, nil)
	require.NoError(t, err)
	log.Debug("inserted points", zap.Int("flips", 12))
	Sync(log)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg":"inserted points"`)
	assert.Contains(t, lines[0], `"flips":12`)
	assert.Contains(t, lines[0], `"level":"DEBUG"`)
}

func TestNoOutputs(t *testing.T) {
	log, err := NewWithFileConfig("info", FileConfig{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, log)
	log.Info("goes nowhere")
}

func TestParseLevel(t *testing.T) {
	for name, expected := range map[string]zapcore.Level{
		"":      zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
	} {
		level, err := ParseLevel(name)
		require.NoError(t, err)
		assert.Equal(t, expected, level, "level %q", name)
	}

	_, err := ParseLevel("loud")
	assert.EqualError(t, err, `unknown log level "loud"`)
}
