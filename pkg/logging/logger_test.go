package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethanbaker/wikiai/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
}

func TestNewWritesRotatedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "wikiai.log")

	logger := New(Options{Level: "info", File: file, Quiet: true})
	logger.Named("dispatch").Info("turn settled")
	_ = logger.Sync()

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "turn settled")
	assert.Contains(t, string(content), "dispatch")
}

func TestNewQuietWithoutFileIsNop(t *testing.T) {
	logger := New(Options{Quiet: true})
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(utils.NewConfig(map[string]string{
		"LOG_LEVEL": "debug",
		"LOG_JSON":  "true",
	}))
	assert.Equal(t, "debug", opts.Level)
	assert.True(t, opts.JSON)
	assert.False(t, opts.Quiet)
	assert.Empty(t, opts.File)

	assert.NotNil(t, OrNop(nil))
}
