package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")

	logger, err := New(Options{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)
	logger.Debug("hello")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"level":"debug"`)
}

func TestNew_BadLogFile(t *testing.T) {
	_, err := New(Options{File: filepath.Join(t.TempDir(), "missing", "run.log")})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("whatever"))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
