package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/rigid2d/internal/config"
)

func TestGetLogger_BeforeInitialize(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel), "fallback logger should discard")
	Sync()
}

func TestInitialize_JSON(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{
		Level:       "debug",
		Format:      "json",
		ServiceName: "rigid2d-test",
	}, zapcore.AddSync(&buf))

	GetLogger().Debug("step", zap.Int("bodies", 3))
	Sync()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "step", entry["msg"])
	assert.Equal(t, "rigid2d-test", entry["logger"])
	assert.EqualValues(t, 3, entry["bodies"])
}

func TestInitialize_Console(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "svc"}, zapcore.AddSync(&buf))

	GetLogger().Info("hello")
	GetLogger().Debug("hidden")
	Sync()

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "svc.")
	assert.Contains(t, out, "hello")
	assert.NotContains(t, out, "hidden")
}

func TestInitialize_InvalidLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "loud", Format: "json"}, zapcore.AddSync(&buf))

	logger := GetLogger()
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitialize_Once(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&first))
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))

	GetLogger().Info("only once")
	Sync()

	assert.Contains(t, first.String(), "only once")
	assert.Empty(t, second.String())
}

func TestInitialize_FileSink(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	path := filepath.Join(t.TempDir(), "rigid2d.log")
	var console bytes.Buffer
	Initialize(config.LoggerConfig{
		Level:   "info",
		Format:  "console",
		LogFile: path,
		MaxSize: 1,
	}, zapcore.AddSync(&console))

	GetLogger().Info("to file")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "to file", entry["msg"])
}
