package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mj1618/element-inspector/internal/config"
)

func TestInitialize_ConsoleColorsLevels(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "debug", Format: "console", ServiceName: "test"}, zapcore.AddSync(&buf))
	GetLogger().Info("inspection complete", zap.String("term", "Views"))

	out := buf.String()
	assert.Contains(t, out, levelColors[zapcore.InfoLevel]+"INFO"+colorReset)
	assert.Contains(t, out, "test.")
	assert.Contains(t, out, "inspection complete")
	assert.Contains(t, out, `"term": "Views"`)
}

func TestInitialize_JSON(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "svc"}, zapcore.AddSync(&buf))
	GetLogger().Warn("failed to deliver report", zap.String("locator", "By.id: x"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "svc", entry["logger"])
	assert.Equal(t, "By.id: x", entry["locator"])
}

func TestInitialize_LevelFiltering(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "not-a-level", Format: "json"}, zapcore.AddSync(&buf))
	GetLogger().Info("hidden")
	GetLogger().Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden", "invalid levels fall back to warn")
	assert.Contains(t, out, "shown")
}

func TestInitialize_OnlyOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&first))
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))
	GetLogger().Warn("once")

	assert.Contains(t, first.String(), "once")
	assert.Empty(t, second.String())
}

func TestInitialize_LogFile(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	path := filepath.Join(t.TempDir(), "inspector.log")
	Initialize(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, zapcore.AddSync(&bytes.Buffer{}))
	GetLogger().Warn("to file")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(data)), "{"), "file log is JSON")
	assert.Contains(t, string(data), "to file")
}

func TestGetLogger_BeforeInitialize(t *testing.T) {
	ResetForTest()
	logger := GetLogger()
	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Info("dropped") })
	assert.NotPanics(t, Sync)
}
