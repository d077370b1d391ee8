package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// useBufferLogger 把根 logger 换成写入 buffer 的 logger，测试结束后恢复
func useBufferLogger(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(&buf), zapcore.DebugLevel)

	original := logger
	logger = zap.New(core)
	t.Cleanup(func() { logger = original })
	return &buf
}

func TestNamedLogger_LevelFiltering(t *testing.T) {
	buf := useBufferLogger(t)
	InitLevelConfig(map[string]string{"core.db": "warn"}, zapcore.InfoLevel)

	dbLogger := Named("core.db")
	require.NotNil(t, dbLogger)

	dbLogger.Debug("debug message")
	dbLogger.Info("info message")
	dbLogger.Warn("warn message")
	dbLogger.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestNamedLogger_ParentLevelInheritance(t *testing.T) {
	buf := useBufferLogger(t)
	InitLevelConfig(map[string]string{"core": "debug"}, zapcore.ErrorLevel)

	Named("core.services").Debug("services debug")
	Named("api.graphql").Info("graphql info")

	output := buf.String()
	assert.Contains(t, output, "services debug")
	assert.NotContains(t, output, "graphql info")
}

func TestNamedLogger_WithKeepsFilter(t *testing.T) {
	buf := useBufferLogger(t)
	InitLevelConfig(map[string]string{"api": "error"}, zapcore.DebugLevel)

	l := Named("api.graphql").With(zap.String("request_id", "abc"))
	l.Info("filtered info")
	l.Error("kept error")

	output := buf.String()
	assert.NotContains(t, output, "filtered info")
	assert.Contains(t, output, "kept error")
	assert.Contains(t, output, `"request_id":"abc"`)
}

func TestReloadLevels_AppliesToExistingLoggers(t *testing.T) {
	buf := useBufferLogger(t)
	InitLevelConfig(nil, zapcore.InfoLevel)

	storeLogger := Named("core.store")
	storeLogger.Debug("before reload")

	ReloadLevels(Info, map[string]string{"core.store": "debug"})
	storeLogger.Debug("after reload")

	output := buf.String()
	assert.NotContains(t, output, "before reload")
	assert.Contains(t, output, "after reload")
}

func TestInitLogger_Environments(t *testing.T) {
	original := logger
	defer func() { logger = original }()

	InitLogger(EnvironmentDevelopment, LogLevelDebug, map[string]string{"core.db": "warn"})
	assert.NotNil(t, logger)
	assert.Equal(t, zapcore.WarnLevel, GetLevelForName("core.db"))

	InitLogger(EnvironmentProduction, Info, nil)
	assert.NotNil(t, logger)
	assert.Equal(t, zapcore.InfoLevel, GetLevelForName("core.db"))
}

func TestGetZapLevel(t *testing.T) {
	tests := []struct {
		logLevel    LogLevel
		expectedZap zapcore.Level
	}{
		{LogLevelDebug, zapcore.DebugLevel},
		{Info, zapcore.InfoLevel},
		{Warn, zapcore.WarnLevel},
		{Error, zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.logLevel), func(t *testing.T) {
			assert.Equal(t, tt.expectedZap, getZapLevel(string(tt.logLevel)))
		})
	}
}
