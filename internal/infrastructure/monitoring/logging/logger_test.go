package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestZapLogger_EmitsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromCore(core)

	logger.Info("descriptor registered",
		String("name", "MW"),
		Int("deps", 2),
		Bool("require_3d", false),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "descriptor registered", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "MW", fields["name"])
	assert.Equal(t, int64(2), fields["deps"])
	assert.Equal(t, false, fields["require_3d"])
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromCore(core).Named("calculator").With(String("run_id", "r1"))

	logger.Warn("slow structure", Duration("elapsed", 2*time.Second))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "calculator", entry.LoggerName)
	assert.Equal(t, "r1", entry.ContextMap()["run_id"])
}

func TestErrField(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)
	e := errors.New("boom")
	assert.Equal(t, e, Err(e).Value)
}

func TestNewLogger_Defaults(t *testing.T) {
	logger, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestDefaultLogger_SetAndGet(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	core, logs := observer.New(zapcore.InfoLevel)
	SetDefault(NewLoggerFromCore(core))
	Default().Info("via default")
	assert.Equal(t, 1, logs.Len())

	// nil is ignored
	SetDefault(nil)
	assert.NotNil(t, Default())
}
