package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLevels(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	require.NoError(t, Init(""))
	assert.True(t, Log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, Log.Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init("debug"))
	assert.True(t, Log.Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init("warn"))
	assert.False(t, Log.Core().Enabled(zapcore.InfoLevel))
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	err := Init("loud")
	assert.Error(t, err)
	assert.Same(t, prev, Log)
}
