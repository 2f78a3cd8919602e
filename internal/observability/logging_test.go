package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/loga115/ticketflow/internal/config"
)

func TestNewLoggerLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	defer logger.Sync()

	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerUnknownLevelFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "shouting", Format: "json"})
	require.NoError(t, err)
	defer logger.Sync()

	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNewLoggerConsoleFormat(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "info", Format: "Console"})
	require.NoError(t, err)
	defer logger.Sync()

	assert.NotNil(t, logger)
}
