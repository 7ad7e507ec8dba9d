package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	sl, zl, ok := ParseLevel("debug")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelDebug, sl)
	assert.Equal(t, zapcore.DebugLevel, zl)

	sl, _, ok = ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, sl)
}

func TestAdapterWritesThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Init(zap.New(core), "debug")

	log := NewSlogAdapter().With("step", "wrap")
	log.Info("Transaction submitted", "tx", "0xabc")

	entries := logs.FilterMessage("Transaction submitted").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "wrap", fields["step"])
	assert.Equal(t, "0xabc", fields["tx"])
}
