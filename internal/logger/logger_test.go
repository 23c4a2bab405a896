package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New(true, false)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	debug, err := New(false, true)
	require.NoError(t, err)
	assert.True(t, debug.Core().Enabled(zapcore.DebugLevel))
}

func TestComponent(t *testing.T) {
	core, observed := observer.New(zapcore.InfoLevel)

	Component(zap.New(core), "ranker").Info("ranked")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ranker", entries[0].ContextMap()[FieldComponent])

	assert.NotPanics(t, func() { Component(nil, "x").Info("dropped") })
}

func TestEmbeddingFields(t *testing.T) {
	fields := EmbeddingFields("gemini", "text-embedding-004")
	require.Len(t, fields, 2)
	assert.Equal(t, FieldProvider, fields[0].Key)
	assert.Equal(t, "text-embedding-004", fields[1].String)

	assert.Empty(t, EmbeddingFields("", ""))
}
