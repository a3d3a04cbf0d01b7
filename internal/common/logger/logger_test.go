package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestZapAdapter_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"component": "matching"})

	log.Info("scored", map[string]interface{}{"score": 98})
	log.WithError(errors.New("boom")).Error("failed", nil)
	log.Warn("audit", map[string]interface{}{"error": errors.New("sink down")})

	entries := logs.All()
	assert.Len(t, entries, 3)
	assert.Equal(t, "scored", entries[0].Message)
	assert.Equal(t, "matching", entries[0].ContextMap()["component"])
	assert.EqualValues(t, 98, entries[0].ContextMap()["score"])
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	assert.Equal(t, "sink down", entries[2].ContextMap()["error"])
}

func TestNew_FallsBackOnUnknownFormat(t *testing.T) {
	l := New("debug", "console")
	assert.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}
