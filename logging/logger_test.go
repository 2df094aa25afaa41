package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapterCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"run_id": "r-1"})

	log.Info("table loaded", map[string]interface{}{"table": "applications", "rows": 2})
	log.WithError(errors.New("boom")).Warn("metric skipped", nil)

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		ctx := entries[0].ContextMap()
		assert.Equal(t, "r-1", ctx["run_id"])
		assert.Equal(t, "applications", ctx["table"])
		assert.Equal(t, int64(2), ctx["rows"])
		assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	}
}

func TestNewLevels(t *testing.T) {
	assert.True(t, New("debug", "console").Core().Enabled(zapcore.DebugLevel))
	assert.False(t, New("warn", "json").Core().Enabled(zapcore.InfoLevel))
	assert.True(t, New("unknown", "json").Core().Enabled(zapcore.InfoLevel))
}

func TestNoOpLoggerIsSilent(t *testing.T) {
	log := NewNoOpLogger()
	log.Error("ignored", map[string]interface{}{"k": "v"})
	assert.NotNil(t, log.WithFields(nil))
}
