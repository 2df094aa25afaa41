package loggingtest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogsThroughTest(t *testing.T) {
	log := New(t).WithFields(map[string]interface{}{"run_id": "r-1"})
	assert.NotPanics(t, func() {
		log.Info("table loaded", map[string]interface{}{"table": "applications"})
		log.WithError(errors.New("boom")).Warn("metric skipped", nil)
	})
}
