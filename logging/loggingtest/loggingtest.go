// Package loggingtest provides a logging.Logger for tests.
package loggingtest

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/spektr-org/recruitlytics/logging"
)

// New routes log output to t's log, shown only when the test fails or runs verbose.
func New(t testing.TB) logging.Logger {
	return logging.NewZapAdapter(zaptest.NewLogger(t))
}
