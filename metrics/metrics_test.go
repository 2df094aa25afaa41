package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersArePerInstance(t *testing.T) {
	a := New()
	b := New()

	a.RowsLoaded.WithLabelValues("applications").Add(3)
	a.MetricFailures.WithLabelValues("cv_interview_correlation", "INSUFFICIENT_DATA").Inc()

	assert.Equal(t, 3.0, testutil.ToFloat64(a.RowsLoaded.WithLabelValues("applications")))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.MetricFailures.WithLabelValues("cv_interview_correlation", "INSUFFICIENT_DATA")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.RowsLoaded.WithLabelValues("applications")))
}

func TestObserveStage(t *testing.T) {
	m := New()
	m.ObserveStage("load", time.Now().Add(-time.Millisecond))

	assert.Equal(t, 1, testutil.CollectAndCount(m.StageDuration, "recruitlytics_stage_duration_seconds"))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.JoinRowsDropped.WithLabelValues("applications_costs").Add(2)

	path := filepath.Join(t.TempDir(), "recruitlytics.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `recruitlytics_join_rows_dropped_total{join="applications_costs"} 2`)
}
