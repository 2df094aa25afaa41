// Package analysis turns a loaded record store into the recruitment report:
// it joins the tables, groups and reduces them, and computes every named
// metric. Each metric is computed independently; one that has no data is
// recorded in Report.Errors and the run continues.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spektr-org/recruitlytics/engine"
	"github.com/spektr-org/recruitlytics/errs"
	"github.com/spektr-org/recruitlytics/logging"
	"github.com/spektr-org/recruitlytics/metrics"
	"github.com/spektr-org/recruitlytics/records"
)

// ============================================================================
// RUN
// ============================================================================
// Pipeline per metric: Store → Join → GroupBy → stats → Report field.
// Only a DataSourceError aborts the run. Everything else becomes a
// MetricError and the metric's field stays nil.
// ============================================================================

type step struct {
	name string
	run  func(*Report) error
}

// Run computes the report over store.
func Run(ctx context.Context, store *records.Store, opts ...Option) (*Report, error) {
	s := applyOptions(opts)
	if store == nil {
		return nil, errs.NewDataSourceError("no record store", nil)
	}
	for dim := range s.filters.Dimensions {
		if !engine.HasColumn(store.ApplicationsView(), dim) {
			return nil, fmt.Errorf("filter on unknown applications column %q", dim)
		}
	}
	if s.runID == "" {
		s.runID = uuid.New().String()
	}

	a := &analyzer{
		store:   store,
		s:       s,
		apps:    engine.ApplyFilters(store.ApplicationsView(), s.filters),
		log:     s.logger.WithFields(map[string]interface{}{"run_id": s.runID}),
		metrics: s.metrics,
		joins:   make(map[string]engine.RecordView),
	}

	for dim, vals := range engine.UnmatchedFilterValues(store.ApplicationsView(), s.filters) {
		a.log.Warn("filter values match no application", map[string]interface{}{"column": dim, "values": vals})
	}

	rep := &Report{
		RunID:       s.runID,
		GeneratedAt: time.Now().UTC(),
		Rows:        make(map[string]int, len(records.Tables)),
	}
	for t, n := range store.Counts() {
		rep.Rows[string(t)] = n
	}

	steps := []step{
		{MetricCVInterview, a.cvInterview},
		{MetricCostByChannel, a.costByChannel},
		{MetricConversionByDepartment, a.conversionByDepartment},
		{MetricConversionByChannel, a.conversionByChannel},
		{MetricDurationByType, a.durationByType},
		{MetricDescriptive, a.descriptive},
		{MetricSummary, a.summary},
		{MetricCharts, a.charts},
		{MetricCorrelationMatrix, a.correlationMatrix},
	}

	a.log.Info("analysis started", map[string]interface{}{"metrics": len(steps)})
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := time.Now()
		err := st.run(rep)
		a.metrics.ObserveStage(st.name, start)
		if err == nil {
			continue
		}
		if errors.Is(err, errs.ErrDataSource) {
			return nil, err
		}
		a.fail(rep, st.name, err)
	}
	a.log.Info("analysis finished", map[string]interface{}{"failed_metrics": len(rep.Errors)})
	return rep, nil
}

type analyzer struct {
	store   *records.Store
	s       *settings
	apps    engine.RecordView // applications after filters
	log     logging.Logger
	metrics *metrics.Metrics

	joins map[string]engine.RecordView // by join name, computed once per run
}

// fail records a metric that produced no data.
func (a *analyzer) fail(rep *Report, metric string, err error) {
	code := errs.CodeOf(err)
	if code == "" {
		code = "INTERNAL"
	}
	rep.Errors = append(rep.Errors, MetricError{Metric: metric, Code: code, Message: err.Error()})
	a.metrics.MetricFailures.WithLabelValues(metric, string(code)).Inc()
	a.log.Warn("metric has no data", map[string]interface{}{
		"metric": metric,
		"code":   string(code),
		"error":  err.Error(),
	})
}

// isHired is the hire predicate over engine rows.
func (a *analyzer) isHired() engine.Predicate {
	return engine.DimensionIn(records.ColStatus, a.s.hiredStatuses...)
}

// join runs an engine join once per name and accounts for the rows it dropped.
func (a *analyzer) join(name string, left, right engine.RecordView, on engine.JoinKey, mode engine.JoinMode) engine.RecordView {
	if out, ok := a.joins[name]; ok {
		return out
	}
	out, st := engine.Join(left, right, on, mode)
	a.joins[name] = out
	if dropped := st.DroppedLeft(); dropped > 0 {
		a.metrics.JoinRowsDropped.WithLabelValues(name).Add(float64(dropped))
	}
	a.log.Debug("join", map[string]interface{}{
		"join":            name,
		"mode":            st.Mode.String(),
		"left_rows":       st.LeftRows,
		"right_rows":      st.RightRows,
		"output_rows":     st.Output,
		"unmatched_left":  st.UnmatchedLeft,
		"unmatched_right": st.UnmatchedRight,
	})
	return out
}

func (a *analyzer) require(t records.Table, columns ...string) error {
	return a.store.Require(t, columns...)
}

// ptr returns a copy of v rounded to 2 decimals.
func ptr(v float64) *float64 {
	r := engine.RoundTo2(v)
	return &r
}

// optional reads a reduced field as nil when it failed for the group.
func optional(g engine.GroupSummary, field string) *float64 {
	v, err := g.Value(field)
	if err != nil {
		return nil
	}
	return ptr(v)
}

func noGroups(what string) error {
	return errs.NewInsufficientDataError(fmt.Sprintf("no rows to group for %s", what))
}
