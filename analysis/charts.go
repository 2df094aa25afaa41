package analysis

import (
	"github.com/spektr-org/recruitlytics/engine"
	"github.com/spektr-org/recruitlytics/errs"
	"github.com/spektr-org/recruitlytics/records"
	"github.com/spektr-org/recruitlytics/stats"
)

// ============================================================================
// CHARTS — Data behind the four report figures
// ============================================================================
// 1. CV score histogram with its mean
// 2. Cost distribution per status (groups with at least minGroupSize rows)
// 3. CV score vs interview score scatter with its regression line
// 4. Applications per channel
// Each figure fails on its own; the metric fails only if all four do.
// ============================================================================

func (a *analyzer) charts(rep *Report) error {
	ch := &Charts{}
	appsView := a.apps

	if err := a.require(records.TableApplications, records.ColCVScore); err != nil {
		a.partial(rep, MetricCharts, "cv_histogram", err)
	} else {
		cv := engine.MeasureColumn(appsView, records.ColCVScore)
		if bins, err := stats.Histogram(cv, a.s.histogramBins); err != nil {
			a.partial(rep, MetricCharts, "cv_histogram", err)
		} else {
			mean, _ := stats.Mean(cv)
			ch.CVHistogram = &Histogram{Bins: bins, Mean: engine.RoundTo2(mean)}
		}
	}

	if err := a.costByStatus(ch); err != nil {
		a.partial(rep, MetricCharts, "cost_by_status", err)
	}

	if rep.CVInterview != nil {
		ch.Scatter = scatterChart(rep.CVInterview)
	} else {
		a.partial(rep, MetricCharts, "scatter", errs.NewInsufficientDataError("no cv score vs interview score pairs"))
	}

	if err := a.require(records.TableApplications, records.ColChannel); err != nil {
		a.partial(rep, MetricCharts, "applications_per_channel", err)
	} else if bar := engine.BuildBarChart("Applications per channel", "Channel", engine.FieldCount,
		engine.ValueCounts(appsView, records.ColChannel)); bar != nil {
		ch.ApplicationsPerChannel = bar
	} else {
		a.partial(rep, MetricCharts, "applications_per_channel", noGroups("applications per channel"))
	}

	if ch.CVHistogram == nil && ch.CostByStatus == nil && ch.Scatter == nil && ch.ApplicationsPerChannel == nil {
		return errs.NewInsufficientDataError("no chart has data")
	}
	rep.Charts = ch
	return nil
}

func (a *analyzer) costByStatus(ch *Charts) error {
	if err := a.require(records.TableApplications, records.ColStatus); err != nil {
		return err
	}
	if err := a.require(records.TableCosts, records.ColTotalCost); err != nil {
		return err
	}

	costed := engine.Filter(a.applicationsWithCosts(), engine.HasMeasure(records.ColTotalCost))
	groups := engine.GroupBy(costed, records.ColStatus, nil,
		engine.WithMinGroupSize(a.s.minGroupSize))
	for _, g := range groups {
		s, err := stats.Describe(engine.MeasureColumn(g.View, records.ColTotalCost))
		if err != nil {
			continue
		}
		ch.CostByStatus = append(ch.CostByStatus, StatusCost{Status: g.Label, Summary: s})
	}
	if len(ch.CostByStatus) == 0 {
		return errs.NewInsufficientDataError("no status has enough costed applications")
	}
	return nil
}

// scatterChart plots the correlation points and the fitted line across
// their x range.
func scatterChart(c *Correlation) *engine.ChartConfig {
	xs := make([]float64, len(c.Points))
	ys := make([]float64, len(c.Points))
	lo, hi := c.Points[0].X, c.Points[0].X
	for i, p := range c.Points {
		xs[i], ys[i] = p.X, p.Y
		if p.X < lo {
			lo = p.X
		}
		if p.X > hi {
			hi = p.X
		}
	}
	line := engine.XYSeries("regression",
		[]float64{lo, hi},
		[]float64{c.Slope*lo + c.Intercept, c.Slope*hi + c.Intercept})

	return engine.NewChart("scatter", "CV score vs mean interview score", "CV score", "Mean interview score",
		engine.XYSeries("applications", xs, ys), line)
}
