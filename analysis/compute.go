package analysis

import (
	"fmt"
	"math"

	"github.com/spektr-org/recruitlytics/engine"
	"github.com/spektr-org/recruitlytics/errs"
	"github.com/spektr-org/recruitlytics/records"
	"github.com/spektr-org/recruitlytics/stats"
)

// Reduced field names.
const (
	fieldMeanScore = "mean_interview_score"
	fieldHired     = "hired"
	fieldRate      = "rate"
)

var (
	fieldMeanCost     = engine.Mean(records.ColTotalCost).Name
	fieldSumCost      = engine.Sum(records.ColTotalCost).Name
	fieldCountCost    = engine.CountValid(records.ColTotalCost).Name
	fieldMeanDuration = engine.Mean(records.ColDuration).Name
	fieldCountDur     = engine.CountValid(records.ColDuration).Name
)

// ============================================================================
// CV SCORE VS INTERVIEW SCORE
// ============================================================================

// meanInterviewScores reduces interviews to one row per application so the
// join with applications is one-to-one.
func (a *analyzer) meanInterviewScores() engine.RecordView {
	groups := engine.GroupBy(a.store.InterviewsView(), records.ColApplicationID,
		[]engine.Reducer{engine.Mean(records.ColInterviewScore).As(fieldMeanScore)})

	rows := make([]engine.Record, 0, len(groups))
	for _, g := range groups {
		v, err := g.Value(fieldMeanScore)
		if g.Key == "" || err != nil {
			continue
		}
		rec := engine.NewRecord()
		rec.Dimensions[records.ColApplicationID] = g.Key
		rec.Measures[fieldMeanScore] = v
		rows = append(rows, rec)
	}
	return engine.NewSliceViewWithKeys(rows, []string{records.ColApplicationID}, []string{fieldMeanScore})
}

func (a *analyzer) cvInterview(rep *Report) error {
	if err := a.require(records.TableApplications, records.ColCVScore); err != nil {
		return err
	}
	if err := a.require(records.TableInterviews, records.ColInterviewScore); err != nil {
		return err
	}

	joined := a.join("applications_interview_scores",
		a.apps, a.meanInterviewScores(),
		engine.On(records.ColApplicationID), engine.Inner)

	xs := engine.MeasureColumn(joined, records.ColCVScore)
	ys := engine.MeasureColumn(joined, fieldMeanScore)

	r, err := stats.Pearson(xs, ys)
	if err != nil {
		return fmt.Errorf("cv score vs interview score: %w", err)
	}
	slope, intercept, err := stats.LinearFit(xs, ys)
	if err != nil {
		return fmt.Errorf("cv score vs interview score: %w", err)
	}

	points := make([]Point, 0, joined.Len())
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		points = append(points, Point{
			ApplicationID: joined.Dimension(i, records.ColApplicationID),
			X:             xs[i],
			Y:             ys[i],
		})
	}

	rep.CVInterview = &Correlation{
		R:         r,
		Strength:  stats.StrengthOf(r),
		Pairs:     len(points),
		Slope:     slope,
		Intercept: intercept,
		Points:    points,
	}
	return nil
}

// ============================================================================
// COST PER CHANNEL
// ============================================================================

func (a *analyzer) applicationsWithCosts() engine.RecordView {
	return a.join("applications_costs", a.apps, a.store.CostsView(),
		engine.On(records.ColApplicationID), engine.Inner)
}

func (a *analyzer) costByChannel(rep *Report) error {
	if err := a.require(records.TableApplications, records.ColChannel); err != nil {
		return err
	}
	if err := a.require(records.TableCosts, records.ColTotalCost); err != nil {
		return err
	}

	groups := engine.GroupBy(a.applicationsWithCosts(), records.ColChannel, []engine.Reducer{
		engine.Mean(records.ColTotalCost),
		engine.Sum(records.ColTotalCost),
		engine.CountValid(records.ColTotalCost),
	}, engine.WithSort(fieldMeanCost, true))
	if len(groups) == 0 {
		return noGroups("cost per channel")
	}

	out := make([]ChannelCost, 0, len(groups))
	for _, g := range groups {
		sum, _ := g.Value(fieldSumCost)
		count, _ := g.Value(fieldCountCost)
		out = append(out, ChannelCost{
			Channel: g.Label,
			Mean:    optional(g, fieldMeanCost),
			Sum:     engine.RoundTo2(sum),
			Count:   int(count),
		})
	}
	rep.CostByChannel = out
	rep.Tables = append(rep.Tables, engine.BuildGroupTable("Cost per channel", "Channel", groups, []engine.TableField{
		{Key: fieldMeanCost, Label: "Mean cost", Type: "currency"},
		{Key: fieldSumCost, Label: "Total cost", Type: "currency"},
		{Key: fieldCountCost, Label: "With cost", Type: "integer"},
	}))
	return nil
}

// ============================================================================
// CONVERSION
// ============================================================================

// conversions groups view by dimension and reduces hires and hire rate,
// highest rate first.
func (a *analyzer) conversions(view engine.RecordView, dimension string) engine.Groups {
	return engine.GroupBy(view, dimension, []engine.Reducer{
		engine.Matching(fieldHired, a.isHired()),
		engine.Ratio(fieldRate, a.isHired()),
	}, engine.WithSort(fieldRate, true))
}

func toConversions(groups engine.Groups) []Conversion {
	out := make([]Conversion, 0, len(groups))
	for _, g := range groups {
		hired, _ := g.Value(fieldHired)
		rate, _ := g.Value(fieldRate)
		out = append(out, Conversion{
			Key:   g.Label,
			Total: g.Count,
			Hired: int(hired),
			Rate:  engine.RoundTo2(rate),
		})
	}
	return out
}

func conversionTable(title, groupLabel string, groups engine.Groups) *engine.TableData {
	return engine.BuildGroupTable(title, groupLabel, groups, []engine.TableField{
		{Key: fieldHired, Label: "Hired", Type: "integer"},
		{Key: fieldRate, Label: "Conversion rate", Type: "percent"},
	})
}

func (a *analyzer) applicationsWithPositions() engine.RecordView {
	return a.join("applications_positions", a.apps, a.store.PositionsView(),
		engine.On(records.ColPositionID), engine.Inner)
}

func (a *analyzer) conversionByDepartment(rep *Report) error {
	if err := a.require(records.TableApplications, records.ColStatus, records.ColPositionID); err != nil {
		return err
	}
	if err := a.require(records.TablePositions, records.ColDepartment); err != nil {
		return err
	}

	groups := a.conversions(a.applicationsWithPositions(), records.ColDepartment)
	if len(groups) == 0 {
		return noGroups("conversion by department")
	}
	rep.ConversionByDepartment = toConversions(groups)
	rep.Tables = append(rep.Tables, conversionTable("Conversion by department", "Department", groups))
	return nil
}

func (a *analyzer) conversionByChannel(rep *Report) error {
	if err := a.require(records.TableApplications, records.ColStatus, records.ColChannel); err != nil {
		return err
	}

	groups := a.conversions(a.apps, records.ColChannel)
	if len(groups) == 0 {
		return noGroups("conversion by channel")
	}
	rep.ConversionByChannel = toConversions(groups)
	rep.Tables = append(rep.Tables, conversionTable("Conversion by channel", "Channel", groups))
	return nil
}

// ============================================================================
// INTERVIEW DURATION
// ============================================================================

func (a *analyzer) durationByType(rep *Report) error {
	if err := a.require(records.TableInterviews, records.ColDuration, records.ColInterviewType); err != nil {
		return err
	}

	groups := engine.GroupBy(a.store.InterviewsView(), records.ColInterviewType, []engine.Reducer{
		engine.Mean(records.ColDuration),
		engine.CountValid(records.ColDuration),
	}, engine.WithSort(fieldMeanDuration, true))
	if len(groups) == 0 {
		return noGroups("interview duration")
	}

	out := make([]Duration, 0, len(groups))
	for _, g := range groups {
		count, _ := g.Value(fieldCountDur)
		out = append(out, Duration{
			Type:        g.Label,
			MeanMinutes: optional(g, fieldMeanDuration),
			Count:       int(count),
		})
	}
	rep.DurationByType = out
	rep.Tables = append(rep.Tables, engine.BuildGroupTable("Interview duration by type", "Type", groups, []engine.TableField{
		{Key: fieldMeanDuration, Label: "Mean minutes"},
		{Key: fieldCountDur, Label: "With duration", Type: "integer"},
	}))
	return nil
}

// ============================================================================
// DESCRIPTIVE STATISTICS
// ============================================================================

func (a *analyzer) descriptive(rep *Report) error {
	var out []ColumnSummary
	for _, t := range records.Tables {
		view := a.store.View(t)
		if t == records.TableApplications {
			view = a.apps
		}
		for _, col := range view.MeasureKeys() {
			if a.require(t, col) != nil {
				continue
			}
			s, err := stats.Describe(engine.MeasureColumn(view, col))
			if err != nil {
				continue
			}
			out = append(out, ColumnSummary{Table: string(t), Column: col, Summary: s})
		}
	}
	if len(out) == 0 {
		return errs.NewInsufficientDataError("no numeric values in any table")
	}
	rep.Descriptive = out
	return nil
}

// ============================================================================
// SUMMARY
// ============================================================================

// partial records a failed sub-figure of a metric without failing the metric.
func (a *analyzer) partial(rep *Report, metric, field string, err error) {
	a.fail(rep, metric+"."+field, err)
}

func withoutMissing(m map[string]float64) map[string]float64 {
	delete(m, "")
	return m
}

func (a *analyzer) summary(rep *Report) error {
	if err := a.require(records.TableApplications, records.ColStatus); err != nil {
		return err
	}

	apps := a.apps
	hired := a.isHired()
	rows := make([]int, apps.Len())
	for i := range rows {
		rows[i] = i
	}
	rate, err := stats.ConversionRate(rows, func(i int) bool { return hired(apps, i) })
	if err != nil {
		return err
	}

	sum := &Summary{
		TotalApplications: apps.Len(),
		TotalHired:        engine.Filter(apps, hired).Len(),
		HireRate:          engine.RoundTo2(rate),
		HireQuantile:      a.s.hireQuantile,
	}

	// best channel by hire rate
	if err := a.require(records.TableApplications, records.ColChannel); err != nil {
		a.partial(rep, MetricSummary, "best_channel", err)
	} else if top := stats.TopBy(withoutMissing(a.conversions(apps, records.ColChannel).Values(fieldRate)), 1); len(top) > 0 {
		sum.BestChannel = top[0].Key
		sum.BestChannelRate = ptr(top[0].Value)
	} else {
		a.partial(rep, MetricSummary, "best_channel", noGroups("best channel"))
	}

	// department with the most applications
	if err := a.require(records.TablePositions, records.ColDepartment); err != nil {
		a.partial(rep, MetricSummary, "top_department", err)
	} else {
		groups := engine.GroupBy(a.applicationsWithPositions(), records.ColDepartment, nil)
		if top := stats.TopBy(withoutMissing(groups.Values(engine.FieldCount)), 1); len(top) > 0 {
			sum.TopDepartment = top[0].Key
			sum.TopDepartmentApplications = int(top[0].Value)
		} else {
			a.partial(rep, MetricSummary, "top_department", noGroups("top department"))
		}
	}

	// mean CV score and the score most hires clear
	if err := a.require(records.TableApplications, records.ColCVScore); err != nil {
		a.partial(rep, MetricSummary, "mean_cv_score", err)
		a.partial(rep, MetricSummary, "hired_cv_threshold", err)
	} else {
		if m, err := stats.Mean(engine.MeasureColumn(apps, records.ColCVScore)); err != nil {
			a.partial(rep, MetricSummary, "mean_cv_score", err)
		} else {
			sum.MeanCVScore = ptr(m)
		}

		hiredCV := engine.MeasureColumn(engine.Filter(apps, hired), records.ColCVScore)
		if q, err := stats.Quantile(hiredCV, a.s.hireQuantile); err != nil {
			a.partial(rep, MetricSummary, "hired_cv_threshold", err)
		} else {
			sum.HiredCVThreshold = ptr(q)
		}
	}

	// mean cost of a hire
	if err := a.require(records.TableCosts, records.ColTotalCost); err != nil {
		a.partial(rep, MetricSummary, "mean_cost_per_hire", err)
	} else if m, err := engine.AvgMeasure(engine.Filter(a.applicationsWithCosts(), a.isHired()), records.ColTotalCost); err != nil {
		a.partial(rep, MetricSummary, "mean_cost_per_hire", err)
	} else {
		sum.MeanCostPerHire = ptr(m)
	}

	rep.Summary = sum
	return nil
}

// ============================================================================
// CORRELATION MATRIX
// ============================================================================

func (a *analyzer) correlationMatrix(rep *Report) error {
	if err := a.require(records.TableApplications, records.ColCVScore, records.ColExperienceYears); err != nil {
		return err
	}
	if err := a.require(records.TableInterviews, records.ColInterviewScore, records.ColDuration); err != nil {
		return err
	}

	joined := a.join("applications_interviews", a.apps, a.store.InterviewsView(),
		engine.On(records.ColApplicationID), engine.Left)

	names := []string{records.ColCVScore, records.ColExperienceYears, records.ColInterviewScore, records.ColDuration}
	columns := make([][]float64, len(names))
	for i, n := range names {
		columns[i] = engine.MeasureColumn(joined, n)
	}

	m, err := stats.CorrelationMatrix(names, columns)
	if err != nil {
		return err
	}

	values := make([][]*float64, len(m.Values))
	for i, row := range m.Values {
		values[i] = make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				r := v
				values[i][j] = &r
			}
		}
	}
	rep.CorrelationMatrix = &Matrix{Columns: m.Columns, Values: values, Rows: m.Rows}
	return nil
}
