package engine

// ============================================================================
// CHART BUILDER — Produces ChartConfig from Groups and numeric series
// ============================================================================
// Charts are data only. Nothing here draws.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildBarChart produces a single-series bar chart of one reduced field per group.
// Returns nil when there are no groups.
func BuildBarChart(title, xAxis, field string, groups Groups) *ChartConfig {
	if len(groups) == 0 {
		return nil
	}

	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		v, err := g.Value(field)
		if err != nil {
			continue
		}
		points = append(points, ChartPoint{Label: g.Label, Value: RoundTo2(v)})
	}

	series := []ChartSeries{{Name: LabelForDimension(field), Data: points}}
	return &ChartConfig{
		ChartType:  "bar",
		Title:      title,
		XAxis:      xAxis,
		YAxis:      LabelForDimension(field),
		Series:     series,
		Colors:     assignColors(len(points)),
		ShowLegend: false,
		ShowGrid:   true,
	}
}

// XYSeries builds a series of (x, value) points.
func XYSeries(name string, xs, ys []float64) ChartSeries {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	points := make([]ChartPoint, 0, n)
	for i := 0; i < n; i++ {
		x := xs[i]
		points = append(points, ChartPoint{X: &x, Value: ys[i]})
	}
	return ChartSeries{Name: name, Data: points}
}

// NewChart assembles a chart from prepared series and assigns colors.
func NewChart(chartType, title, xAxis, yAxis string, series ...ChartSeries) *ChartConfig {
	colors := assignColors(len(series))
	for i := range series {
		if series[i].Color == "" {
			series[i].Color = colors[i]
		}
	}
	return &ChartConfig{
		ChartType:  chartType,
		Title:      title,
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     series,
		Colors:     colors,
		ShowLegend: len(series) > 1,
		ShowGrid:   chartType != "pie",
	}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
