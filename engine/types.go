package engine

import (
	"fmt"
)

// ============================================================================
// ENGINE TYPES — Rows, Groups, Render-ready Tables and Charts
// ============================================================================
// The engine knows nothing about recruitment. It joins, filters, groups and
// reduces rows made of string dimensions and nullable numeric measures.
// ============================================================================

// ============================================================================
// RECORD — Generic data row (base or joined)
// ============================================================================

// Record is a single row with string dimensions and numeric measures.
// A measure key that is absent from Measures is null.
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// NewRecord allocates an empty record.
func NewRecord() Record {
	return Record{
		Dimensions: make(map[string]string),
		Measures:   make(map[string]float64),
	}
}

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// HasFilter returns true if a specific dimension filter is set.
func (f Filters) HasFilter(dimension string) bool {
	if f.Dimensions == nil {
		return false
	}
	vals, ok := f.Dimensions[dimension]
	return ok && len(vals) > 0
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	if f.Dimensions == nil {
		return true
	}
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// GROUP SUMMARY — Aggregator output
// ============================================================================

// GroupSummary is one group produced by GroupBy, with its reduced fields.
// A reducer that failed for this group has an entry in Errors instead of Values.
type GroupSummary struct {
	Key    string             `json:"key"`
	Label  string             `json:"label"`
	Count  int                `json:"count"`
	Values map[string]float64 `json:"values"`
	Errors map[string]error   `json:"-"`
	View   RecordView         `json:"-"` // rows of this group (zero-copy)
}

// Value returns a reduced field. "count" is always available.
func (g GroupSummary) Value(field string) (float64, error) {
	if field == FieldCount {
		return float64(g.Count), nil
	}
	if err, ok := g.Errors[field]; ok {
		return 0, err
	}
	v, ok := g.Values[field]
	if !ok {
		return 0, fmt.Errorf("engine: group %q has no reduced field %q", g.Key, field)
	}
	return v, nil
}

// FieldCount is the implicit field holding a group's row count.
const FieldCount = "count"

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title" yaml:"title"`
	Columns []Column   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
	Summary *Summary   `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Type  string `json:"type" yaml:"type"`   // "text", "number", "currency"
	Align string `json:"align" yaml:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label" yaml:"label"`
	Values map[string]string `json:"values" yaml:"values"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig describes a chart as data. Rendering happens elsewhere.
type ChartConfig struct {
	ChartType  string        `json:"chartType" yaml:"chartType"`
	Title      string        `json:"title" yaml:"title"`
	XAxis      string        `json:"xAxis,omitempty" yaml:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty" yaml:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series" yaml:"series"`
	Colors     []string      `json:"colors,omitempty" yaml:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend" yaml:"showLegend"`
	ShowGrid   bool          `json:"showGrid" yaml:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name" yaml:"name"`
	Data  []ChartPoint `json:"data" yaml:"data"`
	Color string       `json:"color,omitempty" yaml:"color,omitempty"`
}

// ChartPoint is a labelled value. X is set for scatter and line series.
type ChartPoint struct {
	Label string   `json:"label,omitempty" yaml:"label,omitempty"`
	X     *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Value float64  `json:"value" yaml:"value"`
}
