package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/spektr-org/recruitlytics/errs"
)

// ============================================================================
// AGGREGATORS — Grouping, Reduction, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView — zero-copy access to any data source.
// Grouping produces SubViews (index lists into parent view).
//
// Null policy:
//   Mean, Min, Max  skip nulls; no usable value → InsufficientDataError
//   Sum             skips nulls; all-null sums to 0
//   Count           counts rows, null or not
//   CountValid      counts non-null values
//   Ratio           matching rows / rows * 100; no rows → EmptyGroupError
// ============================================================================

// Reducer turns the rows of one group into a single named value.
type Reducer struct {
	Name   string
	Reduce func(view RecordView) (float64, error)
}

// As renames a reducer.
func (r Reducer) As(name string) Reducer {
	r.Name = name
	return r
}

// Mean averages a measure.
func Mean(measure string) Reducer {
	return Reducer{Name: "mean_" + measure, Reduce: func(v RecordView) (float64, error) {
		return AvgMeasure(v, measure)
	}}
}

// Sum adds a measure.
func Sum(measure string) Reducer {
	return Reducer{Name: "sum_" + measure, Reduce: func(v RecordView) (float64, error) {
		return SumMeasure(v, measure), nil
	}}
}

// Min takes the smallest value of a measure.
func Min(measure string) Reducer {
	return Reducer{Name: "min_" + measure, Reduce: func(v RecordView) (float64, error) {
		return MinMeasure(v, measure)
	}}
}

// Max takes the largest value of a measure.
func Max(measure string) Reducer {
	return Reducer{Name: "max_" + measure, Reduce: func(v RecordView) (float64, error) {
		return MaxMeasure(v, measure)
	}}
}

// Count counts rows.
func Count() Reducer {
	return Reducer{Name: "rows", Reduce: func(v RecordView) (float64, error) {
		return float64(v.Len()), nil
	}}
}

// CountValid counts non-null values of a measure.
func CountValid(measure string) Reducer {
	return Reducer{Name: "count_" + measure, Reduce: func(v RecordView) (float64, error) {
		return float64(CountMeasure(v, measure)), nil
	}}
}

// Matching counts rows satisfying pred.
func Matching(name string, pred Predicate) Reducer {
	return Reducer{Name: name, Reduce: func(v RecordView) (float64, error) {
		return float64(Filter(v, pred).Len()), nil
	}}
}

// Ratio is the percentage of rows satisfying pred.
func Ratio(name string, pred Predicate) Reducer {
	return Reducer{Name: name, Reduce: func(v RecordView) (float64, error) {
		return RatioOf(v, pred)
	}}
}

// ============================================================================
// GROUPS
// ============================================================================

// Groups is an ordered set of group summaries.
type Groups []GroupSummary

// Get looks up a group by key.
func (gs Groups) Get(key string) (GroupSummary, bool) {
	for _, g := range gs {
		if g.Key == key {
			return g, true
		}
	}
	return GroupSummary{}, false
}

// Keys returns group keys in order.
func (gs Groups) Keys() []string {
	keys := make([]string, len(gs))
	for i, g := range gs {
		keys[i] = g.Key
	}
	return keys
}

// TotalCount sums the row counts of all groups.
func (gs Groups) TotalCount() int {
	total := 0
	for _, g := range gs {
		total += g.Count
	}
	return total
}

// Values maps group key to a reduced field, skipping groups where it failed.
func (gs Groups) Values(field string) map[string]float64 {
	out := make(map[string]float64, len(gs))
	for _, g := range gs {
		if v, err := g.Value(field); err == nil {
			out[g.Key] = v
		}
	}
	return out
}

// SortBy returns a copy ordered by field. Ties keep their current order.
// Groups where field is unavailable sort last.
func (gs Groups) SortBy(field string, desc bool) Groups {
	out := append(Groups(nil), gs...)
	sort.SliceStable(out, func(i, j int) bool {
		vi, ei := out[i].Value(field)
		vj, ej := out[j].Value(field)
		switch {
		case ei != nil || ej != nil:
			return ei == nil && ej != nil
		case desc:
			return vi > vj
		default:
			return vi < vj
		}
	})
	return out
}

// Limit keeps the first n groups. n <= 0 keeps all.
func (gs Groups) Limit(n int) Groups {
	if n <= 0 || n >= len(gs) {
		return gs
	}
	return gs[:n]
}

// ============================================================================
// GROUP BY
// ============================================================================

// MissingLabel labels the group of rows whose key is empty.
const MissingLabel = "(missing)"

// GroupBy groups rows by a dimension and applies reducers to each group.
// Pipeline: group → min-size filter → reduce → sort → limit.
// Groups appear in discovery order unless WithSort is given.
func GroupBy(view RecordView, dimension string, reducers []Reducer, opts ...Option) Groups {
	cfg := applyOptions(opts)
	if view.Len() == 0 {
		return Groups{}
	}

	groups := groupBySingle(view, dimension)

	kept := groups[:0]
	for _, g := range groups {
		if cfg.MinGroupSize > 0 && g.Count < cfg.MinGroupSize {
			continue
		}
		kept = append(kept, g)
	}
	groups = kept

	for i := range groups {
		reduceGroup(&groups[i], reducers)
	}

	if cfg.SortField != "" {
		groups = groups.SortBy(cfg.SortField, cfg.SortDesc)
	}
	return groups.Limit(cfg.Limit)
}

func groupBySingle(view RecordView, dimension string) Groups {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := strings.TrimSpace(view.Dimension(i, dimension))
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make(Groups, 0, len(order))
	for _, key := range order {
		label := key
		if label == "" {
			label = MissingLabel
		}
		groups = append(groups, GroupSummary{
			Key:   key,
			Label: label,
			Count: len(grouped[key]),
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

func reduceGroup(group *GroupSummary, reducers []Reducer) {
	group.Values = make(map[string]float64, len(reducers))
	for _, r := range reducers {
		v, err := r.Reduce(group.View)
		if err != nil {
			if group.Errors == nil {
				group.Errors = make(map[string]error)
			}
			group.Errors[r.Name] = fmt.Errorf("group %q: %s: %w", group.Key, r.Name, err)
			continue
		}
		group.Values[r.Name] = v
	}
}

// ============================================================================
// REDUCTIONS
// ============================================================================

// SumMeasure sums the non-null values of a measure.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Measure(i, measure); ok {
			total += v
		}
	}
	return total
}

// CountMeasure counts the non-null values of a measure.
func CountMeasure(view RecordView, measure string) int {
	n := 0
	for i := 0; i < view.Len(); i++ {
		if _, ok := view.Measure(i, measure); ok {
			n++
		}
	}
	return n
}

// AvgMeasure averages the non-null values of a measure.
func AvgMeasure(view RecordView, measure string) (float64, error) {
	n := CountMeasure(view, measure)
	if n == 0 {
		return 0, errs.NewInsufficientDataError(fmt.Sprintf("no values for %q", measure))
	}
	return SumMeasure(view, measure) / float64(n), nil
}

// MaxMeasure returns the largest non-null value of a measure.
func MaxMeasure(view RecordView, measure string) (float64, error) {
	return extremum(view, measure, func(a, b float64) bool { return a > b })
}

// MinMeasure returns the smallest non-null value of a measure.
func MinMeasure(view RecordView, measure string) (float64, error) {
	return extremum(view, measure, func(a, b float64) bool { return a < b })
}

func extremum(view RecordView, measure string, better func(a, b float64) bool) (float64, error) {
	m := math.NaN()
	found := false
	for i := 0; i < view.Len(); i++ {
		v, ok := view.Measure(i, measure)
		if !ok {
			continue
		}
		if !found || better(v, m) {
			m = v
			found = true
		}
	}
	if !found {
		return 0, errs.NewInsufficientDataError(fmt.Sprintf("no values for %q", measure))
	}
	return m, nil
}

// RatioOf is the percentage of rows satisfying pred.
func RatioOf(view RecordView, pred Predicate) (float64, error) {
	n := view.Len()
	if n == 0 {
		return 0, errs.NewEmptyGroupError("ratio over zero rows")
	}
	return float64(Filter(view, pred).Len()) / float64(n) * 100, nil
}

// ValueCounts counts rows per dimension value, most frequent first.
// Ties keep discovery order.
func ValueCounts(view RecordView, dimension string) Groups {
	return GroupBy(view, dimension, nil, WithSort(FieldCount, true))
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatCurrency formats an amount with two decimals, comma separators and
// an optional currency suffix: 1234.5 → "1,234.50 €".
func FormatCurrency(amount float64, currency string) string {
	result := humanize.FormatFloat("#,###.##", amount)
	if currency != "" {
		result += " " + currency
	}
	return result
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	return humanize.Comma(int64(n))
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// UniqueValues returns the distinct non-empty values of a dimension, trimmed,
// in discovery order.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := strings.TrimSpace(view.Dimension(i, dimension))
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// LabelForDimension turns a column key into a display label: "total_cost" → "Total cost".
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	s := strings.ReplaceAll(dimension, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}
