package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — Dimension and Predicate Filtering via RecordView
// ============================================================================
// Single-pass filter: checks all constraints per record in one loop.
// Returns a SubView (index list into parent) — zero data copy.
// ============================================================================

// Predicate tests row i of a view.
type Predicate func(view RecordView, i int) bool

// Filter returns a view of the rows satisfying pred, in original order.
func Filter(view RecordView, pred Predicate) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if pred(view, i) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// DimensionIn matches rows whose dimension equals one of values, case-insensitively.
func DimensionIn(dimension string, values ...string) Predicate {
	set := toLowerSet(values)
	return func(view RecordView, i int) bool {
		return set[strings.ToLower(strings.TrimSpace(view.Dimension(i, dimension)))]
	}
}

// HasMeasure matches rows where the measure is not null.
func HasMeasure(measure string) Predicate {
	return func(view RecordView, i int) bool {
		_, ok := view.Measure(i, measure)
		return ok
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(view RecordView, i int) bool { return !p(view, i) }
}

// All matches every row.
func All() Predicate {
	return func(RecordView, int) bool { return true }
}

// ApplyFilters returns a view of records matching all dimension filters.
// Dimensions are AND-combined; values within a dimension are OR-combined.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	// Pre-build lowercase lookup sets for each dimension filter
	sets := make(map[string]map[string]bool)
	for dim, allowed := range filters.Dimensions {
		if len(allowed) > 0 {
			sets[dim] = toLowerSet(allowed)
		}
	}

	if len(sets) == 0 {
		return view
	}

	return Filter(view, func(v RecordView, i int) bool {
		for dim, set := range sets {
			if !set[strings.ToLower(strings.TrimSpace(v.Dimension(i, dim)))] {
				return false
			}
		}
		return true
	})
}

// UnmatchedFilterValues lists, per dimension, the filter values that no row
// of view carries. Matching is case-insensitive like ApplyFilters.
func UnmatchedFilterValues(view RecordView, filters Filters) map[string][]string {
	out := make(map[string][]string)
	for dim, allowed := range filters.Dimensions {
		present := toLowerSet(UniqueValues(view, dim))
		for _, val := range allowed {
			if !present[strings.ToLower(strings.TrimSpace(val))] {
				out[dim] = append(out[dim], val)
			}
		}
	}
	return out
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(strings.TrimSpace(item))] = true
	}
	return set
}
