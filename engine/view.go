package engine

import "math"

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never owns caller data. It reads through this interface.
//
// Implementations:
//   SliceView      — wraps []Record (join output, ad-hoc rows)
//   DomainView[T]  — reads typed structs via accessor functions (zero-copy)
//   SubView        — filtered subset or group (indices into parent, zero-copy)
// ============================================================================

// RecordView provides indexed access to a dataset.
// Measure reports ok=false when the value is null.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) (float64, bool)
	DimensionKeys() []string
	MeasureKeys() []string
}

// ============================================================================
// SLICE VIEW — wraps []Record
// ============================================================================

// SliceView wraps a []Record slice as a RecordView.
type SliceView struct {
	records []Record
	dimKeys []string
	mesKeys []string
}

// NewSliceView creates a RecordView from records, discovering keys from the rows.
func NewSliceView(records []Record) *SliceView {
	v := &SliceView{records: records}
	v.cacheKeys()
	return v
}

// NewSliceViewWithKeys creates a RecordView with a declared column set.
// Use it when some columns may be null on every row.
func NewSliceViewWithKeys(records []Record, dimKeys, mesKeys []string) *SliceView {
	return &SliceView{records: records, dimKeys: dimKeys, mesKeys: mesKeys}
}

func (v *SliceView) cacheKeys() {
	dimSeen := make(map[string]bool)
	mesSeen := make(map[string]bool)
	for _, r := range v.records {
		for k := range r.Dimensions {
			if !dimSeen[k] {
				dimSeen[k] = true
				v.dimKeys = append(v.dimKeys, k)
			}
		}
		for k := range r.Measures {
			if !mesSeen[k] {
				mesSeen[k] = true
				v.mesKeys = append(v.mesKeys, k)
			}
		}
	}
}

func (v *SliceView) Len() int { return len(v.records) }

func (v *SliceView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.records) {
		return ""
	}
	return v.records[i].Dimensions[key]
}

func (v *SliceView) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.records) {
		return 0, false
	}
	val, ok := v.records[i].Measures[key]
	return val, ok
}

func (v *SliceView) DimensionKeys() []string { return v.dimKeys }
func (v *SliceView) MeasureKeys() []string   { return v.mesKeys }

// Record returns a copy of row i.
func (v *SliceView) Record(i int) Record {
	src := v.records[i]
	out := Record{
		Dimensions: make(map[string]string, len(src.Dimensions)),
		Measures:   make(map[string]float64, len(src.Measures)),
	}
	for k, val := range src.Dimensions {
		out.Dimensions[k] = val
	}
	for k, val := range src.Measures {
		out.Measures[k] = val
	}
	return out
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a subset of a parent RecordView.
// Holds indices into the parent — no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.indices) {
		return 0, false
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DOMAIN ADAPTER — Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Application]().
//	    Dimension("channel", func(a Application) string { return a.Channel }).
//	    Measure("cv_score", func(a Application) (float64, bool) { return a.CVScore.Float64, a.CVScore.Valid })
//
//	view := adapter.Bind(applications)
//
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) (float64, bool)
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) (float64, bool)),
	}
}

// Dimension registers a dimension accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers a nullable measure accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) (float64, bool)) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// Bind creates a RecordView from a data slice. Zero-copy — holds reference.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{
		data:     data,
		dims:     a.dims,
		meas:     a.meas,
		dimKeys:  a.dimOrder,
		measKeys: a.mesOrder,
	}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data     []T
	dims     map[string]func(T) string
	meas     map[string]func(T) (float64, bool)
	dimKeys  []string
	measKeys []string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.data) {
		return ""
	}
	if fn, ok := v.dims[key]; ok {
		return fn(v.data[i])
	}
	return ""
}

func (v *DomainView[T]) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.data) {
		return 0, false
	}
	if fn, ok := v.meas[key]; ok {
		return fn(v.data[i])
	}
	return 0, false
}

func (v *DomainView[T]) DimensionKeys() []string { return v.dimKeys }
func (v *DomainView[T]) MeasureKeys() []string   { return v.measKeys }

// ============================================================================
// COLUMN ACCESS
// ============================================================================

// MeasureColumn extracts a measure as a slice, with NaN for null.
func MeasureColumn(view RecordView, key string) []float64 {
	out := make([]float64, view.Len())
	for i := range out {
		if v, ok := view.Measure(i, key); ok {
			out[i] = v
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// DimensionColumn extracts a dimension as a slice.
func DimensionColumn(view RecordView, key string) []string {
	out := make([]string, view.Len())
	for i := range out {
		out[i] = view.Dimension(i, key)
	}
	return out
}

// HasColumn reports whether key is a declared dimension or measure of view.
func HasColumn(view RecordView, key string) bool {
	for _, k := range view.DimensionKeys() {
		if k == key {
			return true
		}
	}
	for _, k := range view.MeasureKeys() {
		if k == key {
			return true
		}
	}
	return false
}
