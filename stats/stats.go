// Package stats holds the pure numeric functions behind the named metrics.
//
// Null is math.NaN() throughout. Paired functions drop a pair when either
// side is NaN; single-series functions drop NaN values.
package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/spektr-org/recruitlytics/errs"
)

// ============================================================================
// PAIRED SERIES
// ============================================================================

// Pairs keeps the positions where both xs[i] and ys[i] are non-null.
func Pairs(xs, ys []float64) ([]float64, []float64, error) {
	if len(xs) != len(ys) {
		return nil, nil, fmt.Errorf("stats: series length mismatch: %d vs %d", len(xs), len(ys))
	}
	px := make([]float64, 0, len(xs))
	py := make([]float64, 0, len(ys))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		px = append(px, xs[i])
		py = append(py, ys[i])
	}
	return px, py, nil
}

// moments returns means, covariance sum and both sums of squares over valid pairs.
func moments(xs, ys []float64) (n int, mx, my, sxy, sxx, syy float64, err error) {
	px, py, err := Pairs(xs, ys)
	if err != nil {
		return 0, 0, 0, 0, 0, 0, err
	}
	n = len(px)
	if n < 2 {
		return n, 0, 0, 0, 0, 0, errs.NewInsufficientDataError(fmt.Sprintf("need at least 2 valid pairs, got %d", n))
	}
	for i := 0; i < n; i++ {
		mx += px[i]
		my += py[i]
	}
	mx /= float64(n)
	my /= float64(n)
	for i := 0; i < n; i++ {
		dx := px[i] - mx
		dy := py[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	return n, mx, my, sxy, sxx, syy, nil
}

// Pearson is the linear correlation coefficient of xs and ys, in [-1, 1].
// A constant series has no defined correlation and reports insufficient data.
func Pearson(xs, ys []float64) (float64, error) {
	px, py, err := Pairs(xs, ys)
	if err != nil {
		return 0, err
	}
	// r is scale-free; unit scaling keeps the sums of squares finite
	_, _, _, sxy, sxx, syy, err := moments(unitScale(px), unitScale(py))
	if err != nil {
		return 0, err
	}
	if sxx == 0 || syy == 0 {
		return 0, errs.NewInsufficientDataError("zero variance")
	}
	r := sxy / (math.Sqrt(sxx) * math.Sqrt(syy))
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, errs.NewInsufficientDataError("correlation overflows float64")
	}
	// clamp rounding noise
	return math.Max(-1, math.Min(1, r)), nil
}

// unitScale divides xs by its largest magnitude so every value lies in [-1, 1].
func unitScale(xs []float64) []float64 {
	m := 0.0
	for _, x := range xs {
		m = math.Max(m, math.Abs(x))
	}
	if m == 0 || math.IsInf(m, 0) {
		return xs
	}
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x / m
	}
	return out
}

// LinearFit is the ordinary least squares line y = slope*x + intercept,
// computed over the same pairs Pearson uses.
func LinearFit(xs, ys []float64) (slope, intercept float64, err error) {
	_, mx, my, sxy, sxx, _, err := moments(xs, ys)
	if err != nil {
		return 0, 0, err
	}
	if sxx == 0 {
		return 0, 0, errs.NewInsufficientDataError("zero variance in x")
	}
	slope = sxy / sxx
	intercept = my - slope*mx
	return slope, intercept, nil
}

// ============================================================================
// RATES
// ============================================================================

// ConversionRate is the percentage of rows satisfying pred.
func ConversionRate[T any](rows []T, pred func(T) bool) (float64, error) {
	if len(rows) == 0 {
		return 0, errs.NewEmptyGroupError("conversion rate over zero rows")
	}
	n := 0
	for _, r := range rows {
		if pred(r) {
			n++
		}
	}
	return float64(n) / float64(len(rows)) * 100, nil
}

// ============================================================================
// SINGLE SERIES
// ============================================================================

// Valid returns the non-NaN values of xs.
func Valid(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// Mean averages the non-null values.
func Mean(xs []float64) (float64, error) {
	v := Valid(xs)
	if len(v) == 0 {
		return 0, errs.NewInsufficientDataError("mean of empty series")
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v)), nil
}

// Quantile returns the q-quantile with linear interpolation between closest
// ranks (position q*(n-1) in sorted order).
func Quantile(xs []float64, q float64) (float64, error) {
	if q < 0 || q > 1 || math.IsNaN(q) {
		return 0, fmt.Errorf("stats: quantile %v outside [0, 1]", q)
	}
	v := Valid(xs)
	if len(v) == 0 {
		return 0, errs.NewInsufficientDataError("quantile of empty series")
	}
	sort.Float64s(v)
	return quantileSorted(v, q), nil
}

func quantileSorted(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// ============================================================================
// RANKING
// ============================================================================

// Ranked is one entry of a TopBy result.
type Ranked struct {
	Key   string  `json:"key" yaml:"key"`
	Value float64 `json:"value" yaml:"value"`
}

// TopBy returns the n keys with the greatest values, ties broken by key in
// lexicographic order. n <= 0 returns every key.
func TopBy(m map[string]float64, n int) []Ranked {
	out := make([]Ranked, 0, len(m))
	for k, v := range m {
		out = append(out, Ranked{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
