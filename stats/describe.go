package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/spektr-org/recruitlytics/errs"
)

// Summary is a descriptive summary of one numeric column.
type Summary struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Std    float64 `json:"std" yaml:"std"` // sample standard deviation; 0 when Count < 2
	Min    float64 `json:"min" yaml:"min"`
	Q25    float64 `json:"q25" yaml:"q25"`
	Median float64 `json:"median" yaml:"median"`
	Q75    float64 `json:"q75" yaml:"q75"`
	Max    float64 `json:"max" yaml:"max"`
}

// Describe summarises the non-null values of xs.
func Describe(xs []float64) (Summary, error) {
	v := Valid(xs)
	if len(v) == 0 {
		return Summary{}, errs.NewInsufficientDataError("describe of empty series")
	}
	sort.Float64s(v)

	mean, _ := Mean(v)
	var ss float64
	for _, x := range v {
		ss += (x - mean) * (x - mean)
	}
	std := 0.0
	if len(v) > 1 {
		std = math.Sqrt(ss / float64(len(v)-1))
	}
	if math.IsInf(mean, 0) || math.IsInf(std, 0) {
		return Summary{}, errs.NewInsufficientDataError("describe overflows float64")
	}

	return Summary{
		Count:  len(v),
		Mean:   mean,
		Std:    std,
		Min:    v[0],
		Q25:    quantileSorted(v, 0.25),
		Median: quantileSorted(v, 0.5),
		Q75:    quantileSorted(v, 0.75),
		Max:    v[len(v)-1],
	}, nil
}

// Bin is one histogram bucket [Lower, Upper). The last bin is closed.
type Bin struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
	Count int     `json:"count" yaml:"count"`
}

// Histogram splits the non-null values into equal-width bins spanning [min, max].
func Histogram(xs []float64, bins int) ([]Bin, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("stats: bins must be positive, got %d", bins)
	}
	v := Valid(xs)
	if len(v) == 0 {
		return nil, errs.NewInsufficientDataError("histogram of empty series")
	}
	lo, hi := v[0], v[0]
	for _, x := range v {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if lo == hi {
		// single value: center a unit-wide range on it
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)
	if math.IsInf(hi-lo, 0) || math.IsNaN(width) || math.IsInf(width, 0) || width == 0 {
		return nil, errs.NewInsufficientDataError(fmt.Sprintf("histogram range [%g, %g] is not finite", lo, hi))
	}

	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi
	for _, x := range v {
		i := int((x - lo) / width)
		if i < 0 {
			i = 0
		}
		if i >= bins {
			i = bins - 1
		}
		out[i].Count++
	}
	return out, nil
}

// ============================================================================
// CORRELATION MATRIX
// ============================================================================

// Matrix is a symmetric correlation matrix. Values[i][j] is NaN when the
// pair had no defined correlation.
type Matrix struct {
	Columns []string    `json:"columns" yaml:"columns"`
	Values  [][]float64 `json:"values" yaml:"values"`
	Rows    int         `json:"rows" yaml:"rows"` // complete rows used
}

// CorrelationMatrix correlates every pair of columns over the rows where
// all columns are non-null.
func CorrelationMatrix(names []string, columns [][]float64) (Matrix, error) {
	if len(names) != len(columns) {
		return Matrix{}, fmt.Errorf("stats: %d names for %d columns", len(names), len(columns))
	}
	n := -1
	for _, c := range columns {
		if n >= 0 && len(c) != n {
			return Matrix{}, fmt.Errorf("stats: column length mismatch")
		}
		n = len(c)
	}

	complete := make([][]float64, len(columns))
	rows := 0
	for i := 0; i < n; i++ {
		ok := true
		for _, c := range columns {
			if math.IsNaN(c[i]) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		rows++
		for k, c := range columns {
			complete[k] = append(complete[k], c[i])
		}
	}
	if rows < 2 {
		return Matrix{}, errs.NewInsufficientDataError(fmt.Sprintf("need at least 2 complete rows, got %d", rows))
	}

	values := make([][]float64, len(columns))
	for i := range values {
		values[i] = make([]float64, len(columns))
	}
	for i := range columns {
		for j := i; j < len(columns); j++ {
			r, err := Pearson(complete[i], complete[j])
			if err != nil {
				r = math.NaN()
			}
			values[i][j] = r
			values[j][i] = r
		}
	}
	return Matrix{Columns: names, Values: values, Rows: rows}, nil
}

// ============================================================================
// INTERPRETATION
// ============================================================================

// Strength buckets a correlation coefficient.
type Strength string

const (
	StrengthStrong   Strength = "strong"
	StrengthModerate Strength = "moderate"
	StrengthWeak     Strength = "weak"
	StrengthNegative Strength = "negative"
)

// StrengthOf classifies r: > 0.7 strong, > 0.3 moderate, > -0.3 weak, else negative.
func StrengthOf(r float64) Strength {
	switch {
	case r > 0.7:
		return StrengthStrong
	case r > 0.3:
		return StrengthModerate
	case r > -0.3:
		return StrengthWeak
	default:
		return StrengthNegative
	}
}
