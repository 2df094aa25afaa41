package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/spektr-org/recruitlytics/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	s, err := Describe([]float64{4, 1, nan, 3, 2})
	require.NoError(t, err)

	assert.Equal(t, 4, s.Count)
	assert.Equal(t, 2.5, s.Mean)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 1.75, s.Q25)
	assert.Equal(t, 2.5, s.Median)
	assert.Equal(t, 3.25, s.Q75)
	assert.Equal(t, 4.0, s.Max)

	one, err := Describe([]float64{7})
	require.NoError(t, err)
	assert.Equal(t, 0.0, one.Std)

	_, err = Describe(nil)
	assert.True(t, errors.Is(err, errs.ErrInsufficientData))
}

func TestDescribeOverflow(t *testing.T) {
	_, err := Describe([]float64{-math.MaxFloat64, math.MaxFloat64})
	assert.True(t, errors.Is(err, errs.ErrInsufficientData))
}

func TestHistogram(t *testing.T) {
	bins, err := Histogram([]float64{0, 1, 2, 3, 4, 10, nan}, 5)
	require.NoError(t, err)
	require.Len(t, bins, 5)

	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 6, total)
	assert.Equal(t, 0.0, bins[0].Lower)
	assert.Equal(t, 10.0, bins[4].Upper)
	assert.Equal(t, 2, bins[0].Count) // 0 and 1
	assert.Equal(t, 1, bins[4].Count) // max lands in the closed last bin
}

func TestHistogramSingleValue(t *testing.T) {
	bins, err := Histogram([]float64{5, 5}, 3)
	require.NoError(t, err)
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, 4.5, bins[0].Lower)
	assert.Equal(t, 5.5, bins[2].Upper)
}

func TestHistogramErrors(t *testing.T) {
	_, err := Histogram([]float64{1}, 0)
	assert.Error(t, err)

	_, err = Histogram([]float64{nan}, 3)
	assert.True(t, errors.Is(err, errs.ErrInsufficientData))
}

func TestHistogramUnboundedRange(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
	}{
		{"overflowing span", []float64{-math.MaxFloat64, math.MaxFloat64}},
		{"positive infinity", []float64{1, math.Inf(1)}},
		{"negative infinity", []float64{math.Inf(-1), 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() { _, err = Histogram(tt.xs, 15) })
			assert.True(t, errors.Is(err, errs.ErrInsufficientData))
		})
	}
}

func TestHistogramWideFiniteRange(t *testing.T) {
	bins, err := Histogram([]float64{-1e307, 0, 1e307}, 4)
	require.NoError(t, err)
	total := 0
	for _, b := range bins {
		total += b.Count
	}
	assert.Equal(t, 3, total)
}

func TestCorrelationMatrix(t *testing.T) {
	m, err := CorrelationMatrix(
		[]string{"a", "b", "c"},
		[][]float64{
			{1, 2, 3, 4, nan},
			{2, 4, 6, 8, 10},
			{4, 3, 2, 1, 0},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, 4, m.Rows)
	for i := range m.Columns {
		assert.InDelta(t, 1.0, m.Values[i][i], 1e-12)
		for j := range m.Columns {
			assert.InDelta(t, m.Values[i][j], m.Values[j][i], 1e-12)
		}
	}
	assert.InDelta(t, 1.0, m.Values[0][1], 1e-12)
	assert.InDelta(t, -1.0, m.Values[0][2], 1e-12)
}

func TestCorrelationMatrixConstantColumnIsNaN(t *testing.T) {
	m, err := CorrelationMatrix([]string{"a", "k"}, [][]float64{{1, 2, 3}, {5, 5, 5}})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(m.Values[0][1]))
	assert.True(t, math.IsNaN(m.Values[1][1]))
}

func TestCorrelationMatrixErrors(t *testing.T) {
	_, err := CorrelationMatrix([]string{"a"}, [][]float64{{1}, {2}})
	assert.Error(t, err)

	_, err = CorrelationMatrix([]string{"a", "b"}, [][]float64{{1, 2}, {1}})
	assert.Error(t, err)

	_, err = CorrelationMatrix([]string{"a", "b"}, [][]float64{{1, nan}, {1, 2}})
	assert.True(t, errors.Is(err, errs.ErrInsufficientData))
}

func TestStrengthOf(t *testing.T) {
	tests := []struct {
		r    float64
		want Strength
	}{
		{0.9, StrengthStrong},
		{0.7, StrengthModerate},
		{0.31, StrengthModerate},
		{0.3, StrengthWeak},
		{0, StrengthWeak},
		{-0.3, StrengthNegative},
		{-0.8, StrengthNegative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StrengthOf(tt.r), "r=%v", tt.r)
	}
}
