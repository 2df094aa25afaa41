package engine

import (
	"errors"
	"testing"

	"github.com/spektr-org/recruitlytics/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func costsFixture() RecordView {
	return NewSliceViewWithKeys([]Record{
		row(map[string]string{"channel": "LinkedIn", "status": "Hired"}, map[string]float64{"cost": 100}),
		row(map[string]string{"channel": "Referral", "status": "Rejected"}, map[string]float64{"cost": 50}),
		row(map[string]string{"channel": "LinkedIn", "status": "Rejected"}, map[string]float64{"cost": 300}),
		row(map[string]string{"channel": "Indeed", "status": "Hired"}, nil),
		row(map[string]string{"channel": "LinkedIn", "status": "Applied"}, map[string]float64{"cost": 200}),
		row(map[string]string{"channel": "", "status": "Applied"}, map[string]float64{"cost": 10}),
	}, []string{"channel", "status"}, []string{"cost"})
}

var hired = DimensionIn("status", "hired")

// ============================================================================
// GROUP BY
// ============================================================================

func TestGroupByReducesInDiscoveryOrder(t *testing.T) {
	groups := GroupBy(costsFixture(), "channel", []Reducer{
		Mean("cost"),
		Sum("cost"),
		Ratio("hire_rate", hired),
	})

	require.Equal(t, []string{"LinkedIn", "Referral", "Indeed", ""}, groups.Keys())

	linkedin, ok := groups.Get("LinkedIn")
	require.True(t, ok)
	assert.Equal(t, 3, linkedin.Count)
	assert.InDelta(t, 200.0, linkedin.Values["mean_cost"], 1e-9)
	assert.InDelta(t, 600.0, linkedin.Values["sum_cost"], 1e-9)
	assert.InDelta(t, 100.0/3, linkedin.Values["hire_rate"], 1e-9)

	missing, _ := groups.Get("")
	assert.Equal(t, MissingLabel, missing.Label)
}

func TestGroupByCountsSumToTotal(t *testing.T) {
	view := costsFixture()
	groups := GroupBy(view, "status", []Reducer{Count()})
	assert.Equal(t, view.Len(), groups.TotalCount())
}

func TestGroupByMeanOverAllNullIsInsufficientData(t *testing.T) {
	groups := GroupBy(costsFixture(), "channel", []Reducer{Mean("cost"), Sum("cost")})

	indeed, ok := groups.Get("Indeed")
	require.True(t, ok)
	_, err := indeed.Value("mean_cost")
	assert.True(t, errors.Is(err, errs.ErrInsufficientData))

	sum, err := indeed.Value("sum_cost")
	require.NoError(t, err)
	assert.Equal(t, 0.0, sum)
}

func TestGroupByMinGroupSize(t *testing.T) {
	groups := GroupBy(costsFixture(), "channel", []Reducer{Count()}, WithMinGroupSize(3))
	assert.Equal(t, []string{"LinkedIn"}, groups.Keys())
}

func TestGroupByEmptyView(t *testing.T) {
	groups := GroupBy(NewSliceView(nil), "channel", []Reducer{Mean("cost")})
	assert.Empty(t, groups)
}

func TestReducerAs(t *testing.T) {
	groups := GroupBy(costsFixture(), "status", []Reducer{Mean("cost").As("avg_cost")})
	g, _ := groups.Get("Hired")
	v, err := g.Value("avg_cost")
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)
}

// ============================================================================
// SORTING
// ============================================================================

func TestSortByIsStableOnTies(t *testing.T) {
	view := NewSliceView([]Record{
		row(map[string]string{"k": "b"}, nil),
		row(map[string]string{"k": "a"}, nil),
		row(map[string]string{"k": "c"}, nil),
		row(map[string]string{"k": "c"}, nil),
	})
	groups := GroupBy(view, "k", nil)

	desc := groups.SortBy(FieldCount, true)
	assert.Equal(t, []string{"c", "b", "a"}, desc.Keys())

	asc := groups.SortBy(FieldCount, false)
	assert.Equal(t, []string{"b", "a", "c"}, asc.Keys())

	// original untouched
	assert.Equal(t, []string{"b", "a", "c"}, groups.Keys())
}

func TestSortByPutsFailedFieldsLast(t *testing.T) {
	groups := GroupBy(costsFixture(), "channel", []Reducer{Mean("cost")}, WithSort("mean_cost", true))
	assert.Equal(t, []string{"LinkedIn", "Referral", "", "Indeed"}, groups.Keys())
}

func TestWithLimit(t *testing.T) {
	groups := GroupBy(costsFixture(), "channel", []Reducer{Sum("cost")}, WithSort("sum_cost", true), WithLimit(2))
	assert.Equal(t, []string{"LinkedIn", "Referral"}, groups.Keys())
}

func TestValueCounts(t *testing.T) {
	counts := ValueCounts(costsFixture(), "channel")
	require.NotEmpty(t, counts)
	assert.Equal(t, "LinkedIn", counts[0].Key)
	assert.Equal(t, 3, counts[0].Count)

	// all statuses tie at 2, discovery order wins
	ties := ValueCounts(costsFixture(), "status")
	assert.Equal(t, []string{"Hired", "Rejected", "Applied"}, ties.Keys())
}

// ============================================================================
// REDUCTIONS
// ============================================================================

func TestRatioOfEmptyViewIsEmptyGroup(t *testing.T) {
	_, err := RatioOf(NewSliceView(nil), hired)
	assert.True(t, errors.Is(err, errs.ErrEmptyGroup))
}

func TestRatioAllAndNone(t *testing.T) {
	view := costsFixture()
	all, err := RatioOf(view, All())
	require.NoError(t, err)
	assert.Equal(t, 100.0, all)

	none, err := RatioOf(view, Not(All()))
	require.NoError(t, err)
	assert.Equal(t, 0.0, none)
}

func TestMinMaxSkipNulls(t *testing.T) {
	view := costsFixture()
	lo, err := MinMeasure(view, "cost")
	require.NoError(t, err)
	hi, err := MaxMeasure(view, "cost")
	require.NoError(t, err)
	assert.Equal(t, 10.0, lo)
	assert.Equal(t, 300.0, hi)

	_, err = MaxMeasure(view, "missing")
	assert.True(t, errors.Is(err, errs.ErrInsufficientData))
}

// ============================================================================
// FORMATTING
// ============================================================================

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "1,234.50 €", FormatCurrency(1234.5, "€"))
	assert.Equal(t, "-0.99", FormatCurrency(-0.99, ""))
	assert.Equal(t, "1,000,000.00 €", FormatCurrency(999999.999, "€"))
	assert.Equal(t, "0.00", FormatCurrency(0, ""))
	assert.Equal(t, "-12,500.00", FormatCurrency(-12500, ""))
}

func TestFormatIntAndLabels(t *testing.T) {
	assert.Equal(t, "12,345", FormatInt(12345))
	assert.Equal(t, "-1,000", FormatInt(-1000))
	assert.Equal(t, "999", FormatInt(999))
	assert.Equal(t, "Total cost", LabelForDimension("total_cost"))
	assert.Equal(t, 1.24, RoundTo2(1.2351))
}
