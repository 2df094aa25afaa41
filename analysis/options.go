package analysis

import (
	"github.com/spektr-org/recruitlytics/engine"
	"github.com/spektr-org/recruitlytics/logging"
	"github.com/spektr-org/recruitlytics/metrics"
)

// Option configures Run.
type Option func(*settings)

type settings struct {
	hiredStatuses []string
	minGroupSize  int
	histogramBins int
	hireQuantile  float64
	filters       engine.Filters
	runID         string
	logger        logging.Logger
	metrics       *metrics.Metrics
}

// WithHiredStatuses sets the statuses counted as a hire (case-insensitive).
func WithHiredStatuses(statuses ...string) Option {
	return func(s *settings) { s.hiredStatuses = statuses }
}

// WithMinGroupSize sets the smallest group drawn as a distribution.
func WithMinGroupSize(n int) Option {
	return func(s *settings) { s.minGroupSize = n }
}

// WithHistogramBins sets the CV score histogram resolution.
func WithHistogramBins(n int) Option {
	return func(s *settings) { s.histogramBins = n }
}

// WithHireQuantile sets q for the hired CV score threshold.
func WithHireQuantile(q float64) Option {
	return func(s *settings) { s.hireQuantile = q }
}

// WithFilters restricts the analysis to applications matching filters,
// keyed by applications column. Joined tables follow the kept applications.
func WithFilters(f engine.Filters) Option {
	return func(s *settings) { s.filters = f }
}

// WithRunID sets the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(s *settings) { s.runID = id }
}

func WithLogger(l logging.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

func applyOptions(opts []Option) *settings {
	s := &settings{
		hiredStatuses: []string{"Hired", "Embauché"},
		minGroupSize:  3,
		histogramBins: 15,
		hireQuantile:  0.2,
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNoOpLogger()
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	return s
}
