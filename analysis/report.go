package analysis

import (
	"time"

	"github.com/spektr-org/recruitlytics/engine"
	"github.com/spektr-org/recruitlytics/errs"
	"github.com/spektr-org/recruitlytics/stats"
)

// Metric names, as reported in Report.Errors.
const (
	MetricCVInterview            = "cv_interview_correlation"
	MetricCostByChannel          = "cost_by_channel"
	MetricConversionByDepartment = "conversion_by_department"
	MetricConversionByChannel    = "conversion_by_channel"
	MetricDurationByType         = "duration_by_type"
	MetricDescriptive            = "descriptive"
	MetricSummary                = "summary"
	MetricCharts                 = "charts"
	MetricCorrelationMatrix      = "correlation_matrix"
)

// Report holds every computed metric. A metric that could not be computed
// is nil (or empty) and has an entry in Errors.
type Report struct {
	RunID       string         `json:"runId" yaml:"run_id"`
	GeneratedAt time.Time      `json:"generatedAt" yaml:"generated_at"`
	Rows        map[string]int `json:"rows" yaml:"rows"`

	CVInterview            *Correlation    `json:"cvInterviewCorrelation,omitempty" yaml:"cv_interview_correlation,omitempty"`
	CostByChannel          []ChannelCost   `json:"costByChannel,omitempty" yaml:"cost_by_channel,omitempty"`
	ConversionByDepartment []Conversion    `json:"conversionByDepartment,omitempty" yaml:"conversion_by_department,omitempty"`
	ConversionByChannel    []Conversion    `json:"conversionByChannel,omitempty" yaml:"conversion_by_channel,omitempty"`
	DurationByType         []Duration      `json:"durationByType,omitempty" yaml:"duration_by_type,omitempty"`
	Descriptive            []ColumnSummary `json:"descriptive,omitempty" yaml:"descriptive,omitempty"`
	Summary                *Summary        `json:"summary,omitempty" yaml:"summary,omitempty"`
	Charts                 *Charts         `json:"charts,omitempty" yaml:"charts,omitempty"`
	CorrelationMatrix      *Matrix         `json:"correlationMatrix,omitempty" yaml:"correlation_matrix,omitempty"`

	Errors []MetricError `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Tables are presentation-ready renderings of the grouped metrics.
	Tables []*engine.TableData `json:"-" yaml:"-"`
}

// MetricError records why a metric has no data.
type MetricError struct {
	Metric  string         `json:"metric" yaml:"metric"`
	Code    errs.ErrorCode `json:"code" yaml:"code"`
	Message string         `json:"message" yaml:"message"`
}

// Err returns the recorded failure of metric, if any.
func (r *Report) Err(metric string) (MetricError, bool) {
	for _, e := range r.Errors {
		if e.Metric == metric {
			return e, true
		}
	}
	return MetricError{}, false
}

// Correlation relates CV score to the mean interview score of each
// interviewed application.
type Correlation struct {
	R         float64        `json:"r" yaml:"r"`
	Strength  stats.Strength `json:"strength" yaml:"strength"`
	Pairs     int            `json:"pairs" yaml:"pairs"`
	Slope     float64        `json:"slope" yaml:"slope"`
	Intercept float64        `json:"intercept" yaml:"intercept"`
	Points    []Point        `json:"points" yaml:"points"`
}

// Point is one scatter point.
type Point struct {
	ApplicationID string  `json:"applicationId" yaml:"application_id"`
	X             float64 `json:"x" yaml:"x"`
	Y             float64 `json:"y" yaml:"y"`
}

// ChannelCost summarises recruiting cost for one channel. Mean is nil when
// no application of the channel has a cost value.
type ChannelCost struct {
	Channel string   `json:"channel" yaml:"channel"`
	Mean    *float64 `json:"mean" yaml:"mean"`
	Sum     float64  `json:"sum" yaml:"sum"`
	Count   int      `json:"count" yaml:"count"`
}

// Conversion is the hire rate of one group.
type Conversion struct {
	Key   string  `json:"key" yaml:"key"`
	Total int     `json:"total" yaml:"total"`
	Hired int     `json:"hired" yaml:"hired"`
	Rate  float64 `json:"rate" yaml:"rate"` // percent
}

// Duration is the mean interview length of one interview type.
type Duration struct {
	Type        string   `json:"type" yaml:"type"`
	MeanMinutes *float64 `json:"meanMinutes" yaml:"mean_minutes"`
	Count       int      `json:"count" yaml:"count"`
}

// ColumnSummary describes one numeric column of one table.
type ColumnSummary struct {
	Table         string `json:"table" yaml:"table"`
	Column        string `json:"column" yaml:"column"`
	stats.Summary `yaml:",inline"`
}

// Summary holds the headline figures. Optional figures are nil when their
// inputs were empty; the reason is recorded under "summary.<field>".
type Summary struct {
	TotalApplications int     `json:"totalApplications" yaml:"total_applications"`
	TotalHired        int     `json:"totalHired" yaml:"total_hired"`
	HireRate          float64 `json:"hireRate" yaml:"hire_rate"`

	BestChannel     string   `json:"bestChannel,omitempty" yaml:"best_channel,omitempty"`
	BestChannelRate *float64 `json:"bestChannelRate,omitempty" yaml:"best_channel_rate,omitempty"`

	TopDepartment             string `json:"topDepartment,omitempty" yaml:"top_department,omitempty"`
	TopDepartmentApplications int    `json:"topDepartmentApplications,omitempty" yaml:"top_department_applications,omitempty"`

	MeanCVScore     *float64 `json:"meanCvScore,omitempty" yaml:"mean_cv_score,omitempty"`
	MeanCostPerHire *float64 `json:"meanCostPerHire,omitempty" yaml:"mean_cost_per_hire,omitempty"`

	// CV score that HireQuantile of hires fall below (0.2 → 80% of hires score above it).
	HireQuantile     float64  `json:"hireQuantile" yaml:"hire_quantile"`
	HiredCVThreshold *float64 `json:"hiredCvThreshold,omitempty" yaml:"hired_cv_threshold,omitempty"`
}

// Charts holds chart-ready series. Nothing is drawn.
type Charts struct {
	CVHistogram            *Histogram          `json:"cvHistogram,omitempty" yaml:"cv_histogram,omitempty"`
	CostByStatus           []StatusCost        `json:"costByStatus,omitempty" yaml:"cost_by_status,omitempty"`
	Scatter                *engine.ChartConfig `json:"scatter,omitempty" yaml:"scatter,omitempty"`
	ApplicationsPerChannel *engine.ChartConfig `json:"applicationsPerChannel,omitempty" yaml:"applications_per_channel,omitempty"`
}

// Histogram is a binned distribution with its mean.
type Histogram struct {
	Bins []stats.Bin `json:"bins" yaml:"bins"`
	Mean float64     `json:"mean" yaml:"mean"`
}

// StatusCost is the cost distribution of one application status.
type StatusCost struct {
	Status        string `json:"status" yaml:"status"`
	stats.Summary `yaml:",inline"`
}

// Matrix is a correlation matrix. A nil cell had no defined correlation.
type Matrix struct {
	Columns []string     `json:"columns" yaml:"columns"`
	Values  [][]*float64 `json:"values" yaml:"values"`
	Rows    int          `json:"rows" yaml:"rows"`
}
