// Package config loads run configuration from a YAML file, .env and
// RECRUITLYTICS_* environment variables.
package config

import (
	"fmt"
	"strings"
)

// Config is the run configuration.
type Config struct {
	Data     DataConfig     `mapstructure:"data"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Output   OutputConfig   `mapstructure:"output"`
}

// DataConfig locates the four tables.
type DataConfig struct {
	Dir          string `mapstructure:"dir"`
	Applications string `mapstructure:"applications"`
	Positions    string `mapstructure:"positions"`
	Interviews   string `mapstructure:"interviews"`
	Costs        string `mapstructure:"costs"`
	Encoding     string `mapstructure:"encoding"`
	SQLite       string `mapstructure:"sqlite"` // when set, replaces the CSV files
}

// AnalysisConfig tunes the computed metrics.
type AnalysisConfig struct {
	HiredStatuses []string `mapstructure:"hired_statuses"`
	MinGroupSize  int      `mapstructure:"min_group_size"`
	HistogramBins int      `mapstructure:"histogram_bins"`
	HireQuantile  float64  `mapstructure:"hire_quantile"`

	// Filters keep only applications whose column matches one of the values,
	// e.g. recruitment_channel: [LinkedIn, Indeed].
	Filters map[string][]string `mapstructure:"filters"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type OutputConfig struct {
	Format      string `mapstructure:"format"` // pretty, json, yaml, csv
	Path        string `mapstructure:"path"`   // empty means stdout
	MetricsFile string `mapstructure:"metrics_file"`
}

var outputFormats = map[string]bool{"pretty": true, "json": true, "yaml": true, "csv": true}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Data.Dir == "" && c.Data.SQLite == "" {
		return fmt.Errorf("data.dir or data.sqlite is required")
	}
	if len(c.Analysis.HiredStatuses) == 0 {
		return fmt.Errorf("analysis.hired_statuses must not be empty")
	}
	if c.Analysis.MinGroupSize < 1 {
		return fmt.Errorf("analysis.min_group_size must be at least 1, got %d", c.Analysis.MinGroupSize)
	}
	if c.Analysis.HistogramBins < 1 {
		return fmt.Errorf("analysis.histogram_bins must be at least 1, got %d", c.Analysis.HistogramBins)
	}
	if c.Analysis.HireQuantile < 0 || c.Analysis.HireQuantile > 1 {
		return fmt.Errorf("analysis.hire_quantile must be within [0, 1], got %v", c.Analysis.HireQuantile)
	}
	if !outputFormats[strings.ToLower(c.Output.Format)] {
		return fmt.Errorf("output.format %q is not one of pretty, json, yaml, csv", c.Output.Format)
	}
	return nil
}
