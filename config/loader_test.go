package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Data.Dir)
	assert.Equal(t, "Candidatures.CSV", cfg.Data.Applications)
	assert.Equal(t, "couts.CSV", cfg.Data.Costs)
	assert.Equal(t, "utf-8", cfg.Data.Encoding)
	assert.Equal(t, []string{"Hired", "Embauché"}, cfg.Analysis.HiredStatuses)
	assert.Equal(t, 3, cfg.Analysis.MinGroupSize)
	assert.Equal(t, 15, cfg.Analysis.HistogramBins)
	assert.Equal(t, 0.2, cfg.Analysis.HireQuantile)
	assert.Equal(t, "pretty", cfg.Output.Format)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
data:
  dir: /srv/recruiting
  encoding: latin1
analysis:
  hired_statuses: [Hired, Offer accepted]
  min_group_size: 5
  filters:
    recruitment_channel: [LinkedIn, Indeed]
output:
  format: json
  metrics_file: /tmp/recruitlytics.prom
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/recruiting", cfg.Data.Dir)
	assert.Equal(t, "latin1", cfg.Data.Encoding)
	assert.Equal(t, "postes.CSV", cfg.Data.Positions)
	assert.Equal(t, []string{"Hired", "Offer accepted"}, cfg.Analysis.HiredStatuses)
	assert.Equal(t, 5, cfg.Analysis.MinGroupSize)
	assert.Equal(t, map[string][]string{"recruitment_channel": {"LinkedIn", "Indeed"}}, cfg.Analysis.Filters)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "/tmp/recruitlytics.prom", cfg.Output.MetricsFile)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RECRUITLYTICS_ANALYSIS_MIN_GROUP_SIZE", "7")
	t.Setenv("RECRUITLYTICS_DATA_SQLITE", "/data/recruiting.db")
	t.Setenv("RECRUITLYTICS_ANALYSIS_HIRED_STATUSES", "Hired, Offer")

	cfg, err := Load(writeConfig(t, "analysis:\n  min_group_size: 5\n"))
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Analysis.MinGroupSize)
	assert.Equal(t, "/data/recruiting.db", cfg.Data.SQLite)
	assert.Equal(t, []string{"Hired", "Offer"}, cfg.Analysis.HiredStatuses)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"output format", "output:\n  format: xml\n", "output.format"},
		{"min group size", "analysis:\n  min_group_size: 0\n", "min_group_size"},
		{"quantile", "analysis:\n  hire_quantile: 1.5\n", "hire_quantile"},
		{"bins", "analysis:\n  histogram_bins: -1\n", "histogram_bins"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
