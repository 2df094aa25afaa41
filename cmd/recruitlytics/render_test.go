package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/recruitlytics/analysis"
	"github.com/spektr-org/recruitlytics/records"
)

func testReport(t *testing.T) *analysis.Report {
	t.Helper()
	num := records.Num
	store := records.NewStore(
		[]records.Application{
			{ID: "1", CVScore: num(80), Status: "Hired", Channel: "LinkedIn", PositionID: "10"},
			{ID: "2", CVScore: num(40), Status: "Rejected", Channel: "Referral", PositionID: "10"},
		},
		[]records.Position{{ID: "10", Department: "Eng"}},
		nil,
		[]records.Cost{{ApplicationID: "1", TotalCost: num(1500)}},
	)
	rep, err := analysis.Run(context.Background(), store, analysis.WithRunID("run-1"))
	require.NoError(t, err)
	return rep
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, testReport(t), "json"))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "run-1", out["runId"])
	assert.Contains(t, out, "conversionByChannel")
	assert.Contains(t, out, "errors")
	assert.NotContains(t, out, "Tables")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, testReport(t), "yaml"))

	var out struct {
		RunID   string `yaml:"run_id"`
		Summary struct {
			TotalHired int `yaml:"total_hired"`
		} `yaml:"summary"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "run-1", out.RunID)
	assert.Equal(t, 1, out.Summary.TotalHired)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, testReport(t), "csv"))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Cost per channel"}, rows[0])
	assert.Equal(t, []string{"Channel", "Mean cost", "Total cost", "With cost", "Count"}, rows[1])
	assert.Equal(t, []string{"LinkedIn", "1,500.00", "1,500.00", "1", "1"}, rows[2])
	assert.Contains(t, rows, []string{"Metric", "Code", "Message"})
}

func TestWritePretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, testReport(t), "pretty"))

	out := buf.String()
	assert.Contains(t, out, "Recruitment report run-1")
	assert.Contains(t, out, "Conversion by channel")
	assert.Contains(t, out, "Best channel")
	assert.Contains(t, out, "Metrics without data")
	assert.Contains(t, out, "cv_interview_correlation")
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, writeReport(&buf, testReport(t), "xml"))
}

func TestOverride(t *testing.T) {
	v := "from-config"
	override(&v, "")
	assert.Equal(t, "from-config", v)
	override(&v, "from-flag")
	assert.Equal(t, "from-flag", v)
}
