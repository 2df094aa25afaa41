package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/recruitlytics/analysis"
	"github.com/spektr-org/recruitlytics/engine"
	"github.com/spektr-org/recruitlytics/records"
)

// writeReport renders rep in one of the output formats.
func writeReport(w io.Writer, rep *analysis.Report, format string) error {
	switch format {
	case "json":
		return writeJSON(w, rep)
	case "yaml":
		return writeYAML(w, rep)
	case "csv":
		return writeCSV(w, rep)
	case "pretty", "":
		return writePretty(w, rep)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// ============================================================================
// JSON / YAML OUTPUT
// ============================================================================

func writeJSON(w io.Writer, rep *analysis.Report) error {
	out, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func writeYAML(w io.Writer, rep *analysis.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return enc.Close()
}

// ============================================================================
// CSV OUTPUT — One block per table, ready for Sheets
// ============================================================================

func writeCSV(w io.Writer, rep *analysis.Report) error {
	cw := csv.NewWriter(w)

	for _, t := range rep.Tables {
		writeTableCSV(cw, t)
	}
	if len(rep.Errors) > 0 {
		cw.Write([]string{"Metric without data"})
		cw.Write([]string{"Metric", "Code", "Message"})
		for _, e := range rep.Errors {
			cw.Write([]string{e.Metric, string(e.Code), e.Message})
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeTableCSV(cw *csv.Writer, t *engine.TableData) {
	cw.Write([]string{t.Title})
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Label
	}
	cw.Write(headers)
	for _, row := range t.Rows {
		cw.Write(row)
	}
	cw.Write([]string{""})
}

// ============================================================================
// PRETTY OUTPUT
// ============================================================================

func writePretty(w io.Writer, rep *analysis.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Recruitment report %s\n", rep.RunID)
	for _, t := range records.Tables {
		fmt.Fprintf(tw, "  %s\t%s rows\n", t, humanize.Comma(int64(rep.Rows[string(t)])))
	}
	fmt.Fprintln(tw)

	if s := rep.Summary; s != nil {
		heading(tw, "Summary")
		fmt.Fprintf(tw, "  Applications\t%s\n", humanize.Comma(int64(s.TotalApplications)))
		fmt.Fprintf(tw, "  Hired\t%s (%.2f%%)\n", humanize.Comma(int64(s.TotalHired)), s.HireRate)
		if s.BestChannelRate != nil {
			fmt.Fprintf(tw, "  Best channel\t%s (%.2f%%)\n", s.BestChannel, *s.BestChannelRate)
		}
		if s.TopDepartment != "" {
			fmt.Fprintf(tw, "  Top department\t%s (%d applications)\n", s.TopDepartment, s.TopDepartmentApplications)
		}
		optionalLine(tw, "Mean CV score", s.MeanCVScore)
		optionalLine(tw, "Mean cost per hire", s.MeanCostPerHire)
		if s.HiredCVThreshold != nil {
			fmt.Fprintf(tw, "  CV score of hires, q%.0f\t%.2f\n", s.HireQuantile*100, *s.HiredCVThreshold)
		}
		fmt.Fprintln(tw)
	}

	if c := rep.CVInterview; c != nil {
		heading(tw, "CV score vs interview score")
		fmt.Fprintf(tw, "  Pearson r\t%.4f (%s, %d applications)\n", c.R, c.Strength, c.Pairs)
		fmt.Fprintf(tw, "  Regression\tinterview = %.4f * cv %+.4f\n", c.Slope, c.Intercept)
		fmt.Fprintln(tw)
	}

	for _, t := range rep.Tables {
		writeTable(tw, t)
	}

	if len(rep.Descriptive) > 0 {
		heading(tw, "Descriptive statistics")
		fmt.Fprintln(tw, "  Column\tCount\tMean\tStd\tMin\tMedian\tMax\t")
		for _, d := range rep.Descriptive {
			fmt.Fprintf(tw, "  %s.%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t\n",
				d.Table, d.Column, d.Count, d.Mean, d.Std, d.Min, d.Median, d.Max)
		}
		fmt.Fprintln(tw)
	}

	if m := rep.CorrelationMatrix; m != nil {
		heading(tw, fmt.Sprintf("Correlation matrix (%d rows)", m.Rows))
		fmt.Fprintf(tw, "  \t%s\t\n", strings.Join(m.Columns, "\t"))
		for i, row := range m.Values {
			cells := make([]string, len(row))
			for j, v := range row {
				cells[j] = "n/a"
				if v != nil {
					cells[j] = fmt.Sprintf("%.2f", *v)
				}
			}
			fmt.Fprintf(tw, "  %s\t%s\t\n", m.Columns[i], strings.Join(cells, "\t"))
		}
		fmt.Fprintln(tw)
	}

	if len(rep.Errors) > 0 {
		heading(tw, "Metrics without data")
		for _, e := range rep.Errors {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", e.Metric, e.Code, e.Message)
		}
	}
	return tw.Flush()
}

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "%s\n%s\n", title, strings.Repeat("=", len(title)))
}

func optionalLine(w io.Writer, label string, v *float64) {
	if v == nil {
		return
	}
	fmt.Fprintf(w, "  %s\t%s\n", label, humanize.CommafWithDigits(*v, 2))
}

func writeTable(w io.Writer, t *engine.TableData) {
	heading(w, t.Title)
	labels := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		labels[i] = c.Label
	}
	fmt.Fprintf(w, "  %s\t\n", strings.Join(labels, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintf(w, "  %s\t\n", strings.Join(row, "\t"))
	}
	if t.Summary != nil {
		if total, ok := t.Summary.Values[engine.FieldCount]; ok {
			fmt.Fprintf(w, "  %s: %s\n", t.Summary.Label, total)
		}
	}
	fmt.Fprintln(w)
}
