package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	"github.com/spektr-org/recruitlytics/analysis"
	"github.com/spektr-org/recruitlytics/config"
	"github.com/spektr-org/recruitlytics/engine"
	"github.com/spektr-org/recruitlytics/logging"
	"github.com/spektr-org/recruitlytics/metrics"
	"github.com/spektr-org/recruitlytics/records"
)

// ============================================================================
// RECRUITLYTICS CLI — Recruitment report from four CSV exports
// ============================================================================

const version = "0.1.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	configPath := flag.StringP("config", "c", "", "Path to config YAML (default: ./configs/config.yaml or ./config.yaml)")
	dir := flag.StringP("dir", "d", "", "Directory holding the CSV exports")
	sqlitePath := flag.String("sqlite", "", "Read the four tables from a SQLite file instead of CSV")
	encoding := flag.String("encoding", "", "CSV encoding: utf-8, latin1, windows-1252")
	format := flag.StringP("format", "f", "", "Output format: pretty, json, yaml, csv")
	outFile := flag.StringP("out", "o", "", "Write output to file instead of stdout")
	metricsFile := flag.String("metrics-file", "", "Write run metrics in Prometheus text format to this file")
	preview := flag.Int("preview", 0, "Append the first N rows of each table to the output")
	logLevel := flag.String("log-level", "", "debug, info, warn, error")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Recruitlytics — recruitment analytics over CSV exports

Usage:
  recruitlytics --dir ./exports
  recruitlytics --dir ./exports --format json --out report.json
  recruitlytics --sqlite recruitment.db --format csv --out report.csv
  recruitlytics --dir ./exports --encoding latin1 --preview 5

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  RECRUITLYTICS_*   Overrides any config key, e.g. RECRUITLYTICS_DATA_DIR,
                    RECRUITLYTICS_ANALYSIS_HIRED_STATUSES="Hired, Embauché"

Formats:
  pretty    Human-readable tables (default)
  json      Full report as JSON
  yaml      Full report as YAML
  csv       Grouped tables as CSV (ready for Sheets/Excel)
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("recruitlytics %s\n", version)
		os.Exit(0)
	}

	// ── Config ────────────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("%v", err)
	}
	override(&cfg.Data.Dir, *dir)
	override(&cfg.Data.SQLite, *sqlitePath)
	override(&cfg.Data.Encoding, *encoding)
	override(&cfg.Output.Format, *format)
	override(&cfg.Output.Path, *outFile)
	override(&cfg.Output.MetricsFile, *metricsFile)
	override(&cfg.Logging.Level, *logLevel)
	if err := cfg.Validate(); err != nil {
		fatalf("invalid configuration: %v", err)
	}

	logger := logging.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Load ──────────────────────────────────────────────────────────────
	m := metrics.New()
	start := time.Now()
	store, err := loadStore(ctx, cfg, logger)
	m.ObserveStage("load", start)
	if err != nil {
		fatalf("%v", err)
	}
	for t, n := range store.Counts() {
		m.RowsLoaded.WithLabelValues(string(t)).Add(float64(n))
		logger.Info("table loaded", map[string]interface{}{"table": string(t), "rows": humanize.Comma(int64(n))})
	}

	// ── Analyse ───────────────────────────────────────────────────────────
	rep, err := analysis.Run(ctx, store,
		analysis.WithHiredStatuses(cfg.Analysis.HiredStatuses...),
		analysis.WithMinGroupSize(cfg.Analysis.MinGroupSize),
		analysis.WithHistogramBins(cfg.Analysis.HistogramBins),
		analysis.WithHireQuantile(cfg.Analysis.HireQuantile),
		analysis.WithFilters(engine.Filters{Dimensions: cfg.Analysis.Filters}),
		analysis.WithLogger(logger),
		analysis.WithMetrics(m),
	)
	if err != nil {
		fatalf("analysis failed: %v", err)
	}
	if *preview > 0 {
		for _, t := range records.Tables {
			rep.Tables = append(rep.Tables, engine.BuildListTable(
				fmt.Sprintf("%s (first %d rows)", engine.LabelForDimension(string(t)), *preview),
				store.View(t), *preview))
		}
	}

	// ── Render output ─────────────────────────────────────────────────────
	var writer io.Writer = os.Stdout
	if cfg.Output.Path != "" {
		f, err := os.Create(cfg.Output.Path)
		if err != nil {
			fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		writer = f
	}
	if err := writeReport(writer, rep, cfg.Output.Format); err != nil {
		fatalf("Failed to write report: %v", err)
	}
	if cfg.Output.Path != "" {
		logger.Info("report written", map[string]interface{}{"path": cfg.Output.Path, "format": cfg.Output.Format})
	}

	if cfg.Output.MetricsFile != "" {
		if err := m.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			logger.WithError(err).Warn("metrics file not written", map[string]interface{}{"path": cfg.Output.MetricsFile})
		}
	}
}

// loadStore reads the tables from SQLite when configured, CSV files otherwise.
func loadStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (*records.Store, error) {
	opts := []records.LoadOption{
		records.WithEncoding(cfg.Data.Encoding),
		records.WithLogger(logger),
	}
	if cfg.Data.SQLite != "" {
		db, err := records.OpenSQLite(cfg.Data.SQLite)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return records.LoadSQLite(ctx, db, opts...)
	}
	return records.LoadDir(cfg.Data.Dir, records.Files{
		Applications: cfg.Data.Applications,
		Positions:    cfg.Data.Positions,
		Interviews:   cfg.Data.Interviews,
		Costs:        cfg.Data.Costs,
	}, opts...)
}

// override replaces a config value with a flag value when the flag was given.
func override(dst *string, flagValue string) {
	if flagValue != "" {
		*dst = flagValue
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
