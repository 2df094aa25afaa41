// Package recruitlytics computes recruitment analytics from four exports:
// applications, positions, interviews and costs.
//
// Usage:
//
//	store, err := records.LoadDir("./exports", records.DefaultFiles(),
//	    records.WithEncoding("latin1"),
//	)
//	report, err := analysis.Run(ctx, store,
//	    analysis.WithHiredStatuses("Hired", "Embauché"),
//	)
//
// Loading is the only step that can fail the run. A metric whose inputs are
// empty or missing a column is listed in Report.Errors and the others are
// still computed. The engine package is domain-agnostic: it joins, filters,
// groups and reduces rows; records binds the recruitment tables to it.
package recruitlytics
