package engine

import (
	"fmt"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from Groups or raw rows
// ============================================================================
// All functions operate on Groups or RecordView.
// Column discovery uses view.DimensionKeys() instead of inspecting Record maps.
// ============================================================================

// TableField names a reduced field and how to label it.
type TableField struct {
	Key   string
	Label string
	Type  string // "number", "percent", "currency"
}

// BuildGroupTable renders groups as one row per group: key, each field, count.
// A field that failed for a group renders as "n/a".
func BuildGroupTable(title, groupLabel string, groups Groups, fields []TableField) *TableData {
	columns := []Column{{Key: "group", Label: groupLabel, Type: "text", Align: "left"}}
	for _, f := range fields {
		label := f.Label
		if label == "" {
			label = LabelForDimension(f.Key)
		}
		typ := f.Type
		if typ == "" {
			typ = "number"
		}
		columns = append(columns, Column{Key: f.Key, Label: label, Type: typ, Align: "right"})
	}
	columns = append(columns, Column{Key: FieldCount, Label: "Count", Type: "number", Align: "center"})

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		row := make([]string, 0, len(columns))
		row = append(row, g.Label)
		for _, f := range fields {
			v, err := g.Value(f.Key)
			if err != nil {
				row = append(row, "n/a")
				continue
			}
			row = append(row, formatField(v, f.Type))
		}
		row = append(row, fmt.Sprintf("%d", g.Count))
		rows = append(rows, row)
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label: "Total",
			Values: map[string]string{
				FieldCount: FormatInt(groups.TotalCount()),
			},
		},
	}
}

func formatField(v float64, typ string) string {
	switch typ {
	case "currency":
		return FormatCurrency(v, "")
	case "percent":
		return fmt.Sprintf("%.2f%%", v)
	case "integer":
		return FormatInt(int(v))
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// BuildListTable renders a view as one row per record.
func BuildListTable(title string, view RecordView, limit int) *TableData {
	dimKeys := view.DimensionKeys()
	mesKeys := view.MeasureKeys()

	columns := make([]Column, 0, len(dimKeys)+len(mesKeys))
	for _, key := range dimKeys {
		columns = append(columns, Column{Key: key, Label: LabelForDimension(key), Type: "text", Align: "left"})
	}
	for _, key := range mesKeys {
		columns = append(columns, Column{Key: key, Label: LabelForDimension(key), Type: "number", Align: "right"})
	}

	n := view.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, 0, len(columns))
		for _, key := range dimKeys {
			row = append(row, view.Dimension(i, key))
		}
		for _, key := range mesKeys {
			if v, ok := view.Measure(i, key); ok {
				row = append(row, fmtNum(v))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    rows,
		Summary: &Summary{
			Label:  fmt.Sprintf("Total (%d records)", view.Len()),
			Values: map[string]string{},
		},
	}
}

// fmtNum prints whole numbers without decimals, others with 2.
func fmtNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
