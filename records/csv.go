package records

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/recruitlytics/errs"
)

// ============================================================================
// CSV — Raw tables and cell decoding
// ============================================================================
// Sources are read into a rawTable (resolved header + string cells), then
// decoded into typed rows. The SQLite source produces the same rawTable, so
// both sources share one decoding path.
// ============================================================================

// rawTable is a source table after header resolution.
type rawTable struct {
	table   Table
	columns map[string]int // column key → cell index
	rows    [][]string
	lines   []int // source line (or row number) of each row
}

// readCSV parses one CSV source. The delimiter is sniffed from the header
// line when not forced.
func readCSV(table Table, r io.Reader, cfg *loadConfig) (*rawTable, error) {
	decoded, err := decodeReader(r, cfg.encoding)
	if err != nil {
		return nil, errs.NewDataSourceError(fmt.Sprintf("table %s", table), err)
	}

	br := bufio.NewReader(decoded)
	comma := cfg.delimiter
	if comma == 0 {
		comma = sniffDelimiter(br)
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errs.NewDataSourceError(fmt.Sprintf("table %s: no header row", table), nil)
	}
	if err != nil {
		return nil, errs.NewDataSourceError(fmt.Sprintf("table %s: read header", table), err)
	}

	raw := &rawTable{table: table, columns: SchemaFor(table).Resolve(headers)}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.NewDataSourceError(fmt.Sprintf("table %s", table), err)
		}
		if blankRow(row) {
			continue
		}
		line, _ := reader.FieldPos(0)
		raw.rows = append(raw.rows, row)
		raw.lines = append(raw.lines, line)
	}
	return raw, nil
}

// sniffDelimiter picks ';' when the header line has semicolons and no commas.
func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		peek = peek[:i]
	}
	if bytes.IndexByte(peek, ';') >= 0 && bytes.IndexByte(peek, ',') < 0 {
		return ';'
	}
	return ','
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ============================================================================
// CELL ACCESS
// ============================================================================

// has reports whether the source carried column key.
func (t *rawTable) has(key string) bool {
	_, ok := t.columns[key]
	return ok
}

// missing lists the declared columns the source did not carry. A missing
// required column is returned as a SchemaMismatchError.
func (t *rawTable) missing() ([]string, error) {
	var out []string
	for _, c := range SchemaFor(t.table).Columns {
		if t.has(c.Key) {
			continue
		}
		if c.Required {
			return nil, errs.NewSchemaMismatchError(string(t.table), c.Key)
		}
		out = append(out, c.Key)
	}
	return out, nil
}

func (t *rawTable) str(row int, key string) string {
	idx, ok := t.columns[key]
	if !ok || idx >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][idx])
}

// num parses a numeric cell. An empty cell (or "NaN"/"NA") is null; anything
// else that does not parse is a DataSourceError naming table, line and column.
func (t *rawTable) num(row int, key string) (float64, bool, error) {
	s := t.str(row, key)
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "null":
		return 0, false, nil
	}
	f, err := parseNumber(s)
	if err != nil {
		return 0, false, errs.NewDataSourceError(
			fmt.Sprintf("table %s line %d column %s: %q is not a number", t.table, t.lines[row], key, s), nil).
			With("table", string(t.table)).
			With("line", t.lines[row]).
			With("column", key)
	}
	return f, true, nil
}

// parseNumber accepts a decimal comma ("7,5") as written by French spreadsheets.
// Infinities and hex floats are rejected: cells are plain decimals.
func parseNumber(s string) (float64, error) {
	if strings.ContainsAny(s, "xX") {
		return 0, fmt.Errorf("hex notation %q", s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		f, err = strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	}
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return f, nil
}
