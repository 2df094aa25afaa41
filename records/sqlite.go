package records

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spektr-org/recruitlytics/errs"

	_ "modernc.org/sqlite"
)

// ============================================================================
// SQLITE SOURCE
// ============================================================================
// The four tables may live in one SQLite database instead of CSV files:
// tables applications, positions, interviews and costs, with column names
// resolved exactly like CSV headers.
// ============================================================================

// OpenSQLite opens a SQLite database read-only.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return nil, errs.NewDataSourceError("open sqlite", err).With("file", path)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errs.NewDataSourceError("open sqlite", err).With("file", path)
	}
	return db, nil
}

// readOnlyDSN builds a file: URI so '?' and '#' in path stay part of the name.
func readOnlyDSN(path string) string {
	u := url.URL{Scheme: "file", Opaque: (&url.URL{Path: path}).EscapedPath(), RawQuery: "mode=ro"}
	return u.String()
}

// LoadSQLite reads the four tables from db.
func LoadSQLite(ctx context.Context, db *sql.DB, opts ...LoadOption) (*Store, error) {
	cfg := applyLoadOptions(opts)

	raws := make(map[Table]*rawTable, len(Tables))
	for _, t := range Tables {
		raw, err := querySQLite(ctx, db, t)
		if err != nil {
			return nil, err
		}
		raws[t] = raw
	}
	return build(raws, cfg.logger)
}

func querySQLite(ctx context.Context, db *sql.DB, t Table) (*rawTable, error) {
	// table names come from the fixed Tables list
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", t))
	if err != nil {
		return nil, errs.NewDataSourceError(fmt.Sprintf("table %s", t), err)
	}
	defer rows.Close()

	headers, err := rows.Columns()
	if err != nil {
		return nil, errs.NewDataSourceError(fmt.Sprintf("table %s", t), err)
	}
	raw := &rawTable{table: t, columns: SchemaFor(t).Resolve(headers)}

	values := make([]interface{}, len(headers))
	ptrs := make([]interface{}, len(headers))
	for i := range values {
		ptrs[i] = &values[i]
	}
	n := 0
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errs.NewDataSourceError(fmt.Sprintf("table %s", t), err)
		}
		n++
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = cellString(v)
		}
		raw.rows = append(raw.rows, row)
		raw.lines = append(raw.lines, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewDataSourceError(fmt.Sprintf("table %s", t), err)
	}
	return raw, nil
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
