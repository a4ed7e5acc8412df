package eventsource

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/Fraugrammers/frotect-dashboard/internal/model"
)

// DefaultTable is read when a duckdb:// source names no table.
const DefaultTable = "events"

var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// duckDBSource is a parsed duckdb://<path>?table=<name> identifier.
type duckDBSource struct {
	path  string
	table string
}

func parseDuckDBSource(source string) (duckDBSource, error) {
	u, err := url.Parse(source)
	if err != nil {
		return duckDBSource{}, err
	}
	src := duckDBSource{path: u.Host + u.Path, table: u.Query().Get("table")}
	if src.table == "" {
		src.table = DefaultTable
	}
	if !identRegex.MatchString(src.table) {
		return duckDBSource{}, fmt.Errorf("invalid table name %q", src.table)
	}
	if src.path == "" {
		return duckDBSource{}, fmt.Errorf("duckdb source %q has no database path", source)
	}
	return src, nil
}

func loadDuckDB(ctx context.Context, source string) ([]model.Event, error) {
	src, err := parseDuckDBSource(source)
	if err != nil {
		return nil, fetchErr(source, err)
	}
	db, err := sql.Open("duckdb", src.path+"?access_mode=READ_ONLY")
	if err != nil {
		return nil, fetchErr(source, err)
	}
	defer db.Close()
	return QueryEvents(ctx, db, src.table)
}

// QueryEvents reads every row of table and normalizes each row the same way
// a JSON record would be. Column names act as field names.
func QueryEvents(ctx context.Context, db *sql.DB, table string) ([]model.Event, error) {
	if !identRegex.MatchString(table) {
		return nil, fetchErr(table, fmt.Errorf("invalid table name %q", table))
	}
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, table))
	if err != nil {
		return nil, fetchErr(table, fmt.Errorf("querying: %w", err))
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fetchErr(table, fmt.Errorf("reading columns: %w", err))
	}

	var out []model.Event
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fetchErr(table, fmt.Errorf("scanning row %d: %w", len(out)+1, err))
		}
		raw := make(map[string]any, len(cols))
		for i, c := range cols {
			raw[c] = values[i]
		}
		ev, err := normalizeRecord(raw, len(out))
		if err != nil {
			return nil, parseErr(table, err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fetchErr(table, err)
	}
	return out, nil
}
