// Package dataset reads the combine table and the player metadata table from
// CSV files or SQLite snapshots and joins them into model records.
package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/glebarez/go-sqlite"
)

// Table names read from SQLite snapshots.
const (
	CombineTable = "combine"
	PlayersTable = "players"
)

// renames maps normalized source headers onto the canonical column names.
var renames = map[string]string{
	"pos":        "position",
	"broad jump": "broad_jump",
	"40yd":       "forty",
	"3cone":      "threecone",
}

// NormalizeHeader trims and lower-cases a header cell and applies the known renames.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	if r, ok := renames[h]; ok {
		return r
	}
	return h
}

// table is a header plus string cells, the common form of every source.
type table struct {
	columns map[string]int
	rows    [][]string
}

func newTable(header []string) *table {
	t := &table{columns: make(map[string]int, len(header))}
	for i, h := range header {
		name := NormalizeHeader(h)
		if _, dup := t.columns[name]; !dup {
			t.columns[name] = i
		}
	}
	return t
}

// require returns the column positions of names, or ErrMissingColumn.
func (t *table) require(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	var missing []string
	for i, n := range names {
		pos, ok := t.columns[n]
		if !ok {
			missing = append(missing, n)
			continue
		}
		idx[i] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

// cell returns row[i], or "" for short rows.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func readCSV(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return newTable(nil), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := newTable(header)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func readCSVFile(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrLoad, path, err)
	}
	defer f.Close()

	t, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	return t, nil
}

// readSQLite reads every column of tableName from the snapshot at path.
func readSQLite(ctx context.Context, path, tableName string) (*table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrLoad, path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite %s: %w", ErrLoad, path, err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	rows, err := db.QueryContext(ctx, `SELECT * FROM "`+strings.ReplaceAll(tableName, `"`, `""`)+`"`)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s in %s: %w", ErrLoad, tableName, path, err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: columns of %s: %w", ErrLoad, tableName, err)
	}
	t := newTable(header)
	vals := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %w", ErrLoad, tableName, err)
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = sqlText(v)
		}
		t.rows = append(t.rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrLoad, tableName, err)
	}
	return t, nil
}

// sqlText renders a dynamically typed SQLite value as a CSV-style cell.
func sqlText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
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

// IsSQLite reports whether path names a SQLite snapshot rather than a CSV file.
func IsSQLite(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

func readSource(ctx context.Context, path, tableName string) (*table, error) {
	if IsSQLite(path) {
		return readSQLite(ctx, path, tableName)
	}
	return readCSVFile(path)
}
