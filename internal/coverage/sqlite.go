package coverage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // sqlite driver
)

// SQLiteSource is a coverage source backed by one table (or view) of a
// SQLite database.
type SQLiteSource struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens the given table of a SQLite database as a coverage
// source. The table name is validated against the schema, then interpolated
// into queries: SQLite placeholders cannot name tables.
func OpenSQLite(path, table string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening coverage db: %w", err)
	}

	var name string
	err = db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?`, table,
	).Scan(&name)
	if err != nil {
		db.Close()
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("coverage table %q not found in %s", table, path)
		}
		return nil, fmt.Errorf("inspecting coverage db: %w", err)
	}

	return &SQLiteSource{db: db, table: table}, nil
}

// Name implements Source.
func (s *SQLiteSource) Name() string { return s.table }

// Fields implements Source.
func (s *SQLiteSource) Fields() []string {
	rows, err := s.db.Query(fmt.Sprintf("SELECT * FROM %q LIMIT 0", s.table))
	if err != nil {
		return nil
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil
	}
	return cols
}

// Count implements Source.
func (s *SQLiteSource) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", s.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting coverage records: %w", err)
	}
	return n, nil
}

// Cursor implements Source.
func (s *SQLiteSource) Cursor() (Cursor, error) {
	rows, err := s.db.Query(fmt.Sprintf("SELECT * FROM %q", s.table))
	if err != nil {
		return nil, fmt.Errorf("querying coverage: %w", err)
	}

	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}

	return &sqliteCursor{rows: rows, cols: cols}, nil
}

// Close implements Source.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

type sqliteCursor struct {
	rows *sql.Rows
	cols []string
}

func (c *sqliteCursor) Next() (Record, bool, error) {
	if !c.rows.Next() {
		return Record{}, false, c.rows.Err()
	}

	raw := make([]any, len(c.cols))
	ptrs := make([]any, len(c.cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return Record{}, false, err
	}

	values := make(map[string]any, len(c.cols))
	for i, col := range c.cols {
		if b, ok := raw[i].([]byte); ok {
			values[col] = string(b)
			continue
		}
		values[col] = raw[i]
	}
	return NewRecord(c.cols, values), true, nil
}

func (c *sqliteCursor) Close() error {
	return c.rows.Close()
}
