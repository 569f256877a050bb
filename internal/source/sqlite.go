package source

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/five82/logscope/internal/logentry"
)

// SQLiteSource reads entries from a SQLite log store. The lower bound and the
// subsystem predicate are evaluated by SQLite.
type SQLiteSource struct {
	db     *sql.DB
	window int
}

// OpenSQLite opens (and if needed creates) the log store at path.
func OpenSQLite(path string, window int) (*SQLiteSource, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	if dir := filepath.Dir(path); dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)
	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteSource{db: db, window: window}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts INTEGER NOT NULL,
		level INTEGER NOT NULL DEFAULT 0,
		category TEXT NOT NULL DEFAULT '',
		subsystem TEXT,
		sender TEXT NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_entries_ts ON entries(ts);
	CREATE INDEX IF NOT EXISTS idx_entries_subsystem ON entries(subsystem);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// Append stores entries in one transaction.
func (s *SQLiteSource) Append(ctx context.Context, entries []logentry.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (ts, level, category, subsystem, sender, message)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range entries {
		var subsystem any
		if e.Subsystem != "" {
			subsystem = e.Subsystem
		}
		if _, err := stmt.ExecContext(ctx, e.Time.UnixNano(), int(e.Level), e.Category, subsystem, e.Sender, e.Message); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Entries implements Source. The newest window rows are returned oldest first.
func (s *SQLiteSource) Entries(ctx context.Context, q Query) ([]logentry.Entry, error) {
	where, args := buildWhere(q)
	query := fmt.Sprintf(`
		SELECT ts, level, category, subsystem, sender, message FROM (
			SELECT id, ts, level, category, subsystem, sender, message
			FROM entries
			%s
			ORDER BY ts DESC, id DESC
			LIMIT ?
		) ORDER BY ts ASC, id ASC`, where)
	args = append(args, s.window)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []logentry.Entry
	for rows.Next() {
		var (
			ts        int64
			level     int
			subsystem sql.NullString
			e         logentry.Entry
		)
		if err := rows.Scan(&ts, &level, &e.Category, &subsystem, &e.Sender, &e.Message); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Time = time.Unix(0, ts)
		e.Level = logentry.Level(level)
		e.Subsystem = subsystem.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// buildWhere translates the query into a WHERE clause and its arguments.
func buildWhere(q Query) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if !q.Since.IsZero() {
		clauses = append(clauses, "ts >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if !q.Predicate.IsZero() {
		var alts []string
		if q.Predicate.OrUnset {
			alts = append(alts, "subsystem IS NULL OR subsystem = ''")
		}
		if n := len(q.Predicate.Subsystems); n > 0 {
			alts = append(alts, "subsystem IN ("+strings.TrimSuffix(strings.Repeat("?,", n), ",")+")")
			for _, sub := range q.Predicate.Subsystems {
				args = append(args, sub)
			}
		}
		clauses = append(clauses, "("+strings.Join(alts, " OR ")+")")
	}
	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}
