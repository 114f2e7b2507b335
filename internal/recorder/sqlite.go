package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists board and freshness history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS board_rows (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			slot       TEXT NOT NULL,
			commodity  TEXT NOT NULL,
			date       TEXT,
			purity     TEXT,
			open       REAL,
			high       REAL,
			low        REAL,
			close      REAL,
			trend      TEXT,
			source     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_board_ts ON board_rows(timestamp)`,

		`CREATE TABLE IF NOT EXISTS board_errors (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			commodity  TEXT NOT NULL,
			error      TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS freshness_checks (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			state      TEXT NOT NULL,
			source     TEXT,
			last_run   INTEGER,
			next_run   INTEGER,
			delayed    INTEGER,
			error      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_freshness_ts ON freshness_checks(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable converts an optional price to a value database/sql can store as NULL.
func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func unixOrNull(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func (r *SQLiteRecorder) RecordBoard(snap *BoardSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := snap.Board
	ts := b.BuiltAt.Unix()
	if b.BuiltAt.IsZero() {
		ts = time.Now().Unix()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, tbl := range b.Tables {
		for i, row := range tbl.Rows {
			var trend string
			if i < len(tbl.Trends) {
				trend = string(tbl.Trends[i])
			}
			if _, err := tx.Exec(`INSERT INTO board_rows
				(timestamp, slot, commodity, date, purity, open, high, low, close, trend, source)
				VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
				ts, string(tbl.Slot), string(tbl.Commodity), row.Date, row.Purity,
				nullable(row.Open), nullable(row.High), nullable(row.Low), nullable(row.Close),
				trend, row.Source,
			); err != nil {
				return fmt.Errorf("insert board row: %w", err)
			}
		}
	}
	for commodity, msg := range b.Errors {
		if _, err := tx.Exec(`INSERT INTO board_errors (timestamp, commodity, error) VALUES (?,?,?)`,
			ts, string(commodity), msg); err != nil {
			return fmt.Errorf("insert board error: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordFreshness(evt *FreshnessEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := evt.Status
	ts := s.CheckedAt.Unix()
	if s.CheckedAt.IsZero() {
		ts = time.Now().Unix()
	}
	delayed := 0
	if s.Delayed {
		delayed = 1
	}
	_, err := r.db.Exec(`INSERT INTO freshness_checks
		(timestamp, state, source, last_run, next_run, delayed, error)
		VALUES (?,?,?,?,?,?,?)`,
		ts, string(s.State), evt.Source, unixOrNull(s.LastRun), unixOrNull(s.NextRun), delayed, s.Err,
	)
	return err
}

// CountRows returns the number of rows in a history table.
func (r *SQLiteRecorder) CountRows(table string) (int, error) {
	switch table {
	case "board_rows", "board_errors", "freshness_checks":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int
	err := r.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
