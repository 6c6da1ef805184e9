package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/specialistvlad/slotgraph/internal/ctxlog"
)

// SQLite stores one row per run in the runs table.
type SQLite struct {
	db *sql.DB
}

// NewDB opens the database at path and creates the runs table.
func NewDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		pipeline TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		status TEXT NOT NULL,
		duration_sec REAL NOT NULL,
		error TEXT,
		metrics TEXT NOT NULL,
		results TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
	`

	_, err := db.Exec(schema)
	return err
}

// NewSQLite opens path and returns a sink owning the connection.
func NewSQLite(path string) (*SQLite, error) {
	db, err := NewDB(path)
	if err != nil {
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// NewSQLiteWithDB wraps an already initialised database.
func NewSQLiteWithDB(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Export implements Sink.
func (s *SQLite) Export(ctx context.Context, run Run) error {
	metrics, err := json.Marshal(run.Records())
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	results, err := json.Marshal(run.Results())
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	var errText sql.NullString
	if run.Err != nil {
		errText = sql.NullString{String: run.Err.Error(), Valid: true}
	}

	query := `INSERT INTO runs (run_id, pipeline, timestamp, status, duration_sec, error, metrics, results)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		run.ID,
		run.Pipeline,
		run.StartedAt.Format("2006-01-02 15:04:05"),
		run.Status(),
		run.Duration.Seconds(),
		errText,
		string(metrics),
		string(results),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	ctxlog.FromContext(ctx).Info("Run stored in SQLite.", "run_id", run.ID)
	return nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
