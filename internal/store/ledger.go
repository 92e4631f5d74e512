// Package store persists a run-history ledger in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/csvforge/internal/model"
)

// Ledger records completed runs. Ledger writes are best-effort: a
// ledger failure never fails a conversion run.
type Ledger struct {
	db *sql.DB
}

// Open opens the SQLite ledger at path and configures WAL mode.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	return &Ledger{db: db}, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	started_at   DATETIME NOT NULL,
	finished_at  DATETIME NOT NULL,
	total_files  INTEGER NOT NULL,
	succeeded    INTEGER NOT NULL,
	failed       INTEGER NOT NULL,
	total_rows   INTEGER NOT NULL,
	total_issues INTEGER NOT NULL,
	summary      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

// Migrate creates the schema if it does not exist.
func (l *Ledger) Migrate(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// RecordRun appends one completed run to the ledger.
func (l *Ledger) RecordRun(ctx context.Context, summary *model.RunSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "store: marshal summary")
	}

	_, err = l.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, total_files, succeeded, failed, total_rows, total_issues, summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.StartedAt.UTC(),
		summary.FinishedAt.UTC(),
		summary.TotalFiles,
		summary.Succeeded,
		summary.Failed,
		summary.TotalRows,
		summary.TotalIssues,
		string(payload),
	)
	return eris.Wrap(err, "store: insert run")
}

// RunRecord is one ledger row, without the full summary payload.
type RunRecord struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	TotalFiles  int       `json:"total_files"`
	Succeeded   int       `json:"succeeded"`
	Failed      int       `json:"failed"`
	TotalRows   int       `json:"total_rows"`
	TotalIssues int       `json:"total_issues"`
}

// ListRuns returns the most recent runs, newest first.
func (l *Ledger) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, total_files, succeeded, failed, total_rows, total_issues
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: query runs")
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.TotalFiles, &r.Succeeded, &r.Failed, &r.TotalRows, &r.TotalIssues); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		records = append(records, r)
	}
	return records, eris.Wrap(rows.Err(), "store: iterate runs")
}
