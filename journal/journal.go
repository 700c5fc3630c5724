/*
Copyright 2026 Eson Paredes
SPDX-License-Identifier: Apache-2.0
*/

package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	_ "modernc.org/sqlite"
)

// Record is one persisted worker run.
type Record struct {
	ID            int64
	StartedAt     time.Time
	FinishedAt    time.Time
	Instruction   string
	Verdict       string
	Branch        string
	ChangeRequest int
	FilesWritten  int
	InputTokens   int64
	OutputTokens  int64
	Outcome       string
	Error         string
}

// Run outcomes.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at INTEGER NOT NULL,
	finished_at INTEGER,
	instruction TEXT NOT NULL,
	verdict TEXT NOT NULL DEFAULT '',
	branch TEXT NOT NULL DEFAULT '',
	change_request INTEGER NOT NULL DEFAULT 0,
	files_written INTEGER NOT NULL DEFAULT 0,
	input_tokens INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	outcome TEXT NOT NULL DEFAULT '',
	error TEXT NOT NULL DEFAULT ''
);
`

// Journal stores run records. A nil Journal is a valid no-op handle.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal at path. An empty path
// disables journaling and returns a nil Journal.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, nil
	}

	db, err := sql.Open("sqlite", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging journal: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating journal schema: %w", err)
	}

	// SQLite supports one writer; a larger pool only manufactures
	// SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Journal{db: db}, nil
}

// Close releases the underlying database.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}

// Begin inserts a run record and returns its handle. On insert failure the
// returned handle is a no-op; the run proceeds unjournaled.
func (j *Journal) Begin(ctx context.Context, instruction string) *Run {
	if j == nil {
		return nil
	}

	res, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, instruction) VALUES (?, ?)`,
		time.Now().UnixMilli(), instruction)
	if err != nil {
		clog.FromContext(ctx).With("error", err).Warn("Failed to journal run start")
		return nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		clog.FromContext(ctx).With("error", err).Warn("Failed to read journal run id")
		return nil
	}
	return &Run{journal: j, id: id}
}

// Recent returns up to n records, newest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]Record, error) {
	if j == nil {
		return nil, nil
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, instruction, verdict, branch,
		       change_request, files_written, input_tokens, output_tokens,
		       outcome, error
		FROM runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var started int64
		var finished sql.NullInt64
		if err := rows.Scan(&rec.ID, &started, &finished, &rec.Instruction,
			&rec.Verdict, &rec.Branch, &rec.ChangeRequest, &rec.FilesWritten,
			&rec.InputTokens, &rec.OutputTokens, &rec.Outcome, &rec.Error); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.StartedAt = time.UnixMilli(started)
		if finished.Valid {
			rec.FinishedAt = time.UnixMilli(finished.Int64)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return out, nil
}

// Run is the handle for updating one in-flight record. A nil Run is a
// valid no-op handle.
type Run struct {
	journal *Journal
	id      int64
}

// SetVerdict records the proposal verdict.
func (r *Run) SetVerdict(ctx context.Context, verdict string) {
	r.update(ctx, `UPDATE runs SET verdict = ? WHERE id = ?`, verdict, r.runID())
}

// SetBranch records the working branch.
func (r *Run) SetBranch(ctx context.Context, branch string) {
	r.update(ctx, `UPDATE runs SET branch = ? WHERE id = ?`, branch, r.runID())
}

// SetChangeRequest records the change-request number.
func (r *Run) SetChangeRequest(ctx context.Context, number int) {
	r.update(ctx, `UPDATE runs SET change_request = ? WHERE id = ?`, number, r.runID())
}

// AddFilesWritten accumulates the number of files committed.
func (r *Run) AddFilesWritten(ctx context.Context, n int) {
	r.update(ctx, `UPDATE runs SET files_written = files_written + ? WHERE id = ?`, n, r.runID())
}

// AddTokens accumulates endpoint token usage.
func (r *Run) AddTokens(ctx context.Context, input, output int64) {
	r.update(ctx, `UPDATE runs SET input_tokens = input_tokens + ?, output_tokens = output_tokens + ? WHERE id = ?`,
		input, output, r.runID())
}

// Complete finishes the record with an outcome and the run error, if any.
func (r *Run) Complete(ctx context.Context, outcome string, runErr error) {
	errText := ""
	if runErr != nil {
		errText = runErr.Error()
	}
	r.update(ctx, `UPDATE runs SET finished_at = ?, outcome = ?, error = ? WHERE id = ?`,
		time.Now().UnixMilli(), outcome, errText, r.runID())
}

func (r *Run) runID() int64 {
	if r == nil {
		return 0
	}
	return r.id
}

func (r *Run) update(ctx context.Context, query string, args ...any) {
	if r == nil || r.journal == nil {
		return
	}
	if _, err := r.journal.db.ExecContext(ctx, query, args...); err != nil {
		clog.FromContext(ctx).With("error", err).Warn("Failed to journal run update")
	}
}
