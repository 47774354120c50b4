// Package audit records classification runs so results can be reviewed
// later. It works against postgres or sqlite.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coltype/internal/engine"
	"github.com/coltype/internal/logging"
	"github.com/coltype/internal/match"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS classification_run (
		run_id         TEXT PRIMARY KEY,
		source         TEXT NOT NULL,
		command        TEXT NOT NULL,
		phone_column   TEXT NOT NULL DEFAULT '',
		company_column TEXT NOT NULL DEFAULT '',
		started_at     TEXT NOT NULL,
		duration_ms    BIGINT NOT NULL,
		column_count   INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS column_classification (
		run_id      TEXT NOT NULL REFERENCES classification_run(run_id),
		position    INTEGER NOT NULL,
		column_name TEXT NOT NULL,
		label       TEXT NOT NULL,
		confidence  DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run_id, position)
	)`,
}

// timeLayout is fixed-width so started_at sorts correctly as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one classification run over an input
type Run struct {
	ID            uuid.UUID
	Source        string // input file or "api"
	Command       string // classify, columns, parse, ...
	PhoneColumn   string
	CompanyColumn string
	StartedAt     time.Time
	Duration      time.Duration
	Columns       []engine.ColumnReport
}

// Tracker writes and reads runs
type Tracker struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
}

// NewTracker creates a tracker. driver selects the placeholder style:
// "postgres" uses $n, anything else uses ?.
func NewTracker(db *sql.DB, driver string, logger *zap.Logger) *Tracker {
	return &Tracker{db: db, driver: driver, logger: logging.OrNop(logger)}
}

// rebind rewrites ? placeholders for the tracker's driver
func (t *Tracker) rebind(query string) string {
	if t.driver != "postgres" {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// EnsureSchema creates the tables if they do not exist
func (t *Tracker) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := t.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create audit schema: %w", err)
		}
	}
	return nil
}

// RecordRun stores run and its column results in one transaction. A zero
// ID is replaced with a new random one; the stored ID is returned.
func (t *Tracker) RecordRun(ctx context.Context, run Run) (uuid.UUID, error) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, t.rebind(`
		INSERT INTO classification_run (
			run_id, source, command, phone_column, company_column,
			started_at, duration_ms, column_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), run.ID.String(), run.Source, run.Command, run.PhoneColumn, run.CompanyColumn,
		run.StartedAt.UTC().Format(timeLayout), run.Duration.Milliseconds(), len(run.Columns))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert classification run: %w", err)
	}

	insertColumn := t.rebind(`
		INSERT INTO column_classification (run_id, position, column_name, label, confidence)
		VALUES (?, ?, ?, ?, ?)
	`)
	for i, c := range run.Columns {
		if _, err := tx.ExecContext(ctx, insertColumn, run.ID.String(), i, c.Column, string(c.Label), c.Confidence); err != nil {
			return uuid.Nil, fmt.Errorf("failed to insert column %q: %w", c.Column, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to commit run: %w", err)
	}

	t.logger.Info("classification run recorded",
		zap.String("run_id", run.ID.String()),
		zap.String("command", run.Command),
		zap.Int("columns", len(run.Columns)))
	return run.ID, nil
}

// RecentRuns returns up to limit runs, newest first, without their columns
func (t *Tracker) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := t.db.QueryContext(ctx, t.rebind(`
		SELECT run_id, source, command, phone_column, company_column, started_at, duration_ms
		FROM classification_run
		ORDER BY started_at DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			id, start  string
			durationMS int64
		)
		if err := rows.Scan(&id, &run.Source, &run.Command, &run.PhoneColumn, &run.CompanyColumn, &start, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("bad run id %q: %w", id, err)
		}
		if run.StartedAt, err = time.Parse(timeLayout, start); err != nil {
			return nil, fmt.Errorf("bad start time %q: %w", start, err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunColumns returns the column results of a run in column order
func (t *Tracker) RunColumns(ctx context.Context, id uuid.UUID) ([]engine.ColumnReport, error) {
	rows, err := t.db.QueryContext(ctx, t.rebind(`
		SELECT column_name, label, confidence
		FROM column_classification
		WHERE run_id = ?
		ORDER BY position
	`), id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query run columns: %w", err)
	}
	defer rows.Close()

	var reports []engine.ColumnReport
	for rows.Next() {
		var (
			r     engine.ColumnReport
			label string
		)
		if err := rows.Scan(&r.Column, &label, &r.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan run column: %w", err)
		}
		r.Label = match.Label(label)
		reports = append(reports, r)
	}
	return reports, rows.Err()
}
