package logging

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
// fixed-width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const chainLogSchema = `
CREATE TABLE IF NOT EXISTS chain_log (
	chain_id          TEXT PRIMARY KEY,
	goal              TEXT NOT NULL,
	outcome           TEXT NOT NULL,
	statement         TEXT,
	confidence        REAL NOT NULL,
	convergence_score REAL NOT NULL,
	steps_executed    INTEGER NOT NULL,
	strategies        TEXT,
	duration_ms       INTEGER NOT NULL,
	created_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_chain_log_created ON chain_log(created_at);

CREATE TABLE IF NOT EXISTS step_outcomes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	chain_id    TEXT NOT NULL REFERENCES chain_log(chain_id),
	iteration   INTEGER NOT NULL,
	step_id     TEXT,
	strategy    TEXT NOT NULL,
	status      TEXT NOT NULL,
	confidence  REAL NOT NULL DEFAULT 0,
	latency_ms  INTEGER NOT NULL DEFAULT 0,
	error       TEXT
);
CREATE INDEX IF NOT EXISTS idx_step_outcomes_strategy ON step_outcomes(strategy);
CREATE INDEX IF NOT EXISTS idx_step_outcomes_chain ON step_outcomes(chain_id);
`

// #endregion schema

// #region chain-log
// ChainLog persists finished chains and their step attempts in SQLite.
type ChainLog struct {
	db    *sql.DB
	owned bool
}

// NewChainLog runs migrations against an existing handle. Close leaves db open.
func NewChainLog(db *sql.DB) (*ChainLog, error) {
	if _, err := db.Exec(chainLogSchema); err != nil {
		return nil, fmt.Errorf("migrate chain log: %w", err)
	}
	return &ChainLog{db: db}, nil
}

// OpenChainLog opens (or creates) the SQLite database at path.
func OpenChainLog(path string) (*ChainLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	l, err := NewChainLog(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	l.owned = true
	return l, nil
}

// Close releases the database when OpenChainLog created it.
func (l *ChainLog) Close() error {
	if !l.owned {
		return nil
	}
	return l.db.Close()
}

// #endregion chain-log

// #region record
// Record writes the chain row and all step outcomes in one transaction.
func (l *ChainLog) Record(ctx context.Context, entry ChainEntry) error {
	if entry.ChainID == "" {
		return fmt.Errorf("record chain: empty chain id")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record chain: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO chain_log (chain_id, goal, outcome, statement, confidence, convergence_score, steps_executed, strategies, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ChainID,
		entry.Goal,
		entry.Outcome,
		nullIfEmpty(entry.Statement),
		entry.Confidence,
		entry.ConvergenceScore,
		entry.StepsExecuted,
		nullIfEmpty(strings.Join(entry.Strategies, ",")),
		entry.Duration.Milliseconds(),
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record chain %s: %w", entry.ChainID, err)
	}

	for _, s := range entry.Steps {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO step_outcomes (chain_id, iteration, step_id, strategy, status, confidence, latency_ms, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ChainID,
			s.Iteration,
			nullIfEmpty(s.StepID),
			s.Strategy,
			s.Status,
			s.Confidence,
			s.Latency.Milliseconds(),
			nullIfEmpty(s.Error),
		)
		if err != nil {
			return fmt.Errorf("record step %d of %s: %w", s.Iteration, entry.ChainID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record chain %s: commit: %w", entry.ChainID, err)
	}
	return nil
}

// #endregion record

// #region queries
// Recent returns up to n chains, newest first. Step outcomes are not loaded.
func (l *ChainLog) Recent(ctx context.Context, n int) ([]ChainEntry, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT chain_id, goal, outcome, statement, confidence, convergence_score, steps_executed, strategies, duration_ms, created_at
		 FROM chain_log ORDER BY created_at DESC, chain_id LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("recent chains: %w", err)
	}
	defer rows.Close()

	var out []ChainEntry
	for rows.Next() {
		var (
			e          ChainEntry
			statement  sql.NullString
			strategies sql.NullString
			durationMs int64
			createdAt  string
		)
		if err := rows.Scan(&e.ChainID, &e.Goal, &e.Outcome, &statement, &e.Confidence, &e.ConvergenceScore,
			&e.StepsExecuted, &strategies, &durationMs, &createdAt); err != nil {
			return nil, fmt.Errorf("scan chain: %w", err)
		}
		e.Statement = statement.String
		if strategies.Valid && strategies.String != "" {
			e.Strategies = strings.Split(strategies.String, ",")
		}
		e.Duration = time.Duration(durationMs) * time.Millisecond
		if e.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at for %s: %w", e.ChainID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Steps returns the logged attempts of one chain in iteration order.
func (l *ChainLog) Steps(ctx context.Context, chainID string) ([]StepOutcome, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT iteration, step_id, strategy, status, confidence, latency_ms, error
		 FROM step_outcomes WHERE chain_id = ? ORDER BY iteration, id`, chainID)
	if err != nil {
		return nil, fmt.Errorf("steps of %s: %w", chainID, err)
	}
	defer rows.Close()

	var out []StepOutcome
	for rows.Next() {
		var (
			s         StepOutcome
			stepID    sql.NullString
			errText   sql.NullString
			latencyMs int64
		)
		if err := rows.Scan(&s.Iteration, &stepID, &s.Strategy, &s.Status, &s.Confidence, &latencyMs, &errText); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		s.StepID = stepID.String
		s.Error = errText.String
		s.Latency = time.Duration(latencyMs) * time.Millisecond
		out = append(out, s)
	}
	return out, rows.Err()
}

// StrategySummaries aggregates every logged attempt per strategy, sorted by name.
func (l *ChainLog) StrategySummaries(ctx context.Context) ([]StrategySummary, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT strategy,
		       COUNT(*),
		       SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END),
		       COALESCE(AVG(CASE WHEN status = 'ok' THEN confidence END), 0),
		       SUM(CASE WHEN status = 'ok' AND confidence >= 0.7 THEN 1 ELSE 0 END)
		FROM step_outcomes
		GROUP BY strategy
		ORDER BY strategy`)
	if err != nil {
		return nil, fmt.Errorf("strategy summaries: %w", err)
	}
	defer rows.Close()

	var out []StrategySummary
	for rows.Next() {
		var (
			s         StrategySummary
			successes int
		)
		if err := rows.Scan(&s.Strategy, &s.Attempts, &s.Failures, &s.AverageConfidence, &successes); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		if s.Attempts > 0 {
			s.SuccessRate = float64(successes) / float64(s.Attempts)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// #endregion queries

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
