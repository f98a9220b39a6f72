package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS facts (
	id          TEXT PRIMARY KEY,
	content     TEXT NOT NULL,
	domain      TEXT NOT NULL DEFAULT '',
	confidence  REAL NOT NULL DEFAULT 0.5,
	source      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_facts_domain ON facts(domain);

CREATE TABLE IF NOT EXISTS rules (
	id          TEXT PRIMARY KEY,
	domain      TEXT NOT NULL DEFAULT '',
	condition   TEXT NOT NULL,
	conclusion  TEXT NOT NULL,
	confidence  REAL NOT NULL DEFAULT 0.5
);
CREATE INDEX IF NOT EXISTS idx_rules_domain ON rules(domain);

CREATE TABLE IF NOT EXISTS statistics (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	concept     TEXT NOT NULL,
	metric      TEXT NOT NULL,
	value       REAL NOT NULL,
	sample_size INTEGER NOT NULL DEFAULT 0,
	confidence  REAL NOT NULL DEFAULT 0.5,
	UNIQUE(concept, metric)
);

CREATE TABLE IF NOT EXISTS causal_links (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	cause       TEXT NOT NULL,
	effect      TEXT NOT NULL,
	strength    REAL NOT NULL DEFAULT 0.1,
	mechanism   TEXT NOT NULL DEFAULT '',
	UNIQUE(cause, effect)
);
CREATE INDEX IF NOT EXISTS idx_links_cause ON causal_links(cause);
`

// #endregion schema

// #region store-struct
// Store is an Adapter backed by SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if dbPath == ":memory:" {
		// each pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion constructor

// #region seed
// Seed inserts corpus content, ignoring rows that already exist.
func (s *Store) Seed(ctx context.Context, corpus Corpus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, f := range corpus.Facts {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO facts (id, content, domain, confidence, source) VALUES (?, ?, ?, ?, ?)`,
			f.ID, f.Content, f.Domain, f.Confidence, f.Source,
		); err != nil {
			return fmt.Errorf("insert fact %s: %w", f.ID, err)
		}
	}
	for _, r := range corpus.Rules {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO rules (id, domain, condition, conclusion, confidence) VALUES (?, ?, ?, ?, ?)`,
			r.ID, r.Domain, r.Condition, r.Conclusion, r.Confidence,
		); err != nil {
			return fmt.Errorf("insert rule %s: %w", r.ID, err)
		}
	}
	for _, st := range corpus.Statistics {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO statistics (concept, metric, value, sample_size, confidence) VALUES (?, ?, ?, ?, ?)`,
			st.Concept, st.Metric, st.Value, st.SampleSize, st.Confidence,
		); err != nil {
			return fmt.Errorf("insert statistic %s: %w", st.Metric, err)
		}
	}
	for _, l := range corpus.Links {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO causal_links (cause, effect, strength, mechanism) VALUES (?, ?, ?, ?)`,
			l.Cause, l.Effect, l.Strength, l.Mechanism,
		); err != nil {
			return fmt.Errorf("insert link %s->%s: %w", l.Cause, l.Effect, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion seed

// #region reinforce-link
// ReinforceLink increases the strength of a causal link by delta, capped at 1.0.
// If the link doesn't exist, it is created with strength=delta.
func (s *Store) ReinforceLink(ctx context.Context, cause, effect string, delta float64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO causal_links (cause, effect, strength, mechanism)
		 VALUES (?, ?, ?, '')
		 ON CONFLICT(cause, effect) DO UPDATE SET
		   strength = MIN(1.0, causal_links.strength + ?)`,
		cause, effect, delta, delta,
	)
	return err
}

// #endregion reinforce-link

// #region search
// Search prefilters facts with LIKE on the query tokens, then ranks them in Go.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Fact, error) {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}
	if len(tokens) > 8 {
		tokens = tokens[:8]
	}
	clauses := make([]string, len(tokens))
	args := make([]any, len(tokens))
	for i, t := range tokens {
		clauses[i] = "LOWER(content) LIKE ?"
		args[i] = "%" + t + "%"
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, domain, confidence, source FROM facts WHERE `+strings.Join(clauses, " OR "),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("search facts: %w", err)
	}
	facts, err := scanFacts(rows)
	if err != nil {
		return nil, err
	}
	return rank(query, facts, limit), nil
}

func (s *Store) Facts(ctx context.Context, query string) ([]Fact, error) {
	return s.Search(ctx, query, DefaultLimit)
}

func scanFacts(rows *sql.Rows) ([]Fact, error) {
	defer rows.Close()
	var out []Fact
	for rows.Next() {
		var f Fact
		if err := rows.Scan(&f.ID, &f.Content, &f.Domain, &f.Confidence, &f.Source); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// #endregion search

// #region rules
// Rules returns rules for domain; empty domain returns every rule.
func (s *Store) Rules(ctx context.Context, domain string) ([]Rule, error) {
	q := `SELECT id, domain, condition, conclusion, confidence FROM rules`
	var args []any
	if domain != "" {
		q += ` WHERE LOWER(domain) = LOWER(?)`
		args = append(args, domain)
	}
	q += ` ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	var out []Rule
	for rows.Next() {
		var r Rule
		if err := rows.Scan(&r.ID, &r.Domain, &r.Condition, &r.Conclusion, &r.Confidence); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// #endregion rules

// #region capabilities
func (s *Store) Statistics(ctx context.Context, concept string) ([]Statistic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT concept, metric, value, sample_size, confidence FROM statistics ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query statistics: %w", err)
	}
	defer rows.Close()

	var out []Statistic
	for rows.Next() {
		var st Statistic
		if err := rows.Scan(&st.Concept, &st.Metric, &st.Value, &st.SampleSize, &st.Confidence); err != nil {
			return nil, fmt.Errorf("scan statistic: %w", err)
		}
		if matches(concept, st.Concept) {
			out = append(out, st)
		}
	}
	return out, rows.Err()
}

// CausalRelationships returns links whose cause/effect share tokens with the
// arguments, ordered by strength descending.
func (s *Store) CausalRelationships(ctx context.Context, cause, effect string) ([]CausalLink, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cause, effect, strength, mechanism FROM causal_links ORDER BY strength DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	var out []CausalLink
	for rows.Next() {
		var l CausalLink
		if err := rows.Scan(&l.Cause, &l.Effect, &l.Strength, &l.Mechanism); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		if matches(cause, l.Cause) && matches(effect, l.Effect) {
			out = append(out, l)
		}
	}
	return out, rows.Err()
}

func (s *Store) ValidateConsistency(ctx context.Context, fact, domain string) (bool, error) {
	q := `SELECT id, content, domain, confidence, source FROM facts`
	var args []any
	if domain != "" {
		q += ` WHERE LOWER(domain) = LOWER(?)`
		args = append(args, domain)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return false, fmt.Errorf("query facts: %w", err)
	}
	known, err := scanFacts(rows)
	if err != nil {
		return false, err
	}
	return consistent(fact, known), nil
}

// #endregion capabilities
