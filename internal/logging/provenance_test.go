package logging

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// #region helpers
func setupLog(t *testing.T) (*ChainLog, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	l, err := NewChainLog(db)
	if err != nil {
		t.Fatalf("new chain log: %v", err)
	}
	return l, db
}

func sampleEntry(id string, at time.Time) ChainEntry {
	return ChainEntry{
		ChainID:          id,
		Goal:             "why are streets wet",
		Outcome:          "converged",
		Statement:        "Rain causes wet streets",
		Confidence:       0.9,
		ConvergenceScore: 0.88,
		StepsExecuted:    1,
		Strategies:       []string{"Causal", "Deductive"},
		Duration:         42 * time.Millisecond,
		CreatedAt:        at,
		Steps: []StepOutcome{
			{Iteration: 0, StepID: id + "-s0", Strategy: "Causal", Status: StatusOK, Confidence: 0.9, Latency: 3 * time.Millisecond},
			{Iteration: 1, Strategy: "Deductive", Status: StatusFailed, Latency: time.Millisecond, Error: "no supporting rules"},
		},
	}
}

// #endregion helpers

// #region record-tests
func TestRecord_Success(t *testing.T) {
	l, db := setupLog(t)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if err := l.Record(context.Background(), sampleEntry("c1", at)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var chains, steps int
	db.QueryRow("SELECT COUNT(*) FROM chain_log").Scan(&chains)
	db.QueryRow("SELECT COUNT(*) FROM step_outcomes WHERE chain_id = 'c1'").Scan(&steps)
	if chains != 1 {
		t.Errorf("expected 1 chain row, got %d", chains)
	}
	if steps != 2 {
		t.Errorf("expected 2 step rows, got %d", steps)
	}
}

func TestRecord_NullableFields(t *testing.T) {
	l, db := setupLog(t)
	entry := sampleEntry("c1", time.Now())
	entry.Statement = ""
	entry.Strategies = nil

	if err := l.Record(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var statement, strategies sql.NullString
	db.QueryRow("SELECT statement, strategies FROM chain_log WHERE chain_id = 'c1'").Scan(&statement, &strategies)
	if statement.Valid {
		t.Errorf("expected NULL statement, got %q", statement.String)
	}
	if strategies.Valid {
		t.Errorf("expected NULL strategies, got %q", strategies.String)
	}

	var stepID sql.NullString
	db.QueryRow("SELECT step_id FROM step_outcomes WHERE status = 'failed'").Scan(&stepID)
	if stepID.Valid {
		t.Errorf("failed attempt should have NULL step_id, got %q", stepID.String)
	}
}

func TestRecord_DefaultCreatedAt(t *testing.T) {
	l, db := setupLog(t)
	before := time.Now().UTC().Add(-time.Second)

	if err := l.Record(context.Background(), sampleEntry("c1", time.Time{})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var createdAt string
	db.QueryRow("SELECT created_at FROM chain_log").Scan(&createdAt)
	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		t.Fatalf("parse created_at: %v", err)
	}
	if parsed.Before(before) {
		t.Errorf("created_at %v earlier than %v", parsed, before)
	}
}

func TestRecord_DuplicateRollsBack(t *testing.T) {
	l, db := setupLog(t)
	at := time.Now()
	if err := l.Record(context.Background(), sampleEntry("c1", at)); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := l.Record(context.Background(), sampleEntry("c1", at)); err == nil {
		t.Fatal("expected primary key violation")
	}

	var steps int
	db.QueryRow("SELECT COUNT(*) FROM step_outcomes").Scan(&steps)
	if steps != 2 {
		t.Errorf("rolled back insert left step rows behind: got %d, want 2", steps)
	}
}

func TestRecord_EmptyChainID(t *testing.T) {
	l, _ := setupLog(t)
	if err := l.Record(context.Background(), ChainEntry{}); err == nil {
		t.Fatal("expected error for empty chain id")
	}
}

// #endregion record-tests

// #region query-tests
func TestRecent_NewestFirst(t *testing.T) {
	l, _ := setupLog(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		if err := l.Record(context.Background(), sampleEntry(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}

	got, err := l.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ChainID != "new" || got[1].ChainID != "mid" {
		t.Errorf("unexpected order: %s, %s", got[0].ChainID, got[1].ChainID)
	}
	if got[0].Duration != 42*time.Millisecond {
		t.Errorf("duration round trip: got %v", got[0].Duration)
	}
	if len(got[0].Strategies) != 2 || got[0].Strategies[0] != "Causal" {
		t.Errorf("strategies round trip: got %v", got[0].Strategies)
	}
	if !got[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("created_at round trip: got %v", got[0].CreatedAt)
	}
}

func TestSteps_IterationOrder(t *testing.T) {
	l, _ := setupLog(t)
	if err := l.Record(context.Background(), sampleEntry("c1", time.Now())); err != nil {
		t.Fatalf("record: %v", err)
	}

	got, err := l.Steps(context.Background(), "c1")
	if err != nil {
		t.Fatalf("steps: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(got))
	}
	if got[0].StepID != "c1-s0" || got[0].Status != StatusOK || got[0].Latency != 3*time.Millisecond {
		t.Errorf("unexpected first step: %+v", got[0])
	}
	if got[1].StepID != "" || got[1].Error != "no supporting rules" {
		t.Errorf("nullable columns should read back empty: %+v", got[1])
	}

	none, err := l.Steps(context.Background(), "missing")
	if err != nil || len(none) != 0 {
		t.Errorf("unknown chain: got %v, %v", none, err)
	}
}

func TestStrategySummaries(t *testing.T) {
	l, _ := setupLog(t)
	at := time.Now()
	for _, id := range []string{"c1", "c2"} {
		if err := l.Record(context.Background(), sampleEntry(id, at)); err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}
	extra := sampleEntry("c3", at)
	extra.Steps = []StepOutcome{{Iteration: 0, StepID: "c3-s0", Strategy: "Causal", Status: StatusOK, Confidence: 0.3}}
	if err := l.Record(context.Background(), extra); err != nil {
		t.Fatalf("record c3: %v", err)
	}

	got, err := l.StrategySummaries(context.Background())
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 strategies, got %d", len(got))
	}

	causal := got[0]
	if causal.Strategy != "Causal" || causal.Attempts != 3 || causal.Failures != 0 {
		t.Errorf("unexpected causal summary: %+v", causal)
	}
	if want := (0.9 + 0.9 + 0.3) / 3; causal.AverageConfidence < want-1e-9 || causal.AverageConfidence > want+1e-9 {
		t.Errorf("average confidence: got %v, want %v", causal.AverageConfidence, want)
	}
	if want := 2.0 / 3; causal.SuccessRate < want-1e-9 || causal.SuccessRate > want+1e-9 {
		t.Errorf("success rate: got %v, want %v", causal.SuccessRate, want)
	}

	deductive := got[1]
	if deductive.Strategy != "Deductive" || deductive.Failures != 2 || deductive.SuccessRate != 0 || deductive.AverageConfidence != 0 {
		t.Errorf("unexpected deductive summary: %+v", deductive)
	}
}

func TestOpenChainLog_Close(t *testing.T) {
	l, err := OpenChainLog(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := l.Record(context.Background(), sampleEntry("c1", time.Now())); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

// #endregion query-tests
