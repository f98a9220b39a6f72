package logging

import "time"

// #region logger-config
// Config selects log level, encoding and optional rotated file output.
type Config struct {
	Level      string // debug | info | warn | error
	Format     string // json | console
	File       string // empty = stderr only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// #endregion logger-config

// #region chain-entry
// ChainEntry is a single row in the chain_log table plus its step outcomes.
type ChainEntry struct {
	ChainID          string        `json:"chain_id" yaml:"chain_id"`
	Goal             string        `json:"goal" yaml:"goal"`
	Outcome          string        `json:"outcome" yaml:"outcome"` // "converged" | "max_steps"
	Statement        string        `json:"statement" yaml:"statement"`
	Confidence       float64       `json:"confidence" yaml:"confidence"`
	ConvergenceScore float64       `json:"convergence_score" yaml:"convergence_score"`
	StepsExecuted    int           `json:"steps_executed" yaml:"steps_executed"`
	Strategies       []string      `json:"strategies" yaml:"strategies"`
	Duration         time.Duration `json:"duration" yaml:"duration"`
	CreatedAt        time.Time     `json:"created_at" yaml:"created_at"`
	Steps            []StepOutcome `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// StepOutcome is one strategy attempt inside a chain, successful or not.
type StepOutcome struct {
	Iteration  int           `json:"iteration" yaml:"iteration"`
	StepID     string        `json:"step_id,omitempty" yaml:"step_id,omitempty"` // empty for failed attempts
	Strategy   string        `json:"strategy" yaml:"strategy"`
	Status     string        `json:"status" yaml:"status"` // "ok" | "failed"
	Confidence float64       `json:"confidence" yaml:"confidence"`
	Latency    time.Duration `json:"latency" yaml:"latency"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
}

// Step outcome statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// #endregion chain-entry

// #region strategy-summary
// StrategySummary aggregates step_outcomes for one strategy across all logged chains.
type StrategySummary struct {
	Strategy          string  `json:"strategy" yaml:"strategy"`
	Attempts          int     `json:"attempts" yaml:"attempts"`
	Failures          int     `json:"failures" yaml:"failures"`
	AverageConfidence float64 `json:"average_confidence" yaml:"average_confidence"` // over ok attempts
	SuccessRate       float64 `json:"success_rate" yaml:"success_rate"`             // ok attempts with confidence >= 0.7
}

// #endregion strategy-summary
