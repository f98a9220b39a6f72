package chain

// #region imports
import "time"

// #endregion

// #region source

// Source tags where a premise or piece of evidence came from.
type Source string

const (
	SourceKnowledge  Source = "knowledge"
	SourceInference  Source = "inference"
	SourceGoal       Source = "goal"
	SourceStatistics Source = "statistics"
	SourceRule       Source = "rule"
	SourceCausal     Source = "causal"
)

// #endregion

// #region premise-evidence

// Premise is an explanatory input a step's conclusion depends on.
type Premise struct {
	ID         string  `json:"id"`
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// Evidence supports (or weakens) a step's conclusion.
type Evidence struct {
	ID       string  `json:"id"`
	Content  string  `json:"content"`
	Strength float64 `json:"strength"`
	Source   Source  `json:"source"`
}

// #endregion

// #region conclusion

// Alternative is a competing candidate conclusion with its own score.
type Alternative struct {
	Statement string  `json:"statement"`
	Score     float64 `json:"score"`
}

// Conclusion is the claim a step (or the whole chain) arrives at.
type Conclusion struct {
	Statement    string        `json:"statement"`
	Confidence   float64       `json:"confidence"`
	Reasoning    string        `json:"reasoning"`
	PremiseIDs   []string      `json:"premise_ids"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
}

// #endregion

// #region step

// StepMetadata carries per-step execution measurements.
type StepMetadata struct {
	Latency      time.Duration `json:"latency"`
	ResourceCost float64       `json:"resource_cost"`
}

// Step is one strategy's contribution to a chain. Immutable once appended.
type Step struct {
	ID                   string       `json:"id"`
	Strategy             string       `json:"strategy"`
	Premises             []Premise    `json:"premises"`
	Evidence             []Evidence   `json:"evidence"`
	Conclusion           Conclusion   `json:"conclusion"`
	Confidence           float64      `json:"confidence"`
	CognitiveEnhancement *float64     `json:"cognitive_enhancement,omitempty"`
	Metadata             StepMetadata `json:"metadata"`
}

// #endregion

// #region metadata

// Metadata is chain-level bookkeeping.
type Metadata struct {
	CreatedAt           time.Time     `json:"created_at"`
	ConvergenceScore    float64       `json:"convergence_score"`
	TotalProcessingTime time.Duration `json:"total_processing_time"`
}

// #endregion

// #region view

// View is the read-only face of a chain handed to strategies and evaluators.
// Every accessor returns copies.
type View interface {
	ID() string
	Goal() string
	Len() int
	Steps() []Step
	Step(i int) (Step, bool)
	Last() (Step, bool)
	// Coherence reports the cognitive coherence snapshot, ok=false without a cognitive state.
	Coherence() (float64, bool)
}

// #endregion
