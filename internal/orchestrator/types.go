package orchestrator

// #region imports
import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/chain"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/cognitive"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/convergence"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/knowledge"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/logging"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/performance"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/strategy"
)

// #endregion

// #region defaults

const (
	DefaultMaxStepsPerChain  = 10
	DefaultConvergenceTarget = 0.85
	DefaultMaxAutoStrategies = 6
	DefaultBatchConcurrency  = 4
)

// #endregion

// #region outcome

// Outcome is the terminal state of a chain.
type Outcome string

const (
	OutcomeConverged Outcome = "converged"
	OutcomeMaxSteps  Outcome = "max_steps"
	OutcomeAborted   Outcome = "aborted"
	OutcomeCancelled Outcome = "cancelled"
)

// #endregion

// #region request

// Request is one ExecuteReasoningChain invocation.
type Request struct {
	Goal string `json:"goal" yaml:"goal"`
	// Strategies restricts the candidate set; empty means auto-select from the goal.
	Strategies []string `json:"strategies,omitempty" yaml:"strategies,omitempty"`
	// CognitiveEnhancement nil means the engine default (on unless configured off).
	CognitiveEnhancement *bool `json:"cognitive_enhancement,omitempty" yaml:"cognitive_enhancement,omitempty"`
	// ConvergenceTarget must be in (0,1]; nil means the engine default.
	ConvergenceTarget *float64       `json:"convergence_target,omitempty" yaml:"convergence_target,omitempty"`
	Context           map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
	// MaxSteps overrides the per-chain iteration cap when > 0.
	MaxSteps int   `json:"max_steps,omitempty" yaml:"max_steps,omitempty"`
	Hooks    Hooks `json:"-" yaml:"-"`
}

// Hooks observe a chain's lifecycle. Every field is optional and is called
// synchronously on the chain's goroutine.
type Hooks struct {
	OnStepAppended   func(view chain.View, step chain.Step, m convergence.Metrics)
	OnStrategyFailed func(strategy string, iteration int, err error)
	OnConverged      func(view chain.View, m convergence.Metrics)
	OnAborted        func(err error)
}

func (h Hooks) stepAppended(v chain.View, s chain.Step, m convergence.Metrics) {
	if h.OnStepAppended != nil {
		h.OnStepAppended(v, s, m)
	}
}

func (h Hooks) strategyFailed(name string, iteration int, err error) {
	if h.OnStrategyFailed != nil {
		h.OnStrategyFailed(name, iteration, err)
	}
}

func (h Hooks) converged(v chain.View, m convergence.Metrics) {
	if h.OnConverged != nil {
		h.OnConverged(v, m)
	}
}

func (h Hooks) aborted(err error) {
	if h.OnAborted != nil {
		h.OnAborted(err)
	}
}

// #endregion

// #region result

// Performance summarizes a finished chain's execution.
type Performance struct {
	TotalProcessingTimeMs int64 `json:"total_processing_time_ms" yaml:"total_processing_time_ms"`
	StepsExecuted         int   `json:"steps_executed" yaml:"steps_executed"`
	ConvergenceAchieved   bool  `json:"convergence_achieved" yaml:"convergence_achieved"`
}

// Result is returned for every chain that initialized, converged or not.
type Result struct {
	Chain              *chain.Chain        `json:"chain" yaml:"-"`
	ConvergenceMetrics convergence.Metrics `json:"convergence_metrics" yaml:"convergence_metrics"`
	Performance        Performance         `json:"performance" yaml:"performance"`
	Outcome            Outcome             `json:"outcome" yaml:"outcome"`
	// Strategies is the candidate set the chain ran with, in selection order.
	Strategies []string `json:"strategies" yaml:"strategies"`
}

// #endregion

// #region options

// Recorder persists finalized chains. *logging.ChainLog satisfies it.
type Recorder interface {
	Record(ctx context.Context, entry logging.ChainEntry) error
}

// Options wires an Orchestrator. Registry and Knowledge are required; every
// other zero field gets a default.
type Options struct {
	Registry  *strategy.Registry
	Knowledge knowledge.Adapter
	Cognitive *cognitive.Manager
	Tracker   *performance.Tracker
	Recorder  Recorder
	Logger    *zap.Logger

	MaxStepsPerChain  int
	ConvergenceTarget float64
	MaxAutoStrategies int
	BatchConcurrency  int
	// DisableCognitive turns cognitive enhancement off for requests that leave it unset.
	DisableCognitive bool

	Now   func() time.Time
	NewID func() string
}

// #endregion
