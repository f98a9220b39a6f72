package strategy

// #region imports
import (
	"context"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/chain"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/knowledge"
)

// #endregion

// #region category

// Category groups strategies by reasoning family.
type Category string

const (
	CategoryLogical       Category = "logical"
	CategoryEmpirical     Category = "empirical"
	CategoryExplanatory   Category = "explanatory"
	CategoryAnalogical    Category = "analogical"
	CategoryCausal        Category = "causal"
	CategoryProbabilistic Category = "probabilistic"
	CategoryTemporal      Category = "temporal"
	CategorySpatial       Category = "spatial"
	CategoryMeta          Category = "meta"
	CategoryDomain        Category = "domain"
)

// #endregion

// #region info

// Info is the static metadata of a registered strategy.
type Info struct {
	Name                string   `json:"name" yaml:"name"`
	Category            Category `json:"category" yaml:"category"`
	CognitiveCompatible bool     `json:"cognitive_compatible" yaml:"cognitive_compatible"`
	ConvergenceWeight   float64  `json:"convergence_weight" yaml:"convergence_weight"`
	UseCases            []string `json:"use_cases" yaml:"use_cases"`
}

// #endregion

// #region strategy

// Strategy produces one reasoning step. Implementations are stateless, read the
// view only, and must not retain it after returning. Failures are returned as
// *errs.Error with CategoryStrategyExecution.
type Strategy interface {
	Info() Info
	ExecuteStep(ctx context.Context, view chain.View, qc Context, kb knowledge.Adapter) (chain.Step, error)
}

// #endregion

// #region context

// CausalOptions narrows causal and counterfactual strategies.
type CausalOptions struct {
	Cause  string `json:"cause,omitempty"`
	Effect string `json:"effect,omitempty"`
}

// TemporalOptions narrows the temporal strategy.
type TemporalOptions struct {
	Horizon string `json:"horizon,omitempty"`
}

// FinancialOptions narrows the financial strategy.
type FinancialOptions struct {
	Currency      string  `json:"currency,omitempty"`
	RiskTolerance float64 `json:"risk_tolerance,omitempty"` // (0,1]; 0 = unset
}

// ProbabilisticOptions narrows probabilistic and Bayesian strategies.
type ProbabilisticOptions struct {
	Prior float64 `json:"prior,omitempty"` // (0,1); 0 = unset
}

// Context is the typed query context passed to every strategy.
type Context struct {
	Domain        string               `json:"domain,omitempty"`
	MaxFacts      int                  `json:"max_facts,omitempty"`
	Depth         int                  `json:"depth,omitempty"`
	Causal        CausalOptions        `json:"causal"`
	Temporal      TemporalOptions      `json:"temporal"`
	Financial     FinancialOptions     `json:"financial"`
	Probabilistic ProbabilisticOptions `json:"probabilistic"`
}

// Defaults for unset Context fields.
const (
	DefaultMaxFacts      = 5
	DefaultDepth         = 1
	DefaultPrior         = 0.5
	DefaultRiskTolerance = 0.5
	DefaultCurrency      = "USD"
)

// #endregion
