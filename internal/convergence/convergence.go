// Package convergence scores how settled a reasoning chain is.
package convergence

// #region imports
import (
	"math"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/chain"
)

// #endregion

// #region metrics

// Metrics are the four sub-scores and their weighted overall, all in [0,1].
type Metrics struct {
	CognitiveCoherence  float64 `json:"cognitive_coherence" yaml:"cognitive_coherence"`
	StrategicAlignment  float64 `json:"strategic_alignment" yaml:"strategic_alignment"`
	EvidenceConsistency float64 `json:"evidence_consistency" yaml:"evidence_consistency"`
	ConclusionStability float64 `json:"conclusion_stability" yaml:"conclusion_stability"`
	Overall             float64 `json:"overall" yaml:"overall"`
}

// Sub-score weights of Overall.
const (
	WeightCoherence = 0.3
	WeightAlignment = 0.3
	WeightEvidence  = 0.2
	WeightStability = 0.2
)

// #endregion

// #region evaluate

// Evaluate recomputes the metrics from the chain as it is now. It keeps no
// state, so two chains with identical steps and coherence score identically.
func Evaluate(view chain.View) Metrics {
	steps := view.Steps()
	if len(steps) == 0 {
		return Metrics{CognitiveCoherence: 1}
	}

	coherence := 1.0
	if c, ok := view.Coherence(); ok {
		coherence = c
	}

	confs := make([]float64, len(steps))
	evidence := 0
	for i, s := range steps {
		confs[i] = s.Confidence
		evidence += len(s.Evidence)
	}

	// Stability: did confidence hold up from first to last step
	stability := 0.5
	if len(steps) >= 2 {
		stability = math.Max(0, confs[len(confs)-1]-confs[0]+0.5)
	}

	m := Metrics{
		CognitiveCoherence:  clamp(coherence),
		StrategicAlignment:  clamp(1 - variance(confs)),
		EvidenceConsistency: clamp(float64(evidence) / float64(len(steps))),
		ConclusionStability: clamp(stability),
	}
	m.Overall = clamp(WeightCoherence*m.CognitiveCoherence +
		WeightAlignment*m.StrategicAlignment +
		WeightEvidence*m.EvidenceConsistency +
		WeightStability*m.ConclusionStability)
	return m
}

// Converged reports whether m meets target.
func (m Metrics) Converged(target float64) bool {
	return m.Overall >= target
}

// #endregion

// #region helpers

// variance is the population variance.
func variance(values []float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(values))
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion
