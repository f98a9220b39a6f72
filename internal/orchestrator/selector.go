package orchestrator

// #region imports
import (
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/cognitive"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/performance"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/strategy"
)

// #endregion

// #region selector

// Selector picks the next strategy for a chain.
type Selector struct {
	cognitive *cognitive.Manager
	tracker   *performance.Tracker
}

// NewSelector creates a selector drawing through cog and biased by tracker history.
func NewSelector(cog *cognitive.Manager, tracker *performance.Tracker) *Selector {
	return &Selector{cognitive: cog, tracker: tracker}
}

// Choice is one selection decision.
type Choice struct {
	Strategy strategy.Strategy
	Index    int
	// Enhancement is the chosen weight share minus 1/n; nil for round-robin picks.
	Enhancement *float64
	// Coherence is the state's coherence after the draw; nil for round-robin picks.
	Coherence *float64
}

// #endregion

// #region next

// Next picks among candidates for the given iteration. Without a state id it is
// round-robin. With one it draws through the cognitive state using performance
// weights as bias, falling back to round-robin when every weight is zero.
// On a cognitive error the round-robin choice is returned together with the error.
func (s *Selector) Next(stateID string, candidates []strategy.Strategy, iteration int) (Choice, error) {
	rr := roundRobin(candidates, iteration)
	if stateID == "" || s.cognitive == nil {
		return rr, nil
	}

	sel, err := s.cognitive.Select(stateID, len(candidates), func(i int) float64 {
		return s.tracker.Weight(candidates[i].Info().Name)
	})
	if err != nil {
		return rr, err
	}
	coh := sel.Coherence
	if sel.Index < 0 {
		rr.Coherence = &coh
		return rr, nil
	}
	delta := sel.Share() - 1/float64(len(candidates))
	return Choice{
		Strategy:    candidates[sel.Index],
		Index:       sel.Index,
		Enhancement: &delta,
		Coherence:   &coh,
	}, nil
}

func roundRobin(candidates []strategy.Strategy, iteration int) Choice {
	i := iteration % len(candidates)
	return Choice{Strategy: candidates[i], Index: i}
}

// #endregion
