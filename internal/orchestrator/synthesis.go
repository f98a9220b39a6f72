package orchestrator

// #region imports
import (
	"fmt"
	"sort"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/chain"
)

// #endregion

// #region synthesis

const (
	noConclusion    = "no conclusion reached"
	synthesisBonus  = 1.1
	maxAlternatives = 3
)

// synthesize folds a chain's steps into its final conclusion: the statement of
// the most confident step (first on ties), the first-seen union of premise ids,
// min(1, mean confidence × 1.1), and up to three other distinct conclusions.
func synthesize(steps []chain.Step) chain.Conclusion {
	if len(steps) == 0 {
		return chain.Conclusion{
			Statement:  noConclusion,
			Reasoning:  "no strategy produced a step",
			PremiseIDs: []string{},
		}
	}

	best := 0
	sum := 0.0
	seen := make(map[string]bool)
	var ids []string
	strategies := make(map[string]bool)
	for i, s := range steps {
		if s.Confidence > steps[best].Confidence {
			best = i
		}
		sum += s.Confidence
		strategies[s.Strategy] = true
		for _, p := range s.Premises {
			if !seen[p.ID] {
				seen[p.ID] = true
				ids = append(ids, p.ID)
			}
		}
	}
	if ids == nil {
		ids = []string{}
	}

	conf := sum / float64(len(steps)) * synthesisBonus
	if conf > 1 {
		conf = 1
	}

	return chain.Conclusion{
		Statement:    steps[best].Conclusion.Statement,
		Confidence:   conf,
		Reasoning:    fmt.Sprintf("synthesized from %d steps across %d strategies; strongest from %s", len(steps), len(strategies), steps[best].Strategy),
		PremiseIDs:   ids,
		Alternatives: alternatives(steps, best),
	}
}

func alternatives(steps []chain.Step, best int) []chain.Alternative {
	order := make([]int, 0, len(steps))
	for i := range steps {
		if i != best {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return steps[order[a]].Confidence > steps[order[b]].Confidence
	})

	taken := map[string]bool{steps[best].Conclusion.Statement: true}
	var out []chain.Alternative
	for _, i := range order {
		st := steps[i].Conclusion.Statement
		if st == "" || taken[st] {
			continue
		}
		taken[st] = true
		out = append(out, chain.Alternative{Statement: st, Score: steps[i].Confidence})
		if len(out) == maxAlternatives {
			break
		}
	}
	return out
}

// #endregion
