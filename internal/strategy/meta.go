package strategy

// #region imports
import (
	"context"
	"fmt"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/chain"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/knowledge"
)

// #endregion

// #region metacognitive

func metacognitive() Strategy {
	return &builtin{
		info: Info{
			Name: "Metacognitive", Category: CategoryMeta, CognitiveCompatible: true, ConvergenceWeight: 0.7,
			UseCases: []string{"self-assessment", "chain review"},
		},
		run: func(_ context.Context, in input) (draft, error) {
			steps := in.view.Steps()
			if len(steps) == 0 {
				return draft{}, errNoKnowledge("prior steps to review")
			}
			confs := make([]float64, len(steps))
			best := 0
			for i, s := range steps {
				confs[i] = s.Confidence
				if s.Confidence > steps[best].Confidence {
					best = i
				}
			}
			mean, std := meanStd(confs)
			evidence := make([]chain.Evidence, 0, len(steps))
			for _, s := range steps {
				evidence = append(evidence, chain.Evidence{ID: "e-" + s.ID, Content: s.Strategy + ": " + s.Conclusion.Statement, Strength: s.Confidence, Source: chain.SourceInference})
			}
			return draft{
				premises:   stepPremises(steps),
				evidence:   evidence,
				statement:  fmt.Sprintf("Chain so far favours: %s", steps[best].Conclusion.Statement),
				reasoning:  fmt.Sprintf("%d steps, mean confidence %.2f, spread %.2f", len(steps), mean, std),
				confidence: mean * (1 - std),
			}, nil
		},
	}
}

// #endregion

// #region dialectical

func dialectical() Strategy {
	return &builtin{
		info: Info{
			Name: "Dialectical", Category: CategoryMeta, CognitiveCompatible: true, ConvergenceWeight: 0.6,
			UseCases: []string{"opposing views", "synthesis"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			facts, err := searchFacts(ctx, in)
			if err != nil {
				return draft{}, err
			}
			if len(facts) == 0 {
				return draft{}, errNoKnowledge("thesis")
			}
			i := bestFact(facts)
			thesis := facts[i]
			premises := factPremises(facts[i : i+1])

			var antithesis string
			var antiConf float64
			rest := append(append([]knowledge.Fact(nil), facts[:i]...), facts[i+1:]...)
			if len(rest) > 0 {
				antithesis, antiConf = rest[0].Content, rest[0].Confidence
				premises = append(premises, factPremises(rest[:1])...)
			} else if last, ok := in.view.Last(); ok {
				antithesis, antiConf = last.Conclusion.Statement, last.Confidence
				premises = append(premises, stepPremises([]chain.Step{last})...)
			} else {
				return draft{}, errNoKnowledge("antithesis")
			}

			conf := 0.85 * (thesis.Confidence + antiConf) / 2
			if v, ok := in.kb.(knowledge.ConsistencyValidator); ok {
				consistent, err := v.ValidateConsistency(ctx, antithesis, thesis.Domain)
				if err != nil {
					return draft{}, err
				}
				if !consistent {
					// a true contradiction leaves the synthesis less settled
					conf *= 0.8
				}
			}
			return draft{
				premises:   premises,
				evidence:   factEvidence(facts),
				statement:  fmt.Sprintf("Synthesis: %s, qualified by: %s", thesis.Content, lowerFirst(antithesis)),
				reasoning:  "thesis and antithesis reconciled",
				confidence: conf,
				alternatives: []chain.Alternative{
					{Statement: thesis.Content, Score: clamp01(thesis.Confidence)},
					{Statement: antithesis, Score: clamp01(antiConf)},
				},
			}, nil
		},
	}
}

// #endregion
