package strategy

// #region imports
import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/chain"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/knowledge"
)

// #endregion

// #region stat-helpers

// statistics returns ok=false when the adapter has no statistics capability.
func statistics(ctx context.Context, kb knowledge.Adapter, concept string) ([]knowledge.Statistic, bool, error) {
	sp, ok := kb.(knowledge.StatisticsProvider)
	if !ok {
		return nil, false, nil
	}
	stats, err := sp.Statistics(ctx, concept)
	return stats, true, err
}

// sampleWeight saturates toward 1 as n grows.
func sampleWeight(n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n) / float64(n+30)
}

func statID(s knowledge.Statistic) string {
	return slug(s.Concept) + "-" + slug(s.Metric)
}

func statPremises(stats []knowledge.Statistic) []chain.Premise {
	out := make([]chain.Premise, 0, len(stats))
	for _, s := range stats {
		out = append(out, chain.Premise{
			ID: "p-stat-" + statID(s), Content: fmt.Sprintf("%s %s = %.2f (n=%d)", s.Concept, s.Metric, s.Value, s.SampleSize),
			Confidence: clamp01(s.Confidence), Source: chain.SourceStatistics,
		})
	}
	return out
}

func statEvidence(stats []knowledge.Statistic) []chain.Evidence {
	out := make([]chain.Evidence, 0, len(stats))
	for _, s := range stats {
		out = append(out, chain.Evidence{
			ID: "e-stat-" + statID(s), Content: fmt.Sprintf("%s %s observed over %d samples", s.Concept, s.Metric, s.SampleSize),
			Strength: clamp01(s.Confidence * sampleWeight(s.SampleSize)), Source: chain.SourceStatistics,
		})
	}
	return out
}

// probabilities keeps statistics whose value is a probability.
func probabilities(stats []knowledge.Statistic) []knowledge.Statistic {
	var out []knowledge.Statistic
	for _, s := range stats {
		if s.Value >= 0 && s.Value <= 1 {
			out = append(out, s)
		}
	}
	return out
}

// mostReliable returns the index of the statistic maximizing confidence × sample weight.
func mostReliable(stats []knowledge.Statistic) int {
	best := 0
	for i, s := range stats {
		if s.Confidence*sampleWeight(s.SampleSize) > stats[best].Confidence*sampleWeight(stats[best].SampleSize) {
			best = i
		}
	}
	return best
}

// #endregion

// #region probabilistic

func probabilistic() Strategy {
	return &builtin{
		info: Info{
			Name: "Probabilistic", Category: CategoryProbabilistic, CognitiveCompatible: true, ConvergenceWeight: 0.8,
			UseCases: []string{"likelihood estimation", "uncertainty"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			stats, _, err := statistics(ctx, in.kb, in.query)
			if err != nil {
				return draft{}, err
			}
			if probs := probabilities(stats); len(probs) > 0 {
				i := mostReliable(probs)
				best := probs[i]
				var alts []chain.Alternative
				for j, s := range probs {
					if j != i && len(alts) < 3 {
						alts = append(alts, chain.Alternative{Statement: fmt.Sprintf("%s %s = %.2f", s.Concept, s.Metric, s.Value), Score: clamp01(s.Confidence)})
					}
				}
				return draft{
					premises:     statPremises(probs),
					evidence:     statEvidence(probs),
					statement:    fmt.Sprintf("Estimated probability %.2f for %s (%s)", best.Value, best.Concept, best.Metric),
					reasoning:    fmt.Sprintf("most reliable of %d statistics, n=%d", len(probs), best.SampleSize),
					confidence:   best.Confidence * (0.5 + 0.5*sampleWeight(best.SampleSize)),
					alternatives: alts,
				}, nil
			}

			facts, err := searchFacts(ctx, in)
			if err != nil {
				return draft{}, err
			}
			if len(facts) == 0 {
				return draft{}, errNoKnowledge("statistics or facts")
			}
			return draft{
				premises:     factPremises(facts),
				evidence:     factEvidence(facts),
				statement:    "Likely: " + facts[0].Content,
				reasoning:    "no statistics available; estimated from fact confidence",
				confidence:   0.8 * meanConfidence(facts),
				alternatives: factAlternatives(facts, 0, 3),
			}, nil
		},
	}
}

// #endregion

// #region bayesian

func bayesian() Strategy {
	return &builtin{
		info: Info{
			Name: "Bayesian", Category: CategoryProbabilistic, CognitiveCompatible: true, ConvergenceWeight: 0.8,
			UseCases: []string{"belief update", "posterior estimation"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			stats, ok, err := statistics(ctx, in.kb, in.query)
			if err != nil {
				return draft{}, err
			}
			if !ok {
				return draft{}, errMissingCapability("statistics")
			}
			probs := probabilities(stats)
			if len(probs) == 0 {
				return draft{}, errNoKnowledge("likelihoods")
			}
			prior := in.qc.Probabilistic.Prior
			best := probs[mostReliable(probs)]
			likelihood := best.Value
			posterior := prior * likelihood / (prior*likelihood + (1-prior)*(1-likelihood))
			if math.IsNaN(posterior) {
				posterior = prior
			}
			premises := append([]chain.Premise{{
				ID: "p-prior", Content: fmt.Sprintf("prior belief %.2f", prior), Confidence: prior, Source: chain.SourceInference,
			}}, statPremises(probs)...)
			return draft{
				premises:   premises,
				evidence:   statEvidence(probs),
				statement:  fmt.Sprintf("Posterior %.2f for %s given %s", posterior, best.Concept, best.Metric),
				reasoning:  fmt.Sprintf("prior %.2f updated with likelihood %.2f", prior, likelihood),
				confidence: best.Confidence * (0.5 + 0.5*sampleWeight(best.SampleSize)),
				alternatives: []chain.Alternative{{
					Statement: fmt.Sprintf("Prior %.2f unchanged", prior), Score: clamp01(1 - best.Confidence),
				}},
			}, nil
		},
	}
}

// #endregion

// #region financial

func financial() Strategy {
	return &builtin{
		info: Info{
			Name: "Financial", Category: CategoryDomain, CognitiveCompatible: false, ConvergenceWeight: 0.7,
			UseCases: []string{"investment", "risk", "interest rates"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			facts, err := searchFacts(ctx, in)
			if err != nil {
				return draft{}, err
			}
			facts = filterFacts(facts, func(f knowledge.Fact) bool { return strings.EqualFold(f.Domain, "finance") })
			stats, _, err := statistics(ctx, in.kb, in.query+" market")
			if err != nil {
				return draft{}, err
			}
			rules, err := in.kb.Rules(ctx, "finance")
			if err != nil {
				return draft{}, err
			}
			rules = matchingRules(rules, in.query)
			if len(facts) == 0 && len(stats) == 0 && len(rules) == 0 {
				return draft{}, errNoKnowledge("financial data")
			}

			risk := 0.5
			for _, s := range stats {
				if strings.Contains(s.Metric, "volatility") {
					risk = s.Value
					break
				}
			}
			tolerance := in.qc.Financial.RiskTolerance
			fit := math.Max(0, 1-math.Abs(risk-tolerance))

			base := meanConfidence(facts)
			subject := in.view.Goal()
			switch {
			case len(facts) > 0:
				subject = facts[0].Content
			case len(rules) > 0:
				base, subject = rules[0].Confidence, upperFirst(rules[0].Conclusion)
			default:
				base = stats[mostReliable(stats)].Confidence
			}
			verdict := "within"
			if risk > tolerance {
				verdict = "exceeds"
			}
			return draft{
				premises:     append(append(factPremises(facts), rulePremises(rules)...), statPremises(stats)...),
				evidence:     append(factEvidence(facts), statEvidence(stats)...),
				statement:    fmt.Sprintf("%s; risk %.2f %s tolerance %.2f (%s)", subject, risk, verdict, tolerance, in.qc.Financial.Currency),
				reasoning:    "financial facts weighed against market risk and stated tolerance",
				confidence:   base * (0.6 + 0.4*fit),
				alternatives: factAlternatives(facts, 0, 3),
			}, nil
		},
	}
}

// #endregion
