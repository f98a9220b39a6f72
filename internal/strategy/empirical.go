package strategy

// #region imports
import (
	"context"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/knowledge"
)

// #endregion

// #region vocabularies

var temporalWords = map[string]bool{
	"before": true, "after": true, "during": true, "sequence": true, "time": true,
	"yearly": true, "daily": true, "day": true, "year": true, "years": true,
	"future": true, "past": true, "trend": true, "follow": true, "over": true,
	"every": true, "when": true, "until": true, "since": true, "noon": true,
}

var spatialWords = map[string]bool{
	"in": true, "on": true, "near": true, "above": true, "below": true,
	"ocean": true, "street": true, "streets": true, "road": true, "surface": true,
	"location": true, "region": true, "where": true, "inside": true, "outside": true,
	"distance": true, "from": true,
}

var ethicalWords = map[string]bool{
	"harm": true, "benefit": true, "fair": true, "fairness": true, "rights": true,
	"duty": true, "should": true, "safety": true, "risk": true, "consent": true,
	"justice": true, "welfare": true, "slippery": true, "accidents": true,
}

// #endregion

// #region inductive

func inductive() Strategy {
	return &builtin{
		info: Info{
			Name: "Inductive", Category: CategoryEmpirical, CognitiveCompatible: true, ConvergenceWeight: 0.7,
			UseCases: []string{"generalization", "pattern detection"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			facts, err := searchFacts(ctx, in)
			if err != nil {
				return draft{}, err
			}
			if len(facts) < 2 {
				return draft{}, errNoKnowledge("observations (need at least 2)")
			}
			n := float64(len(facts))
			return draft{
				premises:     factPremises(facts),
				evidence:     factEvidence(facts),
				statement:    "Across observed cases, " + lowerFirst(facts[0].Content),
				reasoning:    fmt.Sprintf("generalized from %d matching observations", len(facts)),
				confidence:   meanConfidence(facts) * n / (n + 1),
				alternatives: factAlternatives(facts, 0, 3),
			}, nil
		},
	}
}

// #endregion

// #region abductive

func abductive() Strategy {
	return &builtin{
		info: Info{
			Name: "Abductive", Category: CategoryExplanatory, CognitiveCompatible: true, ConvergenceWeight: 0.75,
			UseCases: []string{"diagnosis", "best explanation"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			facts, err := searchFacts(ctx, in)
			if err != nil {
				return draft{}, err
			}
			if len(facts) == 0 {
				return draft{}, errNoKnowledge("explanations")
			}
			i := bestFact(facts)
			best := facts[i]
			return draft{
				premises:     factPremises(facts),
				evidence:     factEvidence(facts[i : i+1]),
				statement:    "Best explanation: " + best.Content,
				reasoning:    fmt.Sprintf("highest relevance-weighted plausibility among %d candidates", len(facts)),
				confidence:   0.4 + 0.6*best.Score*best.Confidence,
				alternatives: factAlternatives(facts, i, 3),
			}, nil
		},
	}
}

// #endregion

// #region analogical

func analogical() Strategy {
	return &builtin{
		info: Info{
			Name: "Analogical", Category: CategoryAnalogical, CognitiveCompatible: true, ConvergenceWeight: 0.6,
			UseCases: []string{"cross-domain transfer", "similarity"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			facts, err := searchFacts(ctx, in)
			if err != nil {
				return draft{}, err
			}
			if len(facts) == 0 {
				return draft{}, errNoKnowledge("analogues")
			}
			source := facts[0]
			analogues := filterFacts(facts[1:], func(f knowledge.Fact) bool {
				return !strings.EqualFold(f.Domain, source.Domain)
			})
			conf := 0.3 + 0.4*source.Confidence
			statement := "By analogy with " + source.Domain + ": " + source.Content
			if len(analogues) > 0 {
				conf += 0.2 * analogues[0].Score
				statement = fmt.Sprintf("As in %s, so in %s: %s", source.Domain, analogues[0].Domain, source.Content)
			}
			return draft{
				premises:     factPremises(facts),
				evidence:     factEvidence(append(facts[:1:1], analogues...)),
				statement:    statement,
				reasoning:    fmt.Sprintf("mapped structure across %d domains", len(distinctDomains(facts))),
				confidence:   conf,
				alternatives: factAlternatives(analogues, -1, 3),
			}, nil
		},
	}
}

// #endregion

// #region heuristic

func heuristic() Strategy {
	return &builtin{
		info: Info{
			Name: "Heuristic", Category: CategoryEmpirical, CognitiveCompatible: true, ConvergenceWeight: 0.5,
			UseCases: []string{"quick estimate", "rule of thumb"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			facts, err := in.kb.Search(ctx, in.query, 1)
			if err != nil {
				return draft{}, err
			}
			if len(facts) == 0 {
				return draft{}, errNoKnowledge("facts")
			}
			return draft{
				premises:   factPremises(facts),
				evidence:   factEvidence(facts),
				statement:  "Rule of thumb: " + facts[0].Content,
				reasoning:  "first relevant fact taken at face value",
				confidence: 0.75 * facts[0].Confidence,
			}, nil
		},
	}
}

// #endregion

// #region fuzzy

func fuzzy() Strategy {
	return &builtin{
		info: Info{
			Name: "Fuzzy", Category: CategoryProbabilistic, CognitiveCompatible: true, ConvergenceWeight: 0.5,
			UseCases: []string{"vague predicates", "partial membership"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			facts, err := searchFacts(ctx, in)
			if err != nil {
				return draft{}, err
			}
			var weighted, total float64
			for _, f := range facts {
				weighted += f.Score * f.Confidence
				total += f.Score
			}
			if total == 0 {
				return draft{}, errNoKnowledge("facts")
			}
			degree := weighted / total
			return draft{
				premises:     factPremises(facts),
				evidence:     factEvidence(facts),
				statement:    fmt.Sprintf("To degree %.2f, %s", degree, lowerFirst(facts[0].Content)),
				reasoning:    "membership-weighted aggregate of relevant facts",
				confidence:   degree,
				alternatives: factAlternatives(facts, 0, 3),
			}, nil
		},
	}
}

// #endregion

// #region scientific

func scientific() Strategy {
	return &builtin{
		info: Info{
			Name: "Scientific", Category: CategoryEmpirical, CognitiveCompatible: true, ConvergenceWeight: 0.8,
			UseCases: []string{"hypothesis testing", "falsification"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			facts, err := searchFacts(ctx, in)
			if err != nil {
				return draft{}, err
			}
			if len(facts) == 0 {
				return draft{}, errNoKnowledge("observations")
			}
			validator, ok := in.kb.(knowledge.ConsistencyValidator)
			if !ok {
				return draft{}, errMissingCapability("consistency validation")
			}
			var supported []knowledge.Fact
			for _, f := range facts {
				consistent, err := validator.ValidateConsistency(ctx, f.Content, f.Domain)
				if err != nil {
					return draft{}, err
				}
				if consistent {
					supported = append(supported, f)
				}
			}
			if len(supported) == 0 {
				return draft{}, errNoKnowledge("hypothesis survived falsification")
			}
			ratio := float64(len(supported)) / float64(len(facts))
			return draft{
				premises:     factPremises(facts),
				evidence:     factEvidence(supported),
				statement:    "Hypothesis supported: " + supported[0].Content,
				reasoning:    fmt.Sprintf("%d of %d observations consistent with the knowledge base", len(supported), len(facts)),
				confidence:   meanConfidence(supported) * ratio,
				alternatives: factAlternatives(supported, 0, 3),
			}, nil
		},
	}
}

// #endregion

// #region vocabulary-strategies

// vocabulary builds a strategy that keeps only facts using words from vocab
// (or from the given domain) and reports the best of them.
func vocabulary(info Info, vocab map[string]bool, domain, prefix string, weight float64, describe func(in input) string) Strategy {
	return &builtin{
		info: info,
		run: func(ctx context.Context, in input) (draft, error) {
			facts, err := searchFacts(ctx, in)
			if err != nil {
				return draft{}, err
			}
			relevant := filterFacts(facts, func(f knowledge.Fact) bool {
				return hasAny(f.Content, vocab) || (domain != "" && strings.EqualFold(f.Domain, domain))
			})
			if len(relevant) == 0 {
				return draft{}, errNoKnowledge(strings.ToLower(info.Name) + " evidence")
			}
			i := bestFact(relevant)
			return draft{
				premises:     factPremises(relevant),
				evidence:     factEvidence(relevant),
				statement:    prefix + relevant[i].Content,
				reasoning:    describe(in),
				confidence:   weight * (0.5 + 0.5*relevant[i].Confidence) * (0.5 + 0.5*relevant[i].Score),
				alternatives: factAlternatives(relevant, i, 3),
			}, nil
		},
	}
}

func temporal() Strategy {
	return vocabulary(Info{
		Name: "Temporal", Category: CategoryTemporal, CognitiveCompatible: true, ConvergenceWeight: 0.65,
		UseCases: []string{"ordering", "forecasting", "trends"},
	}, temporalWords, "time", "Over time: ", 0.9, func(in input) string {
		if in.qc.Temporal.Horizon != "" {
			return "ordered relevant events within horizon " + in.qc.Temporal.Horizon
		}
		return "ordered relevant events by their temporal markers"
	})
}

func spatial() Strategy {
	return vocabulary(Info{
		Name: "Spatial", Category: CategorySpatial, CognitiveCompatible: true, ConvergenceWeight: 0.55,
		UseCases: []string{"location", "layout", "proximity"},
	}, spatialWords, "", "Spatially: ", 0.85, func(input) string {
		return "related entities by location and proximity"
	})
}

func ethical() Strategy {
	return vocabulary(Info{
		Name: "Ethical", Category: CategoryDomain, CognitiveCompatible: false, ConvergenceWeight: 0.5,
		UseCases: []string{"harm assessment", "obligations"},
	}, ethicalWords, "ethics", "Ethical consideration: ", 0.75, func(input) string {
		return "weighed harms and benefits named in relevant facts"
	})
}

// #endregion
