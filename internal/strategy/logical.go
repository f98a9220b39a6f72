package strategy

// #region imports
import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/chain"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/knowledge"
)

// #endregion

// #region rule-helpers

// matchingRules keeps rules whose condition or conclusion shares a token with
// query, ordered by confidence (stable).
func matchingRules(rules []knowledge.Rule, query string) []knowledge.Rule {
	var out []knowledge.Rule
	for _, r := range rules {
		if overlaps(query, r.Condition+" "+r.Conclusion) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Confidence > out[j].Confidence })
	return out
}

func rulePremises(rules []knowledge.Rule) []chain.Premise {
	out := make([]chain.Premise, 0, len(rules))
	for _, r := range rules {
		out = append(out, chain.Premise{
			ID:         "p-" + r.ID,
			Content:    "if " + r.Condition + " then " + r.Conclusion,
			Confidence: clamp01(r.Confidence),
			Source:     chain.SourceRule,
		})
	}
	return out
}

func ruleAlternatives(rules []knowledge.Rule, limit int) []chain.Alternative {
	var out []chain.Alternative
	for _, r := range rules {
		if len(out) == limit {
			break
		}
		out = append(out, chain.Alternative{Statement: r.Conclusion, Score: clamp01(r.Confidence)})
	}
	return out
}

// #endregion

// #region deductive

func deductive() Strategy {
	return &builtin{
		info: Info{
			Name: "Deductive", Category: CategoryLogical, CognitiveCompatible: true, ConvergenceWeight: 0.9,
			UseCases: []string{"rule application", "formal entailment"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			rules, err := in.kb.Rules(ctx, in.qc.Domain)
			if err != nil {
				return draft{}, err
			}
			matched := matchingRules(rules, in.query)
			if len(matched) == 0 {
				return draft{}, errNoKnowledge("rules")
			}
			top := matched[0]
			observed, err := in.kb.Search(ctx, top.Condition, in.qc.MaxFacts)
			if err != nil {
				return draft{}, err
			}
			conf := top.Confidence
			if len(observed) == 0 {
				// condition never observed; the rule still applies hypothetically
				conf *= 0.8
			}
			return draft{
				premises:     rulePremises(matched),
				evidence:     factEvidence(observed),
				statement:    "Therefore " + top.Conclusion,
				reasoning:    fmt.Sprintf("If %s then %s (rule %s)", top.Condition, top.Conclusion, top.ID),
				confidence:   conf,
				alternatives: ruleAlternatives(matched[1:], 3),
			}, nil
		},
	}
}

// #endregion

// #region modal

func modal() Strategy {
	return &builtin{
		info: Info{
			Name: "Modal", Category: CategoryLogical, CognitiveCompatible: true, ConvergenceWeight: 0.55,
			UseCases: []string{"necessity", "possibility"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			facts, err := searchFacts(ctx, in)
			if err != nil {
				return draft{}, err
			}
			if len(facts) == 0 {
				return draft{}, errNoKnowledge("facts")
			}
			i := bestFact(facts)
			top := facts[i]
			d := draft{
				premises:     factPremises(facts),
				evidence:     factEvidence(facts[i : i+1]),
				alternatives: factAlternatives(facts, i, 3),
			}
			if top.Confidence >= 0.9 && top.Score >= 0.5 {
				d.statement = "Necessarily, " + lowerFirst(top.Content)
				d.reasoning = "holds in every accessible case the knowledge base describes"
				d.confidence = 0.9 * top.Confidence
			} else {
				d.statement = "Possibly, " + lowerFirst(top.Content)
				d.reasoning = "holds in at least one accessible case"
				d.confidence = 0.6 * top.Confidence
			}
			return d, nil
		},
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// #endregion

// #region legal

func legal() Strategy {
	return &builtin{
		info: Info{
			Name: "Legal", Category: CategoryDomain, CognitiveCompatible: false, ConvergenceWeight: 0.65,
			UseCases: []string{"contracts", "liability", "regulation"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			domain := in.qc.Domain
			if domain == "" {
				domain = "law"
			}
			rules, err := in.kb.Rules(ctx, domain)
			if err != nil {
				return draft{}, err
			}
			facts, err := searchFacts(ctx, in)
			if err != nil {
				return draft{}, err
			}
			facts = filterFacts(facts, func(f knowledge.Fact) bool { return strings.EqualFold(f.Domain, domain) })
			matched := matchingRules(rules, in.query)

			switch {
			case len(matched) > 0:
				top := matched[0]
				support := 0.7
				if len(facts) > 0 {
					support = 1
				}
				return draft{
					premises:     append(rulePremises(matched), factPremises(facts)...),
					evidence:     factEvidence(facts),
					statement:    "Under " + top.ID + ", " + top.Conclusion,
					reasoning:    "the governing rule requires that " + top.Condition,
					confidence:   top.Confidence * support,
					alternatives: ruleAlternatives(matched[1:], 3),
				}, nil
			case len(facts) > 0:
				top := facts[0]
				return draft{
					premises:     factPremises(facts),
					evidence:     factEvidence(facts),
					statement:    "Legal position: " + top.Content,
					reasoning:    "no rule applies directly; relying on recorded doctrine",
					confidence:   0.7 * top.Confidence,
					alternatives: factAlternatives(facts, 0, 3),
				}, nil
			}
			return draft{}, errNoKnowledge("legal rules or facts")
		},
	}
}

// #endregion
