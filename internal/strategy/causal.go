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

// #region link-helpers

// causalLinks fetches links for the context's cause/effect (the query when no
// cause is given) and follows effects depth-1 further hops.
func causalLinks(ctx context.Context, in input) ([]knowledge.CausalLink, error) {
	cp, ok := in.kb.(knowledge.CausalProvider)
	if !ok {
		return nil, errMissingCapability("causal relationships")
	}
	cause := in.qc.Causal.Cause
	if cause == "" {
		cause = in.query
	}
	links, err := cp.CausalRelationships(ctx, cause, in.qc.Causal.Effect)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(links))
	for _, l := range links {
		seen[linkKey(l)] = true
	}
	frontier := links
	for hop := 1; hop < in.qc.Depth && len(frontier) > 0; hop++ {
		var next []knowledge.CausalLink
		for _, l := range frontier {
			more, err := cp.CausalRelationships(ctx, l.Effect, "")
			if err != nil {
				return nil, err
			}
			for _, m := range more {
				if !seen[linkKey(m)] {
					seen[linkKey(m)] = true
					next = append(next, m)
				}
			}
		}
		links = append(links, next...)
		frontier = next
	}
	return links, nil
}

func linkKey(l knowledge.CausalLink) string {
	return strings.ToLower(l.Cause) + "|" + strings.ToLower(l.Effect)
}

func linkID(l knowledge.CausalLink) string {
	return slug(l.Cause) + "-" + slug(l.Effect)
}

func strongestLink(links []knowledge.CausalLink) int {
	best := 0
	for i, l := range links {
		if l.Strength > links[best].Strength {
			best = i
		}
	}
	return best
}

func linkPremises(links []knowledge.CausalLink) []chain.Premise {
	out := make([]chain.Premise, 0, len(links))
	for _, l := range links {
		out = append(out, chain.Premise{
			ID: "p-causal-" + linkID(l), Content: l.Cause + " -> " + l.Effect,
			Confidence: clamp01(l.Strength), Source: chain.SourceCausal,
		})
	}
	return out
}

func linkEvidence(links []knowledge.CausalLink) []chain.Evidence {
	out := make([]chain.Evidence, 0, len(links))
	for _, l := range links {
		content := l.Mechanism
		if content == "" {
			content = l.Cause + " precedes " + l.Effect
		}
		out = append(out, chain.Evidence{
			ID: "e-causal-" + linkID(l), Content: content,
			Strength: clamp01(l.Strength), Source: chain.SourceCausal,
		})
	}
	return out
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// #endregion

// #region causal

func causal() Strategy {
	return &builtin{
		info: Info{
			Name: "Causal", Category: CategoryCausal, CognitiveCompatible: true, ConvergenceWeight: 0.85,
			UseCases: []string{"cause and effect", "root cause analysis"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			links, err := causalLinks(ctx, in)
			if err != nil {
				return draft{}, err
			}
			if len(links) == 0 {
				return draft{}, errNoKnowledge("causal links")
			}
			i := strongestLink(links)
			top := links[i]
			var alts []chain.Alternative
			for j, l := range links {
				if j != i && len(alts) < 3 {
					alts = append(alts, chain.Alternative{Statement: upperFirst(l.Cause) + " causes " + l.Effect, Score: clamp01(l.Strength)})
				}
			}
			reasoning := fmt.Sprintf("strongest of %d causal links", len(links))
			if top.Mechanism != "" {
				reasoning += ": " + top.Mechanism
			}
			return draft{
				premises:     linkPremises(links),
				evidence:     linkEvidence(links),
				statement:    upperFirst(top.Cause) + " causes " + top.Effect,
				reasoning:    reasoning,
				confidence:   top.Strength,
				alternatives: alts,
			}, nil
		},
	}
}

// #endregion

// #region counterfactual

func counterfactual() Strategy {
	return &builtin{
		info: Info{
			Name: "Counterfactual", Category: CategoryCausal, CognitiveCompatible: true, ConvergenceWeight: 0.6,
			UseCases: []string{"what-if analysis", "necessity of causes"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			links, err := causalLinks(ctx, in)
			if err != nil {
				return draft{}, err
			}
			if len(links) == 0 {
				return draft{}, errNoKnowledge("causal links")
			}
			top := links[strongestLink(links)]

			// other facts producing the same effect weaken the counterfactual
			facts, err := in.kb.Search(ctx, top.Effect, in.qc.MaxFacts)
			if err != nil {
				return draft{}, err
			}
			rivals := filterFacts(facts, func(f knowledge.Fact) bool { return !overlaps(top.Cause, f.Content) })
			conf := 0.8 * top.Strength * math.Max(0, 1-0.1*float64(len(rivals)))

			return draft{
				premises:     append(linkPremises(links), factPremises(rivals)...),
				evidence:     linkEvidence(links),
				statement:    fmt.Sprintf("Without %s, %s would likely not occur", top.Cause, top.Effect),
				reasoning:    fmt.Sprintf("removing the cause breaks the link; %d alternative causes remain", len(rivals)),
				confidence:   conf,
				alternatives: factAlternatives(rivals, -1, 3),
			}, nil
		},
	}
}

// #endregion

// #region systems

func systems() Strategy {
	return &builtin{
		info: Info{
			Name: "Systems", Category: CategoryCausal, CognitiveCompatible: true, ConvergenceWeight: 0.65,
			UseCases: []string{"feedback loops", "interdependencies"},
		},
		run: func(ctx context.Context, in input) (draft, error) {
			facts, err := searchFacts(ctx, in)
			if err != nil {
				return draft{}, err
			}
			if len(facts) == 0 {
				return draft{}, errNoKnowledge("facts")
			}
			var links []knowledge.CausalLink
			if _, ok := in.kb.(knowledge.CausalProvider); ok {
				if links, err = causalLinks(ctx, in); err != nil {
					return draft{}, err
				}
			}
			domains := distinctDomains(facts)
			breadth := math.Min(1, 0.5+0.15*float64(len(domains))+0.05*float64(len(links)))
			return draft{
				premises:     append(factPremises(facts), linkPremises(links)...),
				evidence:     append(factEvidence(facts), linkEvidence(links)...),
				statement:    fmt.Sprintf("System view: %s (interacting with %s)", facts[0].Content, strings.Join(domains, ", ")),
				reasoning:    fmt.Sprintf("%d facts across %d domains and %d causal links", len(facts), len(domains), len(links)),
				confidence:   meanConfidence(facts) * breadth,
				alternatives: factAlternatives(facts, 0, 3),
			}, nil
		},
	}
}

// #endregion
