package orchestrator

// #region imports
import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/strategy"
)

// #endregion

// #region keywords

// baseStrategies are always candidates when the caller names none.
var baseStrategies = []string{"Abductive", "Probabilistic"}

// familyRule adds strategies when the goal mentions one of its keywords.
type familyRule struct {
	family     string
	keywords   []string
	strategies []string
}

var familyRules = []familyRule{
	{"temporal", []string{"time", "timeline", "when", "before", "after", "history", "future", "forecast", "trend over"}, []string{"Temporal"}},
	{"financial", []string{"financial", "finance", "investment", "invest", "market", "stock", "price", "budget", "revenue", "interest rates"}, []string{"Financial"}},
	{"causal", []string{"cause", "causes", "causal", "because", "effect", "effects", "impact", "leads to", "results in", "why"}, []string{"Causal"}},
	{"logical", []string{"logic", "logical", "prove", "proof", "therefore", "implies", "deduce", "necessarily"}, []string{"Modal"}},
	{"inductive", []string{"pattern", "patterns", "generalize", "observations", "usually", "examples"}, []string{"Inductive"}},
	{"analogical", []string{"similar", "analogy", "analogous", "compare", "comparison", "resembles", "like"}, []string{"Analogical"}},
	{"probabilistic", []string{"probability", "likely", "likelihood", "chance", "odds", "uncertain", "bayesian", "posterior"}, []string{"Bayesian"}},
	{"counterfactual", []string{"what if", "would have", "if only", "had not", "counterfactual", "otherwise"}, []string{"Counterfactual"}},
	{"ethical", []string{"ethical", "ethics", "moral", "morally", "ought", "fair", "unfair", "justice"}, []string{"Ethical"}},
	{"legal", []string{"legal", "law", "laws", "contract", "liability", "statute", "court", "regulation"}, []string{"Legal"}},
	{"scientific", []string{"hypothesis", "experiment", "scientific", "theory", "evidence", "test"}, []string{"Scientific"}},
	{"systems", []string{"system", "systems", "feedback", "network", "ecosystem", "interdependent", "loop"}, []string{"Systems"}},
	{"spatial", []string{"where", "location", "distance", "spatial", "near", "region", "map"}, []string{"Spatial"}},
}

// #endregion

// #region auto-select

// autoSelect derives a candidate set from the goal. Deductive joins when the
// knowledge adapter has rules for the request domain.
func (o *Orchestrator) autoSelect(ctx context.Context, goal string, qc strategy.Context, cognitiveOn bool) []strategy.Strategy {
	text := " " + strings.Join(goalWords(goal), " ") + " "

	names := append([]string(nil), baseStrategies...)
	for _, rule := range familyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, " "+kw+" ") {
				names = append(names, rule.strategies...)
				break
			}
		}
	}
	if qc.Domain != "" {
		rules, err := o.kb.Rules(ctx, qc.Domain)
		if err != nil {
			o.log.Debug("rule probe failed", zap.String("domain", qc.Domain), zap.Error(err))
		} else if len(rules) > 0 {
			names = append(names, "Deductive")
		}
	}

	picked := o.resolveNames(names, cognitiveOn)
	if len(picked) == 0 {
		// nothing from the table is registered, or nothing survived the filter
		if cognitiveOn {
			picked = o.resolveNames(o.registry.Compatible(), true)
		} else {
			picked = o.resolveNames(o.registry.Names(), false)
		}
	}
	if len(picked) > o.maxAuto {
		picked = picked[:o.maxAuto]
	}
	return picked
}

// resolveNames looks names up in order, dropping unknown and duplicate entries
// and, when compatibleOnly, strategies that are not cognitively compatible.
func (o *Orchestrator) resolveNames(names []string, compatibleOnly bool) []strategy.Strategy {
	seen := make(map[string]bool, len(names))
	out := make([]strategy.Strategy, 0, len(names))
	for _, n := range names {
		s, ok := o.registry.Lookup(n)
		if !ok {
			continue
		}
		info := s.Info()
		if seen[info.Name] || (compatibleOnly && !info.CognitiveCompatible) {
			continue
		}
		seen[info.Name] = true
		out = append(out, s)
	}
	return out
}

func goalWords(goal string) []string {
	return strings.FieldsFunc(strings.ToLower(goal), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// #endregion
