package strategy

// #region imports
import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/chain"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/errs"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/knowledge"
)

// #endregion

// #region builtin-registry

// Builtin returns a sealed registry holding every built-in strategy.
func Builtin() *Registry {
	r := NewRegistry()
	for _, s := range builtins() {
		if err := r.Register(s); err != nil {
			// names below are static and unique
			panic(err)
		}
	}
	r.Seal()
	return r
}

func builtins() []Strategy {
	return []Strategy{
		deductive(), inductive(), abductive(), analogical(), causal(),
		probabilistic(), bayesian(), temporal(), spatial(), counterfactual(),
		dialectical(), systems(), metacognitive(), heuristic(), fuzzy(),
		modal(), financial(), scientific(), ethical(), legal(),
	}
}

// #endregion

// #region builtin-type

// input is what a built-in's run function sees.
type input struct {
	view  chain.View
	qc    Context
	kb    knowledge.Adapter
	query string
}

// draft is a built-in's raw result before it becomes a chain.Step.
type draft struct {
	premises     []chain.Premise
	evidence     []chain.Evidence
	statement    string
	reasoning    string
	confidence   float64
	alternatives []chain.Alternative
}

type builtin struct {
	info Info
	run  func(ctx context.Context, in input) (draft, error)
}

func (b *builtin) Info() Info {
	info := b.info
	info.UseCases = append([]string(nil), b.info.UseCases...)
	return info
}

func (b *builtin) ExecuteStep(ctx context.Context, view chain.View, qc Context, kb knowledge.Adapter) (chain.Step, error) {
	if err := ctx.Err(); err != nil {
		return chain.Step{}, b.fail(view, err)
	}
	if kb == nil {
		return chain.Step{}, b.fail(view, errs.StrategyExecution("strategy.execute", "no knowledge adapter"))
	}
	qc = qc.WithDefaults()
	query := view.Goal()
	if qc.Domain != "" {
		query += " " + qc.Domain
	}

	d, err := b.run(ctx, input{view: view, qc: qc, kb: kb, query: query})
	if err != nil {
		return chain.Step{}, b.fail(view, err)
	}

	conf := clamp01(d.confidence)
	ids := make([]string, 0, len(d.premises))
	for _, p := range d.premises {
		ids = append(ids, p.ID)
	}
	return chain.Step{
		Strategy: b.info.Name,
		Premises: d.premises,
		Evidence: d.evidence,
		Conclusion: chain.Conclusion{
			Statement:    d.statement,
			Confidence:   conf,
			Reasoning:    d.reasoning,
			PremiseIDs:   ids,
			Alternatives: d.alternatives,
		},
		Confidence: conf,
		Metadata:   chain.StepMetadata{ResourceCost: float64(len(d.premises) + len(d.evidence))},
	}, nil
}

// fail tags err as a strategy_execution error carrying strategy, goal and chain.
func (b *builtin) fail(view chain.View, err error) error {
	var e *errs.Error
	if errors.As(err, &e) && e.Category == errs.CategoryStrategyExecution {
		return e.With("strategy", b.info.Name).With("goal", view.Goal()).With("chain_id", view.ID())
	}
	return errs.Wrap(errs.CategoryStrategyExecution, "strategy.execute", err,
		"strategy", b.info.Name, "goal", view.Goal(), "chain_id", view.ID())
}

// #endregion

// #region failures

func errNoKnowledge(what string) error {
	return errs.StrategyExecution("strategy.execute", "no supporting "+what)
}

func errMissingCapability(capability string) error {
	return errs.StrategyExecution("strategy.execute", "knowledge adapter lacks "+capability)
}

// #endregion

// #region fact-helpers

func searchFacts(ctx context.Context, in input) ([]knowledge.Fact, error) {
	return in.kb.Search(ctx, in.query, in.qc.MaxFacts)
}

func factPremises(facts []knowledge.Fact) []chain.Premise {
	out := make([]chain.Premise, 0, len(facts))
	for _, f := range facts {
		out = append(out, chain.Premise{ID: "p-" + f.ID, Content: f.Content, Confidence: clamp01(f.Confidence), Source: chain.SourceKnowledge})
	}
	return out
}

func factEvidence(facts []knowledge.Fact) []chain.Evidence {
	out := make([]chain.Evidence, 0, len(facts))
	for _, f := range facts {
		out = append(out, chain.Evidence{ID: "e-" + f.ID, Content: f.Content, Strength: clamp01(f.Score * f.Confidence), Source: chain.SourceKnowledge})
	}
	return out
}

// stepPremises turns earlier step conclusions into inference premises.
func stepPremises(steps []chain.Step) []chain.Premise {
	out := make([]chain.Premise, 0, len(steps))
	for _, s := range steps {
		out = append(out, chain.Premise{ID: "p-" + s.ID, Content: s.Conclusion.Statement, Confidence: s.Confidence, Source: chain.SourceInference})
	}
	return out
}

func factAlternatives(facts []knowledge.Fact, skip, limit int) []chain.Alternative {
	var out []chain.Alternative
	for i, f := range facts {
		if i == skip {
			continue
		}
		out = append(out, chain.Alternative{Statement: f.Content, Score: clamp01(f.Score * f.Confidence)})
		if len(out) == limit {
			break
		}
	}
	return out
}

// bestFact returns the index of the fact with the highest score×confidence, first on ties.
func bestFact(facts []knowledge.Fact) int {
	best := 0
	for i, f := range facts {
		if f.Score*f.Confidence > facts[best].Score*facts[best].Confidence {
			best = i
		}
	}
	return best
}

func filterFacts(facts []knowledge.Fact, keep func(knowledge.Fact) bool) []knowledge.Fact {
	var out []knowledge.Fact
	for _, f := range facts {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func meanConfidence(facts []knowledge.Fact) float64 {
	if len(facts) == 0 {
		return 0
	}
	sum := 0.0
	for _, f := range facts {
		sum += f.Confidence
	}
	return sum / float64(len(facts))
}

// #endregion

// #region text-helpers

// words splits text into lowercase words without filtering stopwords.
func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func hasAny(text string, vocab map[string]bool) bool {
	for _, w := range words(text) {
		if vocab[w] {
			return true
		}
	}
	return false
}

func overlaps(a, b string) bool {
	return knowledge.SharedKeywords(knowledge.Tokenize(a), knowledge.Tokenize(b)) > 0
}

func slug(s string) string {
	return strings.Join(words(s), "-")
}

func distinctDomains(facts []knowledge.Fact) []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range facts {
		d := strings.ToLower(f.Domain)
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// #endregion

// #region math-helpers

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}

// #endregion
