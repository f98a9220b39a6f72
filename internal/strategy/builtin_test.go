package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/chain"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/errs"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/knowledge"
)

// #region helpers

// baseOnly hides every optional capability of the wrapped adapter.
type baseOnly struct{ knowledge.Adapter }

func execute(t *testing.T, name, goal string, qc Context, kb knowledge.Adapter) (chain.Step, error) {
	t.Helper()
	s, ok := Builtin().Lookup(name)
	require.True(t, ok, name)
	return s.ExecuteStep(context.Background(), chain.New("chain-1", goal, time.Unix(0, 0)), qc.WithDefaults(), kb)
}

func corpus() knowledge.Adapter {
	return knowledge.NewMemory(knowledge.DefaultCorpus())
}

// #endregion

// #region family-tests

func TestCausal_RainWetStreets(t *testing.T) {
	step, err := execute(t, "Causal", "Analyze causal link between rain and wet streets", Context{}, corpus())
	require.NoError(t, err)
	assert.Equal(t, "Causal", step.Strategy)
	assert.Equal(t, "Rain causes wet streets", step.Conclusion.Statement)
	assert.InDelta(t, 0.9, step.Confidence, 1e-9)
	assert.Len(t, step.Evidence, 2)
	require.NotEmpty(t, step.Premises)
	assert.Equal(t, "p-causal-rain-wet-streets", step.Premises[0].ID)
	assert.Equal(t, chain.SourceCausal, step.Premises[0].Source)
	assert.Equal(t, []string{"p-causal-rain-wet-streets", "p-causal-wet-streets-traffic-accidents"}, step.Conclusion.PremiseIDs)
}

func TestCausal_DepthFollowsEffects(t *testing.T) {
	qc := Context{Causal: CausalOptions{Cause: "rain"}, Depth: 2}
	step, err := execute(t, "Causal", "what does rain lead to", qc, corpus())
	require.NoError(t, err)
	assert.Len(t, step.Premises, 2, "rain -> wet streets -> traffic accidents")
}

func TestDeductive_AppliesDomainRule(t *testing.T) {
	step, err := execute(t, "Deductive", "Is a whale a mammal", Context{Domain: "biology"}, corpus())
	require.NoError(t, err)
	assert.Equal(t, "Therefore x is warm blooded", step.Conclusion.Statement)
	assert.InDelta(t, 0.95, step.Confidence, 1e-9)
	require.Len(t, step.Evidence, 1)
	assert.Equal(t, "e-f-whale", step.Evidence[0].ID)
}

func TestBayesian_Posterior(t *testing.T) {
	step, err := execute(t, "Bayesian", "rain", Context{}, corpus())
	require.NoError(t, err)
	assert.Contains(t, step.Conclusion.Statement, "Posterior 0.92")
	assert.InDelta(t, 0.8259, step.Confidence, 1e-3)
	assert.Equal(t, "p-prior", step.Premises[0].ID)
}

func TestMetacognitive_ReviewsChain(t *testing.T) {
	s, _ := Builtin().Lookup("Metacognitive")
	c := chain.New("chain-1", "review", time.Unix(0, 0))
	ctx := context.Background()

	_, err := s.ExecuteStep(ctx, c, Context{}.WithDefaults(), corpus())
	assert.ErrorIs(t, err, errs.ErrStrategyExecution)

	require.NoError(t, c.Append(chain.Step{ID: "s1", Strategy: "A", Confidence: 0.8, Conclusion: chain.Conclusion{Statement: "first"}}))
	require.NoError(t, c.Append(chain.Step{ID: "s2", Strategy: "B", Confidence: 0.6, Conclusion: chain.Conclusion{Statement: "second"}}))
	step, err := s.ExecuteStep(ctx, c, Context{}.WithDefaults(), corpus())
	require.NoError(t, err)
	assert.InDelta(t, 0.63, step.Confidence, 1e-9)
	assert.Equal(t, "Chain so far favours: first", step.Conclusion.Statement)
	assert.Equal(t, []string{"p-s1", "p-s2"}, step.Conclusion.PremiseIDs)
}

// #endregion

// #region failure-tests

func TestBuiltins_FailuresAreStrategyExecution(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		goal     string
		kb       knowledge.Adapter
	}{
		{"no facts", "Abductive", "zzz qqq", corpus()},
		{"no rules match", "Deductive", "zzz qqq", corpus()},
		{"causal capability missing", "Causal", "rain", baseOnly{corpus()}},
		{"statistics capability missing", "Bayesian", "rain", baseOnly{corpus()}},
		{"consistency capability missing", "Scientific", "rain", baseOnly{corpus()}},
		{"single observation", "Inductive", "whale ocean", corpus()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.strategy, tt.goal, Context{}, tt.kb)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrStrategyExecution)
			var e *errs.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.strategy, e.Context["strategy"])
			assert.Equal(t, "chain-1", e.Context["chain_id"])
		})
	}
}

func TestBuiltins_CancelledContext(t *testing.T) {
	s, _ := Builtin().Lookup("Abductive")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.ExecuteStep(ctx, chain.New("c", "rain", time.Unix(0, 0)), Context{}.WithDefaults(), corpus())
	assert.ErrorIs(t, err, errs.ErrStrategyExecution)
	assert.ErrorIs(t, err, context.Canceled)
}

// #endregion

// #region bounds-tests

func TestBuiltins_ConfidenceBounds(t *testing.T) {
	goals := []string{
		"Analyze causal link between rain and wet streets",
		"Should I invest when interest rates rise",
		"Is a whale a mammal",
		"What happens before noon every day",
		"Is the contract valid with offer and acceptance",
		"zzz",
	}
	r := Builtin()
	for _, name := range r.Names() {
		s, _ := r.Lookup(name)
		for _, goal := range goals {
			c := chain.New("c", goal, time.Unix(0, 0))
			require.NoError(t, c.Append(chain.Step{ID: "seed", Strategy: "seed", Confidence: 0.7}))
			step, err := s.ExecuteStep(context.Background(), c, Context{}.WithDefaults(), corpus())
			if err != nil {
				assert.ErrorIs(t, err, errs.ErrStrategyExecution, "%s / %s", name, goal)
				continue
			}
			assert.Equal(t, name, step.Strategy)
			assert.GreaterOrEqual(t, step.Confidence, 0.0, "%s / %s", name, goal)
			assert.LessOrEqual(t, step.Confidence, 1.0, "%s / %s", name, goal)
			assert.Equal(t, step.Confidence, step.Conclusion.Confidence)
			assert.NotEmpty(t, step.Conclusion.Statement)
			assert.Len(t, step.Conclusion.PremiseIDs, len(step.Premises))
		}
	}
}

// #endregion
