package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/cognitive"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/errs"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/performance"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/strategy"
)

func selectorFixture(t *testing.T) (*Selector, *cognitive.Manager, *performance.Tracker, []strategy.Strategy) {
	t.Helper()
	cog := cognitive.NewManager(cognitive.Options{Rand: cognitive.NewRand(11)})
	tr := performance.NewTracker()
	cands := []strategy.Strategy{stub("A", true, fixed(0.5)), stub("B", true, fixed(0.5))}
	return NewSelector(cog, tr), cog, tr, cands
}

func TestSelector_RoundRobinWithoutState(t *testing.T) {
	sel, _, _, cands := selectorFixture(t)
	for i, want := range []string{"A", "B", "A", "B", "A"} {
		c, err := sel.Next("", cands, i)
		require.NoError(t, err)
		assert.Equal(t, want, c.Strategy.Info().Name)
		assert.Nil(t, c.Enhancement)
		assert.Nil(t, c.Coherence)
	}
}

func TestSelector_PerformanceBias(t *testing.T) {
	sel, cog, tr, cands := selectorFixture(t)
	st, err := cog.CreateSuperposition([]string{"A", "B"})
	require.NoError(t, err)

	// A has history with zero success so its weight is 0; B keeps the 0.5 default.
	tr.Record("A", 0.2, time.Millisecond)
	for i := 0; i < 20; i++ {
		c, err := sel.Next(st.ID, cands, i)
		require.NoError(t, err)
		assert.Equal(t, "B", c.Strategy.Info().Name)
		require.NotNil(t, c.Enhancement)
		assert.InDelta(t, 0.5, *c.Enhancement, 1e-9, "share 1 minus 1/2")
	}

	got, err := cog.Get(st.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, got.MeasurementCount)
}

func TestSelector_ZeroWeightsFallBackToRoundRobin(t *testing.T) {
	sel, cog, tr, cands := selectorFixture(t)
	st, err := cog.CreateSuperposition([]string{"A", "B"})
	require.NoError(t, err)
	tr.Record("A", 0.1, 0)
	tr.Record("B", 0.1, 0)

	c, err := sel.Next(st.ID, cands, 3)
	require.NoError(t, err)
	assert.Equal(t, "B", c.Strategy.Info().Name)
	assert.Nil(t, c.Enhancement)
	require.NotNil(t, c.Coherence)
	assert.InDelta(t, 0.95, *c.Coherence, 1e-9, "the draw still counts as a measurement")
}

func TestSelector_UnknownStateFallsBack(t *testing.T) {
	sel, _, _, cands := selectorFixture(t)
	c, err := sel.Next("missing", cands, 1)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, "B", c.Strategy.Info().Name)
}
