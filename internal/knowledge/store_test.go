package knowledge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Seed(context.Background(), DefaultCorpus()))
	return s
}

func TestStore_SearchMatchesMemory(t *testing.T) {
	s := newTestStore(t)
	m := NewMemory(DefaultCorpus())
	ctx := context.Background()

	for _, q := range []string{"rain wet streets", "interest rates borrowing money", "whale mammal"} {
		t.Run(q, func(t *testing.T) {
			fromStore, err := s.Search(ctx, q, 3)
			require.NoError(t, err)
			fromMemory, err := m.Search(ctx, q, 3)
			require.NoError(t, err)

			storeIDs := make([]string, len(fromStore))
			for i, f := range fromStore {
				storeIDs[i] = f.ID
			}
			memIDs := make([]string, len(fromMemory))
			for i, f := range fromMemory {
				memIDs[i] = f.ID
			}
			assert.Equal(t, memIDs, storeIDs)
		})
	}
}

func TestStore_SeedIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx, DefaultCorpus()))

	rules, err := s.Rules(ctx, "")
	require.NoError(t, err)
	assert.Len(t, rules, len(DefaultCorpus().Rules))
}

func TestStore_RulesByDomain(t *testing.T) {
	s := newTestStore(t)
	rules, err := s.Rules(context.Background(), "FINANCE")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "r-rate-borrow", rules[0].ID)
}

func TestStore_ReinforceLinkCapsAtOne(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ReinforceLink(ctx, "rain", "wet streets", 0.5))
	links, err := s.CausalRelationships(ctx, "rain", "wet streets")
	require.NoError(t, err)
	require.NotEmpty(t, links)
	assert.Equal(t, 1.0, links[0].Strength)

	require.NoError(t, s.ReinforceLink(ctx, "drought", "crop failure", 0.2))
	links, err = s.CausalRelationships(ctx, "drought", "")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.InDelta(t, 0.2, links[0].Strength, 1e-9)
}

func TestStore_StatisticsAndConsistency(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stats, err := s.Statistics(ctx, "market")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "annual_volatility", stats[0].Metric)

	ok, err := s.ValidateConsistency(ctx, "Rain does not make streets wet", "weather")
	require.NoError(t, err)
	assert.False(t, ok)
}
