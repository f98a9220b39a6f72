package cognitive

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/errs"
)

// #region helpers

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func sequentialIDs() func() string {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("state-%d", n.Add(1)) }
}

func newTestManager(opts Options) *Manager {
	if opts.NewID == nil {
		opts.NewID = sequentialIDs()
	}
	if opts.Rand == nil {
		opts.Rand = NewRand(42)
	}
	return NewManager(opts)
}

// #endregion

// #region superposition-tests

func TestCreateSuperposition(t *testing.T) {
	m := newTestManager(Options{})
	s, err := m.CreateSuperposition([]string{"A", "B"})
	require.NoError(t, err)

	assert.Equal(t, "state-1", s.ID)
	require.Len(t, s.Amplitudes, 2)
	for _, a := range s.Amplitudes {
		assert.InDelta(t, 0.70711, a.Confidence, 1e-5)
		assert.InDelta(t, 0.70711, a.Potential, 1e-5)
	}
	assert.Equal(t, 1.0, s.Coherence)
	assert.Equal(t, 0, s.MeasurementCount)
	assert.Equal(t, []string{"A", "B"}, s.Concepts)
}

func TestCreateSuperposition_Invalid(t *testing.T) {
	m := newTestManager(Options{})
	for _, concepts := range [][]string{nil, {}, {"A", "  "}} {
		_, err := m.CreateSuperposition(concepts)
		assert.ErrorIs(t, err, errs.ErrValidation)
	}
	assert.Equal(t, 0, m.Len())
}

func TestGet_ReturnsCopy(t *testing.T) {
	m := newTestManager(Options{})
	s, err := m.CreateSuperposition([]string{"A", "B"})
	require.NoError(t, err)
	s.Concepts[0] = "mutated"

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Concepts[0])
}

// #endregion

// #region resolve-tests

func TestResolve_HighestConfidenceTie(t *testing.T) {
	m := newTestManager(Options{})
	s, err := m.CreateSuperposition([]string{"A", "B"})
	require.NoError(t, err)

	res, err := m.Resolve(s.ID, MethodHighestConfidence)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, "A", res.Concept)
	assert.Equal(t, 0.9, res.Coherence)
	assert.Equal(t, 1, res.MeasurementCount)
	assert.Equal(t, 0.5, res.Probability)

	res, err = m.Resolve(s.ID, MethodHighestConfidence)
	require.NoError(t, err)
	assert.InDelta(t, 0.81, res.Coherence, 1e-12)
	assert.Equal(t, 2, res.MeasurementCount)
}

func TestResolve_WeightedRandomDistribution(t *testing.T) {
	m := newTestManager(Options{Rand: NewRand(7)})
	s, err := m.CreateSuperposition([]string{"A", "B"})
	require.NoError(t, err)

	const draws = 10000
	counts := [2]int{}
	for i := 0; i < draws; i++ {
		res, err := m.Resolve(s.ID, MethodWeightedRandom)
		require.NoError(t, err)
		counts[res.Index]++
	}
	for i, c := range counts {
		freq := float64(c) / draws
		assert.InDelta(t, 0.5, freq, 0.03, "index %d", i)
	}

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, draws, got.MeasurementCount)
	assert.LessOrEqual(t, got.Coherence, 1.0)
}

func TestResolve_Errors(t *testing.T) {
	m := newTestManager(Options{})
	_, err := m.Resolve("missing", MethodHighestConfidence)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	s, err := m.CreateSuperposition([]string{"A"})
	require.NoError(t, err)
	_, err = m.Resolve(s.ID, Method("loudest"))
	assert.ErrorIs(t, err, errs.ErrValidation)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Coherence, "rejected resolution leaves the state untouched")
}

// #endregion

// #region select-tests

func TestSelect(t *testing.T) {
	tests := []struct {
		name      string
		rand      Rand
		n         int
		bias      func(int) float64
		wantIndex int
		wantShare float64
	}{
		{"nil bias wraps amplitudes", fixedRand(0.99), 3, nil, 2, 1.0 / 3},
		{"lowest draw picks first", fixedRand(0), 3, nil, 0, 1.0 / 3},
		{"bias excludes zero weights", fixedRand(0), 2, func(i int) float64 { return float64(i) }, 1, 1},
		{"all zero falls through", fixedRand(0.5), 2, func(int) float64 { return 0 }, -1, 0},
		{"negative bias counts as zero", fixedRand(0.5), 2, func(i int) float64 { return float64(i*2 - 1) }, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestManager(Options{Rand: tt.rand})
			s, err := m.CreateSuperposition([]string{"A", "B"})
			require.NoError(t, err)

			sel, err := m.Select(s.ID, tt.n, tt.bias)
			require.NoError(t, err)
			assert.Equal(t, tt.wantIndex, sel.Index)
			assert.InDelta(t, tt.wantShare, sel.Share(), 1e-9)
			assert.Equal(t, 0.95, sel.Coherence)
			require.Len(t, sel.Weights, tt.n)
		})
	}
}

func TestSelect_Errors(t *testing.T) {
	m := newTestManager(Options{})
	_, err := m.Select("missing", 2, nil)
	assert.ErrorIs(t, err, errs.ErrNotFound)

	s, err := m.CreateSuperposition([]string{"A"})
	require.NoError(t, err)
	_, err = m.Select(s.ID, 0, nil)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

// #endregion

// #region link-tests

func TestLink(t *testing.T) {
	m := newTestManager(Options{})
	require.NoError(t, m.Link("rain", "wet streets"))
	require.NoError(t, m.Link("wet streets", "rain"))
	require.NoError(t, m.Link("rain", "clouds"))

	assert.Equal(t, []string{"clouds", "wet streets"}, m.Neighbors("rain"))
	assert.Equal(t, []string{"rain"}, m.Neighbors("wet streets"))
	assert.Empty(t, m.Neighbors("sun"))

	assert.ErrorIs(t, m.Link("rain", "rain"), errs.ErrValidation)
	assert.ErrorIs(t, m.Link("", "rain"), errs.ErrValidation)
}

func TestLinkStates(t *testing.T) {
	m := newTestManager(Options{})
	a, err := m.CreateSuperposition([]string{"A"})
	require.NoError(t, err)
	b, err := m.CreateSuperposition([]string{"B"})
	require.NoError(t, err)

	require.NoError(t, m.LinkStates(a.ID, b.ID))
	assert.Equal(t, []string{b.ID}, m.Neighbors(a.ID))
	assert.ErrorIs(t, m.LinkStates(a.ID, "missing"), errs.ErrNotFound)
	assert.ErrorIs(t, m.LinkStates("missing", b.ID), errs.ErrNotFound)
}

// #endregion

// #region store-tests

func TestStore_CapacityEviction(t *testing.T) {
	m := newTestManager(Options{MaxStates: 2})
	first, err := m.CreateSuperposition([]string{"A"})
	require.NoError(t, err)
	second, err := m.CreateSuperposition([]string{"B"})
	require.NoError(t, err)

	// touching first makes second the least recently used
	_, err = m.Get(first.ID)
	require.NoError(t, err)
	_, err = m.CreateSuperposition([]string{"C"})
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	_, err = m.Get(first.ID)
	assert.NoError(t, err)
	_, err = m.Resolve(second.ID, MethodHighestConfidence)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStore_IdleExpiry(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	m := newTestManager(Options{StateTTL: time.Minute, Now: clock.Now})

	s, err := m.CreateSuperposition([]string{"A", "B"})
	require.NoError(t, err)

	clock.Advance(50 * time.Second)
	_, err = m.Resolve(s.ID, MethodHighestConfidence)
	require.NoError(t, err, "access within ttl")
	clock.Advance(50 * time.Second)
	_, err = m.Get(s.ID)
	require.NoError(t, err, "idle timer refreshed by the previous access")

	clock.Advance(61 * time.Second)
	_, err = m.Get(s.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestStore_ExpirySweepOnCreate(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	m := newTestManager(Options{StateTTL: time.Minute, Now: clock.Now})
	for i := 0; i < 3; i++ {
		_, err := m.CreateSuperposition([]string{"A"})
		require.NoError(t, err)
	}
	clock.Advance(2 * time.Minute)
	_, err := m.CreateSuperposition([]string{"B"})
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
}

func TestStore_ConcurrentInsert(t *testing.T) {
	m := newTestManager(Options{})
	const workers = 50
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := m.CreateSuperposition([]string{"A", "B", "C"})
			if err == nil {
				ids[i] = s.ID
				_, _ = m.Resolve(s.ID, MethodWeightedRandom)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, workers, m.Len())
	for _, id := range ids {
		s, err := m.Get(id)
		require.NoError(t, err)
		assert.Equal(t, 1, s.MeasurementCount)
		assert.InDelta(t, 1/math.Sqrt(3), s.Amplitudes[0].Confidence, 1e-12)
	}
}

// #endregion
