package performance

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_OnlineMeans(t *testing.T) {
	tr := NewTracker()
	tr.Record("Causal", 0.9, 10*time.Millisecond)
	tr.Record("Causal", 0.5, 30*time.Millisecond)
	rec := tr.Record("Causal", 0.7, 20*time.Millisecond)

	assert.Equal(t, 3, rec.TotalExecutions)
	assert.InDelta(t, 0.7, rec.AverageConfidence, 1e-9)
	assert.Equal(t, 20*time.Millisecond, rec.AverageProcessingTime)
	assert.InDelta(t, 2.0/3, rec.SuccessRate, 1e-9, "0.7 counts as a success")

	got, ok := tr.Get("Causal")
	require.True(t, ok)
	assert.Equal(t, rec, got)
}

func TestTracker_Weight(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, DefaultWeight, tr.Weight("Unknown"))

	tr.Record("Deductive", 0.8, time.Millisecond)
	tr.Record("Deductive", 0.4, time.Millisecond)
	// avg 0.6 × success 0.5
	assert.InDelta(t, 0.3, tr.Weight("Deductive"), 1e-9)

	tr.Record("Heuristic", 0.2, time.Millisecond)
	assert.Equal(t, 0.0, tr.Weight("Heuristic"))
}

func TestTracker_Snapshot(t *testing.T) {
	tr := NewTracker()
	tr.Record("Zeta", 1, 0)
	tr.Record("Alpha", 1, 0)
	snap := tr.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "Alpha", snap[0].Strategy)
	assert.Equal(t, "Zeta", snap[1].Strategy)

	_, ok := tr.Get("Missing")
	assert.False(t, ok)
}

func TestTracker_ConcurrentUpdates(t *testing.T) {
	tr := NewTracker()
	const chains, steps = 50, 5
	var wg sync.WaitGroup
	for i := 0; i < chains; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < steps; j++ {
				tr.Record("Causal", 0.8, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	rec, ok := tr.Get("Causal")
	require.True(t, ok)
	assert.Equal(t, chains*steps, rec.TotalExecutions)
	assert.InDelta(t, 0.8, rec.AverageConfidence, 1e-9)
	assert.InDelta(t, 1.0, rec.SuccessRate, 1e-9)
}
