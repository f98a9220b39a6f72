package chain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/errs"
)

func sampleStep(id string, conf float64) Step {
	return Step{
		ID:         id,
		Strategy:   "Causal",
		Premises:   []Premise{{ID: id + "-p1", Content: "rain falls", Confidence: 0.9, Source: SourceKnowledge}},
		Evidence:   []Evidence{{ID: id + "-e1", Content: "streets observed wet", Strength: 0.8, Source: SourceKnowledge}},
		Conclusion: Conclusion{Statement: "rain wets streets", Confidence: conf, PremiseIDs: []string{id + "-p1"}},
		Confidence: conf,
	}
}

func TestChain_AppendCopiesStep(t *testing.T) {
	c := New("c1", "goal", time.Unix(0, 0))
	s := sampleStep("s1", 0.8)
	require.NoError(t, c.Append(s))

	s.Premises[0].Content = "mutated"
	s.Conclusion.PremiseIDs[0] = "mutated"

	got, ok := c.Step(0)
	require.True(t, ok)
	assert.Equal(t, "rain falls", got.Premises[0].Content)
	assert.Equal(t, "s1-p1", got.Conclusion.PremiseIDs[0])
}

func TestChain_ReadsReturnCopies(t *testing.T) {
	c := New("c1", "goal", time.Unix(0, 0))
	require.NoError(t, c.Append(sampleStep("s1", 0.8)))

	steps := c.Steps()
	steps[0].Evidence[0].Content = "mutated"

	last, ok := c.Last()
	require.True(t, ok)
	assert.Equal(t, "streets observed wet", last.Evidence[0].Content)
}

func TestChain_FinalizeOnce(t *testing.T) {
	c := New("c1", "goal", time.Unix(0, 0))
	require.NoError(t, c.Append(sampleStep("s1", 0.8)))
	require.NoError(t, c.Finalize(Conclusion{Statement: "done", Confidence: 0.88}, 0.9, time.Second))

	assert.True(t, c.Finalized())
	assert.Equal(t, 0.9, c.Metadata().ConvergenceScore)

	err := c.Finalize(Conclusion{Statement: "again"}, 0.1, 0)
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.ErrorIs(t, c.Append(sampleStep("s2", 0.5)), errs.ErrValidation)
	assert.Equal(t, "done", c.FinalConclusion().Statement)
	assert.Equal(t, 1, c.Len())
}

func TestChain_Coherence(t *testing.T) {
	c := New("c1", "goal", time.Unix(0, 0))
	_, ok := c.Coherence()
	assert.False(t, ok)
	assert.Error(t, c.SetCoherence(0.5), "no state attached yet")

	require.NoError(t, c.AttachCognitiveState("st1", 1.0))
	require.NoError(t, c.SetCoherence(0.95))
	got, ok := c.Coherence()
	assert.True(t, ok)
	assert.Equal(t, 0.95, got)
	assert.Equal(t, "st1", c.CognitiveStateID())
}

func TestChain_StepOutOfRange(t *testing.T) {
	c := New("c1", "goal", time.Unix(0, 0))
	_, ok := c.Last()
	assert.False(t, ok)
	_, ok = c.Step(3)
	assert.False(t, ok)
}

func TestChain_MarshalJSON(t *testing.T) {
	c := New("c1", "why are streets wet", time.Unix(0, 0).UTC())
	require.NoError(t, c.Append(sampleStep("s1", 0.8)))

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "c1", decoded["id"])
	assert.Len(t, decoded["steps"], 1)
	assert.NotContains(t, decoded, "final_conclusion")
}

func TestChain_ViewIsReadOnly(t *testing.T) {
	c := New("c1", "goal", time.Unix(0, 0))
	require.NoError(t, c.Append(sampleStep("s1", 0.8)))

	v := c.View()
	_, isChain := v.(*Chain)
	assert.False(t, isChain)
	assert.Equal(t, 1, v.Len())

	require.NoError(t, c.Append(sampleStep("s2", 0.6)))
	last, ok := v.Last()
	require.True(t, ok)
	assert.Equal(t, "s2", last.ID, "view tracks the live chain")
}
