// Package chain holds the append-only record of reasoning steps pursuing one goal.
package chain

// #region imports
import (
	"encoding/json"
	"time"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/errs"
)

// #endregion

// #region chain-struct

// Chain is owned by a single orchestrator invocation. It is not safe for
// concurrent mutation; after Finalize it is read-only.
type Chain struct {
	id        string
	goal      string
	steps     []Step
	stateID   string
	coherence *float64
	final     *Conclusion
	meta      Metadata
}

// New creates an empty chain.
func New(id, goal string, createdAt time.Time) *Chain {
	return &Chain{
		id:   id,
		goal: goal,
		meta: Metadata{CreatedAt: createdAt},
	}
}

// #endregion

// #region view-accessors

func (c *Chain) ID() string   { return c.id }
func (c *Chain) Goal() string { return c.goal }
func (c *Chain) Len() int     { return len(c.steps) }

// Steps returns a deep copy of the step sequence.
func (c *Chain) Steps() []Step {
	out := make([]Step, len(c.steps))
	for i, s := range c.steps {
		out[i] = cloneStep(s)
	}
	return out
}

// Step returns a copy of the i-th step.
func (c *Chain) Step(i int) (Step, bool) {
	if i < 0 || i >= len(c.steps) {
		return Step{}, false
	}
	return cloneStep(c.steps[i]), true
}

// Last returns a copy of the most recent step.
func (c *Chain) Last() (Step, bool) {
	return c.Step(len(c.steps) - 1)
}

func (c *Chain) Coherence() (float64, bool) {
	if c.coherence == nil {
		return 0, false
	}
	return *c.coherence, true
}

// CognitiveStateID returns the attached state id, "" if none.
func (c *Chain) CognitiveStateID() string { return c.stateID }

// FinalConclusion returns the synthesized conclusion, nil before Finalize.
func (c *Chain) FinalConclusion() *Conclusion {
	if c.final == nil {
		return nil
	}
	cp := cloneConclusion(*c.final)
	return &cp
}

func (c *Chain) Metadata() Metadata { return c.meta }
func (c *Chain) Finalized() bool    { return c.final != nil }

// View returns a read-only handle that cannot be asserted back to *Chain.
func (c *Chain) View() View { return readOnly{c: c} }

type readOnly struct{ c *Chain }

func (r readOnly) ID() string                 { return r.c.ID() }
func (r readOnly) Goal() string               { return r.c.Goal() }
func (r readOnly) Len() int                   { return r.c.Len() }
func (r readOnly) Steps() []Step              { return r.c.Steps() }
func (r readOnly) Step(i int) (Step, bool)    { return r.c.Step(i) }
func (r readOnly) Last() (Step, bool)         { return r.c.Last() }
func (r readOnly) Coherence() (float64, bool) { return r.c.Coherence() }

// #endregion

// #region mutators

// AttachCognitiveState links the chain to a cognitive state and records its coherence.
func (c *Chain) AttachCognitiveState(stateID string, coherence float64) error {
	if c.final != nil {
		return errFinalized(c.id, "attach cognitive state")
	}
	c.stateID = stateID
	c.coherence = &coherence
	return nil
}

// SetCoherence refreshes the coherence snapshot after a measurement.
func (c *Chain) SetCoherence(coherence float64) error {
	if c.final != nil {
		return errFinalized(c.id, "set coherence")
	}
	if c.stateID == "" {
		return errs.Validation("chain.set_coherence", "chain has no cognitive state", "chain_id", c.id)
	}
	c.coherence = &coherence
	return nil
}

// Append adds a step. The step is copied so later caller mutation has no effect.
func (c *Chain) Append(s Step) error {
	if c.final != nil {
		return errFinalized(c.id, "append")
	}
	c.steps = append(c.steps, cloneStep(s))
	return nil
}

// Finalize sets the final conclusion exactly once.
func (c *Chain) Finalize(conclusion Conclusion, convergenceScore float64, total time.Duration) error {
	if c.final != nil {
		return errFinalized(c.id, "finalize")
	}
	cp := cloneConclusion(conclusion)
	c.final = &cp
	c.meta.ConvergenceScore = convergenceScore
	c.meta.TotalProcessingTime = total
	return nil
}

func errFinalized(id, op string) error {
	return errs.Validation("chain."+op, "chain already finalized", "chain_id", id)
}

// #endregion

// #region json

type chainJSON struct {
	ID               string      `json:"id"`
	Goal             string      `json:"goal"`
	Steps            []Step      `json:"steps"`
	CognitiveStateID string      `json:"cognitive_state_id,omitempty"`
	Coherence        *float64    `json:"coherence,omitempty"`
	FinalConclusion  *Conclusion `json:"final_conclusion,omitempty"`
	Metadata         Metadata    `json:"metadata"`
}

// MarshalJSON exposes the chain for tool and CLI output.
func (c *Chain) MarshalJSON() ([]byte, error) {
	steps := c.Steps()
	return json.Marshal(chainJSON{
		ID:               c.id,
		Goal:             c.goal,
		Steps:            steps,
		CognitiveStateID: c.stateID,
		Coherence:        c.coherence,
		FinalConclusion:  c.FinalConclusion(),
		Metadata:         c.meta,
	})
}

// #endregion

// #region clone

func cloneStep(s Step) Step {
	out := s
	out.Premises = append([]Premise(nil), s.Premises...)
	out.Evidence = append([]Evidence(nil), s.Evidence...)
	out.Conclusion = cloneConclusion(s.Conclusion)
	if s.CognitiveEnhancement != nil {
		v := *s.CognitiveEnhancement
		out.CognitiveEnhancement = &v
	}
	return out
}

func cloneConclusion(c Conclusion) Conclusion {
	out := c
	out.PremiseIDs = append([]string(nil), c.PremiseIDs...)
	out.Alternatives = append([]Alternative(nil), c.Alternatives...)
	return out
}

// #endregion
