package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesCategory(t *testing.T) {
	err := NotFound("cognitive.resolve", "unknown state", "state_id", "abc")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))

	wrapped := fmt.Errorf("tool call: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, CategoryNotFound, CategoryOf(wrapped))
}

func TestError_MessageIncludesSortedContext(t *testing.T) {
	err := Validation("orchestrator.execute", "goal is empty", "goal", "", "chain_id", "c1")
	assert.Equal(t, `orchestrator.execute: validation: goal is empty [chain_id=c1 goal=]`, err.Error())
}

func TestError_WrapUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CategoryUnavailable, "knowledge.search", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestError_WithCopiesContext(t *testing.T) {
	base := StrategyExecution("strategy.execute", "no facts", "strategy", "Causal")
	extended := base.With("chain_id", "c9")

	assert.NotContains(t, base.Context, "chain_id")
	assert.Equal(t, "c9", extended.Context["chain_id"])
	assert.Equal(t, "Causal", extended.Context["strategy"])
}

func TestCategoryOf_PlainError(t *testing.T) {
	assert.Equal(t, Category(""), CategoryOf(errors.New("plain")))
	assert.Equal(t, Category(""), CategoryOf(nil))
}
