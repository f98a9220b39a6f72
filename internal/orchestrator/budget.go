package orchestrator

// #region budget

// stepBudget bounds strategy dispatches for one chain. Failed attempts consume
// budget like successful ones so a chain of failures still terminates.
type stepBudget struct {
	max      int
	used     int
	failures int
}

func newStepBudget(limit int) *stepBudget {
	return &stepBudget{max: limit}
}

// take reserves the next dispatch and returns its iteration index, ok=false when spent.
func (b *stepBudget) take() (int, bool) {
	if b.used >= b.max {
		return 0, false
	}
	b.used++
	return b.used - 1, true
}

func (b *stepBudget) fail() { b.failures++ }

// #endregion
