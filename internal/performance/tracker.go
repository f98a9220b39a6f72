// Package performance keeps process-lifetime running statistics per strategy.
package performance

// #region imports
import (
	"sort"
	"sync"
	"time"
)

// #endregion

// #region record

// Record is the running aggregate for one strategy.
type Record struct {
	Strategy              string        `json:"strategy" yaml:"strategy"`
	TotalExecutions       int           `json:"total_executions" yaml:"total_executions"`
	AverageConfidence     float64       `json:"average_confidence" yaml:"average_confidence"`
	AverageProcessingTime time.Duration `json:"average_processing_time" yaml:"average_processing_time"`
	SuccessRate           float64       `json:"success_rate" yaml:"success_rate"`
}

const (
	// SuccessThreshold is the confidence at or above which a step counts as a success.
	SuccessThreshold = 0.7
	// DefaultWeight is the selection weight of a strategy with no history.
	DefaultWeight = 0.5
)

// aggregate holds online means in float64 nanoseconds to avoid truncation drift.
type aggregate struct {
	n       int
	conf    float64
	nanos   float64
	success float64
}

func (a *aggregate) record(name string) Record {
	return Record{
		Strategy:              name,
		TotalExecutions:       a.n,
		AverageConfidence:     a.conf,
		AverageProcessingTime: time.Duration(a.nanos),
		SuccessRate:           a.success,
	}
}

// #endregion

// #region tracker

// Tracker is shared by every chain. All methods are safe for concurrent use.
type Tracker struct {
	mu   sync.Mutex
	aggs map[string]*aggregate
}

func NewTracker() *Tracker {
	return &Tracker{aggs: make(map[string]*aggregate)}
}

// Record folds one execution into the strategy's aggregate and returns the update.
func (t *Tracker) Record(strategy string, confidence float64, latency time.Duration) Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.aggs[strategy]
	if !ok {
		a = &aggregate{}
		t.aggs[strategy] = a
	}
	a.n++
	n := float64(a.n)
	a.conf += (confidence - a.conf) / n
	a.nanos += (float64(latency) - a.nanos) / n
	hit := 0.0
	if confidence >= SuccessThreshold {
		hit = 1
	}
	a.success += (hit - a.success) / n
	return a.record(strategy)
}

// Get returns the strategy's aggregate, ok=false without history.
func (t *Tracker) Get(strategy string) (Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.aggs[strategy]
	if !ok {
		return Record{}, false
	}
	return a.record(strategy), true
}

// Weight is averageConfidence × successRate, DefaultWeight without history.
func (t *Tracker) Weight(strategy string) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	a, ok := t.aggs[strategy]
	if !ok || a.n == 0 {
		return DefaultWeight
	}
	return a.conf * a.success
}

// Snapshot returns every aggregate sorted by strategy name.
func (t *Tracker) Snapshot() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Record, 0, len(t.aggs))
	for name, a := range t.aggs {
		out = append(out, a.record(name))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Strategy < out[j].Strategy })
	return out
}

// #endregion
