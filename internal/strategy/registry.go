// Package strategy defines the reasoning strategy contract, the registry that
// holds strategies by name, and the built-in strategy set.
package strategy

// #region imports
import (
	"sort"
	"strings"
	"sync"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/errs"
)

// #endregion

// #region registry-struct

// Registry maps strategy names to instances. Names are unique case-insensitively.
// Once sealed it is read-only and safe to share across chains.
type Registry struct {
	mu     sync.RWMutex
	byKey  map[string]Strategy
	sealed bool
}

// NewRegistry creates an empty, unsealed registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Strategy)}
}

// #endregion

// #region register

// Register adds s. Empty names, duplicates and registration after Seal are rejected.
func (r *Registry) Register(s Strategy) error {
	info := s.Info()
	name := strings.TrimSpace(info.Name)
	if name == "" {
		return errs.Validation("strategy.register", "strategy name is empty")
	}
	if info.ConvergenceWeight < 0 || info.ConvergenceWeight > 1 {
		return errs.Validation("strategy.register", "convergence weight out of range", "strategy", name, "weight", info.ConvergenceWeight)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return errs.Validation("strategy.register", "registry is sealed", "strategy", name)
	}
	key := strings.ToLower(name)
	if _, exists := r.byKey[key]; exists {
		return errs.Validation("strategy.register", "duplicate strategy name", "strategy", name)
	}
	r.byKey[key] = s
	return nil
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// #endregion

// #region lookup

// Lookup finds a strategy by name, ignoring case.
func (r *Registry) Lookup(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byKey[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// Len returns the number of registered strategies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	return r.names(func(Info) bool { return true })
}

// Compatible returns the names of cognitively compatible strategies, sorted.
func (r *Registry) Compatible() []string {
	return r.names(func(i Info) bool { return i.CognitiveCompatible })
}

// Infos returns metadata for every strategy, sorted by name.
func (r *Registry) Infos() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.byKey))
	for _, s := range r.byKey {
		out = append(out, s.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Registry) names(keep func(Info) bool) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, s := range r.byKey {
		if info := s.Info(); keep(info) {
			out = append(out, info.Name)
		}
	}
	sort.Strings(out)
	return out
}

// #endregion
