// Package cognitive holds superposition states over concept or strategy sets,
// their resolution policies, and the concept link graph.
package cognitive

// #region imports
import (
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/errs"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/metrics"
)

// #endregion

// #region manager

// decoherenceRate is the per-resolution coherence loss (1 - ResolveDecay).
const decoherenceRate = 0.1

// Manager owns the bounded state store and the link graph. Safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	states *simplelru.LRU[string, *State]
	ttl    time.Duration
	rng    Rand
	now    func() time.Time
	newID  func() string
	log    *zap.Logger

	linkMu sync.RWMutex
	links  map[string]map[string]struct{}
}

// NewManager creates a Manager with opts, filling defaults for zero values.
func NewManager(opts Options) *Manager {
	if opts.MaxStates <= 0 {
		opts.MaxStates = DefaultMaxStates
	}
	if opts.StateTTL == 0 {
		opts.StateTTL = DefaultStateTTL
	}
	if opts.Rand == nil {
		opts.Rand = NewRand(0)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	// only fails for a non-positive size
	states, _ := simplelru.NewLRU[string, *State](opts.MaxStates, nil)
	return &Manager{
		states: states,
		ttl:    opts.StateTTL,
		rng:    opts.Rand,
		now:    opts.Now,
		newID:  opts.NewID,
		log:    opts.Logger.Named("cognitive"),
		links:  make(map[string]map[string]struct{}),
	}
}

// #endregion

// #region superposition

// CreateSuperposition stores a new state over concepts with amplitude
// magnitude 1/sqrt(n) on both components and coherence 1.
func (m *Manager) CreateSuperposition(concepts []string) (State, error) {
	const op = "cognitive.create_superposition"
	if len(concepts) == 0 {
		return State{}, errs.Validation(op, "concepts must not be empty")
	}
	for i, c := range concepts {
		if strings.TrimSpace(c) == "" {
			return State{}, errs.Validation(op, "concept must not be empty", "index", i)
		}
	}

	mag := 1 / math.Sqrt(float64(len(concepts)))
	amps := make([]Amplitude, len(concepts))
	for i := range amps {
		amps[i] = Amplitude{Confidence: mag, Potential: mag}
	}
	now := m.now()
	s := &State{
		ID:              m.newID(),
		Concepts:        append([]string(nil), concepts...),
		Amplitudes:      amps,
		Coherence:       1.0,
		DecoherenceRate: decoherenceRate,
		CreatedAt:       now,
		LastAccess:      now,
	}

	m.mu.Lock()
	m.expireLocked(now)
	if evicted := m.states.Add(s.ID, s); evicted {
		metrics.CognitiveEvictions.WithLabelValues("capacity").Inc()
		m.log.Debug("state evicted", zap.String("reason", "capacity"))
	}
	metrics.CognitiveStates.Set(float64(m.states.Len()))
	out := s.clone()
	m.mu.Unlock()

	m.log.Debug("superposition created", zap.String("state_id", out.ID), zap.Int("concepts", len(concepts)))
	return out, nil
}

// Get returns a copy of the state. Access refreshes its idle timer.
func (m *Manager) Get(id string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.lookupLocked("cognitive.get", id, m.now())
	if err != nil {
		return State{}, err
	}
	return s.clone(), nil
}

// Len returns the number of live states.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states.Len()
}

// #endregion

// #region resolve

// Resolve collapses the state to one concept with method. Coherence decays by ResolveDecay.
func (m *Manager) Resolve(id string, method Method) (Resolution, error) {
	const op = "cognitive.resolve"
	if method != MethodHighestConfidence && method != MethodWeightedRandom {
		return Resolution{}, errs.Validation(op, "unknown resolution method", "method", string(method))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.lookupLocked(op, id, m.now())
	if err != nil {
		return Resolution{}, err
	}

	weights := make([]float64, len(s.Amplitudes))
	total := 0.0
	for i, a := range s.Amplitudes {
		weights[i] = a.Weight()
		total += weights[i]
	}
	var idx int
	if method == MethodHighestConfidence {
		idx = argmax(weights)
	} else {
		idx = draw(m.rng, weights, total)
	}
	if idx < 0 {
		idx = 0
	}

	s.MeasurementCount++
	s.Coherence *= ResolveDecay

	res := Resolution{
		StateID:          s.ID,
		Method:           method,
		Index:            idx,
		Concept:          s.Concepts[idx],
		Coherence:        s.Coherence,
		MeasurementCount: s.MeasurementCount,
	}
	if total > 0 {
		res.Probability = weights[idx] / total
	}
	m.log.Debug("state resolved",
		zap.String("state_id", id), zap.String("method", string(method)),
		zap.String("concept", res.Concept), zap.Float64("coherence", s.Coherence))
	return res, nil
}

// #endregion

// #region select

// Select draws one of n candidates with weight amplitude[i%len].Weight()*bias(i).
// A nil bias weighs every candidate 1; negative biases count as 0. The draw is a
// measurement: coherence decays by SelectDecay even when every weight is zero.
func (m *Manager) Select(id string, n int, bias func(i int) float64) (Selection, error) {
	const op = "cognitive.select"
	if n <= 0 {
		return Selection{}, errs.Validation(op, "candidate count must be positive", "n", n)
	}
	biases := make([]float64, n)
	for i := range biases {
		b := 1.0
		if bias != nil {
			b = bias(i)
		}
		if math.IsNaN(b) || b < 0 {
			b = 0
		}
		biases[i] = b
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.lookupLocked(op, id, m.now())
	if err != nil {
		return Selection{}, err
	}

	sel := Selection{Index: -1, Weights: make([]float64, n)}
	for i := 0; i < n; i++ {
		w := s.Amplitudes[i%len(s.Amplitudes)].Weight() * biases[i]
		sel.Weights[i] = w
		sel.Total += w
	}
	if sel.Total > 0 {
		sel.Index = draw(m.rng, sel.Weights, sel.Total)
	}
	s.MeasurementCount++
	s.Coherence *= SelectDecay
	sel.Coherence = s.Coherence
	return sel, nil
}

// #endregion

// #region links

// Link records a symmetric edge between two concepts. Idempotent.
func (m *Manager) Link(a, b string) error {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == "" || b == "" {
		return errs.Validation("cognitive.link", "link endpoints must not be empty", "a", a, "b", b)
	}
	if a == b {
		return errs.Validation("cognitive.link", "cannot link a concept to itself", "concept", a)
	}
	m.linkMu.Lock()
	defer m.linkMu.Unlock()
	m.addEdge(a, b)
	m.addEdge(b, a)
	return nil
}

// LinkStates links two state ids. Both states must exist.
func (m *Manager) LinkStates(idA, idB string) error {
	const op = "cognitive.link_states"
	m.mu.Lock()
	now := m.now()
	_, errA := m.lookupLocked(op, idA, now)
	_, errB := m.lookupLocked(op, idB, now)
	m.mu.Unlock()
	if errA != nil {
		return errA
	}
	if errB != nil {
		return errB
	}
	return m.Link(idA, idB)
}

// Neighbors returns the concepts linked to x, sorted.
func (m *Manager) Neighbors(x string) []string {
	m.linkMu.RLock()
	defer m.linkMu.RUnlock()
	out := make([]string, 0, len(m.links[x]))
	for n := range m.links[x] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) addEdge(from, to string) {
	set, ok := m.links[from]
	if !ok {
		set = make(map[string]struct{})
		m.links[from] = set
	}
	set[to] = struct{}{}
}

// #endregion

// #region store-helpers

// lookupLocked finds a live state, expiring it if idle past the TTL. Caller holds m.mu.
func (m *Manager) lookupLocked(op, id string, now time.Time) (*State, error) {
	s, ok := m.states.Get(id)
	if !ok {
		return nil, errs.NotFound(op, "cognitive state not found", "state_id", id)
	}
	if m.ttl > 0 && now.Sub(s.LastAccess) > m.ttl {
		m.states.Remove(id)
		metrics.CognitiveEvictions.WithLabelValues("ttl").Inc()
		metrics.CognitiveStates.Set(float64(m.states.Len()))
		return nil, errs.NotFound(op, "cognitive state expired", "state_id", id)
	}
	s.LastAccess = now
	return s, nil
}

// expireLocked drops idle states from the cold end. Recency order equals
// LastAccess order because every access goes through lookupLocked.
func (m *Manager) expireLocked(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for {
		_, s, ok := m.states.GetOldest()
		if !ok || now.Sub(s.LastAccess) <= m.ttl {
			return
		}
		m.states.RemoveOldest()
		metrics.CognitiveEvictions.WithLabelValues("ttl").Inc()
	}
}

// #endregion

// #region draw

// argmax returns the first index of the largest weight.
func argmax(weights []float64) int {
	best := 0
	for i, w := range weights {
		if w > weights[best] {
			best = i
		}
	}
	return best
}

// draw picks the first index whose cumulative weight exceeds a uniform value
// in [0, total). Returns -1 when no weight is positive.
func draw(r Rand, weights []float64, total float64) int {
	x := r.Float64() * total
	cum := 0.0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += w
		last = i
		if x < cum {
			return i
		}
	}
	return last
}

// lockedRand serializes a PCG source.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a goroutine-safe PCG source. Seed 0 picks a random seed.
func NewRand(seed uint64) Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// #endregion
