package cognitive

// #region imports
import (
	"time"

	"go.uber.org/zap"
)

// #endregion

// #region amplitude

// Amplitude is a two-component weight attached to one concept.
type Amplitude struct {
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Potential  float64 `json:"potential" yaml:"potential"`
}

// Weight is the squared magnitude used directly as a selection weight.
func (a Amplitude) Weight() float64 {
	return a.Confidence*a.Confidence + a.Potential*a.Potential
}

// #endregion

// #region state

// State is a superposition over an ordered concept list.
// len(Amplitudes) == len(Concepts); Coherence never increases.
type State struct {
	ID               string      `json:"id" yaml:"id"`
	Concepts         []string    `json:"concepts" yaml:"concepts"`
	Amplitudes       []Amplitude `json:"amplitudes" yaml:"amplitudes"`
	Coherence        float64     `json:"coherence" yaml:"coherence"`
	MeasurementCount int         `json:"measurement_count" yaml:"measurement_count"`
	DecoherenceRate  float64     `json:"decoherence_rate" yaml:"decoherence_rate"`
	CreatedAt        time.Time   `json:"created_at" yaml:"created_at"`
	LastAccess       time.Time   `json:"last_access" yaml:"last_access"`
}

func (s *State) clone() State {
	cp := *s
	cp.Concepts = append([]string(nil), s.Concepts...)
	cp.Amplitudes = append([]Amplitude(nil), s.Amplitudes...)
	return cp
}

// #endregion

// #region resolution

// Method names a resolution policy.
type Method string

const (
	MethodHighestConfidence Method = "highest_confidence"
	MethodWeightedRandom    Method = "weighted_random"
)

// Resolution is the outcome of collapsing a state to one concept.
type Resolution struct {
	StateID          string  `json:"state_id" yaml:"state_id"`
	Method           Method  `json:"method" yaml:"method"`
	Index            int     `json:"index" yaml:"index"`
	Concept          string  `json:"concept" yaml:"concept"`
	Probability      float64 `json:"probability" yaml:"probability"` // chosen weight / total weight
	Coherence        float64 `json:"coherence" yaml:"coherence"`
	MeasurementCount int     `json:"measurement_count" yaml:"measurement_count"`
}

// Selection is the outcome of a biased draw over n candidates.
// Index is -1 when every weight was zero.
type Selection struct {
	Index     int       `json:"index"`
	Weights   []float64 `json:"weights"`
	Total     float64   `json:"total"`
	Coherence float64   `json:"coherence"`
}

// Share is the chosen candidate's fraction of the total weight.
func (s Selection) Share() float64 {
	if s.Index < 0 || s.Total == 0 {
		return 0
	}
	return s.Weights[s.Index] / s.Total
}

// #endregion

// #region options

// Decay factors applied to Coherence per measurement.
const (
	ResolveDecay = 0.9
	SelectDecay  = 0.95
)

const (
	DefaultMaxStates = 1024
	DefaultStateTTL  = time.Hour
)

// Rand is the uniform [0,1) source used for weighted draws.
type Rand interface {
	Float64() float64
}

// Options configures a Manager. Zero values take defaults.
type Options struct {
	MaxStates int
	StateTTL  time.Duration // idle time before a state expires; <0 disables expiry
	Rand      Rand
	Now       func() time.Time
	NewID     func() string
	Logger    *zap.Logger
}

// #endregion
