package strategy

// #region imports
import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/errs"
)

// #endregion

// #region parse

// contextKeys are the accepted keys of a raw caller context.
var contextKeys = map[string]bool{
	"domain": true, "max_facts": true, "depth": true,
	"cause": true, "effect": true, "horizon": true,
	"currency": true, "risk_tolerance": true, "prior": true,
}

// ParseContext validates a raw caller map into a Context. Unknown keys, wrong
// types and out-of-range values fail with a validation error. The result has
// defaults applied.
func ParseContext(raw map[string]any) (Context, error) {
	var qc Context
	var unknown []string
	for k := range raw {
		if !contextKeys[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Context{}, errs.Validation("strategy.parse_context", "unknown context keys", "keys", strings.Join(unknown, ","))
	}

	var err error
	if qc.Domain, err = stringField(raw, "domain"); err != nil {
		return Context{}, err
	}
	if qc.Causal.Cause, err = stringField(raw, "cause"); err != nil {
		return Context{}, err
	}
	if qc.Causal.Effect, err = stringField(raw, "effect"); err != nil {
		return Context{}, err
	}
	if qc.Temporal.Horizon, err = stringField(raw, "horizon"); err != nil {
		return Context{}, err
	}
	if qc.Financial.Currency, err = stringField(raw, "currency"); err != nil {
		return Context{}, err
	}

	if v, ok, err := numberField(raw, "max_facts"); err != nil {
		return Context{}, err
	} else if ok {
		if v < 1 || v > 100 || v != float64(int(v)) {
			return Context{}, rangeErr("max_facts", v, "an integer in [1,100]")
		}
		qc.MaxFacts = int(v)
	}
	if v, ok, err := numberField(raw, "depth"); err != nil {
		return Context{}, err
	} else if ok {
		if v < 1 || v > 10 || v != float64(int(v)) {
			return Context{}, rangeErr("depth", v, "an integer in [1,10]")
		}
		qc.Depth = int(v)
	}
	if v, ok, err := numberField(raw, "risk_tolerance"); err != nil {
		return Context{}, err
	} else if ok {
		if v <= 0 || v > 1 {
			return Context{}, rangeErr("risk_tolerance", v, "in (0,1]")
		}
		qc.Financial.RiskTolerance = v
	}
	if v, ok, err := numberField(raw, "prior"); err != nil {
		return Context{}, err
	} else if ok {
		if v <= 0 || v >= 1 {
			return Context{}, rangeErr("prior", v, "in (0,1)")
		}
		qc.Probabilistic.Prior = v
	}
	return qc.WithDefaults(), nil
}

// WithDefaults returns a copy with every unset field filled explicitly.
func (c Context) WithDefaults() Context {
	if c.MaxFacts == 0 {
		c.MaxFacts = DefaultMaxFacts
	}
	if c.Depth == 0 {
		c.Depth = DefaultDepth
	}
	if c.Probabilistic.Prior == 0 {
		c.Probabilistic.Prior = DefaultPrior
	}
	if c.Financial.RiskTolerance == 0 {
		c.Financial.RiskTolerance = DefaultRiskTolerance
	}
	if c.Financial.Currency == "" {
		c.Financial.Currency = DefaultCurrency
	}
	return c
}

// #endregion

// #region field-helpers

func stringField(raw map[string]any, key string) (string, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errs.Validation("strategy.parse_context", "expected string", "key", key, "type", fmt.Sprintf("%T", v))
	}
	return strings.TrimSpace(s), nil
}

func numberField(raw map[string]any, key string) (float64, bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return n, true, nil
	case float32:
		return float64(n), true, nil
	case int:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false, errs.Validation("strategy.parse_context", "expected number", "key", key, "value", n)
		}
		return f, true, nil
	}
	return 0, false, errs.Validation("strategy.parse_context", "expected number", "key", key, "type", fmt.Sprintf("%T", v))
}

func rangeErr(key string, v float64, want string) error {
	return errs.Validation("strategy.parse_context", "value out of range", "key", key, "value", v, "want", want)
}

// #endregion
