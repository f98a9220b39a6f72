package config

import (
	"fmt"
	"net"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed for %s: %s", e.Field, e.Message)
}

// Validate returns every problem found, nil when the configuration is usable.
func (c *Config) Validate() []error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Engine
	if c.Engine.MaxStepsPerChain < 1 {
		add("engine.max_steps_per_chain", "must be at least 1, got %d", c.Engine.MaxStepsPerChain)
	}
	if c.Engine.ConvergenceTarget <= 0 || c.Engine.ConvergenceTarget > 1 {
		add("engine.convergence_target", "must be in (0,1], got %v", c.Engine.ConvergenceTarget)
	}
	if c.Engine.MaxAutoStrategies < 1 {
		add("engine.max_auto_strategies", "must be at least 1, got %d", c.Engine.MaxAutoStrategies)
	}
	if c.Engine.BatchConcurrency < 1 {
		add("engine.batch_concurrency", "must be at least 1, got %d", c.Engine.BatchConcurrency)
	}

	// Cognitive store
	if c.Cognitive.MaxStates < 1 {
		add("cognitive.max_states", "must be at least 1, got %d", c.Cognitive.MaxStates)
	}

	// Knowledge
	switch c.Knowledge.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Knowledge.SQLitePath == "" {
			add("knowledge.sqlite_path", "required when knowledge.backend is sqlite")
		}
	case BackendGRPC:
		if err := checkAddress(c.Knowledge.GRPCAddress, true); err != "" {
			add("knowledge.grpc_address", "%s", err)
		}
	default:
		add("knowledge.backend", "must be one of memory, sqlite, grpc, got %q", c.Knowledge.Backend)
	}
	if c.Knowledge.Timeout <= 0 {
		add("knowledge.timeout", "must be positive, got %v", c.Knowledge.Timeout)
	}

	// Provenance
	if c.Provenance.Enabled && c.Provenance.SQLitePath == "" {
		add("provenance.sqlite_path", "required when provenance.enabled is true")
	}

	// Logging
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		add("logging.level", "must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		add("logging.format", "must be json or console, got %q", c.Logging.Format)
	}

	// Metrics
	if c.Metrics.Enabled {
		if err := checkAddress(c.Metrics.Address, false); err != "" {
			add("metrics.address", "%s", err)
		}
	}

	return errs
}

// checkAddress validates host:port. An empty host is allowed for listeners.
func checkAddress(addr string, needHost bool) string {
	if addr == "" {
		return "address is required"
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Sprintf("invalid address format (expected host:port): %v", err)
	}
	if needHost && host == "" {
		return "host cannot be empty"
	}
	if port == "" {
		return "port cannot be empty"
	}
	return ""
}
