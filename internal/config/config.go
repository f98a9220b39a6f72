// Package config loads engine configuration from defaults, an optional YAML
// file and REASONER_* environment variables, in increasing priority.
package config

import "time"

// Config is the full process configuration.
type Config struct {
	Engine struct {
		MaxStepsPerChain     int
		ConvergenceTarget    float64
		MaxAutoStrategies    int
		CognitiveEnhancement bool
		BatchConcurrency     int
	}

	Cognitive struct {
		MaxStates int
		StateTTL  time.Duration // <0 disables idle expiry
		Seed      uint64        // 0 = random
	}

	Knowledge struct {
		Backend     string // memory | sqlite | grpc
		SQLitePath  string
		GRPCAddress string
		Timeout     time.Duration
		Seed        bool // load the built-in corpus into an empty sqlite store
	}

	Provenance struct {
		Enabled    bool
		SQLitePath string
	}

	Logging struct {
		Level      string
		Format     string // json | console
		File       string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
	}

	Metrics struct {
		Enabled bool
		Address string
	}

	// Server is the knowledged listener.
	Server struct {
		Address string
	}
}

// Knowledge backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendGRPC   = "grpc"
)
