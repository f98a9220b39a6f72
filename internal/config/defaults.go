package config

import "time"

// DefaultConfig returns a configuration with all default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Engine defaults
	cfg.Engine.MaxStepsPerChain = 10
	cfg.Engine.ConvergenceTarget = 0.85
	cfg.Engine.MaxAutoStrategies = 6
	cfg.Engine.CognitiveEnhancement = true
	cfg.Engine.BatchConcurrency = 4

	// Cognitive store defaults
	cfg.Cognitive.MaxStates = 1024
	cfg.Cognitive.StateTTL = time.Hour
	cfg.Cognitive.Seed = 0

	// Knowledge defaults
	cfg.Knowledge.Backend = BackendMemory
	cfg.Knowledge.SQLitePath = "knowledge.db"
	cfg.Knowledge.GRPCAddress = "localhost:50061"
	cfg.Knowledge.Timeout = 5 * time.Second
	cfg.Knowledge.Seed = true

	// Provenance defaults
	cfg.Provenance.Enabled = false
	cfg.Provenance.SQLitePath = "provenance.db"

	// Logging defaults
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	cfg.Logging.MaxSizeMB = 100
	cfg.Logging.MaxBackups = 3
	cfg.Logging.MaxAgeDays = 28

	// Metrics defaults
	cfg.Metrics.Enabled = false
	cfg.Metrics.Address = ":9464"

	// knowledged defaults
	cfg.Server.Address = ":50061"

	return cfg
}
