package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. REASONER_ENGINE_MAX_STEPS_PER_CHAIN.
const EnvPrefix = "REASONER"

// Load reads configuration from path (optional; "" or a missing file means
// defaults plus environment) and returns it unvalidated.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}
	return unmarshal(v), nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("engine.max_steps_per_chain", d.Engine.MaxStepsPerChain)
	v.SetDefault("engine.convergence_target", d.Engine.ConvergenceTarget)
	v.SetDefault("engine.max_auto_strategies", d.Engine.MaxAutoStrategies)
	v.SetDefault("engine.cognitive_enhancement", d.Engine.CognitiveEnhancement)
	v.SetDefault("engine.batch_concurrency", d.Engine.BatchConcurrency)

	v.SetDefault("cognitive.max_states", d.Cognitive.MaxStates)
	v.SetDefault("cognitive.state_ttl", d.Cognitive.StateTTL)
	v.SetDefault("cognitive.seed", d.Cognitive.Seed)

	v.SetDefault("knowledge.backend", d.Knowledge.Backend)
	v.SetDefault("knowledge.sqlite_path", d.Knowledge.SQLitePath)
	v.SetDefault("knowledge.grpc_address", d.Knowledge.GRPCAddress)
	v.SetDefault("knowledge.timeout", d.Knowledge.Timeout)
	v.SetDefault("knowledge.seed", d.Knowledge.Seed)

	v.SetDefault("provenance.enabled", d.Provenance.Enabled)
	v.SetDefault("provenance.sqlite_path", d.Provenance.SQLitePath)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.address", d.Metrics.Address)

	v.SetDefault("server.address", d.Server.Address)
}

func unmarshal(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Engine.MaxStepsPerChain = v.GetInt("engine.max_steps_per_chain")
	cfg.Engine.ConvergenceTarget = v.GetFloat64("engine.convergence_target")
	cfg.Engine.MaxAutoStrategies = v.GetInt("engine.max_auto_strategies")
	cfg.Engine.CognitiveEnhancement = v.GetBool("engine.cognitive_enhancement")
	cfg.Engine.BatchConcurrency = v.GetInt("engine.batch_concurrency")

	cfg.Cognitive.MaxStates = v.GetInt("cognitive.max_states")
	cfg.Cognitive.StateTTL = v.GetDuration("cognitive.state_ttl")
	cfg.Cognitive.Seed = v.GetUint64("cognitive.seed")

	cfg.Knowledge.Backend = strings.ToLower(v.GetString("knowledge.backend"))
	cfg.Knowledge.SQLitePath = v.GetString("knowledge.sqlite_path")
	cfg.Knowledge.GRPCAddress = v.GetString("knowledge.grpc_address")
	cfg.Knowledge.Timeout = v.GetDuration("knowledge.timeout")
	cfg.Knowledge.Seed = v.GetBool("knowledge.seed")

	cfg.Provenance.Enabled = v.GetBool("provenance.enabled")
	cfg.Provenance.SQLitePath = v.GetString("provenance.sqlite_path")

	cfg.Logging.Level = v.GetString("logging.level")
	cfg.Logging.Format = v.GetString("logging.format")
	cfg.Logging.File = v.GetString("logging.file")
	cfg.Logging.MaxSizeMB = v.GetInt("logging.max_size_mb")
	cfg.Logging.MaxBackups = v.GetInt("logging.max_backups")
	cfg.Logging.MaxAgeDays = v.GetInt("logging.max_age_days")

	cfg.Metrics.Enabled = v.GetBool("metrics.enabled")
	cfg.Metrics.Address = v.GetString("metrics.address")

	cfg.Server.Address = v.GetString("server.address")

	return cfg
}
