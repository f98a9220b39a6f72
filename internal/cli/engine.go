package cli

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/cognitive"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/config"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/knowledge"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/logging"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/orchestrator"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/strategy"
)

// #endregion

// #region engine

// engine is everything a command needs, built once from config.
type engine struct {
	orch     *orchestrator.Orchestrator
	chainLog *logging.ChainLog // nil unless provenance is enabled
	log      *zap.Logger
	closers  []func() error
}

func (e *engine) close() error {
	var errList []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errList = append(errList, err)
		}
	}
	_ = e.log.Sync()
	return errors.Join(errList...)
}

// buildEngine wires the knowledge backend, provenance log, metrics listener
// and orchestrator described by cfg. On error every resource opened so far
// is released.
func buildEngine(ctx context.Context, cfg *config.Config) (_ *engine, err error) {
	log, err := logging.NewLogger(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	e := &engine{log: log}
	defer func() {
		if err != nil {
			_ = e.close()
		}
	}()

	kb, err := openKnowledge(ctx, cfg, e)
	if err != nil {
		return nil, err
	}

	var recorder orchestrator.Recorder
	if cfg.Provenance.Enabled {
		chainLog, err := logging.OpenChainLog(cfg.Provenance.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("provenance: %w", err)
		}
		e.closers = append(e.closers, chainLog.Close)
		e.chainLog = chainLog
		recorder = chainLog
	}

	if cfg.Metrics.Enabled {
		e.closers = append(e.closers, serveMetrics(cfg.Metrics.Address, log))
	}

	cog := cognitive.NewManager(cognitive.Options{
		MaxStates: cfg.Cognitive.MaxStates,
		StateTTL:  cfg.Cognitive.StateTTL,
		Rand:      cognitive.NewRand(cfg.Cognitive.Seed),
		Logger:    log.Named("cognitive"),
	})

	e.orch, err = orchestrator.New(orchestrator.Options{
		Registry:          strategy.Builtin(),
		Knowledge:         kb,
		Cognitive:         cog,
		Recorder:          recorder,
		Logger:            log.Named("orchestrator"),
		MaxStepsPerChain:  cfg.Engine.MaxStepsPerChain,
		ConvergenceTarget: cfg.Engine.ConvergenceTarget,
		MaxAutoStrategies: cfg.Engine.MaxAutoStrategies,
		BatchConcurrency:  cfg.Engine.BatchConcurrency,
		DisableCognitive:  !cfg.Engine.CognitiveEnhancement,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("engine ready",
		zap.String("knowledge_backend", cfg.Knowledge.Backend),
		zap.Bool("provenance", cfg.Provenance.Enabled),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)
	return e, nil
}

// #endregion

// #region knowledge

func openKnowledge(ctx context.Context, cfg *config.Config, e *engine) (knowledge.Adapter, error) {
	switch cfg.Knowledge.Backend {
	case config.BackendSQLite:
		store, err := knowledge.NewStore(cfg.Knowledge.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("knowledge store: %w", err)
		}
		e.closers = append(e.closers, store.Close)
		if cfg.Knowledge.Seed {
			if err := store.Seed(ctx, knowledge.DefaultCorpus()); err != nil {
				return nil, fmt.Errorf("seed knowledge store: %w", err)
			}
		}
		return store, nil
	case config.BackendGRPC:
		client, err := knowledge.Dial(cfg.Knowledge.GRPCAddress, cfg.Knowledge.Timeout)
		if err != nil {
			return nil, fmt.Errorf("knowledge service at %s: %w", cfg.Knowledge.GRPCAddress, err)
		}
		e.closers = append(e.closers, client.Close)
		return client, nil
	default:
		return knowledge.NewMemory(knowledge.DefaultCorpus()), nil
	}
}

// #endregion

// #region metrics

// serveMetrics exposes the default Prometheus registry and returns the
// listener's shutdown func.
func serveMetrics(addr string, log *zap.Logger) func() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics listener stopped", zap.String("address", addr), zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("address", addr))
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// #endregion
