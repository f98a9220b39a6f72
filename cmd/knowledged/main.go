package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/config"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/knowledge"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/logging"
)

// #region main

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	addr := flag.String("addr", "", "listen address (overrides server.address)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	log, err := logging.NewLogger(logging.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("knowledged stopped", zap.Error(err))
		os.Exit(1)
	}
}

// #endregion main

// #region serve

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter, closeAdapter, err := openCorpus(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAdapter()

	lis, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Address, err)
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(accessLog(log)))
	knowledge.RegisterServer(srv, adapter)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(lis) }()
	log.Info("knowledge service listening",
		zap.String("address", lis.Addr().String()),
		zap.String("backend", cfg.Knowledge.Backend),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("received shutdown signal")

	done := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		srv.Stop()
	}
	log.Info("shutdown complete")
	return nil
}

// openCorpus serves the sqlite store when configured and the built-in corpus
// from memory otherwise. A grpc backend would proxy to itself and is refused.
func openCorpus(ctx context.Context, cfg *config.Config) (knowledge.Adapter, func(), error) {
	switch cfg.Knowledge.Backend {
	case config.BackendSQLite:
		store, err := knowledge.NewStore(cfg.Knowledge.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open knowledge store: %w", err)
		}
		if cfg.Knowledge.Seed {
			if err := store.Seed(ctx, knowledge.DefaultCorpus()); err != nil {
				store.Close()
				return nil, nil, fmt.Errorf("seed knowledge store: %w", err)
			}
		}
		return store, func() { store.Close() }, nil
	case config.BackendGRPC:
		return nil, nil, fmt.Errorf("knowledge.backend %q cannot be served; use %q or %q", cfg.Knowledge.Backend, config.BackendSQLite, config.BackendMemory)
	default:
		return knowledge.NewMemory(knowledge.DefaultCorpus()), func() {}, nil
	}
}

func accessLog(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("knowledge request",
			zap.String("method", info.FullMethod),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return resp, err
	}
}

// #endregion serve
