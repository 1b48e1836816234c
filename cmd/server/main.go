// Command signup-server accepts registration submissions over HTTP and
// optionally serves a gRPC health check.
package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/signup-wizard/internal/config"
	grpcserver "github.com/and161185/signup-wizard/internal/server/grpc"
	"github.com/and161185/signup-wizard/internal/server/httpapi"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration and serves until SIGINT or SIGTERM.
func main() {
	cfg, err := config.LoadServer()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	// Flags
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&cfg.HealthAddr, "health-addr", cfg.HealthAddr, "gRPC health listen address (empty disables)")
	flag.Int64Var(&cfg.MaxUpload, "max-upload", cfg.MaxUpload, "max request body in bytes")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
	)

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(logger, cfg.MaxUpload),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var hs *grpcserver.Health
	if cfg.HealthAddr != "" {
		lis, err := net.Listen("tcp", cfg.HealthAddr)
		if err != nil {
			logger.Fatal("listen health", zap.Error(err))
		}
		hs = grpcserver.NewHealth(logger.Named("health"))
		go func() {
			logger.Info("health listening", zap.String("addr", cfg.HealthAddr))
			if err := hs.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	// Wait for stop
	select {
	case <-ctx.Done():
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	// graceful shutdown
	if hs != nil {
		hs.SetServing(false)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
		_ = srv.Close()
	}
	if hs != nil {
		hs.Stop()
	}

	logger.Info("shutdown complete")
}
