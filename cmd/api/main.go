package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kwhalen/ledgerline/internal/api"
	"github.com/kwhalen/ledgerline/internal/application/service"
	"github.com/kwhalen/ledgerline/internal/domain/matcher"
	"github.com/kwhalen/ledgerline/internal/domain/reports"
	"github.com/kwhalen/ledgerline/internal/infrastructure/config"
	"github.com/kwhalen/ledgerline/internal/infrastructure/logging"
	"github.com/kwhalen/ledgerline/internal/infrastructure/storage"
)

func main() {
	var (
		configFile string
		port       int
		verbose    bool
	)
	flag.StringVar(&configFile, "config", "config.yaml", "Configuration file path")
	flag.IntVar(&port, "port", 0, "Port to listen on (overrides config)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose output")
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(configFile)

	loggingCfg := cfg.Observability.Logging
	if verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "api")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	matchCfg := matcher.Config{
		DateWindowDays:   cfg.Matching.DateWindowDays,
		NarrowWindowDays: cfg.Matching.NarrowWindowDays,
		AmountTolerance:  cfg.Matching.AmountTolerance,
	}
	reconcile := service.NewReconcileService(store, matchCfg, nil, logger)
	builder := reports.NewBuilder(store)

	apiCfg := api.Config{
		Port:           cfg.Server.Port,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}
	if port != 0 {
		apiCfg.Port = port
	}

	server := api.NewServer(apiCfg, store, reconcile, builder, logger)

	// Handle graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	if err := server.Start(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}
