package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cloudboard/aggregator/pkg/api"
	apphttp "github.com/cloudboard/aggregator/pkg/app/http"
	"github.com/cloudboard/aggregator/pkg/config"
	"github.com/cloudboard/aggregator/pkg/pgutil"
	"github.com/cloudboard/aggregator/pkg/source"
	"github.com/cloudboard/aggregator/pkg/source/huawei"
	"github.com/cloudboard/aggregator/pkg/source/tencent"
	"github.com/cloudboard/aggregator/pkg/syncer"
	"github.com/cloudboard/aggregator/pkg/unifiedstore"
	"github.com/cloudboard/aggregator/pkg/validator"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting cloud aggregator",
		zap.String("config", *configPath),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port))

	// Unified reporting database
	unifiedDB, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to unified database", zap.Error(err))
	}
	defer unifiedDB.Close()
	logger.Info("Connected to unified database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database))

	// Read-only provider databases
	huaweiDB, err := pgutil.ConnectDB(&cfg.Sources.Huawei)
	if err != nil {
		logger.Fatal("Failed to connect to huawei source database", zap.Error(err))
	}
	defer huaweiDB.Close()

	tencentDB, err := pgutil.ConnectDB(&cfg.Sources.Tencent)
	if err != nil {
		logger.Fatal("Failed to connect to tencent source database", zap.Error(err))
	}
	defer tencentDB.Close()

	store := unifiedstore.NewStore(unifiedDB)
	sources := []source.Source{
		huawei.NewReader(huaweiDB, logger),
		tencent.NewReader(tencentDB, logger),
	}

	engine := syncer.New(sources, store, validator.New(store), logger, syncer.Options{
		Retry: syncer.RetryPolicy{
			MaxAttempts: cfg.Sync.MaxAttempts,
			Delay:       cfg.Sync.RetryDelay,
		},
		StrictValidation: cfg.Sync.StrictValidation,
		CycleTimeout:     cfg.Sync.CycleTimeout,
	})

	if cfg.Sync.Interval > 0 {
		engine.StartPeriodic(cfg.Sync.Interval, cfg.Sync.ImmediateSync)
	} else if cfg.Sync.ImmediateSync {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Sync.CycleTimeout)
			defer cancel()
			if _, err := engine.SynchronizeAll(ctx); err != nil {
				logger.Error("startup sync failed", zap.Error(err))
			}
		}()
	}

	router := api.NewRouter(store, engine, logger, cfg.Monitoring.Enabled, api.Options{
		DefaultExpiryDays: cfg.Sync.ExpiryThresholdDays,
		CycleTimeout:      cfg.Sync.CycleTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)

	if cfg.Sync.Interval > 0 {
		logger.Info("Waiting for in-flight sync to finish")
		engine.Stop()
	}

	if serveErr != nil {
		logger.Error("Server exited with error", zap.Error(serveErr))
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
