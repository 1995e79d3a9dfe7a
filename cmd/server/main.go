package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rentroll-ai/backend/internal/config"
	"github.com/rentroll-ai/backend/internal/db"
	httpapi "github.com/rentroll-ai/backend/internal/http"
	"github.com/rentroll-ai/backend/internal/pricing"
	"github.com/rentroll-ai/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger := log.Level(level).With().Str("service", "rentroll-backend").Logger()

	mode, err := pricing.ParseMode(cfg.PricingMode)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid pricing mode")
	}

	ctx := context.Background()
	store, err := db.New(ctx, cfg.DatabaseURL, db.TableConfig{
		Mart:    cfg.MartDataset,
		Staging: cfg.StagingDataset,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect db")
	}
	defer store.Close()

	engine := pricing.NewOptimizer(cfg.DefaultElasticity, cfg.MaxPriceAdjustment, mode)
	optimize := &service.OptimizeService{
		Store:          store,
		Engine:         engine,
		Logger:         logger,
		MaxComps:       cfg.MaxCompsPerUnit,
		MaxConcurrency: cfg.MaxConcurrentOptimizations,
		MaxBatchUnits:  cfg.MaxBatchUnits,
	}

	router := httpapi.Router(cfg, store, optimize, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("mode", string(mode)).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	logger.Info().Msg("server stopped")
}
