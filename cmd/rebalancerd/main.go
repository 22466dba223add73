package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"rebalancer/internal/config"
	"rebalancer/internal/engine"
	"rebalancer/internal/repository"
	"rebalancer/internal/server"
	"rebalancer/pkg/logger"
	"rebalancer/types"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting portfolio rebalancer")

	// Build the instrument universe: from Postgres when configured,
	// otherwise the built-in demo universe.
	instruments := server.DefaultUniverse()
	targets := server.DefaultTargets()
	holdings := server.DefaultHoldings()

	if cfg.DatabaseURL != "" {
		db, err := repository.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer db.Close()

		instruments, err = db.GetInstruments(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load instrument universe")
		}
		log.Info().Int("instruments", len(instruments)).Msg("Loaded instrument universe")

		// No meaningful demo targets for an external universe; start
		// equal-weighted and let the UI edit them.
		targets = equalWeightTargets(instruments)
		holdings = nil
	}

	registry, err := engine.NewRegistry(instruments)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build instrument registry")
	}

	target, err := engine.NewTargetAllocation(registry, targets)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build target allocation")
	}

	portfolio, err := engine.NewPortfolio(registry, target, holdings)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build portfolio engine")
	}

	// Initialize HTTP server
	srv := server.New(server.Config{
		Port:      cfg.Port,
		Log:       log,
		Portfolio: portfolio,
		DevMode:   cfg.DevMode,
	})

	// Start server in goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// equalWeightTargets spreads the target allocation evenly over the
// universe. The fractions land within the engine's sum tolerance even when
// the division does not come out exact.
func equalWeightTargets(instruments []types.Instrument) []engine.AllocationEntry {
	if len(instruments) == 0 {
		return nil
	}
	weight := decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(instruments))))
	entries := make([]engine.AllocationEntry, 0, len(instruments))
	for _, inst := range instruments {
		entries = append(entries, engine.AllocationEntry{Symbol: inst.Symbol, Fraction: weight})
	}
	return entries
}
