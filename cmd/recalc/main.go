package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/greenpoints/recycle_rewards_app/internal/adapters/database/pgsql"
	"github.com/greenpoints/recycle_rewards_app/internal/core/services"
	"github.com/greenpoints/recycle_rewards_app/internal/middleware"
	"github.com/greenpoints/recycle_rewards_app/internal/platform/config"
	"github.com/greenpoints/recycle_rewards_app/pkg/database"
)

// recalc recomputes cached household totals from member balances and corrects
// drift, either for one household or for all active ones. Safe to run while
// the backend serves traffic: each household is checked under its row lock.
func main() {
	householdID := flag.String("household", "", "recalculate a single household instead of all")
	actor := flag.String("actor", "recalc-cli", "actor recorded on corrections")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := middleware.WithLogger(context.Background(), logger)

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	recalcService := services.NewRecalculationService(repos.HouseholdRepo)

	if *householdID != "" {
		corrected, err := recalcService.RecalculateHousehold(ctx, *householdID, *actor)
		if err != nil {
			logger.Error("Recalculation failed", slog.String("household_id", *householdID), slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Recalculation finished", slog.String("household_id", *householdID), slog.Bool("corrected", corrected))
		return
	}

	result, err := recalcService.RecalculateAll(ctx, *actor)
	if err != nil {
		logger.Error("Recalculation run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Recalculation run finished",
		slog.Int("checked", result.HouseholdsChecked),
		slog.Int("corrected", result.HouseholdsCorrected),
		slog.Int("failures", result.Failures))
	if result.Failures > 0 {
		os.Exit(1)
	}
}
