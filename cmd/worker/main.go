package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/core/jobs"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/modules/loyalty/services"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/shared/database"
	"github.com/MuhamadAgungGumelar/receipt-loyalty-be/internal/shared/utils"
)

func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.LogLevel)
	log.Info().Str("env", cfg.Env).Str("driver", cfg.DBDriver).Msg("🚀 Starting receipt worker")

	// Schema first, the worker never runs against an old layout
	if err := database.Migrate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	reconciler := services.NewReconciler(
		db.GORM,
		services.SettingsFromConfig(cfg),
		services.NewRandomPlaceholders(cfg.PlaceholderSeed),
	)

	queue := jobs.NewQueue(db.GORM)
	worker := jobs.NewWorker(queue, jobs.WorkerConfig{
		Queue:        cfg.ReceiptQueue,
		Concurrency:  cfg.WorkerConcurrency,
		PollInterval: cfg.WorkerPollInterval,
		Timeout:      cfg.JobTimeout,
	})
	worker.RegisterHandler(services.NewReceiptJobHandler(reconciler))

	janitor, err := jobs.NewJanitor(queue, jobs.JanitorConfig{
		Schedule:   cfg.JobCleanupSchedule,
		Retention:  cfg.JobRetention,
		StaleAfter: 2 * cfg.JobTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule job janitor")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Jobs left in processing by a previous crash go back to the queue
	if err := janitor.RunOnce(ctx); err != nil {
		log.Warn().Err(err).Msg("⚠️ Initial janitor pass failed")
	}

	if err := worker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start worker")
	}
	janitor.Start()

	log.Info().Msg("✅ Receipt worker is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("🛑 Shutting down receipt worker...")
	janitor.Stop()
	worker.Stop()
	cancel()
	log.Info().Msg("👋 Goodbye!")
}
