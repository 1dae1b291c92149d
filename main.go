package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/leadscope/leadscope-engine/pkg/config"
	"github.com/leadscope/leadscope-engine/pkg/database"
	"github.com/leadscope/leadscope-engine/pkg/linkedin"
	"github.com/leadscope/leadscope-engine/pkg/llm"
	"github.com/leadscope/leadscope-engine/pkg/logging"
	"github.com/leadscope/leadscope-engine/pkg/repositories"
	"github.com/leadscope/leadscope-engine/pkg/scoring"
	"github.com/leadscope/leadscope-engine/pkg/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("engine exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.RunMigrations(cfg.Database.URL(), cfg.Database.MigrationsPath, logger); err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	llmClient, err := llm.NewFromConfig(cfg.LLM, logger)
	if err != nil {
		return err
	}
	if llmClient == nil {
		logger.Warn("llm disabled, scoring uses the deterministic fallback only")
	} else {
		logger.Info("llm client ready",
			zap.String("provider", cfg.LLM.Provider),
			zap.String("model", llmClient.GetModel()),
		)
	}

	dataClient := linkedin.NewClient(cfg.LinkedIn, logger)
	logger.Info("linkedin data client ready",
		zap.Int("credentials", len(cfg.LinkedIn.EnabledCredentials())),
	)

	radarRepo := repositories.NewRadarRepository(pool)
	prospectRepo := repositories.NewProspectRepository(pool)
	competitorRepo := repositories.NewCompetitorRepository(pool)
	personaRepo := repositories.NewPersonaRepository(pool)
	companyCacheRepo := repositories.NewCompanyCacheRepository(pool)

	scorer := scoring.NewPersonaScorer(llmClient, logger)
	enricher := services.NewEnricher(dataClient, companyCacheRepo, logger)
	messages := services.NewMessageGenerator(llmClient)

	radarService := services.NewRadarService(
		radarRepo, prospectRepo, competitorRepo, personaRepo,
		dataClient, scorer, enricher, messages,
		cfg.Scoring.MinScoreThreshold, logger,
	)

	// A signal asks the current run to finish its checkpoint and save;
	// a second signal aborts outright.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown requested, finishing current work")
		radarService.RequestStop()
		cancel()
		<-sigCh
		logger.Warn("second signal, aborting")
		os.Exit(1)
	}()

	scheduler := services.NewScheduler(radarRepo, radarService, logger)
	scheduler.Run(ctx)
	return nil
}
