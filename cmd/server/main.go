package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/visualdex/internal/api"
	"github.com/vytor/visualdex/internal/catalog"
	"github.com/vytor/visualdex/internal/config"
	"github.com/vytor/visualdex/internal/jobs"
	"github.com/vytor/visualdex/internal/kvstore"
	"github.com/vytor/visualdex/internal/logger"
	"github.com/vytor/visualdex/internal/mission"
	"github.com/vytor/visualdex/internal/quota"
	"github.com/vytor/visualdex/internal/repository/kv"
	"github.com/vytor/visualdex/internal/sentence"
	"github.com/vytor/visualdex/internal/services"
	"github.com/vytor/visualdex/internal/translation"
	"github.com/vytor/visualdex/internal/vision"
	"github.com/vytor/visualdex/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("VisualDex Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("store_driver=%s", cfg.StoreDriver)
	log.Debug("timezone=%s", cfg.Timezone)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("daily_photo_limit=%d cooldown=%s", cfg.DailyPhotoLimit, cfg.Cooldown)
	log.Debug("missions_per_day=%d mission_points=%d", cfg.MissionsPerDay, cfg.MissionPoints)
	log.Debug("prefetch_worker_count=%d prefetch_queue_size=%d", cfg.PrefetchWorkerCount, cfg.PrefetchQueueSize)
	log.Debug("translate_url=%s vision_url=%s", cfg.TranslateURL, cfg.VisionURL)
	log.Debug("request_timeout=%s translate_batch_timeout=%s", cfg.RequestTimeout, cfg.TranslateBatchTimeout())

	loc, err := cfg.Location()
	if err != nil {
		log.Error("failed to load timezone: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// Open store
	openCtx, openCancel := context.WithTimeout(ctx, 10*time.Second)
	store, err := kvstore.Open(openCtx, cfg)
	openCancel()
	if err != nil {
		log.Error("failed to open %s store: %v", cfg.StoreDriver, err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing store")
		store.Close()
	}()

	content := catalog.Default()
	seed := time.Now().UnixNano()

	cascade := translation.NewCascade(cfg.TranslateDelay,
		translation.NewRemoteStrategy(cfg.TranslateURL, cfg.TranslateAPIKey, cfg.TranslateTimeout),
		translation.NewPatternStrategy(content),
	)

	// Initialize repositories
	learningRepo := kv.NewLearningRepository(store)
	missionRepo := kv.NewMissionRepository(store)
	quotaRepo := kv.NewQuotaRepository(store)
	progressRepo := kv.NewProgressRepository(store)
	preferenceRepo := kv.NewPreferenceRepository(store)
	translationRepo := kv.NewTranslationRepository(store)

	// Initialize services
	translationService := services.NewTranslationService(cascade, translationRepo,
		services.WithBatchTimeout(cfg.TranslateBatchTimeout()),
	)

	prefetchPool := worker.NewPool(cfg.PrefetchWorkerCount, cfg.PrefetchQueueSize)
	jobQueue := jobs.NewWorkerQueue(prefetchPool, translationService)

	sessionService := services.NewSessionService(services.SessionDeps{
		LearningRepo:   learningRepo,
		MissionRepo:    missionRepo,
		QuotaRepo:      quotaRepo,
		ProgressRepo:   progressRepo,
		PreferenceRepo: preferenceRepo,
		Labeler:        vision.NewGoogleClient(cfg.VisionURL, cfg.VisionAPIKey, cfg.VisionTimeout),
		Generator:      sentence.NewGenerator(content.Sentences, rand.New(rand.NewSource(seed))),
		Scheduler:      mission.NewScheduler(content.Environments, cfg.MissionsPerDay, cfg.MissionPoints, rand.New(rand.NewSource(seed+1))),
		Guard:          quota.NewGuard(cfg.DailyPhotoLimit, cfg.Cooldown),
		Catalog:        content,
		JobQueue:       jobQueue,
		Location:       loc,
	})
	preferenceService := services.NewPreferenceService(preferenceRepo, content)

	srv := &api.Server{
		Store:              store,
		SessionService:     sessionService,
		TranslationService: translationService,
		PreferenceService:  preferenceService,
		RequestTimeout:     cfg.RequestTimeout,
		SecureCookies:      cfg.SecureCookies,
	}

	prefetchPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Queued prefetches are dropped.
	log.Debug("stopping prefetch pool")
	cancel()
	prefetchPool.Stop()

	log.Info("===========================================")
	log.Info("VisualDex Server Stopped")
	log.Info("===========================================")
}
