package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/location-microservice/internal/config"
	"github.com/location-microservice/internal/infrastructure/overpass"
	"github.com/location-microservice/internal/infrastructure/wikidata"
	"github.com/location-microservice/internal/pkg/logger"
	"github.com/location-microservice/internal/refresh"
	"github.com/location-microservice/internal/repository/cache"
	"github.com/location-microservice/internal/repository/postgres"
	"github.com/location-microservice/internal/worker"
	refreshWorker "github.com/location-microservice/internal/worker/refresh"
)

const migrationsPath = "migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("starting refresh scheduler",
		zap.Int("tick_interval_minutes", cfg.Refresh.TickIntervalMinutes),
		zap.Int("batch_centers_per_run", cfg.Refresh.BatchCentersPerRun))

	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close postgres connection", zap.Error(err))
		}
	}()

	if err := postgres.RunMigrations(db, migrationsPath, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("failed to close redis connection", zap.Error(err))
		}
	}()

	centerRepo := postgres.NewCenterRepository(db)
	companyRepo := postgres.NewCompanyRepository(db)
	officeRepo := postgres.NewOfficeRepository(db)
	bannedRepo := postgres.NewBannedOfficeRepository(db)
	stateRepo := postgres.NewRefreshStateRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)

	overpassClient := overpass.NewClient(overpass.Config{
		URLs:           cfg.Overpass.URLs,
		RequestTimeout: cfg.Overpass.RequestTimeout,
	}, log)

	wikidataClient := wikidata.NewClient(wikidata.Config{
		APIURL:         cfg.Wikidata.APIURL,
		RequestTimeout: cfg.Wikidata.RequestTimeout,
	}, log)

	engine := refresh.NewEngine(
		centerRepo, officeRepo, companyRepo, bannedRepo, stateRepo, cacheRepo,
		overpassClient, wikidataClient,
		cfg.Refresh, cfg.Overpass, cfg.Wikidata,
		log,
	)

	tickInterval := time.Duration(cfg.Refresh.TickIntervalMinutes) * time.Minute
	scheduler := refreshWorker.NewSchedulerWorker(engine, tickInterval, log)

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(scheduler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info("received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("error stopping workers", zap.Error(err))
	}

	log.Info("scheduler shutdown complete")
}
