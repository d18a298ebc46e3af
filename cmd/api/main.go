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
	httpDelivery "github.com/location-microservice/internal/delivery/http"
	"github.com/location-microservice/internal/delivery/http/handler"
	"github.com/location-microservice/internal/infrastructure/overpass"
	"github.com/location-microservice/internal/infrastructure/wikidata"
	"github.com/location-microservice/internal/pkg/logger"
	"github.com/location-microservice/internal/refresh"
	"github.com/location-microservice/internal/repository/cache"
	"github.com/location-microservice/internal/repository/postgres"
	"github.com/location-microservice/internal/usecase"
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

	log.Info("starting center office directory API",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
	)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.Health(ctx); err != nil {
		cancel()
		log.Fatal("postgres health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		cancel()
		log.Fatal("redis health check failed", zap.Error(err))
	}
	cancel()
	log.Info("all connections healthy")

	centerRepo := postgres.NewCenterRepository(db)
	companyRepo := postgres.NewCompanyRepository(db)
	officeRepo := postgres.NewOfficeRepository(db)
	bannedRepo := postgres.NewBannedOfficeRepository(db)
	flagRepo := postgres.NewDeletionFlagRepository(db)
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

	centerUC := usecase.NewCenterUseCase(centerRepo, log)
	companyUC := usecase.NewCompanyUseCase(companyRepo, log)
	officeUC := usecase.NewOfficeUseCase(centerRepo, officeRepo, companyRepo, cacheRepo, cfg.Refresh, cfg.Cache.OfficeListTTL, log)
	flagUC := usecase.NewDeletionFlagUseCase(flagRepo, officeRepo, centerRepo, log)
	refreshUC := usecase.NewRefreshUseCase(engine, cfg.Refresh.DefaultRadiusM, log)
	statusUC := usecase.NewStatusUseCase(centerRepo, officeRepo, stateRepo, cfg.Refresh, log)

	log.Info("use cases initialized")

	centerHandler := handler.NewCenterHandler(centerUC, officeUC)
	deletionFlagHandler := handler.NewDeletionFlagHandler(flagUC)
	adminHandler := handler.NewAdminHandler(centerUC, companyUC, refreshUC, statusUC)
	healthHandler := handler.NewHealthHandler()

	server := httpDelivery.NewServer(cfg, log, centerHandler, deletionFlagHandler, adminHandler, healthHandler)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	log.Info("server started successfully", zap.String("address", cfg.GetServerAddr()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}

	log.Info("server stopped successfully")
}
