package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"automl-platform-service/internal/adapters/primary/http/handlers"
	"automl-platform-service/internal/adapters/primary/http/middleware"
	"automl-platform-service/internal/adapters/secondary/blobfs"
	"automl-platform-service/internal/adapters/secondary/engine"
	"automl-platform-service/internal/adapters/secondary/mongodb"
	"automl-platform-service/internal/adapters/secondary/s3"
	"automl-platform-service/internal/config"
	"automl-platform-service/internal/core/domain"
	output "automl-platform-service/internal/core/ports/output"
	"automl-platform-service/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Metadata store
	mongoClient, err := mongodb.NewClient(context.Background(), &cfg.Mongo)
	if err != nil {
		log.Fatalf("connect mongodb: %v", err)
	}
	defer mongoClient.Close(context.Background())

	if err := mongoClient.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}
	log.Info("metadata store connection established")

	// Object store
	store, err := newObjectStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init object store: %v", err)
	}
	log.Infof("object store initialized (backend=%s)", cfg.ObjectStore.Backend)

	// Secondary adapters
	artifactRepo := mongodb.NewArtifactRepository(mongoClient)
	userRepo := mongodb.NewUserRepository(mongoClient)
	predictionRepo := mongodb.NewPredictionRepository(mongoClient)
	cleanupLogRepo := mongodb.NewCleanupLogRepository(mongoClient)
	sweepLeaser := mongodb.NewSweepLeaser(mongoClient)

	engineHTTP := &http.Client{Timeout: cfg.Engines.Timeout}
	trainingClient := engine.NewTrainingClient(cfg.Engines.TrainingURL, engineHTTP)
	profilingClient := engine.NewProfilingClient(cfg.Engines.ProfilingURL, engineHTTP)

	// Core services
	limits := services.ValidationLimits{
		MaxRows:    cfg.Limits.MaxRows,
		MaxColumns: cfg.Limits.MaxColumns,
		MinRows:    cfg.Limits.MinRows,
	}
	registrySvc := services.NewRegistryService(artifactRepo, store)
	lifecycleSvc := services.NewLifecycleService(registrySvc, artifactRepo, store, trainingClient, profilingClient, predictionRepo, limits)
	userSvc := services.NewUserService(userRepo)
	cleanupSvc := services.NewCleanupService(
		artifactRepo, store, userRepo, predictionRepo, cleanupLogRepo, sweepLeaser,
		cfg.Cleanup.GracePeriod, cfg.Cleanup.LeaseTTL, cfg.Cleanup.LogRingSize,
	)

	// Primary adapter
	h := handlers.New(userSvc, lifecycleSvc, cleanupSvc, cfg.Limits.MaxFileSizeBytes())

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1")
	h.RegisterRoutes(api)

	// Health check with metadata store ping and object store probe
	router.GET("/healthz", func(c *gin.Context) {
		if err := mongoClient.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		if _, err := store.List(c.Request.Context(), string(domain.KindDataset)+"/"); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Background reconciliation
	sweepCtx, stopSweeps := context.WithCancel(context.Background())
	defer stopSweeps()
	go cleanupSvc.RunStartupSweep(sweepCtx, cfg.Cleanup.RetentionHours)
	go cleanupSvc.RunScheduler(sweepCtx, cfg.Cleanup.SweepInterval, cfg.Cleanup.RetentionHours)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")
	stopSweeps()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func newObjectStore(ctx context.Context, cfg *config.Config) (output.ObjectStore, error) {
	switch cfg.ObjectStore.Backend {
	case "s3":
		return s3.NewStore(ctx, &cfg.ObjectStore.S3)
	case "fs", "":
		return blobfs.NewStore(cfg.ObjectStore.Root)
	default:
		return nil, fmt.Errorf("unknown object store backend %q", cfg.ObjectStore.Backend)
	}
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
