package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/geofieldx/geofieldx/internal/adapters/http"
	natsadapter "github.com/geofieldx/geofieldx/internal/adapters/nats"
	"github.com/geofieldx/geofieldx/internal/adapters/postgres"
	"github.com/geofieldx/geofieldx/internal/adapters/storage"
	"github.com/geofieldx/geofieldx/internal/adapters/valkey"
	"github.com/geofieldx/geofieldx/internal/core/ports"
	"github.com/geofieldx/geofieldx/internal/core/usecases"
	"github.com/geofieldx/geofieldx/internal/pkg/config"
	"github.com/geofieldx/geofieldx/internal/pkg/logging"
	"github.com/geofieldx/geofieldx/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geofieldx-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("geofieldx-api", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go db.ReportPoolMetrics(ctx, 15*time.Second)

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
	}

	// NATS
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer publisher.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Image storage
	images, err := storage.NewImageStore(cfg.Uploads.Dir, cfg.Uploads.ThumbnailWidth)
	if err != nil {
		log.Fatalf("image store: %v", err)
	}

	// Repos
	featureRepo := postgres.NewFeatureRepo(db)
	taskRepo := postgres.NewTaskRepo(db)
	boundaryRepo := postgres.NewBoundaryRepo(db)
	teamRepo := postgres.NewTeamRepo(db)
	userRepo := postgres.NewUserRepo(db)
	shapefileRepo := postgres.NewShapefileRepo(db)

	// On a degraded boot the concrete pointers are nil; hand the services a
	// nil interface rather than a typed nil, so their own guards hold.
	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}
	var pub ports.EventPublisher
	if publisher != nil {
		pub = publisher
	}

	// Use cases
	authSvc := usecases.NewAuthService(userRepo, cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)
	featureSvc := usecases.NewFeatureService(featureRepo, cacheSvc, pub)
	taskSvc := usecases.NewTaskService(taskRepo, pub)
	boundarySvc := usecases.NewBoundaryService(boundaryRepo, featureRepo)
	teamSvc := usecases.NewTeamService(teamRepo, userRepo)
	userSvc := usecases.NewUserService(userRepo, teamRepo)
	shapefileSvc := usecases.NewShapefileService(shapefileRepo, cacheSvc, pub,
		cfg.Uploads.SimplifyAboveN, cfg.Uploads.SimplifyEpsilonM, 0)

	deps := &http.Dependencies{
		Auth:            authSvc,
		Features:        featureSvc,
		Tasks:           taskSvc,
		Boundaries:      boundarySvc,
		Teams:           teamSvc,
		Users:           userSvc,
		Shapefiles:      shapefileSvc,
		Images:          images,
		NATS:            natsConn,
		DB:              db,
		Cache:           cache,
		MaxImageBytes:   cfg.Uploads.MaxImageBytes,
		MaxArchiveBytes: cfg.Uploads.MaxArchiveBytes,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    int(cfg.Uploads.MaxArchiveBytes), // shapefile ZIPs are the largest uploads
		AppName:      "GeoFieldX API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
