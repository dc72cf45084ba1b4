package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/geofieldx/geofieldx/internal/adapters/nats"
	"github.com/geofieldx/geofieldx/internal/adapters/postgres"
	"github.com/geofieldx/geofieldx/internal/core/usecases"
	"github.com/geofieldx/geofieldx/internal/pkg/config"
	"github.com/geofieldx/geofieldx/internal/pkg/logging"
)

// The worker consumes domain events off JetStream and keeps team and user
// activity timestamps current for the dashboard's "last seen" columns.
func main() {
	cfg, err := config.Load("geofieldx-worker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("geofieldx-worker", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	subscriber, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer subscriber.Close()

	svc := usecases.NewActivityService(
		subscriber,
		postgres.NewTeamRepo(db),
		postgres.NewUserRepo(db),
		slog.Default(),
	)
	if err := svc.Start(ctx); err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("activity worker running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("worker stopping")
}
