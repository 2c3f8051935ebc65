package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-dog-portal/internal/app/portal"
	dogpostgres "github.com/Apurer/go-dog-portal/internal/domains/dogs/adapters/persistence/postgres"
	"github.com/Apurer/go-dog-portal/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-dog-portal/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := portal.LoadEnvFiles(); err != nil {
		log.Fatalf("failed to load env file: %v", err)
	}
	cfg, err := portal.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	cfg.Log.Writer = os.Stdout
	logger := observability.NewLogger(cfg.Log)

	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge match history")
	}

	cutoff := time.Now().UTC().Add(-cfg.MatchHistoryRetention)
	purged, err := dogpostgres.NewMatchHistory(db).PurgeOlderThan(ctx, cutoff)
	if err != nil {
		log.Fatalf("failed to purge match history: %v", err)
	}
	logger.Info("match history purge completed", slog.Int64("purged", purged), slog.Time("cutoff", cutoff))
}
