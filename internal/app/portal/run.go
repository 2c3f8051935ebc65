package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	portalserver "github.com/Apurer/go-dog-portal/go"
	shelterclient "github.com/Apurer/go-dog-portal/internal/clients/http/shelter"
	dogshelter "github.com/Apurer/go-dog-portal/internal/domains/dogs/adapters/external/shelter"
	dogmemory "github.com/Apurer/go-dog-portal/internal/domains/dogs/adapters/memory"
	dogobs "github.com/Apurer/go-dog-portal/internal/domains/dogs/adapters/observability"
	dogpostgres "github.com/Apurer/go-dog-portal/internal/domains/dogs/adapters/persistence/postgres"
	dogapp "github.com/Apurer/go-dog-portal/internal/domains/dogs/application"
	dogports "github.com/Apurer/go-dog-portal/internal/domains/dogs/ports"
	sessionmemory "github.com/Apurer/go-dog-portal/internal/domains/sessions/adapters/memory"
	sessionapp "github.com/Apurer/go-dog-portal/internal/domains/sessions/application"
	"github.com/Apurer/go-dog-portal/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-dog-portal/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-dog-portal/internal/platform/postgres"
)

const serviceName = "dog-portal"

// Run boots the portal HTTP API and blocks until ctx is cancelled or the
// server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer cleanupDB()
	history := buildMatchHistory(db, logger)

	manager := sessionapp.NewManager(
		sessionmemory.NewSessionStore(),
		CatalogFactory(cfg, instruments),
		sessionapp.WithLogger(logger),
		sessionapp.WithServiceOptions(
			dogapp.WithMatchHistory(history),
			dogapp.WithLogger(logger),
		),
	)
	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go manager.RunJanitor(janitorCtx, cfg.SessionSweepInterval, cfg.SessionIdle)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := NewRouter(manager, cfg, instruments)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("dog portal listening", slog.String("addr", srv.Addr), slog.String("shelter", cfg.ShelterBaseURL))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("dog portal server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down dog portal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// NewRouter wires the portal handlers plus /metrics onto a gin engine.
func NewRouter(manager *sessionapp.Manager, cfg Config, instruments *platformobservability.Instruments) *gin.Engine {
	handlers := portalserver.ApiHandleFunctions{
		SessionAPI:   portalserver.NewSessionAPI(manager, cfg.SecureCookie),
		DogsAPI:      portalserver.NewDogsAPI(manager),
		FavoritesAPI: portalserver.NewFavoritesAPI(manager),
		MatchAPI:     portalserver.NewMatchAPI(manager),
		LocationsAPI: portalserver.NewLocationsAPI(manager),
	}
	var middlewares []gin.HandlerFunc
	if instruments != nil && instruments.TracerProvider != nil {
		middlewares = append(middlewares, otelgin.Middleware(serviceName, otelgin.WithTracerProvider(instruments.TracerProvider)))
	}
	if instruments != nil {
		portalserver.SetLogger(instruments.Logger)
	}
	router := portalserver.NewRouter(handlers, middlewares...)
	router.GET("/metrics", gin.WrapH(instruments.MetricsHandler()))
	return router
}

// CatalogFactory builds one shelter client, and so one cookie jar, per portal
// session, decorated with tracing, logging and metrics.
func CatalogFactory(cfg Config, instruments *platformobservability.Instruments) sessionapp.CatalogFactory {
	var logger *slog.Logger
	if instruments != nil {
		logger = instruments.Logger
	}
	return func() (dogports.Catalog, error) {
		client, err := shelterclient.NewClient(cfg.ShelterBaseURL,
			shelterclient.WithTimeout(cfg.ShelterTimeout),
			shelterclient.WithUserAgent(serviceName))
		if err != nil {
			return nil, err
		}
		return dogobs.New(
			dogshelter.NewCatalog(client),
			dogobs.WithLogger(logger),
			dogobs.WithTracer(instruments.Tracer("internal.dogs.catalog")),
			dogobs.WithMeter(instruments.Meter("internal.dogs.catalog")),
		), nil
	}
}

func buildMatchHistory(db *gorm.DB, logger *slog.Logger) dogports.MatchHistory {
	if db == nil {
		return dogmemory.NewMatchHistory()
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("match history migration failed, keeping history in memory", slog.String("error", err.Error()))
		return dogmemory.NewMatchHistory()
	}
	logger.Info("match history configured with postgres")
	return dogpostgres.NewMatchHistory(db)
}
