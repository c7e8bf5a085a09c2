package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robertomistatas/centralteleoperadores/backend/internal/api"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/auth"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/config"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/detect"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/engine"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/ingestion"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/metrics"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/storage"
	"github.com/robertomistatas/centralteleoperadores/backend/internal/websocket"
	"github.com/robertomistatas/centralteleoperadores/backend/pkg/middleware"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Msg("starting teleasistencia backend server")

	// JWKS verification unless running with SKIP_AUTH
	if os.Getenv("SKIP_AUTH") != "true" {
		if issuer := os.Getenv("OIDC_ISSUER_URL"); issuer != "" {
			if err := auth.InitJWKS(issuer); err != nil {
				log.Fatal().Err(err).Msg("failed to initialize JWKS")
			}
		} else {
			log.Warn().Msg("OIDC_ISSUER_URL not set, tokens will not be signature-verified")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage backend: DynamoDB when configured, otherwise in-memory only
	var store storage.Store
	dynamoCfg := storage.LoadDynamoConfig()
	if dynamoCfg.Mode != storage.DynamoModeNone {
		dynamoStore, err := storage.NewDynamoDBStore(ctx, dynamoCfg, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize DynamoDB store")
		}
		store = dynamoStore
	} else {
		log.Info().Msg("persistence disabled, datasets are held in memory only")
		store = storage.NewNoopStore()
	}

	// Reconciliation engine and ingestion pipeline
	eng := engine.New(log.Logger)
	processor := ingestion.NewProcessor(detect.New(nil), log.Logger)

	// Replay the latest persisted datasets so a restart does not come up empty
	replayDatasets(ctx, store, eng)

	// WebSocket hub for dashboard snapshot pushes
	hub := websocket.NewHub(log.Logger)
	go hub.Run()
	wsHandler := websocket.NewHandler(hub, cfg, log.Logger)

	apiHandler := api.NewHandler(eng, processor, store, hub, cfg, log.Logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Public routes (no auth required)
	r.Get("/health", apiHandler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/ws", wsHandler.ServeHTTP)
		r.Get("/api/metrics/operators", apiHandler.HandleOperatorMetrics)
		r.Get("/api/followups", apiHandler.HandleFollowUps)

		// Dataset mutations are admin-only
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/api/calls/batch", apiHandler.HandleCallBatch)
			r.Put("/api/assignments", apiHandler.HandleAssignments)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// replayDatasets loads the latest persisted call batch and assignment set
// into the engine. Failures are logged and skipped; the server still starts
// with whatever loaded.
func replayDatasets(ctx context.Context, store storage.Store, eng *engine.Engine) {
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if set, err := store.LatestAssignmentSet(loadCtx); err != nil {
		log.Error().Err(err).Msg("failed to load latest assignment set")
	} else if set != nil {
		eng.ReplaceAssignments(set.Operators)
		log.Info().
			Str("set_id", set.SetID).
			Int("operators", len(set.Operators)).
			Msg("assignment set replayed from storage")
	}

	if batch, err := store.LatestCallBatch(loadCtx); err != nil {
		log.Error().Err(err).Msg("failed to load latest call batch")
	} else if batch != nil {
		eng.ReplaceCalls(batch.Records)
		log.Info().
			Str("batch_id", batch.BatchID).
			Int("records", len(batch.Records)).
			Msg("call batch replayed from storage")
	}
}
