package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/harshrana14-fi/alert-aid-sub002/internal/alerting"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/api"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/auth"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/bus"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/callback"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/config"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/engine"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/metrics"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/registry"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/sched"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/storage"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/types"
	"github.com/harshrana14-fi/alert-aid-sub002/internal/websocket"
	"github.com/harshrana14-fi/alert-aid-sub002/pkg/middleware"
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
		Msg("starting hotline routing server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Call archive (DynamoDB or noop per DYNAMO_MODE)
	store, err := storage.NewStore(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize call archive")
	}

	// Core services
	scheduler := sched.New(log.Logger)
	defer scheduler.Stop()

	eventBus := bus.New(log.Logger)
	defer eventBus.Close()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(promRegistry)

	alerts := alerting.NewManager(eventBus, log.Logger)
	callbacks := callback.NewManager(scheduler, eventBus, log.Logger)

	eng := engine.New(engine.Options{
		Queues:         registry.NewQueueRegistry(),
		Agents:         registry.NewAgentRegistry(),
		Scheduler:      scheduler,
		Bus:            eventBus,
		Alerts:         alerts,
		Callbacks:      callbacks,
		Store:          store,
		Metrics:        m,
		Logger:         log.Logger,
		DefaultQueueID: cfg.DefaultQueueID,
	})

	// Always have the default queue so intake never dead-ends
	if _, err := eng.RegisterQueue(types.QueueConfig{
		ID:          cfg.DefaultQueueID,
		Name:        "General Support",
		CrisisTypes: []types.CrisisType{types.CrisisGeneral},
		Languages:   []string{"en"},
		Priority:    1,
		ServiceLevel: types.ServiceLevelConfig{
			ThresholdSecs: 20,
			TargetPercent: 80,
		},
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to register default queue")
	}

	// Dashboard event stream
	hub := websocket.NewHub(log.Logger)
	go hub.Run()
	hub.AttachBus(eventBus)
	wsHandler := websocket.NewHandler(hub, cfg, log.Logger)

	// API handlers
	callsHandler := api.NewCallsHandler(eng, log.Logger)
	agentsHandler := api.NewAgentsHandler(eng, log.Logger)
	queuesHandler := api.NewQueuesHandler(eng, log.Logger)
	callbacksHandler := api.NewCallbacksHandler(eng, log.Logger)
	alertsHandler := api.NewAlertsHandler(eng, log.Logger)
	statsHandler := api.NewStatsHandler(eng, store, log.Logger)
	adminHandler := api.NewAdminHandler(store, log.Logger)

	// Create router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Public routes (no auth required)
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/ws", wsHandler.ServeHTTP)

		r.Route("/api", func(r chi.Router) {
			r.Route("/calls", callsHandler.Routes)
			r.Route("/agents", agentsHandler.Routes)
			r.Route("/callbacks", callbacksHandler.Routes)

			r.Route("/queues", func(r chi.Router) {
				r.Get("/", queuesHandler.List)
				r.Get("/{queueID}", queuesHandler.Get)
				r.Group(func(r chi.Router) {
					r.Use(auth.RequireRole(auth.RoleSupervisor))
					r.Post("/", queuesHandler.Register)
					r.Put("/{queueID}/status", queuesHandler.SetStatus)
				})
			})

			r.Route("/alerts", func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleSupervisor))
				alertsHandler.Routes(r)
			})

			r.Route("/stats", statsHandler.Routes)

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireRole(auth.RoleAdmin))
				r.Post("/archive/wipe", adminHandler.WipeArchive)
			})
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

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"hotline-routing"}`)
}
