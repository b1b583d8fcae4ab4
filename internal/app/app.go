// Package app wires configuration, services, and the HTTP server into a
// runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"visatrack/internal/cache"
	"visatrack/internal/config"
	apierrors "visatrack/internal/errors"
	"visatrack/internal/fetch"
	"visatrack/internal/infrastructure"
	custommiddleware "visatrack/internal/middleware"
	"visatrack/internal/services"
	handlers "visatrack/internal/transport/http"
	ws "visatrack/internal/websocket"
)

// Version is the application version, overridable at build time.
var Version = "dev"

// rateLimitRPS bounds inbound API traffic; bulletin extraction is slow and
// cached, so the API never needs high request rates.
const (
	rateLimitRPS   = 20
	rateLimitBurst = 40
)

// Application is the dependency container for the web server.
type Application struct {
	Config          *config.Config
	Router          *chi.Mux
	Server          *http.Server
	Logger          *slog.Logger
	OTelProviders   *infrastructure.OTelProviders
	WebSocketHub    *ws.Hub
	BulletinService *services.BulletinService
	HealthService   *services.HealthService
	Store           *cache.Store
}

// NewApplication loads configuration and builds the full service graph.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	otelProviders, err := infrastructure.InitializeOTel(logger)
	if err != nil {
		return nil, fmt.Errorf("initialize telemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the hub, cache, fetcher, and services.
func (a *Application) initializeServices() {
	a.WebSocketHub = ws.NewHub(a.Logger)
	a.Store = cache.New()

	client := fetch.NewClient(a.Config.Fetch, a.Logger)
	a.BulletinService = services.NewBulletinService(
		client,
		a.Store,
		a.Config.Pipeline.Workers,
		a.WebSocketHub,
		a.Logger,
		a.OTelProviders.Metrics,
	)
	a.HealthService = services.NewHealthService(Version, a.Store)
}

// setupRouter configures the HTTP router and all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// WebSocket route stays outside the logging middleware: wrapping the
	// ResponseWriter breaks the upgrade handshake.
	r.Get("/ws", a.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(custommiddleware.StructuredLogger(a.Logger))
		r.Use(chimiddleware.Recoverer)
		r.Use(custommiddleware.RateLimit(rateLimitRPS, rateLimitBurst))

		errorHandler := apierrors.NewErrorHandler(a.Logger)
		bulletinHandler := handlers.NewBulletinHandler(a.BulletinService, a.Logger, errorHandler)
		healthHandler := handlers.NewHealthHandler(a.HealthService)

		r.Route("/api", func(r chi.Router) {
			r.Mount("/bulletin", bulletinHandler.Routes())
			r.Mount("/health", healthHandler.Routes())
		})
	})

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// createServer creates the HTTP server.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start launches the hub and the HTTP listener.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) {
	a.WebSocketHub.Start()

	go func() {
		a.Logger.InfoContext(ctx, "server listening",
			slog.String("address", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()
}

// Stop gracefully shuts the application down.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.WebSocketHub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "telemetry shutdown error", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	a.Start(ctx, cancel)

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}

// handleWebSocket upgrades the connection and registers the client with the hub.
func (a *Application) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	a.Logger.InfoContext(r.Context(), "websocket upgrade request",
		slog.String("remote_addr", r.RemoteAddr))
	ws.ServeWS(a.WebSocketHub, w, r)
}
