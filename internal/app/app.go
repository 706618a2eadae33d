// Package app wires configuration, infrastructure, services and HTTP
// transport into a runnable server.
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

	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/config"
	apierrors "github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/errors"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/infrastructure"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/insights"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/leadstore"
	customMiddleware "github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/middleware"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/services"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/sheets"
	transport "github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/transport/http"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/internal/validation"
	"github.com/michaeljuniorpb/Akasa-Leads-Analytic/pkg/contracts"
)

// Version information comes from the contracts package and is overridable
// at build time via ldflags.
var (
	Version   = contracts.Version
	BuildTime = contracts.BuildTime
)

// Application holds all application dependencies and configuration.
type Application struct {
	Config  *config.Config
	Paths   *config.Paths
	Logger  *slog.Logger
	Metrics *infrastructure.Metrics
	Router  *chi.Mux
	Server  *http.Server

	Store          *leadstore.Store
	LeadService    *services.LeadService
	InsightService *services.InsightService
	HealthService  *services.HealthService

	errorHandler *apierrors.ErrorHandler
}

// NewApplication creates a fully initialized application.
func NewApplication() (*Application, error) {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize the single application logger
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	app := &Application{
		Config:       cfg,
		Paths:        paths,
		Logger:       logger,
		Metrics:      infrastructure.NewMetrics(),
		errorHandler: apierrors.NewErrorHandler(logger, false),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	logger.Info("application initialized",
		slog.String("version", Version),
		slog.Int("port", cfg.Server.Port))

	return app, nil
}

// initializeServices creates the service layer. The sheets client and the
// narrative generator are optional: when their credentials are absent the
// corresponding endpoints answer 503 instead of failing startup.
func (a *Application) initializeServices() error {
	store, err := leadstore.New(a.Paths.LeadsDir(), a.Config.Store.BatchSize, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize lead store: %w", err)
	}
	a.Store = store

	var fetcher services.SheetFetcher
	if a.Config.Sheets.CredentialsFile != "" {
		if !config.FileExists(a.Config.Sheets.CredentialsFile) {
			a.Logger.Warn("sheets credentials file not found, sheet import disabled",
				slog.String("path", a.Config.Sheets.CredentialsFile))
		} else {
			client, err := sheets.NewClient(context.Background(), a.Config.Sheets.CredentialsFile, a.Logger)
			if err != nil {
				return fmt.Errorf("failed to initialize sheets client: %w", err)
			}
			fetcher = client
		}
	} else {
		a.Logger.Info("no sheets credentials configured, sheet import disabled")
	}

	a.LeadService = services.NewLeadService(store, fetcher, a.Metrics, "", a.Logger)
	a.LeadService.SetSheetDefaults(a.Config.Sheets.DefaultSheetID, a.Config.Sheets.DefaultRange)

	var generator services.NarrativeGenerator
	if a.Config.Insights.APIKey != "" {
		gen, err := insights.NewGenerator(context.Background(), a.Config.Insights, a.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize insight generator: %w", err)
		}
		generator = gen
	} else {
		a.Logger.Info("no insights API key configured, narrative generation disabled")
	}

	a.InsightService = services.NewInsightService(a.LeadService, generator, a.Metrics, a.Logger)
	a.HealthService = services.NewHealthService(Version, BuildTime, a.LeadService, a.Logger)

	return nil
}

// setupRouter configures the chi router with middleware and routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Request ID and real IP come first so everything downstream sees them
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	// Metrics endpoint stays outside the middleware group so scrapes are
	// never rate limited or logged per request
	r.Handle("/metrics", a.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(a.Metrics.Middleware)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(customMiddleware.StripSlashes)
		r.Use(customMiddleware.Compress(5))

		if a.Config.Security.EnableCORS {
			r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
				AllowedOrigins: a.Config.Security.AllowedOrigins,
			}))
		}

		if a.Config.Security.RateLimit.Enabled {
			limiter := customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger)
			r.Use(limiter.Handler)
		}

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes mounts the API handlers under /api.
func (a *Application) setupAPIRoutes(r chi.Router) {
	validator := customMiddleware.NewValidationMiddleware(a.Logger, a.errorHandler)
	queryParams := customMiddleware.NewQueryParamValidator(a.Logger, a.errorHandler)
	fileValidator := validation.NewFileValidator(a.Logger)

	leadHandler := transport.NewLeadHandler(a.LeadService, validator, queryParams, fileValidator,
		a.Config.Server.MaxUploadBytes, a.Logger, a.errorHandler)
	analyticsHandler := transport.NewAnalyticsHandler(a.LeadService, queryParams, a.Logger, a.errorHandler)
	insightHandler := transport.NewInsightHandler(a.InsightService, validator, a.Logger, a.errorHandler)
	healthHandler := transport.NewHealthHandler(a.HealthService, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout, a.Logger))

		r.Mount("/leads", leadHandler.Routes())
		r.Mount("/analytics", analyticsHandler.Routes())
		r.Mount("/insights", insightHandler.Routes())
		r.Mount("/healthz", healthHandler.Routes())
	})
}

// createServer creates the HTTP server with the configured timeouts.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run starts the HTTP server and blocks until the context is cancelled or
// an interrupt signal arrives, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server starting", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.Logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	infrastructure.CloseLogFile()
	a.Logger.Info("server stopped")
	return nil
}

// Shutdown stops the server without waiting for a signal. Used by tests.
func (a *Application) Shutdown(ctx context.Context) error {
	if a.Server == nil {
		return nil
	}
	return a.Server.Shutdown(ctx)
}
