package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	apierrors "deliverycli/internal/errors"
	"deliverycli/internal/infrastructure"
	customMiddleware "deliverycli/internal/middleware"
	"deliverycli/internal/services"
	handlers "deliverycli/internal/transport/http"
	"deliverycli/pkg/contracts"
)

// CommandWeb names the web service in logs and version strings.
const CommandWeb = "delivery-web"

// Application is the read-only HTTP service over the artifacts produced by
// the fetcher and ranker commands.
type Application struct {
	*Runtime
	Router   *chi.Mux
	Server   *http.Server
	Services *ServiceContainer
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Health  *services.HealthService
	Ranking *services.RankingService
}

// NewApplication wires services, router and server on top of rt.
func NewApplication(rt *Runtime) (*Application, error) {
	a := &Application{
		Runtime: rt,
		Services: &ServiceContainer{
			Health:  services.NewHealthService(contracts.Version, rt.Paths, rt.Logger),
			Ranking: rt.RankingService(),
		},
	}

	if err := a.setupRouter(); err != nil {
		return nil, err
	}
	a.createServer()
	return a, nil
}

// setupRouter applies middleware in the order RequestID, RealIP, OTel,
// logger, recoverer, security headers, rate limit.
func (a *Application) setupRouter() error {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(middleware.RealIP)

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(
		a.OTelProviders.Tracer,
		a.OTelProviders.MeterProvider.Meter(infrastructure.TracerName),
	)
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}

	health := handlers.NewHealthHandler(a.Services.Health, a.Logger)

	// Probes and scraping stay outside the logged group
	r.Get("/healthz", health.LivenessCheck)
	r.Get("/readyz", health.ReadinessCheck)
	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.MetricsHandler()))

	r.Group(func(r chi.Router) {
		r.Use(otelMiddleware.Handler)
		r.Use(customMiddleware.StructuredLogger(a.Logger))
		r.Use(customMiddleware.Recoverer(a.Logger))
		r.Use(customMiddleware.SecurityHeaders)
		r.Use(middleware.Timeout(a.Config.Server.WriteTimeout))

		if a.Config.Server.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Server.RateLimit.RPS,
				a.Config.Server.RateLimit.Burst,
				a.Logger,
			).Handler)
		}

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/version", health.Version)
			r.Mount("/delivery", handlers.NewDeliveryHandler(a.Paths, a.Logger).Routes())
			r.Mount("/top10", handlers.NewRankingHandler(a.Paths, a.Services.Ranking, a.Logger).Routes())
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		_ = render.Render(w, req, apierrors.NewErrorResponse(apierrors.ErrNotFound))
	})

	a.Router = r
	return nil
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run listens on the configured port and serves until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts the
// server down gracefully. A server failure cancels the shutdown wait.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Starting HTTP server",
			slog.String("address", ln.Addr().String()),
			slog.String("version", contracts.Version))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.performStartupHealthCheck(gctx)
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(gctx))
	})

	return g.Wait()
}

// Stop gracefully stops the HTTP server within ShutdownTimeout.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// performStartupHealthCheck warns when the service starts without any data
// to serve.
func (a *Application) performStartupHealthCheck(ctx context.Context) {
	status := a.Services.Health.ReadinessCheck(ctx)
	if status.Status == "ready" {
		return
	}
	for name, s := range status.Services {
		if s.Status != "ready" {
			a.Logger.WarnContext(ctx, "Startup health check warning",
				slog.String("component", name),
				slog.String("message", s.Message))
		}
	}
}
