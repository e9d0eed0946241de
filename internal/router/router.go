// Package router wires handlers and middleware into the HTTP route tree.
package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/webdemo/webdemo/internal/config"
	"github.com/webdemo/webdemo/internal/handler"
	"github.com/webdemo/webdemo/internal/metrics"
	"github.com/webdemo/webdemo/internal/middleware"
)

// Deps bundles everything the route tree needs.
type Deps struct {
	Config *config.Config
	Logger *slog.Logger

	Greet   *handler.GreetHandler
	Pages   *handler.PageHandler
	Samples *handler.SampleHandler
	Auth    *handler.AuthHandler
	Health  *handler.HealthHandler
	Metrics *handler.MetricsHandler

	TokenParser middleware.TokenParser
	// RateLimiter may be nil, which disables rate limiting.
	RateLimiter middleware.IPRateLimiter
	Recorder    metrics.Recorder
}

// New configures the chi router with all routes and middleware.
func New(d Deps) *chi.Mux {
	h := handler.New()
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Recoverer(d.Logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: d.Config.IsDevelopment()}))
	r.Use(middleware.MaxBodySize(d.Config.MaxRequestBodySize))

	// Probes and metrics
	r.Get("/healthz", d.Health.Healthz)
	r.Get("/readyz", d.Health.Readyz)
	r.Get("/metrics", d.Metrics.Metrics)

	// Pages
	r.Get("/", d.Pages.Index)
	r.Handle("/assets/*", d.Pages.Assets())
	r.Get("/greet/{name}", d.Greet.Greet)

	// Database sample
	r.Get("/sample", d.Samples.List)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  d.Logger,
		Limiter: d.RateLimiter,
		Enabled: d.Config.RateLimitEnabled(),
		RPS:     d.Config.RateLimitAuthorizeRPS,
		Burst:   d.Config.RateLimitAuthorizeBurst,
	}
	bearerCfg := middleware.BearerConfig{
		Logger:  d.Logger,
		Parser:  d.TokenParser,
		Metrics: d.Recorder,
	}

	// Token demo
	r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/authorize", d.Auth.Authorize)
	r.With(middleware.Bearer(bearerCfg)).Get("/protected", d.Auth.Protected)

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
