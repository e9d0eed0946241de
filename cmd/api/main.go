// Package main is the entrypoint for the webdemo server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/webdemo/webdemo/internal/auth"
	"github.com/webdemo/webdemo/internal/cache"
	"github.com/webdemo/webdemo/internal/config"
	"github.com/webdemo/webdemo/internal/handler"
	"github.com/webdemo/webdemo/internal/metrics"
	"github.com/webdemo/webdemo/internal/middleware"
	"github.com/webdemo/webdemo/internal/repository"
	"github.com/webdemo/webdemo/internal/router"
	"github.com/webdemo/webdemo/internal/server"
	"github.com/webdemo/webdemo/internal/token"
	"github.com/webdemo/webdemo/internal/web"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return errors.New(sanitizeError(err, cfg.DatabaseURL))
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Redis is optional; without it /authorize is not rate limited.
	var (
		cacheClient *cache.Cache
		cacheCheck  handler.HealthChecker
		limiter     middleware.IPRateLimiter
	)
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			return errors.New(sanitizeError(err, cfg.RedisURL))
		}
		cacheCheck = cacheClient
		limiter = cacheClient
		logger.Info("connected to Redis")
	} else {
		logger.Warn("REDIS_URL not set, rate limiting disabled")
	}

	verifier, err := auth.NewClientVerifier(cfg.ClientID, cfg.ClientSecret, cfg.AuthorizeMaxConcurrent)
	if err != nil {
		return err
	}
	keys, err := token.NewKeys(cfg.JWTSecret)
	if err != nil {
		return err
	}
	tokens := token.NewService(keys, token.Config{
		Subject: cfg.TokenSubject,
		Company: cfg.TokenCompany,
		TTL:     cfg.TokenTTL,
	})

	renderer, err := web.NewRenderer()
	if err != nil {
		return err
	}
	assets, err := web.Assets(cfg.AssetsDir)
	if err != nil {
		return err
	}

	recorder := metrics.NewInMemory()

	r := router.New(router.Deps{
		Config:      cfg,
		Logger:      logger,
		Greet:       handler.NewGreetHandler(renderer, logger, recorder),
		Pages:       handler.NewPageHandler(assets),
		Samples:     handler.NewSampleHandler(repo, logger, recorder),
		Auth:        handler.NewAuthHandler(verifier, tokens, logger, recorder),
		Health:      handler.NewHealthHandler(repo, cacheCheck),
		Metrics:     handler.NewMetricsHandler(recorder),
		TokenParser: tokens,
		RateLimiter: limiter,
		Recorder:    recorder,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"rate_limit", cfg.RateLimitEnabled(),
		"assets_dir", cfg.AssetsDir,
	)

	return srv.Run(ctx)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
