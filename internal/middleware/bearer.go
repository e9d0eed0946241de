package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/webdemo/webdemo/internal/metrics"
	"github.com/webdemo/webdemo/internal/token"
)

// TokenParser validates a raw bearer token.
type TokenParser interface {
	Parse(tokenString string) (*token.Claims, error)
}

// BearerConfig holds configuration for the bearer auth middleware.
type BearerConfig struct {
	Logger  *slog.Logger
	Parser  TokenParser
	Metrics metrics.Recorder
}

// Bearer returns a middleware that requires a valid bearer token and stores
// its claims in the request context.
func Bearer(cfg BearerConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := extractBearerToken(r)
			if !ok {
				rejectToken(cfg, w, r, "missing_token")
				return
			}

			claims, err := cfg.Parser.Parse(raw)
			if err != nil {
				rejectToken(cfg, w, r, "invalid_token")
				return
			}

			ctx := token.ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken reads "Authorization: Bearer <token>". The scheme is
// matched case-insensitively.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	return raw, true
}

// rejectToken writes a 401. The same body is used for every failure.
func rejectToken(cfg BearerConfig, w http.ResponseWriter, r *http.Request, reason string) {
	cfg.Logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
	if cfg.Metrics != nil {
		cfg.Metrics.IncAuthFailure(metrics.ReasonInvalidToken)
	}

	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
}
