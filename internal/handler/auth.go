package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/webdemo/webdemo/internal/auth"
	"github.com/webdemo/webdemo/internal/handler/dto"
	"github.com/webdemo/webdemo/internal/metrics"
	"github.com/webdemo/webdemo/internal/middleware"
	"github.com/webdemo/webdemo/internal/token"
)

// CredentialVerifier checks client credentials.
type CredentialVerifier interface {
	Verify(ctx context.Context, clientID, clientSecret string) error
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue() (string, *token.Claims, error)
}

// AuthHandler exchanges credentials for tokens and serves the protected page.
type AuthHandler struct {
	verifier CredentialVerifier
	issuer   TokenIssuer
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(verifier CredentialVerifier, issuer TokenIssuer, logger *slog.Logger, rec metrics.Recorder) *AuthHandler {
	return &AuthHandler{verifier: verifier, issuer: issuer, logger: logger, metrics: rec}
}

// Authorize handles POST /authorize.
func (h *AuthHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	var payload dto.AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		// Bodies without Content-Length only hit the size limit while decoding.
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := h.verifier.Verify(r.Context(), payload.ClientID, payload.ClientSecret); err != nil {
		h.handleVerifyError(w, r, err)
		return
	}

	signed, claims, err := h.issuer.Issue()
	if err != nil {
		h.logger.Error("failed to issue token",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "TOKEN_CREATION", "Token creation error")
		return
	}

	h.metrics.IncTokenIssued()
	h.logger.Info("token issued",
		slog.String("jti", claims.ID),
		slog.String("sub", claims.Subject),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
	)

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, dto.NewAuthBody(signed))
}

func (h *AuthHandler) handleVerifyError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		h.metrics.IncAuthFailure(metrics.ReasonMissingCredentials)
		writeError(w, http.StatusBadRequest, "MISSING_CREDENTIALS", "Missing credentials")
	case errors.Is(err, auth.ErrWrongCredentials):
		h.metrics.IncAuthFailure(metrics.ReasonWrongCredentials)
		h.logger.Warn("authentication failed",
			slog.String("reason", "wrong_credentials"),
			slog.String("ip", r.RemoteAddr),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusUnauthorized, "WRONG_CREDENTIALS", "Wrong credentials")
	case errors.Is(err, auth.ErrBusy):
		h.logger.Warn("credential verification saturated",
			slog.String("ip", r.RemoteAddr),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "SERVER_BUSY", "Too many concurrent requests, retry later")
	default:
		h.logger.Error("credential verification failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// Protected handles GET /protected. The bearer middleware must run first.
func (h *AuthHandler) Protected(w http.ResponseWriter, r *http.Request) {
	claims := token.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
		return
	}

	h.metrics.IncProtectedAccess()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "Welcome to the protected area :)\nYour data:\n%s", claims)
}
