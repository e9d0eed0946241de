package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/webdemo/webdemo/internal/auth"
	"github.com/webdemo/webdemo/internal/handler/dto"
	"github.com/webdemo/webdemo/internal/metrics"
	"github.com/webdemo/webdemo/internal/middleware"
	"github.com/webdemo/webdemo/internal/token"
)

type stubVerifier struct{ err error }

func (s stubVerifier) Verify(context.Context, string, string) error { return s.err }

type failingIssuer struct{}

func (failingIssuer) Issue() (string, *token.Claims, error) {
	return "", nil, token.ErrTokenCreation
}

func newTokenService(t *testing.T) *token.Service {
	t.Helper()
	keys, err := token.NewKeys("handler-test-secret")
	if err != nil {
		t.Fatalf("NewKeys: %v", err)
	}
	return token.NewService(keys, token.Config{Subject: "b@b.com", Company: "ACME", TTL: time.Hour})
}

func TestAuthHandler_Authorize(t *testing.T) {
	t.Parallel()

	verifier, err := auth.NewClientVerifier("foo", "bar", auth.DefaultMaxConcurrent)
	if err != nil {
		t.Fatalf("NewClientVerifier: %v", err)
	}

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{name: "invalid json", body: `{"client_id":`, wantCode: http.StatusBadRequest, wantErr: "INVALID_JSON"},
		{name: "missing secret", body: `{"client_id":"foo"}`, wantCode: http.StatusBadRequest, wantErr: "MISSING_CREDENTIALS"},
		{name: "missing id", body: `{"client_secret":"bar"}`, wantCode: http.StatusBadRequest, wantErr: "MISSING_CREDENTIALS"},
		{name: "wrong secret", body: `{"client_id":"foo","client_secret":"baz"}`, wantCode: http.StatusUnauthorized, wantErr: "WRONG_CREDENTIALS"},
		{name: "wrong id", body: `{"client_id":"qux","client_secret":"bar"}`, wantCode: http.StatusUnauthorized, wantErr: "WRONG_CREDENTIALS"},
		{name: "valid", body: `{"client_id":"foo","client_secret":"bar"}`, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newTokenService(t)
			h := NewAuthHandler(verifier, svc, testLogger(), metrics.NewNoop())

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/authorize", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			h.Authorize(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}

			if tt.wantErr != "" {
				if got := decodeError(t, rec); got.Code != tt.wantErr {
					t.Errorf("error code = %q, want %q", got.Code, tt.wantErr)
				}
				return
			}

			var body dto.AuthBody
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.TokenType != dto.TokenTypeBearer {
				t.Errorf("token_type = %q", body.TokenType)
			}
			claims, err := svc.Parse(body.AccessToken)
			if err != nil {
				t.Fatalf("issued token does not parse: %v", err)
			}
			if claims.Subject != "b@b.com" || claims.Company != "ACME" {
				t.Errorf("unexpected claims: %+v", claims)
			}
			if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
				t.Errorf("Cache-Control = %q", cc)
			}
		})
	}
}

func TestAuthHandler_AuthorizeFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		verifier CredentialVerifier
		issuer   TokenIssuer
		wantCode int
		wantErr  string
	}{
		{
			name:     "signing failure",
			verifier: stubVerifier{},
			issuer:   failingIssuer{},
			wantCode: http.StatusInternalServerError,
			wantErr:  "TOKEN_CREATION",
		},
		{
			name:     "verifier saturated",
			verifier: stubVerifier{err: auth.ErrBusy},
			issuer:   failingIssuer{},
			wantCode: http.StatusServiceUnavailable,
			wantErr:  "SERVER_BUSY",
		},
		{
			name:     "verifier internal error",
			verifier: stubVerifier{err: errors.New("corrupt hash")},
			issuer:   failingIssuer{},
			wantCode: http.StatusInternalServerError,
			wantErr:  "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewAuthHandler(tt.verifier, tt.issuer, testLogger(), metrics.NewNoop())
			rec := httptest.NewRecorder()
			h.Authorize(rec, httptest.NewRequest(http.MethodPost, "/authorize",
				strings.NewReader(`{"client_id":"foo","client_secret":"bar"}`)))

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if got := decodeError(t, rec); got.Code != tt.wantErr {
				t.Errorf("error code = %q, want %q", got.Code, tt.wantErr)
			}
		})
	}
}

func TestAuthHandler_AuthorizeBodyTooLarge(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(stubVerifier{}, newTokenService(t), testLogger(), metrics.NewNoop())
	limited := middleware.MaxBodySize(64)(http.HandlerFunc(h.Authorize))

	body := `{"client_id":"foo","client_secret":"` + strings.Repeat("x", 256) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/authorize", io.NopCloser(strings.NewReader(body)))
	// Chunked upload: the size is only discovered while reading.
	req.ContentLength = -1

	rec := httptest.NewRecorder()
	limited.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status 413, got %d", rec.Code)
	}
	if got := decodeError(t, rec); got.Code != "PAYLOAD_TOO_LARGE" {
		t.Errorf("error code = %q, want PAYLOAD_TOO_LARGE", got.Code)
	}
}

func TestAuthHandler_AuthorizeMetrics(t *testing.T) {
	t.Parallel()

	rec := metrics.NewInMemory()
	h := NewAuthHandler(stubVerifier{err: auth.ErrWrongCredentials}, newTokenService(t), testLogger(), rec)
	h.Authorize(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/authorize",
		strings.NewReader(`{"client_id":"foo","client_secret":"nope"}`)))

	h = NewAuthHandler(stubVerifier{}, newTokenService(t), testLogger(), rec)
	h.Authorize(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/authorize",
		strings.NewReader(`{"client_id":"foo","client_secret":"bar"}`)))

	snap := rec.Snapshot()
	if snap.AuthWrongCredentials != 1 || snap.TokensIssued != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestAuthHandler_Protected(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(stubVerifier{}, failingIssuer{}, testLogger(), metrics.NewNoop())

	t.Run("with claims", func(t *testing.T) {
		t.Parallel()

		claims := &token.Claims{Company: "ACME"}
		claims.Subject = "b@b.com"

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req = req.WithContext(token.ContextWithClaims(req.Context(), claims))
		rec := httptest.NewRecorder()
		h.Protected(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		want := "Welcome to the protected area :)\nYour data:\nEmail: b@b.com\nCompany: ACME"
		if body := rec.Body.String(); body != want {
			t.Errorf("body = %q, want %q", body, want)
		}
	})

	t.Run("without claims", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		h.Protected(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
		if got := decodeError(t, rec); got.Code != "INVALID_TOKEN" {
			t.Errorf("unexpected error: %+v", got)
		}
	})
}
