package handler

import (
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/webdemo/webdemo/internal/metrics"
)

// MaxNameLength bounds the name accepted by GET /greet/{name}.
const MaxNameLength = 100

// GreetingRenderer renders the greeting page.
type GreetingRenderer interface {
	Greeting(w io.Writer, name string) error
}

// GreetHandler serves the HTML greeting page.
type GreetHandler struct {
	renderer GreetingRenderer
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewGreetHandler creates a new GreetHandler.
func NewGreetHandler(renderer GreetingRenderer, logger *slog.Logger, rec metrics.Recorder) *GreetHandler {
	return &GreetHandler{renderer: renderer, logger: logger, metrics: rec}
}

// Greet handles GET /greet/{name}.
func (h *GreetHandler) Greet(w http.ResponseWriter, r *http.Request) {
	name, err := greetName(r)
	if err != nil {
		http.Error(w, "Invalid name", http.StatusBadRequest)
		return
	}

	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxNameLength {
		http.Error(w, "Invalid name", http.StatusBadRequest)
		return
	}

	h.logger.Debug("greeting", slog.String("name", name))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Greeting(w, name); err != nil {
		h.logger.Error("failed to render template", slog.String("error", err.Error()))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "Failed to render template. Error: "+err.Error())
		return
	}

	h.metrics.IncGreetingRendered()
}

// greetName returns the decoded {name} segment. chi matches against RawPath
// when the request path carries escapes like %2F, so those are decoded here.
func greetName(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}
