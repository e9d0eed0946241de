package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/webdemo/webdemo/internal/metrics"
	"github.com/webdemo/webdemo/internal/middleware"
	"github.com/webdemo/webdemo/internal/model"
)

// SampleLister reads the sample table.
type SampleLister interface {
	ListSamples(ctx context.Context) ([]model.Sample, error)
}

// SampleHandler serves the sample table as JSON.
type SampleHandler struct {
	repo    SampleLister
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewSampleHandler creates a new SampleHandler.
func NewSampleHandler(repo SampleLister, logger *slog.Logger, rec metrics.Recorder) *SampleHandler {
	return &SampleHandler{repo: repo, logger: logger, metrics: rec}
}

// List handles GET /sample.
func (h *SampleHandler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	samples, err := h.repo.ListSamples(r.Context())
	h.metrics.ObserveSampleQueryDuration(time.Since(start))
	h.metrics.IncSampleQuery(err == nil)

	if err != nil {
		h.logger.Error("failed to list samples",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load samples")
		return
	}

	writeJSON(w, http.StatusOK, samples)
}
