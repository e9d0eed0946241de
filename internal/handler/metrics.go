package handler

import (
	"fmt"
	"net/http"

	"github.com/webdemo/webdemo/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "webdemo_greetings_rendered_total %d\n", snap.GreetingsRendered)

	writeMetric(w, "webdemo_sample_queries_total{status=\"success\"} %d\n", snap.SampleQuerySuccesses)
	writeMetric(w, "webdemo_sample_queries_total{status=\"error\"} %d\n", snap.SampleQueryErrors)
	writeMetric(w, "webdemo_sample_query_duration_seconds_count %d\n", snap.SampleQueryDurationCount)
	writeMetric(w, "webdemo_sample_query_duration_seconds_sum %.6f\n", float64(snap.SampleQueryDurationNs)/1e9)

	writeMetric(w, "webdemo_tokens_issued_total %d\n", snap.TokensIssued)
	writeMetric(w, "webdemo_auth_failures_total{reason=%q} %d\n", metrics.ReasonMissingCredentials, snap.AuthMissingCredentials)
	writeMetric(w, "webdemo_auth_failures_total{reason=%q} %d\n", metrics.ReasonWrongCredentials, snap.AuthWrongCredentials)
	writeMetric(w, "webdemo_auth_failures_total{reason=%q} %d\n", metrics.ReasonInvalidToken, snap.AuthInvalidTokens)
	writeMetric(w, "webdemo_protected_access_total %d\n", snap.ProtectedAccesses)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
