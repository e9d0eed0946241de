package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/webdemo/webdemo/internal/metrics"
	"github.com/webdemo/webdemo/internal/model"
	"github.com/webdemo/webdemo/internal/testutil"
)

type fakeSampleLister struct {
	samples []model.Sample
	err     error
}

func (f *fakeSampleLister) ListSamples(context.Context) ([]model.Sample, error) {
	return f.samples, f.err
}

func TestSampleHandler_List(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lister   *fakeSampleLister
		wantBody string
	}{
		{
			name: "rows with null name",
			lister: &fakeSampleLister{samples: []model.Sample{
				{ID: 1, Name: testutil.StringPtr("alpha")},
				{ID: 2},
			}},
			wantBody: `[{"id":1,"name":"alpha"},{"id":2,"name":null}]`,
		},
		{
			name:     "empty table",
			lister:   &fakeSampleLister{samples: []model.Sample{}},
			wantBody: `[]`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewSampleHandler(tt.lister, testLogger(), metrics.NewNoop())
			rec := httptest.NewRecorder()
			h.List(rec, httptest.NewRequest(http.MethodGet, "/sample", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", rec.Code)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Errorf("body = %s, want %s", got, tt.wantBody)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}
		})
	}
}

func TestSampleHandler_ListError(t *testing.T) {
	t.Parallel()

	rec := metrics.NewInMemory()
	h := NewSampleHandler(&fakeSampleLister{err: errors.New("relation \"sample\" does not exist")}, testLogger(), rec)

	w := httptest.NewRecorder()
	h.List(w, httptest.NewRequest(http.MethodGet, "/sample", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	if got := decodeError(t, w); got.Code != "DATABASE_ERROR" {
		t.Errorf("unexpected error: %+v", got)
	}
	if strings.Contains(w.Body.String(), "relation") {
		t.Error("database error leaked into response")
	}

	snap := rec.Snapshot()
	if snap.SampleQuerySuccesses != 0 || snap.SampleQueryErrors != 1 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}
