package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"

	"github.com/webdemo/webdemo/internal/handler/dto"
	"github.com/webdemo/webdemo/internal/testutil"
)

// loadOpenAPI loads and validates the OpenAPI document in docs/api.
func loadOpenAPI(t *testing.T) (*openapi3.T, routers.Router) {
	t.Helper()

	root, err := testutil.ProjectRoot()
	if err != nil {
		t.Fatalf("project root: %v", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(filepath.Join(root, "docs", "api", "openapi.yaml"))
	if err != nil {
		t.Fatalf("failed to load OpenAPI document: %v", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI document validation failed: %v", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		t.Fatalf("failed to create router from document: %v", err)
	}

	return doc, router
}

func TestContract_PathsDocumented(t *testing.T) {
	t.Parallel()

	doc, _ := loadOpenAPI(t)

	for _, path := range []string{
		"/", "/greet/{name}", "/sample", "/authorize", "/protected",
		"/healthz", "/readyz", "/metrics",
	} {
		if doc.Paths.Find(path) == nil {
			t.Errorf("path %s not found in OpenAPI document", path)
		}
	}
}

func TestContract_Responses(t *testing.T) {
	t.Parallel()

	_, docRouter := loadOpenAPI(t)
	srv, _ := newTestServer(t, nil)

	_, tokenBody := authorize(t, srv.URL, `{"client_id":"foo","client_secret":"bar"}`)
	accessToken := extractAccessToken(t, tokenBody)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		auth       string
		wantStatus int
	}{
		{name: "sample", method: http.MethodGet, path: "/sample", wantStatus: http.StatusOK},
		{name: "healthz", method: http.MethodGet, path: "/healthz", wantStatus: http.StatusOK},
		{name: "readyz", method: http.MethodGet, path: "/readyz", wantStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "authorize ok", method: http.MethodPost, path: "/authorize", body: `{"client_id":"foo","client_secret":"bar"}`, wantStatus: http.StatusOK},
		{name: "authorize missing", method: http.MethodPost, path: "/authorize", body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "authorize wrong", method: http.MethodPost, path: "/authorize", body: `{"client_id":"foo","client_secret":"x"}`, wantStatus: http.StatusUnauthorized},
		{name: "protected ok", method: http.MethodGet, path: "/protected", auth: "Bearer " + accessToken, wantStatus: http.StatusOK},
		{name: "protected no token", method: http.MethodGet, path: "/protected", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}

			resp, body := do(t, req)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, resp.StatusCode, body)
			}

			route, pathParams, err := docRouter.FindRoute(req)
			if err != nil {
				t.Fatalf("could not find route in OpenAPI document: %v", err)
			}

			input := &openapi3filter.ResponseValidationInput{
				RequestValidationInput: &openapi3filter.RequestValidationInput{
					Request:    req,
					PathParams: pathParams,
					Route:      route,
				},
				Status: resp.StatusCode,
				Header: resp.Header,
				Body:   io.NopCloser(strings.NewReader(body)),
			}
			if err := openapi3filter.ValidateResponse(context.Background(), input); err != nil {
				t.Errorf("response validation failed: %v", err)
			}
		})
	}
}

func extractAccessToken(t *testing.T, body string) string {
	t.Helper()
	var authBody dto.AuthBody
	if err := json.Unmarshal([]byte(body), &authBody); err != nil {
		t.Fatalf("decode auth body: %v", err)
	}
	return authBody.AccessToken
}
