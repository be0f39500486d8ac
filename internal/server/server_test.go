package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/me/rota/internal/config"
	"github.com/me/rota/internal/store"
	"github.com/me/rota/pkg/model"
)

func testServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	return testServerWithConfig(t, config.DefaultConfig(), opts...)
}

func testServerWithConfig(t *testing.T, cfg config.Config, opts ...Option) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := store.NewSQLiteStore(":memory:", logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(cfg, st, logger, opts...)
}

// envelope is used to decode the standard response envelope.
type envelope struct {
	Status     string            `json:"status"`
	RequestID  string            `json:"request_id"`
	Timestamp  string            `json:"timestamp"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      *model.APIError   `json:"error"`
}

func do(t *testing.T, srv *Server, method, path, body string, wantStatus int) envelope {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != wantStatus {
		t.Fatalf("%s %s: status=%d, want %d, body=%s", method, path, w.Code, wantStatus, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid JSON: %v", method, path, err)
	}
	return env
}

func doGet(t *testing.T, srv *Server, path string) envelope {
	t.Helper()
	return do(t, srv, "GET", path, "", http.StatusOK)
}

// pairRoster has six interchangeable workers and three pair jobs, which
// always allocates completely on the first attempt.
const pairRoster = `{
	"workers": [
		{"name": "A", "height": "MEDIUM", "stamina": "MEDIUM"},
		{"name": "B", "height": "MEDIUM", "stamina": "MEDIUM"},
		{"name": "C", "height": "MEDIUM", "stamina": "MEDIUM"},
		{"name": "D", "height": "MEDIUM", "stamina": "MEDIUM"},
		{"name": "E", "height": "MEDIUM", "stamina": "MEDIUM"},
		{"name": "F", "height": "MEDIUM", "stamina": "MEDIUM"}
	],
	"jobs": [
		{"name": "Cross", "requires_pair": true},
		{"name": "Candles", "requires_pair": true},
		{"name": "Book", "requires_pair": true}
	]
}`

func TestDiscovery(t *testing.T) {
	srv := testServer(t)
	env := doGet(t, srv, "/api/v1/")
	if env.Status != "ok" {
		t.Errorf("status = %q, want ok", env.Status)
	}
	if env.RequestID == "" {
		t.Error("request_id is empty")
	}

	var data struct {
		Name      string `json:"name"`
		Endpoints []struct {
			Path string `json:"path"`
		} `json:"endpoints"`
	}
	json.Unmarshal(env.Data, &data)
	if data.Name != "rota API" {
		t.Errorf("name = %q, want rota API", data.Name)
	}
	for _, ep := range data.Endpoints {
		if ep.Path == "/metrics" {
			t.Error("/metrics advertised without a registry")
		}
	}
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	env := doGet(t, srv, "/api/v1/health")

	var data struct {
		Status    string `json:"status"`
		GoVersion string `json:"go_version"`
	}
	json.Unmarshal(env.Data, &data)
	if data.Status != "healthy" {
		t.Errorf("status = %q, want healthy", data.Status)
	}
	if data.GoVersion == "" {
		t.Error("go_version is empty")
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	id := w.Header().Get("X-Request-ID")
	if !strings.HasPrefix(id, "req_") {
		t.Errorf("X-Request-ID = %q, want req_ prefix", id)
	}
}

func TestEmptyRoster(t *testing.T) {
	srv := testServer(t)
	env := doGet(t, srv, "/api/v1/workers")
	if string(env.Data) != "[]" {
		t.Errorf("workers = %s, want []", env.Data)
	}
}

func TestNotFoundRoute(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest("GET", "/api/v1/nope", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestReplaceRoster(t *testing.T) {
	srv := testServer(t)
	env := do(t, srv, "PUT", "/api/v1/roster", pairRoster, http.StatusOK)

	var sum rosterSummary
	if err := json.Unmarshal(env.Data, &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.Workers != 6 || sum.Jobs != 3 || sum.Slots != 6 || !sum.Coverable {
		t.Errorf("summary = %+v", sum)
	}

	env = doGet(t, srv, "/api/v1/workers")
	var workers []model.Worker
	json.Unmarshal(env.Data, &workers)
	if len(workers) != 6 || workers[0].Name != "A" || workers[5].Name != "F" {
		t.Errorf("workers = %+v", workers)
	}
	if workers[0].Size != model.SizeMedium {
		t.Errorf("A height = %v, want MEDIUM", workers[0].Size)
	}

	env = doGet(t, srv, "/api/v1/jobs")
	var jobs []model.Job
	json.Unmarshal(env.Data, &jobs)
	if len(jobs) != 3 || !jobs[1].RequiresPair {
		t.Errorf("jobs = %+v", jobs)
	}
}

func TestReplaceRoster_Validation(t *testing.T) {
	srv := testServer(t)
	body := `{"workers": [{"name": "A"}, {"name": "A"}, {"name": ""}], "jobs": [{"name": "Cross"}]}`
	env := do(t, srv, "PUT", "/api/v1/roster", body, http.StatusBadRequest)

	if env.Status != "error" {
		t.Errorf("status = %q, want error", env.Status)
	}
	if env.Error == nil || env.Error.Code != model.ErrValidation {
		t.Fatalf("error = %+v, want VALIDATION_ERROR", env.Error)
	}
	if len(env.Error.Details) != 2 {
		t.Errorf("details = %+v, want 2", env.Error.Details)
	}

	// Nothing was stored.
	env = doGet(t, srv, "/api/v1/workers")
	if string(env.Data) != "[]" {
		t.Errorf("workers = %s, want []", env.Data)
	}
}

func TestReplaceRoster_BadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{workers`},
		{"unknown field", `{"workers": [], "jobs": [], "extra": 1}`},
		{"bad enum", `{"workers": [{"name": "A", "height": "GIANT"}], "jobs": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testServer(t)
			env := do(t, srv, "PUT", "/api/v1/roster", tt.body, http.StatusBadRequest)
			if env.Error == nil || env.Error.Code != model.ErrValidation {
				t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
			}
		})
	}
}

func TestGetRoster(t *testing.T) {
	srv := testServer(t)
	do(t, srv, "PUT", "/api/v1/roster", pairRoster, http.StatusOK)

	env := doGet(t, srv, "/api/v1/roster")
	var data struct {
		Workers []json.RawMessage `json:"workers"`
		Jobs    []json.RawMessage `json:"jobs"`
	}
	json.Unmarshal(env.Data, &data)
	if len(data.Workers) != 6 || len(data.Jobs) != 3 {
		t.Errorf("roster = %d workers, %d jobs", len(data.Workers), len(data.Jobs))
	}
	if bytes.Contains(env.Data, []byte("JobsAssigned")) {
		t.Error("per-round counter leaked into roster JSON")
	}
}
