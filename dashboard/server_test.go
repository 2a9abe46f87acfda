package dashboard_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/HariniKartheeswaran/queuectl/dashboard"
	"github.com/HariniKartheeswaran/queuectl/id"
	"github.com/HariniKartheeswaran/queuectl/job"
	"github.com/HariniKartheeswaran/queuectl/store"
)

func testServer(t *testing.T) (*dashboard.Server, *store.FileStore) {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "queue.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return dashboard.New(s, logger), s
}

func get(t *testing.T, srv *dashboard.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()

	srv, s := testServer(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// One completed, one pending, one running.
	done := job.New("echo done", now, job.WithPriority(10))
	pending := job.New("echo later", now)
	active := job.New("sleep 60", now, job.WithPriority(5))
	for _, j := range []*job.Job{done, pending, active} {
		if err := s.Enqueue(ctx, j); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	worker := id.NewWorkerID(1)
	if _, err := s.ClaimNext(ctx, worker); err != nil {
		t.Fatalf("ClaimNext: %v", err)
	}
	res := job.Result{Output: "done", ExecutionTime: 50 * time.Millisecond}
	if err := s.Report(ctx, done.ID, worker, res); err != nil {
		t.Fatalf("Report: %v", err)
	}
	if _, err := s.ClaimNext(ctx, worker); err != nil {
		t.Fatalf("ClaimNext: %v", err)
	}

	rec := get(t, srv, "/api/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var st store.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Total != 3 {
		t.Errorf("Total = %d, want 3", st.Total)
	}
	if st.ByState[job.StateCompleted] != 1 || st.ByState[job.StateRunning] != 1 || st.ByState[job.StatePending] != 1 {
		t.Errorf("ByState = %v", st.ByState)
	}
	if len(st.ActiveWorkers) != 1 || st.ActiveWorkers[0].Command != "sleep 60" {
		t.Errorf("ActiveWorkers = %+v", st.ActiveWorkers)
	}
}

func TestJobsEndpointFilterAndLimit(t *testing.T) {
	t.Parallel()

	srv, s := testServer(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		if err := s.Enqueue(ctx, job.New("echo hi", now)); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}

	rec := get(t, srv, "/api/jobs?state=pending&limit=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var jobs []*job.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &jobs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	for _, j := range jobs {
		if j.State != job.StatePending {
			t.Errorf("job %s in state %s", j.ID, j.State)
		}
	}

	if rec := get(t, srv, "/api/jobs?state=bogus"); rec.Code != http.StatusBadRequest {
		t.Errorf("bogus state: status = %d, want 400", rec.Code)
	}
}

func TestConfigEndpoint(t *testing.T) {
	t.Parallel()

	srv, s := testServer(t)
	if err := s.ConfigSet(context.Background(), "max-retries", "7"); err != nil {
		t.Fatalf("ConfigSet: %v", err)
	}

	rec := get(t, srv, "/api/config")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var cfg map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg["max-retries"] != "7" {
		t.Errorf("max-retries = %q, want 7", cfg["max-retries"])
	}
}

func TestIndexPageRenders(t *testing.T) {
	t.Parallel()

	srv, s := testServer(t)
	if err := s.Enqueue(context.Background(), job.New("echo page", time.Now().UTC())); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	rec := get(t, srv, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "queuectl") || !strings.Contains(body, "echo page") {
		t.Fatalf("page missing expected content:\n%s", body)
	}
}

func TestGracefulShutdown(t *testing.T) {
	t.Parallel()

	srv, _ := testServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}
