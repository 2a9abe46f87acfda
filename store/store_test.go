package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/HariniKartheeswaran/queuectl"
	"github.com/HariniKartheeswaran/queuectl/job"
)

func testStore(t *testing.T, opts ...Option) *FileStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "jobs.json"), opts...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestOpenCreatesParentDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "data", "jobs.json")
	if _, err := Open(path); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("parent dir not created: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	j := job.New("echo round-trip", now,
		job.WithPriority(7),
		job.WithMaxRetries(5),
		job.WithTimeout(30*time.Second),
	)
	if err := s.Enqueue(ctx, j); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	// Reload through a fresh handle, as a separate process would.
	reopened, err := Open(s.Path())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(ctx, j.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.ID != j.ID || got.Command != j.Command || got.State != j.State ||
		got.Priority != j.Priority || got.MaxRetries != j.MaxRetries ||
		got.Timeout != j.Timeout || !got.CreatedAt.Equal(j.CreatedAt) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, j)
	}
}

func TestCorruptStoreIsNeverOverwritten(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	ctx := context.Background()

	garbage := []byte("{not json at all")
	if err := os.WriteFile(s.Path(), garbage, 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	j := job.New("echo hi", time.Now().UTC())
	if err := s.Enqueue(ctx, j); !errors.Is(err, queuectl.ErrCorruptStore) {
		t.Fatalf("Enqueue on corrupt store: got %v, want ErrCorruptStore", err)
	}
	if _, err := s.List(ctx, job.ListOpts{}); !errors.Is(err, queuectl.ErrCorruptStore) {
		t.Fatalf("List on corrupt store: got %v, want ErrCorruptStore", err)
	}

	// Fail safe: the broken file must be left exactly as it was.
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != string(garbage) {
		t.Fatalf("corrupt store was rewritten: %q", data)
	}
}

func TestInconsistentRecordIsCorrupt(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	ctx := context.Background()

	// A record keyed under a different id than it carries.
	blob := []byte(`{"jobs":{"mismatched-key":{"id":"7d444840-9dc0-11d1-b245-5ffdce74fad2","command":"echo","state":"pending","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}}}`)
	if err := os.WriteFile(s.Path(), blob, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := s.List(ctx, job.ListOpts{}); !errors.Is(err, queuectl.ErrCorruptStore) {
		t.Fatalf("got %v, want ErrCorruptStore", err)
	}
}

func TestLockTimeout(t *testing.T) {
	t.Parallel()

	s := testStore(t, WithLockTimeout(150*time.Millisecond))
	ctx := context.Background()

	// Simulate another process holding the store lock.
	foreign := flock.New(s.Path() + ".lock")
	if err := foreign.Lock(); err != nil {
		t.Fatalf("foreign lock: %v", err)
	}
	defer foreign.Unlock()

	j := job.New("echo hi", time.Now().UTC())
	start := time.Now()
	err := s.Enqueue(ctx, j)
	if !errors.Is(err, queuectl.ErrLockTimeout) {
		t.Fatalf("got %v, want ErrLockTimeout", err)
	}
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Fatalf("gave up after %v, before the lock timeout", elapsed)
	}
}

func TestReadDoesNotNeedLock(t *testing.T) {
	t.Parallel()

	s := testStore(t, WithLockTimeout(100*time.Millisecond))
	ctx := context.Background()

	j := job.New("echo hi", time.Now().UTC())
	if err := s.Enqueue(ctx, j); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	foreign := flock.New(s.Path() + ".lock")
	if err := foreign.Lock(); err != nil {
		t.Fatalf("foreign lock: %v", err)
	}
	defer foreign.Unlock()

	// Reads go against the current file and must not block on the writer
	// lock.
	if _, err := s.Get(ctx, j.ID); err != nil {
		t.Fatalf("Get while locked: %v", err)
	}
	jobs, err := s.List(ctx, job.ListOpts{})
	if err != nil {
		t.Fatalf("List while locked: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs, want 1", len(jobs))
	}
}

func TestAbortedTransactionWritesNothing(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	ctx := context.Background()

	j := job.New("echo hi", time.Now().UTC())
	if err := s.Enqueue(ctx, j); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	before, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	// Cancel on a missing job aborts its transaction.
	if err := s.Cancel(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, queuectl.ErrJobNotFound) {
		t.Fatalf("got %v, want ErrJobNotFound", err)
	}

	after, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("aborted transaction modified the store file")
	}
}
