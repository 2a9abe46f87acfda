package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/HariniKartheeswaran/queuectl"
	"github.com/HariniKartheeswaran/queuectl/job"
)

// snapshot is the full persisted state: every job keyed by id plus the
// shared config map.
type snapshot struct {
	Jobs   map[string]*job.Job `json:"jobs"`
	Config map[string]string   `json:"config,omitempty"`
}

func newSnapshot() *snapshot {
	return &snapshot{
		Jobs:   make(map[string]*job.Job),
		Config: make(map[string]string),
	}
}

// FileStore is the durable store backed by one JSON file.
// Safe for concurrent use by any number of goroutines and processes.
type FileStore struct {
	path        string
	lock        *flock.Flock
	lockTimeout time.Duration
	retryDelay  time.Duration
	logger      *slog.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLockTimeout bounds how long a transaction waits for the store lock
// before failing with ErrLockTimeout.
func WithLockTimeout(d time.Duration) Option {
	return func(s *FileStore) { s.lockTimeout = d }
}

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *FileStore) { s.logger = l }
}

// Open prepares a FileStore at path. The file itself is created lazily on
// the first transaction; only the parent directory is created here.
func Open(path string, opts ...Option) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	s := &FileStore{
		path:        path,
		lock:        flock.New(path + ".lock"),
		lockTimeout: 10 * time.Second,
		retryDelay:  25 * time.Millisecond,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// transact runs fn inside an exclusive read-modify-write cycle. If fn
// returns an error the transaction aborts and nothing is written.
func (s *FileStore) transact(ctx context.Context, fn func(*snapshot) error) error {
	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	locked, err := s.lock.TryLockContext(lockCtx, s.retryDelay)
	if err != nil || !locked {
		return fmt.Errorf("%w: %s held for over %s", queuectl.ErrLockTimeout, s.path, s.lockTimeout)
	}
	defer func() {
		if unlockErr := s.lock.Unlock(); unlockErr != nil {
			s.logger.Error("store unlock failed",
				slog.String("path", s.path),
				slog.String("error", unlockErr.Error()),
			)
		}
	}()

	snap, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		return err
	}
	return s.save(snap)
}

// view runs fn against a read snapshot without taking the exclusive lock.
// The atomic rename on commit guarantees the file read here is always a
// complete pre- or post-transaction state.
func (s *FileStore) view(fn func(*snapshot) error) error {
	snap, err := s.load()
	if err != nil {
		return err
	}
	return fn(snap)
}

// load reads and parses the backing file. A missing file is an empty
// store; an unparseable one fails with ErrCorruptStore and is never
// overwritten or truncated.
func (s *FileStore) load() (*snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newSnapshot(), nil
		}
		return nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}

	snap := newSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", queuectl.ErrCorruptStore, s.path, err)
	}
	if snap.Jobs == nil {
		snap.Jobs = make(map[string]*job.Job)
	}
	if snap.Config == nil {
		snap.Config = make(map[string]string)
	}
	for key, j := range snap.Jobs {
		if j == nil || j.ID.String() != key || !j.State.Valid() {
			return nil, fmt.Errorf("%w: %s: inconsistent record %q", queuectl.ErrCorruptStore, s.path, key)
		}
	}
	return snap, nil
}

// save persists snap with write-to-temp-then-rename so a crash mid-write
// can never leave a partially written store behind.
func (s *FileStore) save(snap *snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".queuectl-*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("store: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("store: chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("store: commit %s: %w", s.path, err)
	}
	return nil
}
