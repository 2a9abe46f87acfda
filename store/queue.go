package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/HariniKartheeswaran/queuectl"
	"github.com/HariniKartheeswaran/queuectl/backoff"
	"github.com/HariniKartheeswaran/queuectl/id"
	"github.com/HariniKartheeswaran/queuectl/job"
)

// Compile-time check that FileStore satisfies the job persistence contract.
var _ job.Store = (*FileStore)(nil)

// Enqueue persists a new job in its initial state.
func (s *FileStore) Enqueue(ctx context.Context, j *job.Job) error {
	err := s.transact(ctx, func(snap *snapshot) error {
		key := j.ID.String()
		if _, exists := snap.Jobs[key]; exists {
			return fmt.Errorf("%w: %s", queuectl.ErrJobAlreadyExists, key)
		}
		cp := *j
		snap.Jobs[key] = &cp
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("job enqueued",
		slog.String("job_id", j.ID.String()),
		slog.String("command", j.Command),
		slog.Int("priority", j.Priority),
	)
	return nil
}

// ClaimNext atomically selects and claims the next eligible job for
// worker. Returns (nil, nil) when nothing is eligible: claim selection and
// the pending→running mutation are indivisible under the store lock, so
// two racing workers are serialized and exactly one wins each job.
func (s *FileStore) ClaimNext(ctx context.Context, worker id.WorkerID) (*job.Job, error) {
	var claimed *job.Job
	err := s.transact(ctx, func(snap *snapshot) error {
		now := time.Now().UTC()
		next := selectNext(snap, now)
		if next == nil {
			return errNothingEligible
		}
		if err := next.Claim(worker, now); err != nil {
			return err
		}
		cp := *next
		claimed = &cp
		return nil
	})
	if err == errNothingEligible {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info("job claimed",
		slog.String("job_id", claimed.ID.String()),
		slog.String("worker_id", worker.String()),
		slog.Int("attempt", claimed.Attempts),
	)
	return claimed, nil
}

// errNothingEligible aborts a claim transaction without an error surface:
// an empty queue is not a failure, and aborting skips the rewrite.
var errNothingEligible = fmt.Errorf("store: nothing eligible")

// Report resolves a running job with its attempt outcome, applying the
// succeed / fail-retry / fail-exhausted transition atomically. The claim is
// fenced: if worker no longer holds the job — its claim went stale, was
// reaped, and possibly re-claimed — the late report is rejected so it can
// never resolve another worker's attempt.
func (s *FileStore) Report(ctx context.Context, jobID id.JobID, worker id.WorkerID, res job.Result) error {
	var outcome job.State
	err := s.transact(ctx, func(snap *snapshot) error {
		j, ok := snap.Jobs[jobID.String()]
		if !ok {
			return fmt.Errorf("%w: %s", queuectl.ErrJobNotFound, jobID)
		}
		if j.ClaimedBy != worker {
			return fmt.Errorf("%w: job %s is not claimed by %s", queuectl.ErrInvalidTransition, jobID, worker)
		}
		now := time.Now().UTC()
		if res.Success() {
			if err := j.Complete(res, now); err != nil {
				return err
			}
		} else {
			strategy := s.strategy(snap)
			if err := j.Fail(res, strategy, now); err != nil {
				return err
			}
		}
		outcome = j.State
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("job reported",
		slog.String("job_id", jobID.String()),
		slog.String("state", string(outcome)),
	)
	return nil
}

// Heartbeat refreshes the liveness timestamp of a running job.
func (s *FileStore) Heartbeat(ctx context.Context, jobID id.JobID, worker id.WorkerID) error {
	return s.transact(ctx, func(snap *snapshot) error {
		j, ok := snap.Jobs[jobID.String()]
		if !ok {
			return fmt.Errorf("%w: %s", queuectl.ErrJobNotFound, jobID)
		}
		return j.Heartbeat(worker, time.Now().UTC())
	})
}

// ReapStale re-resolves running jobs whose heartbeat is older than
// threshold. A reclaimed job goes through the normal failure path, so the
// lost attempt counts against the retry budget and the job either retries
// with backoff or dead-letters.
func (s *FileStore) ReapStale(ctx context.Context, threshold time.Duration) ([]*job.Job, error) {
	var reaped []*job.Job
	err := s.transact(ctx, func(snap *snapshot) error {
		reaped = reaped[:0]
		now := time.Now().UTC()
		strategy := s.strategy(snap)
		for _, j := range snap.Jobs {
			if !j.Stale(threshold, now) {
				continue
			}
			lost := j.ClaimedBy
			res := job.Result{Err: fmt.Sprintf("reclaimed: worker %s lost", lost)}
			if err := j.Fail(res, strategy, now); err != nil {
				return err
			}
			cp := *j
			reaped = append(reaped, &cp)
		}
		if len(reaped) == 0 {
			return errNothingEligible
		}
		return nil
	})
	if err == errNothingEligible {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for _, j := range reaped {
		s.logger.Warn("stale claim reclaimed",
			slog.String("job_id", j.ID.String()),
			slog.String("state", string(j.State)),
		)
	}
	return reaped, nil
}

// Get retrieves a job by ID from a read snapshot.
func (s *FileStore) Get(_ context.Context, jobID id.JobID) (*job.Job, error) {
	var found *job.Job
	err := s.view(func(snap *snapshot) error {
		j, ok := snap.Jobs[jobID.String()]
		if !ok {
			return fmt.Errorf("%w: %s", queuectl.ErrJobNotFound, jobID)
		}
		cp := *j
		found = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// List returns jobs matching opts, most recently created first.
func (s *FileStore) List(_ context.Context, opts job.ListOpts) ([]*job.Job, error) {
	var result []*job.Job
	err := s.view(func(snap *snapshot) error {
		result = make([]*job.Job, 0, len(snap.Jobs))
		for _, j := range snap.Jobs {
			if opts.State != "" && j.State != opts.State {
				continue
			}
			cp := *j
			result = append(result, &cp)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, k int) bool {
		if !result[i].CreatedAt.Equal(result[k].CreatedAt) {
			return result[i].CreatedAt.After(result[k].CreatedAt)
		}
		return result[i].ID < result[k].ID
	})
	if opts.Limit > 0 && len(result) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result, nil
}

// Cancel marks a pending or scheduled job cancelled. Cancelling a running
// job is rejected with ErrInvalidTransition.
func (s *FileStore) Cancel(ctx context.Context, jobID id.JobID) error {
	err := s.transact(ctx, func(snap *snapshot) error {
		j, ok := snap.Jobs[jobID.String()]
		if !ok {
			return fmt.Errorf("%w: %s", queuectl.ErrJobNotFound, jobID)
		}
		return j.Cancel(time.Now().UTC())
	})
	if err != nil {
		return err
	}
	s.logger.Info("job cancelled", slog.String("job_id", jobID.String()))
	return nil
}

// Requeue moves a dead-lettered job back to pending with attempts reset
// to zero (`dlq retry`).
func (s *FileStore) Requeue(ctx context.Context, jobID id.JobID) error {
	err := s.transact(ctx, func(snap *snapshot) error {
		j, ok := snap.Jobs[jobID.String()]
		if !ok {
			return fmt.Errorf("%w: %s", queuectl.ErrJobNotFound, jobID)
		}
		return j.Requeue(time.Now().UTC())
	})
	if err != nil {
		return err
	}
	s.logger.Info("dead-lettered job requeued", slog.String("job_id", jobID.String()))
	return nil
}

// Purge deletes all completed jobs, leaving every other state untouched,
// and returns how many were removed.
func (s *FileStore) Purge(ctx context.Context) (int, error) {
	purged := 0
	err := s.transact(ctx, func(snap *snapshot) error {
		purged = 0
		for key, j := range snap.Jobs {
			if j.State == job.StateCompleted {
				delete(snap.Jobs, key)
				purged++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("completed jobs purged", slog.Int("count", purged))
	return purged, nil
}

// Settings returns the queue tunables: compiled defaults overlaid with the
// config values persisted in the store.
func (s *FileStore) Settings(_ context.Context) (queuectl.Settings, error) {
	settings := queuectl.DefaultSettings()
	err := s.view(func(snap *snapshot) error {
		settings.Apply(snap.Config)
		return nil
	})
	if err != nil {
		return queuectl.Settings{}, err
	}
	return settings, nil
}

// ConfigSet validates and persists one config value.
func (s *FileStore) ConfigSet(ctx context.Context, key, value string) error {
	err := s.transact(ctx, func(snap *snapshot) error {
		probe := queuectl.DefaultSettings()
		if err := probe.Set(key, value); err != nil {
			return err
		}
		snap.Config[key] = value
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("config updated", slog.String("key", key), slog.String("value", value))
	return nil
}

// ConfigGet returns the effective value of one key.
func (s *FileStore) ConfigGet(ctx context.Context, key string) (string, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return "", err
	}
	return settings.Get(key)
}

// ConfigAll returns the full effective config mapping.
func (s *FileStore) ConfigAll(ctx context.Context) (map[string]string, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return settings.Map(), nil
}

// strategy builds the backoff strategy from the snapshot's config so a
// `config set backoff-base` applies to the very next failure.
func (s *FileStore) strategy(snap *snapshot) backoff.Strategy {
	settings := queuectl.DefaultSettings()
	settings.Apply(snap.Config)
	return backoff.NewExponential(settings.BackoffBase, time.Hour)
}
