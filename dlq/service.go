package dlq

import (
	"context"
	"fmt"

	queuectl "github.com/HariniKartheeswaran/queuectl"
	"github.com/HariniKartheeswaran/queuectl/id"
	"github.com/HariniKartheeswaran/queuectl/job"
)

// Service provides high-level DLQ operations over the job store.
type Service struct {
	store job.Store
}

// NewService creates a DLQ service.
func NewService(store job.Store) *Service {
	return &Service{store: store}
}

// List returns up to limit dead-lettered jobs, most recent first.
// limit <= 0 means no limit.
func (s *Service) List(ctx context.Context, limit int) ([]*job.Job, error) {
	return s.store.List(ctx, job.ListOpts{State: job.StateDeadLetter, Limit: limit})
}

// Get returns a single dead-lettered job. A job in any other state yields
// [queuectl.ErrJobNotFound] so callers cannot reach live jobs through the
// DLQ surface.
func (s *Service) Get(ctx context.Context, jobID id.JobID) (*job.Job, error) {
	j, err := s.store.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.State != job.StateDeadLetter {
		return nil, fmt.Errorf("%w: %s is not dead-lettered", queuectl.ErrJobNotFound, jobID)
	}
	return j, nil
}

// Retry moves a dead-lettered job back to pending with a fresh retry
// budget and returns its updated record.
func (s *Service) Retry(ctx context.Context, jobID id.JobID) (*job.Job, error) {
	if err := s.store.Requeue(ctx, jobID); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, jobID)
}

// Count returns the number of dead-lettered jobs.
func (s *Service) Count(ctx context.Context) (int, error) {
	entries, err := s.store.List(ctx, job.ListOpts{State: job.StateDeadLetter})
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}
