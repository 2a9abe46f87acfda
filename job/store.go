package job

import (
	"context"
	"time"

	"github.com/HariniKartheeswaran/queuectl"
	"github.com/HariniKartheeswaran/queuectl/id"
)

// ListOpts controls filtering for job list queries.
type ListOpts struct {
	// State filters by job state. Empty means all states.
	State State
	// Limit is the maximum number of jobs to return. Zero means no limit.
	Limit int
}

// Store defines the persistence contract for jobs. Every mutating method
// is one atomic store transaction: no partial state is ever observable by
// another process.
type Store interface {
	// Enqueue persists a new job in its initial state.
	Enqueue(ctx context.Context, j *Job) error

	// ClaimNext selects the highest-priority eligible job, transitions it
	// to running on behalf of worker, and returns it. Selection and claim
	// happen inside one transaction so two racing workers can never claim
	// the same job. Returns (nil, nil) when nothing is eligible.
	ClaimNext(ctx context.Context, worker id.WorkerID) (*Job, error)

	// Report resolves a running job with the outcome of its attempt:
	// completed on success, pending-with-backoff or dead_letter on failure.
	// Only the worker holding the claim may report; a late report from a
	// worker whose claim was reaped is rejected with ErrInvalidTransition.
	Report(ctx context.Context, jobID id.JobID, worker id.WorkerID, res Result) error

	// Heartbeat refreshes the liveness timestamp of a running job.
	Heartbeat(ctx context.Context, jobID id.JobID, worker id.WorkerID) error

	// ReapStale re-resolves running jobs whose heartbeat is older than
	// threshold through the failure path, and returns the reclaimed jobs.
	ReapStale(ctx context.Context, threshold time.Duration) ([]*Job, error)

	// Get retrieves a job by ID.
	Get(ctx context.Context, jobID id.JobID) (*Job, error)

	// List returns jobs matching opts, most recently created first.
	List(ctx context.Context, opts ListOpts) ([]*Job, error)

	// Cancel marks a pending or scheduled job cancelled.
	Cancel(ctx context.Context, jobID id.JobID) error

	// Requeue moves a dead-lettered job back to pending with a fresh
	// retry budget.
	Requeue(ctx context.Context, jobID id.JobID) error

	// Purge deletes all completed jobs and returns how many were removed.
	Purge(ctx context.Context) (int, error)

	// Settings returns the queue tunables: defaults overlaid with the
	// config values persisted in the store. Read fresh on every call so
	// `config set` takes effect without restarting workers.
	Settings(ctx context.Context) (queuectl.Settings, error)
}
