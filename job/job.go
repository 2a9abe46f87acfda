package job

import (
	"time"

	"github.com/HariniKartheeswaran/queuectl/id"
)

// State represents the lifecycle state of a job.
type State string

const (
	// StatePending means the job is waiting to be claimed by a worker.
	StatePending State = "pending"
	// StateScheduled means the job has a future run_at and is not yet
	// eligible. It is promoted to pending lazily at selection time.
	StateScheduled State = "scheduled"
	// StateRunning means a worker currently owns the job.
	StateRunning State = "running"
	// StateCompleted means the job finished with exit code 0. Terminal.
	StateCompleted State = "completed"
	// StateDeadLetter means the job exhausted its retry budget. Terminal
	// except for an explicit `dlq retry`.
	StateDeadLetter State = "dead_letter"
	// StateCancelled means the job was cancelled before it ran. Terminal.
	StateCancelled State = "cancelled"
)

// States lists all persisted states in display order.
func States() []State {
	return []State{
		StatePending,
		StateScheduled,
		StateRunning,
		StateCompleted,
		StateDeadLetter,
		StateCancelled,
	}
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StatePending, StateScheduled, StateRunning,
		StateCompleted, StateDeadLetter, StateCancelled:
		return true
	}
	return false
}

// Terminal reports whether no automatic transition leaves s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateDeadLetter || s == StateCancelled
}

// Job is a shell command queued for background execution.
type Job struct {
	ID       id.JobID `json:"id"`
	Command  string   `json:"command"`
	State    State    `json:"state"`
	Priority int      `json:"priority"`

	Attempts   int `json:"attempts"`
	MaxRetries int `json:"max_retries"`

	// Timeout bounds one execution attempt. Zero means use the queue
	// default at execution time.
	Timeout time.Duration `json:"timeout,omitempty"`

	// RunAt, when set, holds the job back from selection until that
	// instant. Used for scheduled jobs and retry backoff.
	RunAt time.Time `json:"run_at,omitzero"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DeadAt      *time.Time `json:"dead_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	// ClaimedBy is the worker currently holding the job. Set on claim,
	// cleared when the attempt resolves.
	ClaimedBy id.WorkerID `json:"claimed_by,omitempty"`

	// HeartbeatAt is refreshed by the owning worker while the job runs,
	// so stale claims from crashed workers can be detected.
	HeartbeatAt *time.Time `json:"heartbeat_at,omitempty"`

	// Output is the combined stdout/stderr of the most recent attempt.
	Output    string `json:"output,omitempty"`
	LastError string `json:"last_error,omitempty"`

	// ExecutionTime is the wall-clock duration of the most recent attempt.
	ExecutionTime time.Duration `json:"execution_time,omitempty"`
}

// New builds a job in its initial state: pending, or scheduled when a
// future run_at is given.
func New(command string, now time.Time, opts ...Option) *Job {
	j := &Job{
		ID:         id.NewJobID(),
		Command:    command,
		State:      StatePending,
		MaxRetries: 3,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(j)
	}
	if !j.RunAt.IsZero() && j.RunAt.After(now) {
		j.State = StateScheduled
	}
	return j
}

// Eligible reports whether the job can be claimed at now: it must be
// pending with no unexpired run_at constraint.
func (j *Job) Eligible(now time.Time) bool {
	if j.State != StatePending {
		return false
	}
	return j.RunAt.IsZero() || !j.RunAt.After(now)
}

// Result is the outcome of one execution attempt.
type Result struct {
	// Output is the combined stdout/stderr captured from the subprocess.
	Output string

	// ExitCode is the subprocess exit status. Meaningless when TimedOut.
	ExitCode int

	// TimedOut is set when the attempt was forcibly terminated for
	// exceeding its timeout.
	TimedOut bool

	// Err describes a spawn-level failure (e.g. shell not found) or the
	// failure classification for the job record.
	Err string

	// ExecutionTime is the attempt's wall-clock duration.
	ExecutionTime time.Duration
}

// Success reports whether the attempt completed with exit code 0.
func (r Result) Success() bool {
	return !r.TimedOut && r.Err == "" && r.ExitCode == 0
}
