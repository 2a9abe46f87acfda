package job

import (
	"fmt"
	"time"

	"github.com/HariniKartheeswaran/queuectl"
	"github.com/HariniKartheeswaran/queuectl/backoff"
	"github.com/HariniKartheeswaran/queuectl/id"
)

func transitionErr(from State, event string) error {
	return fmt.Errorf("%w: cannot %s a %s job", queuectl.ErrInvalidTransition, event, from)
}

// Promote moves an elapsed scheduled job to pending. The selector calls
// this lazily during its scan; there is no separate timer.
func (j *Job) Promote(now time.Time) error {
	if j.State != StateScheduled {
		return transitionErr(j.State, "promote")
	}
	if j.RunAt.After(now) {
		return transitionErr(j.State, "promote")
	}
	j.State = StatePending
	j.UpdatedAt = now
	return nil
}

// Claim transitions pending → running on behalf of worker. It increments
// the attempt counter and records ownership; the caller must hold the
// store lock so that exactly one worker observes the job as eligible.
func (j *Job) Claim(worker id.WorkerID, now time.Time) error {
	if !j.Eligible(now) {
		return transitionErr(j.State, "claim")
	}
	j.State = StateRunning
	j.ClaimedBy = worker
	j.Attempts++
	started := now
	j.StartedAt = &started
	j.HeartbeatAt = &started
	j.UpdatedAt = now
	return nil
}

// Complete transitions running → completed, recording the attempt's output
// and duration.
func (j *Job) Complete(res Result, now time.Time) error {
	if j.State != StateRunning {
		return transitionErr(j.State, "complete")
	}
	j.State = StateCompleted
	j.Output = res.Output
	j.LastError = ""
	j.ExecutionTime = res.ExecutionTime
	completed := now
	j.CompletedAt = &completed
	j.clearClaim(now)
	return nil
}

// Fail resolves a failed running attempt in place: back to pending with an
// exponential-backoff run_at while retry budget remains, otherwise to the
// dead letter queue. The transient "failed" state never persists.
func (j *Job) Fail(res Result, strategy backoff.Strategy, now time.Time) error {
	if j.State != StateRunning {
		return transitionErr(j.State, "fail")
	}

	j.Output = res.Output
	j.LastError = res.Err
	if j.LastError == "" {
		if res.TimedOut {
			j.LastError = "timed out"
		} else {
			j.LastError = fmt.Sprintf("exit code %d", res.ExitCode)
		}
	}
	j.ExecutionTime = res.ExecutionTime

	if j.Attempts >= j.MaxRetries {
		j.State = StateDeadLetter
		died := now
		j.DeadAt = &died
		j.RunAt = time.Time{}
	} else {
		j.State = StatePending
		j.RunAt = now.Add(strategy.Delay(j.Attempts))
	}
	j.clearClaim(now)
	return nil
}

// Cancel marks a job cancelled. Only legal before it runs.
func (j *Job) Cancel(now time.Time) error {
	if j.State != StatePending && j.State != StateScheduled {
		return transitionErr(j.State, "cancel")
	}
	j.State = StateCancelled
	cancelled := now
	j.CancelledAt = &cancelled
	j.UpdatedAt = now
	return nil
}

// Requeue moves a dead-lettered job back to pending with a fresh retry
// budget (`dlq retry`).
func (j *Job) Requeue(now time.Time) error {
	if j.State != StateDeadLetter {
		return transitionErr(j.State, "requeue")
	}
	j.State = StatePending
	j.Attempts = 0
	j.RunAt = time.Time{}
	j.LastError = ""
	j.DeadAt = nil
	j.UpdatedAt = now
	return nil
}

// Heartbeat refreshes the liveness timestamp of a running job. Only the
// owning worker may heartbeat.
func (j *Job) Heartbeat(worker id.WorkerID, now time.Time) error {
	if j.State != StateRunning || j.ClaimedBy != worker {
		return transitionErr(j.State, "heartbeat")
	}
	hb := now
	j.HeartbeatAt = &hb
	j.UpdatedAt = now
	return nil
}

// Stale reports whether a running job's claim has outlived threshold
// without a heartbeat, indicating the owning worker likely crashed.
func (j *Job) Stale(threshold time.Duration, now time.Time) bool {
	if j.State != StateRunning || threshold <= 0 {
		return false
	}
	last := j.StartedAt
	if j.HeartbeatAt != nil {
		last = j.HeartbeatAt
	}
	if last == nil {
		return true
	}
	return now.Sub(*last) > threshold
}

func (j *Job) clearClaim(now time.Time) {
	j.ClaimedBy = ""
	j.HeartbeatAt = nil
	j.UpdatedAt = now
}
