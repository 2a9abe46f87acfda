package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/HariniKartheeswaran/queuectl/job"
)

// Executor runs one job attempt as a shell subprocess, capturing combined
// stdout/stderr and forcibly terminating the process when it exceeds its
// timeout. Execution failures are absorbed into the Result, never surfaced
// as errors: a broken command is a job outcome, not a system fault.
type Executor struct {
	shell  string
	logger *slog.Logger

	// killGrace is how long after the timeout kill we wait for I/O to
	// drain before abandoning the subprocess output.
	killGrace time.Duration
}

// NewExecutor creates an Executor that runs commands through /bin/sh -c.
func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{
		shell:     "/bin/sh",
		logger:    logger,
		killGrace: 5 * time.Second,
	}
}

// Run executes j's command. defaultTimeout applies when the job itself
// carries no timeout; zero means unlimited. The passed context bounds the
// whole attempt in addition to the timeout (used for forced shutdown).
func (e *Executor) Run(ctx context.Context, j *job.Job, defaultTimeout time.Duration) job.Result {
	timeout := j.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	e.logger.Info("executing job",
		slog.String("job_id", j.ID.String()),
		slog.String("command", j.Command),
		slog.Int("attempt", j.Attempts),
	)

	start := time.Now()
	cmd := exec.CommandContext(ctx, e.shell, "-c", j.Command)
	cmd.WaitDelay = e.killGrace

	out, runErr := cmd.CombinedOutput()
	elapsed := time.Since(start)

	res := job.Result{
		Output:        strings.TrimRight(string(out), "\n"),
		ExecutionTime: elapsed,
	}

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.TimedOut = true
		res.Output = fmt.Sprintf("timed out after %s", timeout)
		e.logger.Warn("job timed out",
			slog.String("job_id", j.ID.String()),
			slog.Duration("timeout", timeout),
		)
	case runErr == nil:
		if res.Output == "" {
			res.Output = "command executed successfully"
		}
	default:
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			// Spawn failure: shell missing, fork failed. Still a job
			// failure, not a worker failure.
			res.Err = runErr.Error()
			res.ExitCode = -1
		}
		e.logger.Warn("job command failed",
			slog.String("job_id", j.ID.String()),
			slog.Int("exit_code", res.ExitCode),
		)
	}

	return res
}
