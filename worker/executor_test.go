package worker

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/HariniKartheeswaran/queuectl/job"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecutorRun(t *testing.T) {
	t.Parallel()

	e := NewExecutor(discardLogger())
	ctx := context.Background()
	now := time.Now().UTC()

	tests := []struct {
		name       string
		command    string
		timeout    time.Duration
		wantOK     bool
		wantInOut  string
		wantExit   int
		wantTimout bool
	}{
		{
			name:      "success captures stdout",
			command:   "echo hello",
			wantOK:    true,
			wantInOut: "hello",
		},
		{
			name:      "success with empty output gets placeholder",
			command:   "true",
			wantOK:    true,
			wantInOut: "command executed successfully",
		},
		{
			name:      "combined stdout and stderr",
			command:   "echo out; echo err 1>&2; exit 3",
			wantExit:  3,
			wantInOut: "err",
		},
		{
			name:     "unknown command is a failure outcome",
			command:  "definitely-not-a-real-binary-xyz",
			wantExit: 127,
		},
		{
			name:       "timeout is enforced",
			command:    "sleep 5",
			timeout:    500 * time.Millisecond,
			wantTimout: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := []job.Option{}
			if tt.timeout > 0 {
				opts = append(opts, job.WithTimeout(tt.timeout))
			}
			j := job.New(tt.command, now, opts...)
			j.Attempts = 1

			start := time.Now()
			res := e.Run(ctx, j, 0)

			if res.Success() != tt.wantOK {
				t.Fatalf("Success() = %v, want %v (res %+v)", res.Success(), tt.wantOK, res)
			}
			if tt.wantInOut != "" && !strings.Contains(res.Output, tt.wantInOut) {
				t.Fatalf("output %q does not contain %q", res.Output, tt.wantInOut)
			}
			if !tt.wantTimout && res.ExitCode != tt.wantExit {
				t.Fatalf("exit code = %d, want %d", res.ExitCode, tt.wantExit)
			}
			if tt.wantTimout {
				if !res.TimedOut {
					t.Fatalf("expected timeout, got %+v", res)
				}
				if elapsed := time.Since(start); elapsed > 2*time.Second {
					t.Fatalf("kill took %v, not within a bounded margin of the timeout", elapsed)
				}
				if !strings.Contains(res.Output, "timed out") {
					t.Fatalf("timeout output not tagged: %q", res.Output)
				}
			}
		})
	}
}

func TestExecutorDefaultTimeout(t *testing.T) {
	t.Parallel()

	e := NewExecutor(discardLogger())
	j := job.New("sleep 5", time.Now().UTC()) // no per-job timeout

	res := e.Run(context.Background(), j, 500*time.Millisecond)
	if !res.TimedOut {
		t.Fatalf("default timeout not applied: %+v", res)
	}
}

func TestExecutorMeasuresExecutionTime(t *testing.T) {
	t.Parallel()

	e := NewExecutor(discardLogger())
	j := job.New("sleep 0.2", time.Now().UTC())

	res := e.Run(context.Background(), j, 0)
	if !res.Success() {
		t.Fatalf("unexpected failure: %+v", res)
	}
	if res.ExecutionTime < 150*time.Millisecond {
		t.Fatalf("execution time %v implausibly short", res.ExecutionTime)
	}
}
