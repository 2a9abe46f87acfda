package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/HariniKartheeswaran/queuectl/job"
)

func newEnqueueCmd(a *app) *cobra.Command {
	var (
		priority   int
		maxRetries int
		timeout    time.Duration
		runAt      string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "enqueue <command>",
		Short: "Add a shell command to the queue",
		Long: `Enqueue adds a job that workers will run with "sh -c <command>".
Quote the command so your shell passes it through as one argument:

  queuectl enqueue "pg_dump mydb | gzip > backup.gz" --priority 5

--run-at accepts either an RFC 3339 timestamp or a duration from now
("30s", "5m"); the job stays scheduled and invisible to workers until
that moment.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "" {
				return fmt.Errorf("command must not be empty")
			}

			settings, err := a.store.Settings(cmd.Context())
			if err != nil {
				return err
			}
			// Zero is a legal budget (no retries), so "flag unset" is
			// detected via Changed rather than the zero value.
			if !cmd.Flags().Changed("max-retries") {
				maxRetries = settings.MaxRetries
			}
			if maxRetries < 0 {
				return fmt.Errorf("--max-retries must be >= 0, got %d", maxRetries)
			}

			opts := []job.Option{
				job.WithPriority(priority),
				job.WithMaxRetries(maxRetries),
			}
			if timeout > 0 {
				opts = append(opts, job.WithTimeout(timeout))
			}
			if runAt != "" {
				at, err := parseRunAt(runAt, time.Now().UTC())
				if err != nil {
					return err
				}
				opts = append(opts, job.WithRunAt(at))
			}

			j := job.New(args[0], time.Now().UTC(), opts...)
			if err := a.store.Enqueue(cmd.Context(), j); err != nil {
				return err
			}

			if quiet {
				fmt.Println(j.ID)
				return nil
			}
			return printJSON(j)
		},
	}

	cmd.Flags().IntVarP(&priority, "priority", "p", 0, "higher runs first")
	cmd.Flags().IntVar(&maxRetries, "max-retries", 0, "attempt budget; 0 dead-letters on the first failure (default from queue config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-job execution timeout (default from queue config)")
	cmd.Flags().StringVar(&runAt, "run-at", "", "earliest start: RFC 3339 timestamp or duration from now")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "print only the job id")
	return cmd
}

// parseRunAt accepts "2026-01-02T15:04:05Z" or a relative "90s"/"5m".
func parseRunAt(s string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(d), nil
	}
	at, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --run-at %q: want RFC 3339 or duration", s)
	}
	return at.UTC(), nil
}
