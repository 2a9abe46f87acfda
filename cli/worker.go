package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/HariniKartheeswaran/queuectl/worker"
)

func newWorkerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run worker processes",
	}

	var (
		count          int
		drainTimeout   time.Duration
		staleThreshold time.Duration
	)

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start worker loops and run until interrupted",
		Long: `Start runs worker loops in the foreground. On SIGINT or SIGTERM the
loops stop claiming new jobs, finish what they are executing, and exit.
Jobs abandoned by a crashed worker elsewhere are reclaimed once their
claim goes stale.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count == 0 {
				count = a.cfg.WorkerCount
			}

			pool := worker.NewPool(a.store, worker.NewExecutor(a.logger), a.logger,
				worker.WithCount(count),
				worker.WithStaleThreshold(staleThreshold),
			)
			pool.Start()
			fmt.Printf("started %d worker(s), store %s\n", count, a.store.Path())

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			fmt.Printf("received %s, draining\n", sig)

			ctx, cancel := context.WithTimeout(cmd.Context(), drainTimeout)
			defer cancel()
			return pool.Stop(ctx)
		},
	}

	startCmd.Flags().IntVar(&count, "count", 0, "number of worker loops (default from config)")
	startCmd.Flags().DurationVar(&drainTimeout, "drain-timeout", 5*time.Minute, "how long to wait for in-flight jobs on shutdown")
	startCmd.Flags().DurationVar(&staleThreshold, "stale-threshold", time.Minute, "reclaim running jobs whose claim is older than this (0 disables)")

	cmd.AddCommand(startCmd)
	return cmd
}
