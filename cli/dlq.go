package cli

import (
	"github.com/spf13/cobra"

	"github.com/HariniKartheeswaran/queuectl/dlq"
	"github.com/HariniKartheeswaran/queuectl/id"
)

func newDLQCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspect and retry dead-lettered jobs",
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs that exhausted their retries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := dlq.NewService(a.store).List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printJSON(entries)
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 0, "maximum number of entries (0 = all)")

	retryCmd := &cobra.Command{
		Use:   "retry <job-id>",
		Short: "Move a dead-lettered job back to pending with a fresh retry budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := id.ParseJobID(args[0])
			if err != nil {
				return err
			}
			j, err := dlq.NewService(a.store).Retry(cmd.Context(), jobID)
			if err != nil {
				return err
			}
			return printJSON(j)
		},
	}

	cmd.AddCommand(listCmd, retryCmd)
	return cmd
}
