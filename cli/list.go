package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HariniKartheeswaran/queuectl/id"
	"github.com/HariniKartheeswaran/queuectl/job"
)

func newListCmd(a *app) *cobra.Command {
	var (
		state string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := job.ListOpts{Limit: limit}
			if state != "" {
				st := job.State(state)
				if !st.Valid() {
					return fmt.Errorf("unknown state %q (valid: %v)", state, job.States())
				}
				opts.State = st
			}
			jobs, err := a.store.List(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printJSON(jobs)
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "filter by state")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of jobs (0 = all)")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <job-id>",
		Short: "Show one job in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := id.ParseJobID(args[0])
			if err != nil {
				return err
			}
			j, err := a.store.Get(cmd.Context(), jobID)
			if err != nil {
				return err
			}
			return printJSON(j)
		},
	}
}
