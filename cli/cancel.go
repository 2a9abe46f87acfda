package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HariniKartheeswaran/queuectl/id"
)

func newCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a job that has not started running",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID, err := id.ParseJobID(args[0])
			if err != nil {
				return err
			}
			if err := a.store.Cancel(cmd.Context(), jobID); err != nil {
				return err
			}
			fmt.Printf("cancelled %s\n", jobID)
			return nil
		},
	}
}
