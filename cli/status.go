package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HariniKartheeswaran/queuectl/job"
)

func newStatusCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Summarize the queue: counts, success rate, active workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := a.store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(stats)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "total\t%d\n", stats.Total)
			for _, st := range job.States() {
				fmt.Fprintf(w, "%s\t%d\n", st, stats.ByState[st])
			}
			fmt.Fprintf(w, "success rate\t%.1f%%\n", stats.SuccessRate)
			fmt.Fprintf(w, "avg execution\t%s\n", stats.AvgExecution)
			w.Flush()

			if len(stats.ActiveWorkers) == 0 {
				fmt.Println("\nno jobs running")
				return nil
			}
			fmt.Println("\nactive workers:")
			ww := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, aw := range stats.ActiveWorkers {
				fmt.Fprintf(ww, "  %s\t%s\t%s\tsince %s\n",
					aw.WorkerID, aw.JobID, aw.Command, aw.Since.Format("15:04:05"))
			}
			ww.Flush()
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "machine-readable output")
	return cmd
}
