package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newPurgeCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove completed jobs from the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				fmt.Print("remove all completed jobs? [y/N] ")
				answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
				if s := strings.ToLower(strings.TrimSpace(answer)); s != "y" && s != "yes" {
					fmt.Println("aborted")
					return nil
				}
			}
			n, err := a.store.Purge(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("purged %d completed job(s)\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
