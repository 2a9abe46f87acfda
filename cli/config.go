package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read and write queue settings shared by all workers",
		Long: `Queue settings live inside the store file, so a change made here is
picked up by every running worker on its next poll, no restart needed.`,
	}

	getCmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Show one setting, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				val, err := a.store.ConfigGet(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Println(val)
				return nil
			}
			all, err := a.store.ConfigAll(cmd.Context())
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(all))
			for k := range all {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("%s=%s\n", k, all[k])
			}
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.ConfigSet(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("%s=%s\n", args[0], args[1])
			return nil
		},
	}

	cmd.AddCommand(getCmd, setCmd)
	return cmd
}
