package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/HariniKartheeswaran/queuectl/config"
	"github.com/HariniKartheeswaran/queuectl/store"
)

// app carries the shared state every command needs: resolved config, the
// process logger, and an open handle on the store file.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *store.FileStore

	logCloser io.Closer

	// flag values, bound on the root command
	configPath string
	storePath  string
}

// NewRootCmd builds the full queuectl command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "queuectl",
		Short: "A persistent background job queue coordinated through one shared file",
		Long: `queuectl runs shell commands as background jobs. Jobs live in a single
JSON file; enqueueing shells, worker processes, and the dashboard all
coordinate through that file with no broker or database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logCloser != nil {
				a.logCloser.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (default queuectl.yaml if present)")
	root.PersistentFlags().StringVar(&a.storePath, "store", "", "path to the queue file (overrides config)")

	root.AddCommand(
		newEnqueueCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newCancelCmd(a),
		newStatusCmd(a),
		newPurgeCmd(a),
		newConfigCmd(a),
		newWorkerCmd(a),
		newDLQCmd(a),
		newDashboardCmd(a),
	)
	return root
}

// init resolves config and opens the store. It runs once per invocation,
// before any subcommand.
func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.storePath != "" {
		cfg.StorePath = a.storePath
	}
	a.cfg = cfg

	logger, closer, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	a.logger = logger
	a.logCloser = closer

	s, err := store.Open(cfg.StorePath, store.WithLogger(logger))
	if err != nil {
		return err
	}
	a.store = s
	return nil
}

// printJSON writes v to stdout as indented JSON, the machine-readable
// output format of every command.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "queuectl:", err)
		os.Exit(1)
	}
}
