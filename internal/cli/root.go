package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configFile string
	dbPath     string
	backend    string
	ephemeral  bool
}

// NewRootCmd builds the tasklist command tree. Running it without a
// subcommand opens the terminal UI.
func NewRootCmd(version string) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   "tasklist",
		Short: "A small to-do list for the terminal",
		Long: `tasklist keeps an ordered list of tasks and saves the whole list after every change.

Run it without arguments for the interactive list, or use the subcommands from scripts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "path to a TOML config file (default ./tasklist.toml if present)")
	pf.StringVar(&flags.dbPath, "db", "", "storage path for the selected backend")
	pf.StringVar(&flags.backend, "backend", "", "storage backend: sqlite, file or memory")
	pf.BoolVar(&flags.ephemeral, "ephemeral", false, "keep tasks in memory only")

	root.AddCommand(
		newListCmd(flags),
		newAddCmd(flags),
		newEditCmd(flags),
		newMarkCmd(flags, "done", true),
		newMarkCmd(flags, "undone", false),
		newRmCmd(flags),
	)
	return root
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
