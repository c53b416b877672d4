package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/commands"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/todo"
	"github.com/spf13/cobra"
)

// withSession opens the configured store and hands fn a session that prints
// the list to stdout after every applied change.
func withSession(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, sess *todo.Session) error) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	logger := stderrLogger(cmd, cfg.LogLevel)

	ctx := cmd.Context()
	store, closer, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	sess := todo.NewSession(store, listPrinter{w: cmd.OutOrStdout()}, todo.SessionOptions{
		ConfirmDeletes: cfg.ConfirmDeletes,
		Logger:         logger,
	})
	return fn(ctx, sess)
}

func newListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the task list",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, sess *todo.Session) error {
				sess.Start()
				return nil
			})
		},
	}
}

func newAddCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add TEXT...",
		Short: "Append a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := model.NormalizeText(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(ctx context.Context, sess *todo.Session) error {
				return sess.OnAddRequested(ctx, text)
			})
		},
	}
}

func newEditCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "edit N TEXT...",
		Short: "Replace the text of a task",
		Long:  "N is a 1-based position in the list or a unique prefix of a task id.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := model.NormalizeText(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return withSession(cmd, flags, func(ctx context.Context, sess *todo.Session) error {
				task, err := commands.Resolve(args[0], sess.Tasks())
				if err != nil {
					return err
				}
				return sess.OnEditRequested(ctx, task.ID, text)
			})
		},
	}
}

func newMarkCmd(flags *rootFlags, name string, completed bool) *cobra.Command {
	short := "Mark a task completed"
	if !completed {
		short = "Mark a task not completed"
	}
	return &cobra.Command{
		Use:   name + " N",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, sess *todo.Session) error {
				task, err := commands.Resolve(args[0], sess.Tasks())
				if err != nil {
					return err
				}
				return sess.OnToggleRequested(ctx, task.ID, completed)
			})
		},
	}
}

func newRmCmd(flags *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm N",
		Aliases: []string{"delete", "del"},
		Short:   "Delete a task, asking first unless confirm_deletes is off",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, flags, func(ctx context.Context, sess *todo.Session) error {
				task, err := commands.Resolve(args[0], sess.Tasks())
				if err != nil {
					return err
				}
				if err := sess.OnDeleteRequested(ctx, task.ID); err != nil {
					return err
				}
				if _, pending := sess.PendingDelete(); !pending {
					return nil
				}
				if !yes && !askYes(cmd, fmt.Sprintf("delete %q? [y/N] ", task.Text)) {
					sess.OnCancelDelete()
					fmt.Fprintln(cmd.OutOrStdout(), "kept")
					return nil
				}
				return sess.OnConfirmDelete(ctx)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func askYes(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
