package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/logging"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"github.com/sandeepkv93/tasklist/internal/todo"
	"github.com/sandeepkv93/tasklist/internal/update"
	"github.com/spf13/cobra"
)

func runTUI(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := logging.New(logFile, cfg.LogLevel)
	logger.Info("starting", "backend", cfg.Backend, "path", cfg.StoragePath())

	store, closer, openErr := openStore(cmd.Context(), cfg, logger)
	if openErr != nil {
		logger.Warn("storage unavailable, changes will not be saved", "err", openErr)
		kv := storage.NewMemoryKV()
		store, closer = storeOver(cmd.Context(), kv, logger), kv
	}
	defer closer.Close()

	view := update.NewTaskView()
	sess := todo.NewSession(store, view, todo.SessionOptions{
		ConfirmDeletes: cfg.ConfirmDeletes,
		Logger:         logger,
	})

	opts := update.Options{
		DesktopNotifications: cfg.DesktopNotifications,
		Logger:               logger,
		StartupErr:           openErr,
	}
	if cfg.DesktopNotifications {
		opts.Notifier = update.ExecDesktopNotifier{}
	}

	program := tea.NewProgram(update.NewModel(sess, view, opts))
	if _, err := program.Run(); err != nil {
		logger.Error("ui failed", "err", err)
		return fmt.Errorf("tasklist failed: %w", err)
	}
	logger.Info("stopped", "tasks", store.Len())
	return nil
}

// stderrLogger is the logger for one-shot subcommands.
func stderrLogger(cmd *cobra.Command, level string) *log.Logger {
	return logging.New(cmd.ErrOrStderr(), level)
}
