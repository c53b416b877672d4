package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/config"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"github.com/sandeepkv93/tasklist/internal/todo"
	"github.com/sandeepkv93/tasklist/internal/views"
)

// loadConfig applies the command-line flags on top of config.Load.
func (f *rootFlags) loadConfig() (config.RuntimeConfig, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: f.configFile})
	if err != nil {
		return cfg, err
	}
	if f.backend != "" {
		b, err := storage.ParseBackend(f.backend)
		if err != nil {
			return cfg, err
		}
		cfg.Backend = string(b)
	}
	if f.ephemeral {
		cfg.Backend = string(storage.BackendMemory)
	}
	if f.dbPath != "" {
		if storage.Backend(cfg.Backend) == storage.BackendFile {
			cfg.FilePath = f.dbPath
		} else {
			cfg.DBPath = f.dbPath
		}
	}
	return cfg.Normalized()
}

// openStore opens the configured backend and loads the saved list.
func openStore(ctx context.Context, cfg config.RuntimeConfig, logger *log.Logger) (*todo.Store, io.Closer, error) {
	backend := storage.Backend(cfg.Backend)
	kv, err := storage.Open(backend, cfg.StoragePath())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s storage at %q: %w", storage.ErrUnavailable, backend, cfg.StoragePath(), err)
	}
	return storeOver(ctx, kv, logger), kv, nil
}

func storeOver(ctx context.Context, kv storage.KV, logger *log.Logger) *todo.Store {
	return todo.Open(ctx, storage.NewGateway(kv, logger), todo.WithLogger(logger))
}

// listPrinter renders the list as plain text after each applied change.
type listPrinter struct {
	w io.Writer
}

func (p listPrinter) RenderAll(tasks []model.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(p.w, "no tasks")
		return
	}
	rows := make([]views.TaskRow, 0, len(tasks))
	for i, task := range tasks {
		rows = append(rows, views.TaskRow{
			Position:  i + 1,
			ID:        task.ID,
			Text:      task.Text,
			Completed: task.Completed,
		})
	}
	fmt.Fprintln(p.w, views.RenderTaskList(views.TaskListData{Rows: rows}))
}
