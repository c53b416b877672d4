package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/model"
)

// SnapshotKey is the only key the gateway reads or writes.
const SnapshotKey = "myTodoList"

// Gateway stores the whole task list as one JSON array under SnapshotKey.
type Gateway struct {
	kv     KV
	logger *log.Logger
}

func NewGateway(kv KV, logger *log.Logger) *Gateway {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Gateway{kv: kv, logger: logger}
}

// Load returns the stored tasks. It never fails: a missing key, a backend
// error or malformed content all yield an empty list. Records that would
// break store invariants (blank id or text, repeated id) are dropped.
func (g *Gateway) Load(ctx context.Context) []model.Task {
	raw, err := g.kv.Get(ctx, SnapshotKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			g.logger.Warn("snapshot read failed, starting empty", "key", SnapshotKey, "err", err)
		}
		return []model.Task{}
	}

	var stored []model.Task
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		g.logger.Warn("snapshot unparsable, starting empty", "key", SnapshotKey, "err", err)
		return []model.Task{}
	}

	out := make([]model.Task, 0, len(stored))
	seen := make(map[string]bool, len(stored))
	for _, task := range stored {
		if err := task.Validate(); err != nil {
			g.logger.Warn("dropping invalid stored task", "id", task.ID, "err", err)
			continue
		}
		if seen[task.ID] {
			g.logger.Warn("dropping duplicate stored task", "id", task.ID)
			continue
		}
		seen[task.ID] = true
		out = append(out, task)
	}
	return out
}

// Save overwrites the snapshot with tasks. Failures wrap ErrUnavailable.
func (g *Gateway) Save(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	payload, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %w", ErrUnavailable, err)
	}
	if err := g.kv.Set(ctx, SnapshotKey, string(payload)); err != nil {
		return fmt.Errorf("%w: write snapshot: %w", ErrUnavailable, err)
	}
	g.logger.Debug("snapshot saved", "key", SnapshotKey, "tasks", len(tasks))
	return nil
}
