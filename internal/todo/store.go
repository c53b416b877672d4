// Package todo holds the in-memory task list and the interaction flows that
// keep it in step with storage and with whatever renders it.
//
// None of the types here lock. They are meant to be driven from a single
// event loop (the bubbletea Update method, or one CLI invocation).
package todo

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/model"
)

var ErrNotFound = errors.New("todo: task not found")

// Snapshotter persists the full task list. *storage.Gateway implements it.
type Snapshotter interface {
	Load(ctx context.Context) []model.Task
	Save(ctx context.Context, tasks []model.Task) error
}

type Option func(*Store)

// WithIDGenerator replaces the UUID generator, mostly for tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is the ordered task list. Every successful mutation writes the whole
// list through to the Snapshotter. When that write fails the mutation is
// kept and the error (wrapping storage.ErrUnavailable) is returned.
type Store struct {
	tasks  []model.Task
	snap   Snapshotter
	newID  func() string
	logger *log.Logger
}

// Open loads the persisted list and returns a store over it.
func Open(ctx context.Context, snap Snapshotter, opts ...Option) *Store {
	s := &Store{
		snap:   snap,
		newID:  model.NewID,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = snap.Load(ctx)
	if s.tasks == nil {
		s.tasks = []model.Task{}
	}
	s.logger.Debug("task store opened", "tasks", len(s.tasks))
	return s
}

func (s *Store) Add(ctx context.Context, text string) (string, error) {
	// Checked first so rejected text does not consume an id.
	if _, err := model.NormalizeText(text); err != nil {
		return "", err
	}
	task, err := model.NewTask(s.newID(), text)
	if err != nil {
		return "", err
	}
	s.tasks = append(s.tasks, task)
	s.logger.Debug("task added", "id", task.ID)
	return task.ID, s.persist(ctx)
}

// Edit replaces a task's text. Blank text is ignored rather than treated as
// a delete.
func (s *Store) Edit(ctx context.Context, id, text string) error {
	i := s.indexOf(id)
	if i < 0 {
		return s.notFound("edit", id)
	}
	trimmed, err := model.NormalizeText(text)
	if err != nil {
		return err
	}
	s.tasks[i].Text = trimmed
	return s.persist(ctx)
}

func (s *Store) ToggleCompleted(ctx context.Context, id string, completed bool) error {
	i := s.indexOf(id)
	if i < 0 {
		return s.notFound("toggle", id)
	}
	s.tasks[i].Completed = completed
	return s.persist(ctx)
}

// Delete removes a task and keeps the relative order of the rest. Callers in
// the UI go through ConfirmFlow first; the store itself does not check.
func (s *Store) Delete(ctx context.Context, id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return s.notFound("delete", id)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.logger.Debug("task deleted", "id", id)
	return s.persist(ctx)
}

// List returns a copy of the tasks in display order.
func (s *Store) List() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Get(id string) (model.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

// At returns the task at a zero-based display position.
func (s *Store) At(index int) (model.Task, bool) {
	if index < 0 || index >= len(s.tasks) {
		return model.Task{}, false
	}
	return s.tasks[index], true
}

func (s *Store) Len() int { return len(s.tasks) }

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notFound(op, id string) error {
	s.logger.Debug("task not found", "op", op, "id", id)
	return ErrNotFound
}

func (s *Store) persist(ctx context.Context) error {
	if err := s.snap.Save(ctx, s.List()); err != nil {
		s.logger.Warn("snapshot write failed, change kept in memory", "err", err)
		return err
	}
	return nil
}
