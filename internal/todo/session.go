package todo

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/model"
)

// Renderer projects the task list onto some view.
type Renderer interface {
	RenderAll(tasks []model.Task)
}

type SessionOptions struct {
	// ConfirmDeletes routes OnDeleteRequested through ConfirmFlow. When false
	// deletes apply immediately.
	ConfirmDeletes bool
	Logger         *log.Logger
}

// Session wires a Store, its interaction flows and a Renderer together. UI
// code calls the On* hooks; the session re-renders after every applied
// mutation. Rejected input and unknown ids are dropped quietly. The only
// errors returned are persistence failures, and in that case the change is
// still applied and rendered.
type Session struct {
	store   *Store
	confirm *ConfirmFlow
	edit    *EditFlow
	view    Renderer
	opts    SessionOptions
	logger  *log.Logger
}

func NewSession(store *Store, view Renderer, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		store:   store,
		confirm: NewConfirmFlow(store),
		edit:    NewEditFlow(store),
		view:    view,
		opts:    opts,
		logger:  logger,
	}
}

// Start renders the list loaded at startup.
func (s *Session) Start() {
	s.render()
}

func (s *Session) Tasks() []model.Task { return s.store.List() }

func (s *Session) Store() *Store { return s.store }

func (s *Session) PendingDelete() (string, bool) { return s.confirm.Pending() }

func (s *Session) Editing() (id string, original string, ok bool) { return s.edit.Editing() }

func (s *Session) OnAddRequested(ctx context.Context, text string) error {
	_, err := s.store.Add(ctx, text)
	return s.settle("add", err)
}

func (s *Session) OnEditRequested(ctx context.Context, id, text string) error {
	return s.settle("edit", s.store.Edit(ctx, id, text))
}

func (s *Session) OnToggleRequested(ctx context.Context, id string, completed bool) error {
	return s.settle("toggle", s.store.ToggleCompleted(ctx, id, completed))
}

// OnDeleteRequested opens a confirmation for id, or deletes straight away
// when confirmations are off. Requests for unknown ids, and requests made
// while another confirmation is open, are ignored.
func (s *Session) OnDeleteRequested(ctx context.Context, id string) error {
	if _, ok := s.store.Get(id); !ok {
		s.logger.Debug("delete requested for unknown task", "id", id)
		return nil
	}
	if !s.opts.ConfirmDeletes {
		return s.settle("delete", s.store.Delete(ctx, id))
	}
	if !s.confirm.RequestDelete(id) {
		pending, _ := s.confirm.Pending()
		s.logger.Debug("delete already pending, request ignored", "id", id, "pending", pending)
	}
	return nil
}

func (s *Session) OnConfirmDelete(ctx context.Context) error {
	if _, ok := s.confirm.Pending(); !ok {
		return nil
	}
	return s.settle("delete", s.confirm.Confirm(ctx))
}

func (s *Session) OnCancelDelete() bool {
	return s.confirm.Cancel()
}

func (s *Session) OnBeginEdit(id string) bool {
	return s.edit.Begin(id)
}

func (s *Session) OnCommitEdit(ctx context.Context, text string) error {
	if _, _, ok := s.edit.Editing(); !ok {
		return nil
	}
	return s.settle("edit", s.edit.Commit(ctx, text))
}

func (s *Session) OnCancelEdit() bool {
	return s.edit.Cancel()
}

// settle classifies a store result and renders when the mutation applied.
func (s *Session) settle(op string, err error) error {
	switch {
	case err == nil:
		s.render()
		return nil
	case errors.Is(err, model.ErrEmptyText):
		s.logger.Debug("blank text ignored", "op", op)
		return nil
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		s.render()
		return err
	}
}

func (s *Session) render() {
	if s.view != nil {
		s.view.RenderAll(s.store.List())
	}
}
