package todo

import "context"

// EditFlow tracks a single in-progress text edit.
type EditFlow struct {
	store    *Store
	id       string
	original string
	active   bool
}

func NewEditFlow(store *Store) *EditFlow {
	return &EditFlow{store: store}
}

// Begin starts editing id. It fails when an edit is already open or the task
// does not exist.
func (e *EditFlow) Begin(id string) bool {
	if e.active {
		return false
	}
	task, ok := e.store.Get(id)
	if !ok {
		return false
	}
	e.id = task.ID
	e.original = task.Text
	e.active = true
	return true
}

// Commit applies text to the task being edited and closes the edit, even
// when the store rejects the text as blank.
func (e *EditFlow) Commit(ctx context.Context, text string) error {
	if !e.active {
		return nil
	}
	id := e.id
	e.reset()
	return e.store.Edit(ctx, id, text)
}

func (e *EditFlow) Cancel() bool {
	if !e.active {
		return false
	}
	e.reset()
	return true
}

// Editing reports the task under edit and its text when the edit began.
func (e *EditFlow) Editing() (id string, original string, ok bool) {
	return e.id, e.original, e.active
}

func (e *EditFlow) reset() {
	e.id = ""
	e.original = ""
	e.active = false
}
