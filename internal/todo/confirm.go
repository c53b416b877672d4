package todo

import "context"

// ConfirmFlow gates deletes behind an explicit confirm or cancel. Only one
// delete can be pending; calls made in the wrong state do nothing.
type ConfirmFlow struct {
	store   *Store
	pending string
	active  bool
}

func NewConfirmFlow(store *Store) *ConfirmFlow {
	return &ConfirmFlow{store: store}
}

// RequestDelete starts a confirmation for id. It returns false when another
// request is already pending.
func (c *ConfirmFlow) RequestDelete(id string) bool {
	if c.active {
		return false
	}
	c.pending = id
	c.active = true
	return true
}

// Confirm deletes the pending task. With nothing pending it returns nil
// without touching the store.
func (c *ConfirmFlow) Confirm(ctx context.Context) error {
	if !c.active {
		return nil
	}
	id := c.pending
	c.reset()
	return c.store.Delete(ctx, id)
}

func (c *ConfirmFlow) Cancel() bool {
	if !c.active {
		return false
	}
	c.reset()
	return true
}

func (c *ConfirmFlow) Pending() (string, bool) {
	return c.pending, c.active
}

func (c *ConfirmFlow) reset() {
	c.pending = ""
	c.active = false
}
