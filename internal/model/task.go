package model

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyText = errors.New("model: task text is empty")
	ErrMissingID = errors.New("model: task id is required")
)

// Task is the unit of persisted and displayed data. The JSON field names are
// the on-disk snapshot format and must not change.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// NewTask builds an open task. It rejects text that is empty after trimming
// and a blank id.
func NewTask(id, text string) (Task, error) {
	trimmed, err := NormalizeText(text)
	if err != nil {
		return Task{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Task{}, ErrMissingID
	}
	return Task{ID: id, Text: trimmed}, nil
}

// NewID returns a random v4 UUID string.
func NewID() string {
	return uuid.NewString()
}

func NormalizeText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyText
	}
	return trimmed, nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}
	return nil
}
