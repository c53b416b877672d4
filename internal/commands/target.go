package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/model"
)

// Resolve finds the task a command argument points at. A target is either a
// 1-based position ("3" or "#3") or a unique prefix of a task id. "#3" is
// always a position; a bare number outside the list is tried as an id prefix.
func Resolve(target string, tasks []model.Task) (model.Task, error) {
	t := strings.TrimSpace(target)
	if t == "" {
		return model.Task{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "empty task target"}
	}

	hashed := strings.HasPrefix(t, "#")
	if n, err := strconv.Atoi(strings.TrimPrefix(t, "#")); err == nil {
		if n >= 1 && n <= len(tasks) {
			return tasks[n-1], nil
		}
		if hashed || !hasIDPrefix(t, tasks) {
			return model.Task{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("no task at position %d", n)}
		}
	}

	var match model.Task
	found := 0
	for _, task := range tasks {
		if strings.HasPrefix(task.ID, t) {
			match = task
			found++
		}
	}
	switch found {
	case 0:
		return model.Task{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("no task matches %q", t)}
	case 1:
		return match, nil
	default:
		return model.Task{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%q matches %d tasks", t, found)}
	}
}

func hasIDPrefix(prefix string, tasks []model.Task) bool {
	for _, task := range tasks {
		if strings.HasPrefix(task.ID, prefix) {
			return true
		}
	}
	return false
}
