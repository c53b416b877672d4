package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/commands"
	"github.com/sandeepkv93/tasklist/internal/storage"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		raw := m.commandInput.Value()
		m.closePalette()
		m = m.executePaletteCommand(raw)
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
	}
	return m
}

func (m *Model) closePalette() {
	m.Mode = ModeList
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand(raw string) Model {
	cmd, err := commands.Parse(strings.TrimSpace(raw))
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	ctx := m.ctx()
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if err := m.session.OnAddRequested(ctx, a.Text); err != nil {
				return commands.Result{}, err
			}
			m.Cursor = len(m.view.Tasks()) - 1
			return commands.Result{Message: fmt.Sprintf("added: %s", strings.TrimSpace(a.Text))}, nil
		},
		Edit: func(e commands.EditArgs) (commands.Result, error) {
			task, err := commands.Resolve(e.Target, m.view.Tasks())
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.session.OnEditRequested(ctx, task.ID, e.Text); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "task updated"}, nil
		},
		Mark: func(a commands.MarkArgs) (commands.Result, error) {
			task, err := commands.Resolve(a.Target, m.view.Tasks())
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.session.OnToggleRequested(ctx, task.ID, a.Completed); err != nil {
				return commands.Result{}, err
			}
			if a.Completed {
				return commands.Result{Message: fmt.Sprintf("completed: %s", task.Text)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("reopened: %s", task.Text)}, nil
		},
		Delete: func(d commands.DeleteArgs) (commands.Result, error) {
			task, err := commands.Resolve(d.Target, m.view.Tasks())
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.session.OnDeleteRequested(ctx, task.ID); err != nil {
				return commands.Result{}, err
			}
			if _, pending := m.session.PendingDelete(); pending {
				return commands.Result{Message: "confirm delete: [y]es / [n]o"}, nil
			}
			return commands.Result{Message: "task deleted"}, nil
		},
	})
	if errors.Is(err, storage.ErrUnavailable) {
		m.reportPersistError(err)
		return m
	}
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m
	}
	m.Status = StatusBar{Text: res.Message}
	m.notify("Command", res.Message, "info")
	return m
}
