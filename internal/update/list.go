package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleListKey(msg tea.KeyMsg) Model {
	tasks := m.view.Tasks()
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(tasks)-1 {
			m.Cursor++
		}
	case "home", "g":
		m.Cursor = 0
	case "end", "G":
		m.Cursor = len(tasks) - 1
	case m.Keys.Add, "i", "enter":
		m.openInput(ModeAdd, "")
		m.Status = StatusBar{Text: "add mode: enter saves, esc cancels"}
	case m.Keys.Edit:
		m.beginEdit()
	case m.Keys.Toggle, "x":
		m.toggleSelected()
	case m.Keys.Delete, "delete":
		m.requestDeleteSelected()
	}
	return m
}

func (m Model) handleInputKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		if m.Mode == ModeEdit {
			m.session.OnCancelEdit()
			m.Status = StatusBar{Text: "edit cancelled"}
		} else {
			m.Status = StatusBar{Text: "add cancelled"}
		}
		m.closeInput()
		return m
	case "enter":
		value := m.taskInput.Value()
		if m.Mode == ModeEdit {
			m.commitEdit(value)
		} else {
			m.addTask(value)
		}
		m.closeInput()
		return m
	}

	var cmd tea.Cmd
	m.taskInput, cmd = m.taskInput.Update(msg)
	_ = cmd
	return m
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "y", "Y", "enter":
		if err := m.session.OnConfirmDelete(m.ctx()); err != nil {
			m.reportPersistError(err)
		} else {
			m.Status = StatusBar{Text: "task deleted"}
		}
	case "n", "N", "esc":
		if m.session.OnCancelDelete() {
			m.Status = StatusBar{Text: "delete cancelled"}
		}
	default:
		m.Status = StatusBar{Text: "confirm delete: [y]es / [n]o"}
	}
	return m
}

func (m *Model) openInput(mode Mode, value string) {
	m.Mode = mode
	m.taskInput.SetValue(value)
	m.taskInput.CursorEnd()
	m.taskInput.Focus()
}

func (m *Model) closeInput() {
	m.Mode = ModeList
	m.taskInput.SetValue("")
	m.taskInput.Blur()
}

func (m *Model) addTask(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	before := len(m.view.Tasks())
	err := m.session.OnAddRequested(m.ctx(), text)
	if len(m.view.Tasks()) > before {
		m.Cursor = len(m.view.Tasks()) - 1
	}
	if err != nil {
		m.reportPersistError(err)
		return
	}
	m.Status = StatusBar{Text: "task added"}
}

func (m *Model) beginEdit() {
	sel, ok := m.selectedTask()
	if !ok {
		return
	}
	if !m.session.OnBeginEdit(sel.ID) {
		return
	}
	m.openInput(ModeEdit, sel.Text)
	m.Status = StatusBar{Text: "edit mode: enter saves, esc cancels"}
}

func (m *Model) commitEdit(text string) {
	if strings.TrimSpace(text) == "" {
		m.session.OnCancelEdit()
		m.Status = StatusBar{Text: "empty text ignored, task unchanged"}
		return
	}
	if err := m.session.OnCommitEdit(m.ctx(), text); err != nil {
		m.reportPersistError(err)
		return
	}
	m.Status = StatusBar{Text: "task updated"}
}

func (m *Model) toggleSelected() {
	sel, ok := m.selectedTask()
	if !ok {
		return
	}
	if err := m.session.OnToggleRequested(m.ctx(), sel.ID, !sel.Completed); err != nil {
		m.reportPersistError(err)
		return
	}
	if sel.Completed {
		m.Status = StatusBar{Text: "task reopened"}
	} else {
		m.Status = StatusBar{Text: "task completed"}
	}
}

func (m *Model) requestDeleteSelected() {
	sel, ok := m.selectedTask()
	if !ok {
		return
	}
	if err := m.session.OnDeleteRequested(m.ctx(), sel.ID); err != nil {
		m.reportPersistError(err)
		return
	}
	if _, pending := m.session.PendingDelete(); pending {
		m.Mode = ModeConfirm
		m.Status = StatusBar{Text: "confirm delete: [y]es / [n]o"}
		return
	}
	m.Status = StatusBar{Text: "task deleted"}
}

// reportPersistError surfaces a failed snapshot write. The change itself
// already applied in memory and stays on screen.
func (m *Model) reportPersistError(err error) {
	m.LastError = err
	text := fmt.Sprintf("not saved: %v", err)
	m.Status = StatusBar{Text: text, IsError: true}
	m.logger.Warn("persist failed", "err", err)
	m.notify("Storage", text, "error")
}
