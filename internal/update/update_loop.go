package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.startupErr == nil {
		return nil
	}
	err := m.startupErr
	return func() tea.Msg { return AppErrorMsg{Err: err} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	before := m.Status

	switch typed := msg.(type) {
	case tea.KeyMsg:
		m, cmd = m.handleKey(typed)
	case ClearStatusMsg:
		if typed.Seq == m.statusSeq && !m.Status.IsError {
			m.Status = StatusBar{}
		}
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.logger.Error("app error", "err", typed.Err)
			m.notify("Error", typed.Err.Error(), "error")
		}
	}

	if m.Status != before && m.Status.Text != "" {
		m.statusSeq++
		if !m.Status.IsError {
			cmd = tea.Batch(cmd, clearStatusAfter(m.statusSeq))
		}
	}

	m.syncBubbleData()
	return m, cmd
}

func clearStatusAfter(seq int) tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.Mode {
	case ModeConfirm:
		return m.handleConfirmKey(msg), nil
	case ModePalette:
		return m.handlePaletteKey(msg), nil
	case ModeAdd, ModeEdit:
		return m.handleInputKey(msg), nil
	}

	switch keyStr {
	case m.Keys.Palette:
		m.Mode = ModePalette
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}
	return m.handleListKey(msg), nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	right := joinNonEmpty(
		m.renderConfirmPanel(),
		m.renderDetailPane(),
		m.renderCommandPalette(),
		m.renderHelpIfVisible(),
	)

	tasks := m.view.Tasks()
	open := 0
	for _, task := range tasks {
		if !task.Completed {
			open++
		}
	}

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("tasklist | %d open / %d total | mode: %s", open, len(tasks), m.Mode),
		LeftPane:     m.renderTaskList(),
		RightPane:    right,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s add | %s edit | space toggle | %s delete | %s cmd | %s help | %s quit",
			m.Keys.Add, m.Keys.Edit, m.Keys.Delete, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
	})
}

// ctx is the context handed to storage writes. bubbletea has no request
// scope, so every write runs under Background.
func (m Model) ctx() context.Context {
	return context.Background()
}
