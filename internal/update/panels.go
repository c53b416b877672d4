package update

import (
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m Model) renderTaskList() string {
	tasks := m.view.Tasks()
	pendingID, _ := m.session.PendingDelete()
	editingID, _, _ := m.session.Editing()

	rows := make([]views.TaskRow, 0, len(tasks))
	for i, task := range tasks {
		rows = append(rows, views.TaskRow{
			Position:      i + 1,
			ID:            task.ID,
			Text:          task.Text,
			Completed:     task.Completed,
			Selected:      i == m.Cursor,
			Editing:       task.ID == editingID,
			PendingDelete: task.ID == pendingID,
		})
	}

	data := views.TaskListData{Rows: rows}
	switch m.Mode {
	case ModeAdd:
		data.InputLabel = "new task"
		data.InputView = m.taskInput.View()
	case ModeEdit:
		data.InputLabel = "edit task"
		data.InputView = m.taskInput.View()
	}
	return views.RenderTaskList(data)
}

func (m Model) renderConfirmPanel() string {
	id, ok := m.session.PendingDelete()
	if !ok {
		return ""
	}
	task, _ := m.taskByID(id)
	return views.RenderConfirmDelete(views.ConfirmDeleteData{Active: true, Text: task.Text})
}

func (m Model) renderDetailPane() string {
	sel, ok := m.selectedTask()
	if !ok {
		return views.RenderTaskDetail(views.TaskDetailData{})
	}
	return views.RenderTaskDetail(views.TaskDetailData{
		ID:           sel.ID,
		Completed:    sel.Completed,
		MarkdownView: m.detailViewport.View(),
	})
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Mode == ModePalette, m.commandInput.View())
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}

// renderTaskMarkdown lets task text carry inline markdown (links, emphasis,
// code) in the detail pane.
func renderTaskMarkdown(task model.Task) string {
	md := task.Text
	if task.Completed {
		md = fmt.Sprintf("~~%s~~", md)
	}
	return views.RenderMarkdown(md)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > 40 {
		m.Notifications = m.Notifications[len(m.Notifications)-40:]
	}
	if m.DesktopEnabled && m.notifier != nil && level == "error" {
		if err := m.notifier.Send(n); err != nil {
			m.logger.Debug("desktop notification failed", "err", err)
		}
	}
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
