package views

import (
	"fmt"
	"strings"
)

type TaskRow struct {
	Position      int
	ID            string
	Text          string
	Completed     bool
	Selected      bool
	Editing       bool
	PendingDelete bool
}

type TaskListData struct {
	Rows       []TaskRow
	InputLabel string
	InputView  string
}

type ConfirmDeleteData struct {
	Active bool
	Text   string
}

type TaskDetailData struct {
	ID           string
	Completed    bool
	MarkdownView string
}

type HelpPanelData struct {
	Mode     string
	Bindings []string
	HelpView string
}

func RenderTaskList(data TaskListData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	if data.InputLabel != "" {
		b.WriteString(fmt.Sprintf("%s: %s\n", data.InputLabel, data.InputView))
	}
	if len(data.Rows) == 0 {
		b.WriteString("  (no tasks yet, press [a] to add one)\n")
		return strings.TrimSpace(b.String())
	}
	for _, row := range data.Rows {
		b.WriteString(renderTaskRow(row) + "\n")
	}
	return strings.TrimSpace(b.String())
}

func renderTaskRow(row TaskRow) string {
	cursor := " "
	if row.Selected {
		cursor = ">"
	}
	box := "[ ]"
	if row.Completed {
		box = "[x]"
	}
	text := row.Text
	if row.Completed {
		text = completedStyle.Render(text)
	} else if row.Selected {
		text = selectedStyle.Render(text)
	}
	suffix := ""
	switch {
	case row.PendingDelete:
		suffix = "  (delete?)"
	case row.Editing:
		suffix = "  (editing)"
	}
	return fmt.Sprintf("%s %2d. %s %s%s", cursor, row.Position, box, text, suffix)
}

func RenderConfirmDelete(data ConfirmDeleteData) string {
	if !data.Active {
		return ""
	}
	body := fmt.Sprintf("delete task?\n%q\n[y]es  [n]o", data.Text)
	return warnPanelStyle.Render(body)
}

func RenderTaskDetail(data TaskDetailData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "details:\n(no selection)"
	}
	state := "open"
	if data.Completed {
		state = "done"
	}
	return fmt.Sprintf("details:\nid: %s\nstate: %s\n\n%s", shortID(data.ID), state, data.MarkdownView)
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.Mode),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
