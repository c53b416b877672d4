package update

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/todo"
)

type Mode string

const (
	ModeList    Mode = "list"
	ModeAdd     Mode = "add"
	ModeEdit    Mode = "edit"
	ModeConfirm Mode = "confirm"
	ModePalette Mode = "palette"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add     string
	Edit    string
	Toggle  string
	Delete  string
	Palette string
	Help    string
	Quit    string
}

// TaskView is the todo.Renderer the session draws into. The bubbletea
// model copies itself on every update, so the rendered list lives behind a
// pointer shared by all copies.
type TaskView struct {
	tasks   []model.Task
	renders int
}

func NewTaskView() *TaskView {
	return &TaskView{}
}

func (v *TaskView) RenderAll(tasks []model.Task) {
	v.tasks = tasks
	v.renders++
}

func (v *TaskView) Tasks() []model.Task { return v.tasks }

func (v *TaskView) Renders() int { return v.renders }

type Model struct {
	Mode           Mode
	Cursor         int
	Status         StatusBar
	Notifications  []Notification
	HelpVisible    bool
	DesktopEnabled bool
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	statusSeq  int
	startupErr error

	session  *todo.Session
	view     *TaskView
	notifier DesktopNotifier
	logger   *log.Logger

	taskInput      textinput.Model
	commandInput   textinput.Model
	helpModel      help.Model
	detailViewport viewport.Model
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// statusTTL is how long an info status stays up. Errors stay until the next
// status replaces them.
const statusTTL = 4 * time.Second

// ClearStatusMsg clears the status bar if it still shows status number Seq.
type ClearStatusMsg struct {
	Seq int
}

type AppErrorMsg struct {
	Err error
}

type Options struct {
	DesktopNotifications bool
	Notifier             DesktopNotifier
	Logger               *log.Logger
	// StartupErr is reported in the status bar once the program starts, for
	// example when the configured storage could not be opened.
	StartupErr error
}

// NewModel builds the terminal UI over a session whose renderer is view,
// and draws the initial list.
func NewModel(session *todo.Session, view *TaskView, opts Options) Model {
	m := Model{
		Mode:           ModeList,
		DesktopEnabled: opts.DesktopNotifications,
		session:        session,
		view:           view,
		notifier:       NoopDesktopNotifier{},
		logger:         opts.Logger,
		startupErr:     opts.StartupErr,
		Keys: GlobalKeyMap{
			Add:     "a",
			Edit:    "e",
			Toggle:  " ",
			Delete:  "d",
			Palette: "/",
			Help:    "?",
			Quit:    "q",
		},
	}
	if opts.Notifier != nil {
		m.notifier = opts.Notifier
	}
	if m.logger == nil {
		m.logger = log.New(io.Discard)
	}
	m.initBubbleComponents()
	session.Start()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.taskInput = textinput.New()
	m.taskInput.Prompt = "> "
	m.taskInput.CharLimit = 256
	m.taskInput.Width = 48

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 40

	m.helpModel = help.New()
	m.detailViewport = viewport.New(42, 10)
}

// syncBubbleData keeps the cursor inside the list and the detail pane on the
// selected task. It runs after every update.
func (m *Model) syncBubbleData() {
	tasks := m.view.Tasks()
	if m.Cursor >= len(tasks) {
		m.Cursor = len(tasks) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}

	if _, ok := m.session.PendingDelete(); ok {
		m.Mode = ModeConfirm
	} else if m.Mode == ModeConfirm {
		m.Mode = ModeList
	}

	if sel, ok := m.selectedTask(); ok {
		m.detailViewport.SetContent(renderTaskMarkdown(sel))
	} else {
		m.detailViewport.SetContent("")
	}
}

func (m Model) selectedTask() (model.Task, bool) {
	tasks := m.view.Tasks()
	if m.Cursor < 0 || m.Cursor >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.Cursor], true
}

func (m Model) taskByID(id string) (model.Task, bool) {
	for _, task := range m.view.Tasks() {
		if task.ID == id {
			return task, true
		}
	}
	return model.Task{}, false
}
