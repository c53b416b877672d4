package update

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/storage"
	"github.com/sandeepkv93/tasklist/internal/todo"
)

type failingKV struct {
	*storage.MemoryKV
	fail bool
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	if f.fail {
		return errors.New("quota exceeded")
	}
	return f.MemoryKV.Set(ctx, key, value)
}

func newTestModel(t *testing.T, confirm bool) (Model, *failingKV) {
	t.Helper()
	kv := &failingKV{MemoryKV: storage.NewMemoryKV()}
	store := todo.Open(context.Background(), storage.NewGateway(kv, nil))
	view := NewTaskView()
	sess := todo.NewSession(store, view, todo.SessionOptions{ConfirmDeletes: confirm})
	return NewModel(sess, view, Options{}), kv
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func addViaKeys(t *testing.T, m Model, text string) Model {
	t.Helper()
	return press(t, m, runes("a"), runes(text), enter)
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t, true)
	if m.Mode != ModeList {
		t.Fatalf("expected list mode, got %q", m.Mode)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.view.Renders() != 1 {
		t.Fatalf("expected initial render, got %d", m.view.Renders())
	}
	if len(m.view.Tasks()) != 0 {
		t.Fatalf("expected empty list, got %d", len(m.view.Tasks()))
	}
}

func TestAddTaskWithKeyboard(t *testing.T) {
	m, kv := newTestModel(t, true)
	m = addViaKeys(t, m, "write tests")

	tasks := m.view.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "write tests" || tasks[0].Completed {
		t.Fatalf("unexpected tasks: %#v", tasks)
	}
	if m.Mode != ModeList {
		t.Fatalf("expected list mode after save, got %q", m.Mode)
	}
	raw, err := kv.Get(context.Background(), storage.SnapshotKey)
	if err != nil || !strings.Contains(raw, `"text":"write tests"`) {
		t.Fatalf("expected persisted snapshot, got %q err=%v", raw, err)
	}
}

func TestAddBlankTaskIgnored(t *testing.T) {
	m, _ := newTestModel(t, true)
	renders := m.view.Renders()
	m = press(t, m, runes("a"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, enter)
	if len(m.view.Tasks()) != 0 {
		t.Fatalf("blank add created a task: %#v", m.view.Tasks())
	}
	if m.view.Renders() != renders {
		t.Fatalf("blank add re-rendered the list")
	}
}

func TestAddCancelWithEsc(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = press(t, m, runes("a"), runes("draft"), tea.KeyMsg{Type: tea.KeyEsc})
	if m.Mode != ModeList || len(m.view.Tasks()) != 0 {
		t.Fatalf("esc should discard the draft, mode=%q tasks=%d", m.Mode, len(m.view.Tasks()))
	}
}

func TestEditSelectedTask(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = addViaKeys(t, m, "buy milk")
	m = press(t, m, runes("e"))
	if m.Mode != ModeEdit {
		t.Fatalf("expected edit mode, got %q", m.Mode)
	}
	if m.taskInput.Value() != "buy milk" {
		t.Fatalf("expected input prefilled, got %q", m.taskInput.Value())
	}
	m = press(t, m, runes(" and eggs"), enter)
	if got := m.view.Tasks()[0].Text; got != "buy milk and eggs" {
		t.Fatalf("unexpected text after edit: %q", got)
	}
	if _, _, editing := m.session.Editing(); editing {
		t.Fatal("edit flow should be closed")
	}
}

func TestEditBlankLeavesTaskUnchanged(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = addViaKeys(t, m, "keep me")
	m = press(t, m, runes("e"))
	m.taskInput.SetValue("  ")
	m = press(t, m, enter)
	if got := m.view.Tasks()[0].Text; got != "keep me" {
		t.Fatalf("blank edit changed text to %q", got)
	}
	if m.Status.Text != "empty text ignored, task unchanged" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
}

func TestToggleWithSpace(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = addViaKeys(t, m, "a")
	space := tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

	m = press(t, m, space)
	if !m.view.Tasks()[0].Completed {
		t.Fatal("expected task completed")
	}
	m = press(t, m, space)
	if m.view.Tasks()[0].Completed {
		t.Fatal("expected task reopened")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = addViaKeys(t, m, "first")
	m = addViaKeys(t, m, "second")
	m = press(t, m, runes("k"), runes("d"))

	if m.Mode != ModeConfirm {
		t.Fatalf("expected confirm mode, got %q", m.Mode)
	}
	if !strings.Contains(m.View(), "delete task?") {
		t.Fatalf("expected confirm prompt in view: %q", m.View())
	}

	m = press(t, m, runes("n"))
	if m.Mode != ModeList || len(m.view.Tasks()) != 2 {
		t.Fatalf("cancel should keep both tasks, mode=%q tasks=%d", m.Mode, len(m.view.Tasks()))
	}

	m = press(t, m, runes("d"), runes("y"))
	tasks := m.view.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "second" {
		t.Fatalf("expected only second to remain, got %#v", tasks)
	}
	if m.Mode != ModeList {
		t.Fatalf("expected list mode after confirm, got %q", m.Mode)
	}
}

func TestDeleteWhilePendingIgnoresOtherKeys(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = addViaKeys(t, m, "first")
	m = addViaKeys(t, m, "second")
	m = press(t, m, runes("d"))
	pending, _ := m.session.PendingDelete()

	m = press(t, m, runes("k"), runes("d"))
	if got, _ := m.session.PendingDelete(); got != pending {
		t.Fatalf("pending target changed from %q to %q", pending, got)
	}
	if len(m.view.Tasks()) != 2 {
		t.Fatalf("stray keys deleted a task")
	}
}

func TestDeleteWithoutConfirmation(t *testing.T) {
	m, _ := newTestModel(t, false)
	m = addViaKeys(t, m, "gone")
	m = press(t, m, runes("d"))
	if len(m.view.Tasks()) != 0 || m.Mode != ModeList {
		t.Fatalf("expected immediate delete, mode=%q tasks=%d", m.Mode, len(m.view.Tasks()))
	}
}

func TestPaletteCommands(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = press(t, m, runes("/"), runes("add ship release"), enter)
	if len(m.view.Tasks()) != 1 || m.view.Tasks()[0].Text != "ship release" {
		t.Fatalf("palette add failed: %#v", m.view.Tasks())
	}
	if m.Mode != ModeList {
		t.Fatalf("palette should close after enter, got %q", m.Mode)
	}

	m = press(t, m, runes("/"), runes("done 1"), enter)
	if !m.view.Tasks()[0].Completed {
		t.Fatal("palette done failed")
	}

	m = press(t, m, runes("/"), runes("rm 1"), enter)
	if m.Mode != ModeConfirm {
		t.Fatalf("palette delete should ask for confirmation, got %q", m.Mode)
	}
	m = press(t, m, enter)
	if len(m.view.Tasks()) != 0 {
		t.Fatalf("expected empty list, got %#v", m.view.Tasks())
	}
}

func TestPaletteUnknownCommandSetsError(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = press(t, m, runes("/"), runes("frobnicate"), enter)
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestPersistFailureKeepsTaskVisible(t *testing.T) {
	m, kv := newTestModel(t, true)
	kv.fail = true
	m = addViaKeys(t, m, "unsaved")

	if len(m.view.Tasks()) != 1 {
		t.Fatalf("expected task to stay visible, got %d", len(m.view.Tasks()))
	}
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "not saved") {
		t.Fatalf("expected not-saved status, got %+v", m.Status)
	}
	if !errors.Is(m.LastError, storage.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", m.LastError)
	}
}

func TestInfoStatusClearsOnTick(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = press(t, m, runes("a"), runes("x"))
	updated, cmd := m.Update(enter)
	m = updated.(Model)
	if m.Status.Text != "task added" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	if cmd == nil {
		t.Fatal("expected a clear-status tick")
	}

	updated, _ = m.Update(ClearStatusMsg{Seq: m.statusSeq - 1})
	m = updated.(Model)
	if m.Status.Text != "task added" {
		t.Fatalf("stale tick cleared a newer status: %+v", m.Status)
	}

	updated, _ = m.Update(ClearStatusMsg{Seq: m.statusSeq})
	m = updated.(Model)
	if m.Status.Text != "" {
		t.Fatalf("expected cleared status, got %+v", m.Status)
	}
}

func TestErrorStatusOutlivesTick(t *testing.T) {
	m, _ := newTestModel(t, true)
	updated, cmd := m.Update(AppErrorMsg{Err: errors.New("boom")})
	m = updated.(Model)
	if m.LastError == nil || !m.Status.IsError || m.Status.Text != "boom" {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}
	if cmd != nil {
		t.Fatal("error status should not schedule a clear")
	}
	updated, _ = m.Update(ClearStatusMsg{Seq: m.statusSeq})
	m = updated.(Model)
	if !m.Status.IsError {
		t.Fatalf("error status cleared by tick: %+v", m.Status)
	}
}

func TestInitReportsStartupError(t *testing.T) {
	store := todo.Open(context.Background(), storage.NewGateway(storage.NewMemoryKV(), nil))
	view := NewTaskView()
	sess := todo.NewSession(store, view, todo.SessionOptions{ConfirmDeletes: true})
	startErr := errors.New("open sqlite storage: disk is read-only")
	m := NewModel(sess, view, Options{StartupErr: startErr})

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected startup error command")
	}
	updated, _ := m.Update(cmd())
	next := updated.(Model)
	if !errors.Is(next.LastError, startErr) || !next.Status.IsError {
		t.Fatalf("startup error not shown: %+v", next.Status)
	}

	clean, _ := newTestModel(t, true)
	if clean.Init() != nil {
		t.Fatal("expected no init command without a startup error")
	}
}

func TestTypingInsertsAtCursor(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = addViaKeys(t, m, "by milk")
	m = press(t, m,
		runes("e"),
		tea.KeyMsg{Type: tea.KeyHome},
		tea.KeyMsg{Type: tea.KeyRight},
		runes("u"),
		enter,
	)
	if got := m.view.Tasks()[0].Text; got != "buy milk" {
		t.Fatalf("expected insert at cursor, got %q", got)
	}

	m = press(t, m, runes("/"), runes("add tea"), tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft}, tea.KeyMsg{Type: tea.KeyLeft}, runes("green "), enter)
	if got := m.view.Tasks()[1].Text; got != "green tea" {
		t.Fatalf("expected palette insert at cursor, got %q", got)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m, _ := newTestModel(t, true)
	updated, cmd := m.Update(runes("q"))
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestViewContainsCoreState(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = addViaKeys(t, m, "read book")
	m.Status = StatusBar{Text: "all good"}
	out := m.View()
	for _, want := range []string{"tasklist | 1 open / 1 total", "read book", "status: all good"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, true)
	m = press(t, m, runes("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "toggle completed") {
		t.Fatalf("expected help panel in view")
	}
	m = press(t, m, runes("?"))
	if m.HelpVisible {
		t.Fatal("expected help hidden")
	}
}
