package components

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskforge/taskforge/cli/state"
	"github.com/taskforge/taskforge/cli/tui/models"
	"github.com/taskforge/taskforge/cli/tui/styles"
	"github.com/taskforge/taskforge/engine/workflow"
)

// StatusUpdater persists a status change for one task.
type StatusUpdater func(ctx context.Context, taskID string, status workflow.Status) error

// TaskBrowserKeyMap defines key bindings for the task browser
type TaskBrowserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultTaskBrowserKeyMap returns the default key bindings
func DefaultTaskBrowserKeyMap() TaskBrowserKeyMap {
	return TaskBrowserKeyMap{
		Up:     newBinding([]string{"up", "k"}, "move up", "↑/k"),
		Down:   newBinding([]string{"down", "j"}, "move down", "↓/j"),
		Toggle: newBinding([]string{" ", "space", "t"}, "next status", "space"),
		Help:   newBinding([]string{"?"}, "toggle help", "?"),
		Quit:   newBinding([]string{"q", "ctrl+c", "esc"}, "quit", "q"),
	}
}

func newBinding(keys []string, helpText, display string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(display, helpText),
	)
}

func (k TaskBrowserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Help, k.Quit}
}

func (k TaskBrowserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Toggle}, {k.Help, k.Quit}}
}

type statusUpdatedMsg struct {
	taskID string
	status workflow.Status
	err    error
}

// TaskBrowser is an interactive view of a workflow's task tree. Cycling a
// top-level task's status persists it through the updater and then writes it
// to the workflow store. Subtasks are read-only.
type TaskBrowser struct {
	models.BaseModel
	store   *state.WorkflowStore
	update  StatusUpdater
	table   table.Model
	flat    []workflow.FlatTask
	keys    TaskBrowserKeyMap
	help    help.Model
	pending string
}

// NewTaskBrowser creates a browser over the store's current workflow.
func NewTaskBrowser(ctx context.Context, store *state.WorkflowStore, update StatusUpdater) *TaskBrowser {
	t := table.New(
		table.WithColumns(taskColumns(100)),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(taskTableStyles())
	b := &TaskBrowser{
		BaseModel: models.NewBaseModel(ctx),
		store:     store,
		update:    update,
		table:     t,
		keys:      DefaultTaskBrowserKeyMap(),
		help:      help.New(),
	}
	b.refreshRows()
	return b
}

func taskColumns(width int) []table.Column {
	available := max(width-10, 40)
	statusWidth := 13
	idWidth := min(26, available/4)
	return []table.Column{
		{Title: "Task", Width: max(10, available-statusWidth-idWidth)},
		{Title: "Status", Width: statusWidth},
		{Title: "ID", Width: idWidth},
	}
}

func taskTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Border).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Primary)
	s.Selected = s.Selected.
		Foreground(styles.Highlight).
		Background(styles.Surface).
		Bold(true)
	return s
}

func (b *TaskBrowser) refreshRows() {
	b.flat = b.store.Flatten()
	rows := make([]table.Row, 0, len(b.flat))
	for i := range b.flat {
		task := &b.flat[i]
		title := task.Title
		if title == "" {
			title = "(untitled)"
		}
		rows = append(rows, table.Row{
			strings.Repeat("  ", task.Level) + title,
			task.Status.String(),
			task.ID,
		})
	}
	b.table.SetRows(rows)
	if cursor := b.table.Cursor(); cursor >= len(rows) && len(rows) > 0 {
		b.table.SetCursor(len(rows) - 1)
	}
}

// Selected returns the task under the cursor.
func (b *TaskBrowser) Selected() (workflow.FlatTask, bool) {
	cursor := b.table.Cursor()
	if cursor < 0 || cursor >= len(b.flat) {
		return workflow.FlatTask{}, false
	}
	return b.flat[cursor], true
}

func (b *TaskBrowser) Init() tea.Cmd {
	return nil
}

func (b *TaskBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.HandleResize(msg)
		b.table.SetColumns(taskColumns(msg.Width))
		b.table.SetHeight(max(3, msg.Height-6))
		return b, nil
	case statusUpdatedMsg:
		return b, b.handleStatusUpdated(msg)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, b.keys.Quit):
			b.Quit()
			return b, tea.Quit
		case key.Matches(msg, b.keys.Help):
			b.help.ShowAll = !b.help.ShowAll
			return b, nil
		case key.Matches(msg, b.keys.Toggle):
			return b, b.cycleSelected()
		}
	}
	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	return b, cmd
}

func (b *TaskBrowser) cycleSelected() tea.Cmd {
	if b.pending != "" {
		return nil
	}
	task, ok := b.Selected()
	if !ok {
		return nil
	}
	if !task.IsRoot() {
		b.SetNotice(models.NoticeInfo, fmt.Sprintf("%s is a subtask; only top-level tasks can change status", task.ID))
		return nil
	}
	next := task.Status.Next()
	b.pending = task.ID
	b.SetNotice(models.NoticeInfo, fmt.Sprintf("Updating %s...", task.ID))
	ctx := b.Context()
	update := b.update
	return func() tea.Msg {
		err := update(ctx, task.ID, next)
		return statusUpdatedMsg{taskID: task.ID, status: next, err: err}
	}
}

func (b *TaskBrowser) handleStatusUpdated(msg statusUpdatedMsg) tea.Cmd {
	b.pending = ""
	if msg.err != nil {
		b.Fail(msg.err, fmt.Sprintf("Failed to update %s: %v", msg.taskID, msg.err))
		return nil
	}
	b.store.UpdateParentStatus(msg.taskID, msg.status)
	b.refreshRows()
	b.Succeed(fmt.Sprintf("%s is now %s", msg.taskID, msg.status))
	return nil
}

func (b *TaskBrowser) View() string {
	if b.IsQuitting() {
		return ""
	}
	title := "Workflow"
	if wf := b.store.Current(); wf != nil && wf.Title != "" {
		title = wf.Title
	}
	parts := []string{
		styles.RenderTitle(title, fmt.Sprintf("%d tasks", len(b.flat))),
		b.table.View(),
	}
	if notice := b.RenderNotice(); notice != "" {
		parts = append(parts, notice)
	}
	parts = append(parts, b.help.View(b.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// RunTaskBrowser blocks until the user quits the browser.
func RunTaskBrowser(ctx context.Context, store *state.WorkflowStore, update StatusUpdater) error {
	browser := NewTaskBrowser(ctx, store, update)
	if _, err := tea.NewProgram(browser, tea.WithContext(ctx), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run task browser: %w", err)
	}
	return nil
}
