// Package views renders command results as styled terminal text. Every view
// implements helpers.Renderer.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/taskforge/taskforge/cli/tui/styles"
	"github.com/taskforge/taskforge/engine/workflow"
)

const minWidth = 40

func clampWidth(width int) int {
	return max(width, minWidth)
}

// -----------------------------------------------------------------------------
// Table
// -----------------------------------------------------------------------------

// Table is a bordered grid with a header row.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Empty is shown instead of the grid when there are no rows.
	Empty string
	// StatusColumn is colored with styles.StatusStyle when >= 0.
	StatusColumn int
}

// NewTable builds a table without a status column.
func NewTable(title string, headers ...string) *Table {
	return &Table{Title: title, Headers: headers, StatusColumn: -1}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) *Table {
	t.Rows = append(t.Rows, cells)
	return t
}

func (t *Table) RenderTUI(width int) string {
	var b strings.Builder
	if t.Title != "" {
		b.WriteString(styles.RenderTitle(t.Title, fmt.Sprintf("(%d)", len(t.Rows))))
		b.WriteString("\n")
	}
	if len(t.Rows) == 0 {
		empty := t.Empty
		if empty == "" {
			empty = "Nothing to show."
		}
		b.WriteString(styles.HelpStyle.Render(empty))
		return b.String()
	}
	grid := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Border)).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.HeaderStyle
			}
			if col == t.StatusColumn && row >= 0 && row < len(t.Rows) && col < len(t.Rows[row]) {
				return styles.StatusStyle(t.Rows[row][col]).Padding(0, 1)
			}
			return styles.CellStyle
		})
	if width > 0 {
		grid = grid.Width(clampWidth(width))
	}
	b.WriteString(grid.String())
	return b.String()
}

// -----------------------------------------------------------------------------
// KeyValue
// -----------------------------------------------------------------------------

// Pair is one labeled value.
type Pair struct {
	Key   string
	Value string
}

// KeyValue renders labeled values in insertion order.
type KeyValue struct {
	Title string
	Pairs []Pair
}

func NewKeyValue(title string) *KeyValue {
	return &KeyValue{Title: title}
}

// Add appends a pair; empty values render as a dash.
func (kv *KeyValue) Add(key string, value any) *KeyValue {
	text := fmt.Sprint(value)
	if text == "" || text == "<nil>" {
		text = "-"
	}
	kv.Pairs = append(kv.Pairs, Pair{Key: key, Value: text})
	return kv
}

func (kv *KeyValue) RenderTUI(_ int) string {
	keyWidth := 0
	for _, p := range kv.Pairs {
		keyWidth = max(keyWidth, lipgloss.Width(p.Key))
	}
	lines := make([]string, 0, len(kv.Pairs)+1)
	if kv.Title != "" {
		lines = append(lines, styles.RenderTitle(kv.Title, ""))
	}
	for _, p := range kv.Pairs {
		key := styles.KeyStyle.Width(keyWidth + 2).Render(p.Key + ":")
		lines = append(lines, key+" "+styles.ValueStyle.Render(p.Value))
	}
	return strings.Join(lines, "\n")
}

// -----------------------------------------------------------------------------
// Message
// -----------------------------------------------------------------------------

type MessageKind string

const (
	MessageInfo    MessageKind = "info"
	MessageSuccess MessageKind = "success"
	MessageWarning MessageKind = "warning"
)

// Message is a one-line notice.
type Message struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"message"`
}

func Success(format string, args ...any) *Message {
	return &Message{Kind: MessageSuccess, Text: fmt.Sprintf(format, args...)}
}

func Info(format string, args ...any) *Message {
	return &Message{Kind: MessageInfo, Text: fmt.Sprintf(format, args...)}
}

func Warning(format string, args ...any) *Message {
	return &Message{Kind: MessageWarning, Text: fmt.Sprintf(format, args...)}
}

func (m *Message) RenderTUI(_ int) string {
	switch m.Kind {
	case MessageSuccess:
		return styles.SuccessStyle.Render("✓ " + m.Text)
	case MessageWarning:
		return styles.WarningStyle.Render("! " + m.Text)
	default:
		return styles.InfoStyle.Render("• " + m.Text)
	}
}

// -----------------------------------------------------------------------------
// TaskTree
// -----------------------------------------------------------------------------

// TaskTree renders a flattened workflow forest with one indented line per task.
type TaskTree struct {
	Title    string
	Subtitle string
	Tasks    []workflow.FlatTask
	ShowIDs  bool
}

// NewTaskTree flattens the workflow for display.
func NewTaskTree(wf *workflow.Workflow) *TaskTree {
	if wf == nil {
		return &TaskTree{Tasks: []workflow.FlatTask{}}
	}
	title := wf.Title
	if title == "" {
		title = wf.ID
	}
	return &TaskTree{
		Title:    title,
		Subtitle: fmt.Sprintf("%d tasks", wf.TaskCount()),
		Tasks:    workflow.Flatten(wf.Tasks),
		ShowIDs:  true,
	}
}

func (v *TaskTree) RenderTUI(width int) string {
	lines := make([]string, 0, len(v.Tasks)+1)
	if v.Title != "" {
		lines = append(lines, styles.RenderTitle(v.Title, v.Subtitle))
	}
	if len(v.Tasks) == 0 {
		lines = append(lines, styles.HelpStyle.Render("No tasks."))
		return strings.Join(lines, "\n")
	}
	for i := range v.Tasks {
		lines = append(lines, TaskLine(&v.Tasks[i], v.ShowIDs, width))
	}
	return strings.Join(lines, "\n")
}

// TaskLine renders one flattened task.
func TaskLine(task *workflow.FlatTask, showID bool, width int) string {
	indent := strings.Repeat("  ", task.Level)
	branch := ""
	if !task.IsRoot() {
		branch = styles.HelpStyle.Render("└ ")
	}
	title := task.Title
	if title == "" {
		title = "(untitled)"
	}
	line := indent + branch + styles.StatusBadge(task.Status.String()) + " " + title
	if showID {
		line += " " + styles.HelpStyle.Render(task.ID)
	}
	if width > 0 && lipgloss.Width(line) > clampWidth(width) {
		return lipgloss.NewStyle().MaxWidth(clampWidth(width)).Render(line)
	}
	return line
}
