package views

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/taskforge/engine/workflow"
)

func TestTable(t *testing.T) {
	t.Run("Should render headers and rows", func(t *testing.T) {
		out := NewTable("Projects", "ID", "Name").
			AddRow("p1", "Alpha").
			AddRow("p2", "Beta").
			RenderTUI(80)
		assert.Contains(t, out, "Projects")
		assert.Contains(t, out, "(2)")
		assert.Contains(t, out, "Alpha")
		assert.Contains(t, out, "Beta")
		assert.Contains(t, out, "Name")
	})

	t.Run("Should show the empty message without rows", func(t *testing.T) {
		tbl := NewTable("Projects", "ID")
		tbl.Empty = "No projects yet."
		assert.Contains(t, tbl.RenderTUI(80), "No projects yet.")
	})
}

func TestKeyValue(t *testing.T) {
	t.Run("Should keep insertion order and dash empty values", func(t *testing.T) {
		out := NewKeyValue("User").Add("Name", "Ada").Add("Email", "").RenderTUI(80)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[1], "Ada")
		assert.Contains(t, lines[2], "-")
	})
}

func TestMessage(t *testing.T) {
	t.Run("Should prefix by kind", func(t *testing.T) {
		assert.Contains(t, Success("saved %s", "x").RenderTUI(0), "✓ saved x")
		assert.Contains(t, Warning("careful").RenderTUI(0), "! careful")
		assert.Contains(t, Info("note").RenderTUI(0), "• note")
	})
}

func TestTaskTree(t *testing.T) {
	t.Run("Should indent children below their parent", func(t *testing.T) {
		wf := &workflow.Workflow{
			ID:    "w1",
			Title: "Launch",
			Tasks: []workflow.Task{{
				ID:       "a",
				Title:    "Design",
				Status:   workflow.StatusDone,
				Children: []workflow.Task{{ID: "b", Title: "Mockups", Status: workflow.StatusTodo}},
			}},
		}
		out := NewTaskTree(wf).RenderTUI(100)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 3)
		assert.Contains(t, lines[0], "Launch")
		assert.Contains(t, lines[0], "2 tasks")
		assert.Contains(t, lines[1], "Design")
		assert.True(t, strings.HasPrefix(lines[2], "  "))
		assert.Contains(t, lines[2], "Mockups")
		assert.Contains(t, lines[2], "todo")
	})

	t.Run("Should handle a nil workflow", func(t *testing.T) {
		assert.Contains(t, NewTaskTree(nil).RenderTUI(80), "No tasks.")
	})
}
