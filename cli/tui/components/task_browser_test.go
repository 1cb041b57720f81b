package components

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskforge/taskforge/cli/state"
	"github.com/taskforge/taskforge/engine/workflow"
)

func browserStore() *state.WorkflowStore {
	store := &state.WorkflowStore{}
	store.Set(&workflow.Workflow{
		ID:    "w1",
		Title: "Launch",
		Tasks: []workflow.Task{
			{ID: "a", Title: "Design", Status: workflow.StatusTodo, Children: []workflow.Task{
				{ID: "a1", Title: "Mockups", Status: workflow.StatusInProgress},
			}},
			{ID: "b", Title: "Build", Status: workflow.StatusDone},
		},
	})
	return store
}

var spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func TestTaskBrowser(t *testing.T) {
	t.Run("Should list every task in tree order", func(t *testing.T) {
		b := NewTaskBrowser(t.Context(), browserStore(), nil)
		view := b.View()
		assert.Contains(t, view, "Launch")
		assert.Contains(t, view, "3 tasks")
		assert.Contains(t, view, "Mockups")
		selected, ok := b.Selected()
		require.True(t, ok)
		assert.Equal(t, "a", selected.ID)
	})

	t.Run("Should persist the next status and then update the store", func(t *testing.T) {
		store := browserStore()
		var calls []string
		update := func(_ context.Context, taskID string, status workflow.Status) error {
			calls = append(calls, taskID+"="+status.String())
			return nil
		}
		b := NewTaskBrowser(t.Context(), store, update)
		_, cmd := b.Update(spaceKey)
		require.NotNil(t, cmd)
		task, _ := workflow.Find(store.Tasks(), "a")
		assert.Equal(t, workflow.StatusTodo, task.Status)
		_, _ = b.Update(cmd())
		assert.Equal(t, []string{"a=in_progress"}, calls)
		task, _ = workflow.Find(store.Tasks(), "a")
		assert.Equal(t, workflow.StatusInProgress, task.Status)
		assert.Contains(t, b.Notice(), "a is now in_progress")
		assert.NoError(t, b.Error())
	})

	t.Run("Should ignore toggles while an update is pending", func(t *testing.T) {
		b := NewTaskBrowser(t.Context(), browserStore(), func(context.Context, string, workflow.Status) error {
			return nil
		})
		_, first := b.Update(spaceKey)
		require.NotNil(t, first)
		_, second := b.Update(spaceKey)
		assert.Nil(t, second)
	})

	t.Run("Should keep the store unchanged when the update fails", func(t *testing.T) {
		store := browserStore()
		b := NewTaskBrowser(t.Context(), store, func(context.Context, string, workflow.Status) error {
			return errors.New("backend down")
		})
		_, cmd := b.Update(spaceKey)
		_, _ = b.Update(cmd())
		task, _ := workflow.Find(store.Tasks(), "a")
		assert.Equal(t, workflow.StatusTodo, task.Status)
		assert.EqualError(t, b.Error(), "backend down")
		assert.Contains(t, b.Notice(), "backend down")
	})

	t.Run("Should not send subtask status changes to the backend", func(t *testing.T) {
		store := browserStore()
		called := false
		b := NewTaskBrowser(t.Context(), store, func(context.Context, string, workflow.Status) error {
			called = true
			return nil
		})
		_, _ = b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
		_, cmd := b.Update(spaceKey)
		assert.Nil(t, cmd)
		assert.False(t, called)
		task, _ := workflow.Find(store.Tasks(), "a1")
		assert.Equal(t, workflow.StatusInProgress, task.Status)
		assert.Contains(t, b.Notice(), "a1 is a subtask")
		assert.NoError(t, b.Error())
	})

	t.Run("Should move the cursor and quit", func(t *testing.T) {
		b := NewTaskBrowser(t.Context(), browserStore(), nil)
		_, _ = b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
		selected, _ := b.Selected()
		assert.Equal(t, "a1", selected.ID)
		_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		assert.NotNil(t, cmd)
		assert.True(t, b.IsQuitting())
	})
}
