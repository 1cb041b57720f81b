package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStatus(t *testing.T) {
	t.Run("Should replace the status of a top level task", func(t *testing.T) {
		tasks := []Task{{ID: "a", Status: StatusTodo}, {ID: "b", Status: StatusTodo}}
		updated := UpdateStatus(tasks, "b", StatusDone)
		require.Len(t, updated, 2)
		assert.Equal(t, StatusTodo, updated[0].Status)
		assert.Equal(t, StatusDone, updated[1].Status)
		assert.Equal(t, StatusTodo, tasks[1].Status)
	})

	t.Run("Should reach nested tasks", func(t *testing.T) {
		tasks := sampleForest()
		updated := UpdateStatus(tasks, "a1x", StatusInProgress)
		found, ok := Find(updated, "a1x")
		require.True(t, ok)
		assert.Equal(t, StatusInProgress, found.Status)
		original, _ := Find(tasks, "a1x")
		assert.Equal(t, StatusDone, original.Status)
	})

	t.Run("Should return the input unchanged when the id is unknown", func(t *testing.T) {
		tasks := sampleForest()
		updated := UpdateStatus(tasks, "missing", StatusDone)
		assert.Equal(t, tasks, updated)
		assert.Same(t, &tasks[0], &updated[0])
	})

	t.Run("Should be idempotent", func(t *testing.T) {
		once := UpdateStatus(sampleForest(), "b1", StatusDone)
		twice := UpdateStatus(once, "b1", StatusDone)
		assert.Equal(t, once, twice)
	})

	t.Run("Should share untouched subtrees with the input", func(t *testing.T) {
		tasks := sampleForest()
		updated := UpdateStatus(tasks, "a2", StatusDone)
		assert.Same(t, &tasks[0].Children[0].Children[0], &updated[0].Children[0].Children[0])
		assert.Same(t, &tasks[1].Children[0], &updated[1].Children[0])
		assert.NotSame(t, &tasks[0].Children[1], &updated[0].Children[1])
	})

	t.Run("Should leave other tasks equal to their originals", func(t *testing.T) {
		tasks := sampleForest()
		updated := UpdateStatus(tasks, "a1", StatusDone)
		before := Flatten(tasks)
		after := Flatten(updated)
		require.Len(t, after, len(before))
		for i := range before {
			if before[i].ID == "a1" {
				assert.Equal(t, StatusDone, after[i].Status)
				continue
			}
			assert.Equal(t, before[i].Status, after[i].Status, before[i].ID)
		}
	})
}

func TestUpdateStatusShallow(t *testing.T) {
	t.Run("Should update top level tasks", func(t *testing.T) {
		updated := UpdateStatusShallow(sampleForest(), "c", StatusDone)
		assert.Equal(t, StatusDone, updated[2].Status)
	})

	t.Run("Should not descend into children", func(t *testing.T) {
		tasks := sampleForest()
		updated := UpdateStatusShallow(tasks, "a2", StatusDone)
		assert.Equal(t, tasks, updated)
	})
}

func TestPatchTask(t *testing.T) {
	t.Run("Should apply only the provided fields", func(t *testing.T) {
		title := "Renamed"
		done := true
		updated := PatchTask(sampleForest(), "b1", TaskPatch{Title: &title, IsCompleted: &done})
		found, ok := Find(updated, "b1")
		require.True(t, ok)
		assert.Equal(t, "Renamed", found.Title)
		assert.True(t, found.IsCompleted)
		assert.Equal(t, StatusTodo, found.Status)
	})

	t.Run("Should treat an empty patch as a no-op", func(t *testing.T) {
		tasks := sampleForest()
		assert.True(t, TaskPatch{}.IsEmpty())
		updated := PatchTask(tasks, "a", TaskPatch{})
		assert.Same(t, &tasks[0], &updated[0])
	})

	t.Run("Should set status and order", func(t *testing.T) {
		status := StatusInProgress
		order := 4
		updated := PatchTask(sampleForest(), "a", TaskPatch{Status: &status, Order: &order})
		assert.Equal(t, StatusInProgress, updated[0].Status)
		assert.Equal(t, 4, updated[0].Order)
	})
}
