package workflow

import "slices"

// UpdateTask returns a forest in which the first task with the given id has
// been replaced by fn(task). The search descends into children. Only the slices
// on the path from the root to the match are copied; every other subtree is
// shared with the input. When no task matches, the input is returned as is.
func UpdateTask(tasks []Task, taskID string, fn func(Task) Task) []Task {
	updated, _ := updateTask(tasks, taskID, fn)
	return updated
}

func updateTask(tasks []Task, taskID string, fn func(Task) Task) ([]Task, bool) {
	for i := range tasks {
		if tasks[i].ID == taskID {
			next := slices.Clone(tasks)
			next[i] = fn(tasks[i])
			return next, true
		}
		if !tasks[i].HasChildren() {
			continue
		}
		children, ok := updateTask(tasks[i].Children, taskID, fn)
		if !ok {
			continue
		}
		next := slices.Clone(tasks)
		next[i].Children = children
		return next, true
	}
	return tasks, false
}

// UpdateStatus replaces the status of the task with the given id wherever it
// sits in the forest. Missing ids are a no-op.
func UpdateStatus(tasks []Task, taskID string, status Status) []Task {
	return UpdateTask(tasks, taskID, withStatus(status))
}

// UpdateStatusShallow only scans the top level of the forest. The backend's
// status endpoint addresses parent tasks, so a nested id never matches here.
// The task browser applies confirmed changes through it.
func UpdateStatusShallow(tasks []Task, taskID string, status Status) []Task {
	for i := range tasks {
		if tasks[i].ID == taskID {
			next := slices.Clone(tasks)
			next[i] = withStatus(status)(tasks[i])
			return next
		}
	}
	return tasks
}

func withStatus(status Status) func(Task) Task {
	return func(t Task) Task {
		t.Status = status
		return t
	}
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
	Order       *int    `json:"order,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.IsCompleted == nil && p.Order == nil
}

// Apply returns a copy of t with the patch applied.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
	if p.Order != nil {
		t.Order = *p.Order
	}
	return t
}

// PatchTask applies a partial update to the task with the given id.
func PatchTask(tasks []Task, taskID string, patch TaskPatch) []Task {
	if patch.IsEmpty() {
		return tasks
	}
	return UpdateTask(tasks, taskID, patch.Apply)
}
