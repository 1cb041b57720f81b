package state

import (
	"slices"
	"sync"

	"github.com/taskforge/taskforge/engine/workflow"
)

// WorkflowStore holds the workflow currently on screen.
type WorkflowStore struct {
	mu       sync.RWMutex
	current  *workflow.Workflow
	loading  bool
	err      error
	revision uint64
}

// Set replaces the workflow and clears any previous error.
func (s *WorkflowStore) Set(wf *workflow.Workflow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = wf
	s.err = nil
	s.revision++
}

// Current returns the held workflow, or nil.
func (s *WorkflowStore) Current() *workflow.Workflow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Tasks returns the task forest of the held workflow.
func (s *WorkflowStore) Tasks() []workflow.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return []workflow.Task{}
	}
	return s.current.Tasks
}

// Flatten returns the held forest in render order.
func (s *WorkflowStore) Flatten() []workflow.FlatTask {
	return workflow.Flatten(s.Tasks())
}

// UpdateStatus replaces the status of one task anywhere in the tree. It
// reports whether the task exists.
func (s *WorkflowStore) UpdateStatus(taskID string, status workflow.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	if _, ok := workflow.Find(s.current.Tasks, taskID); !ok {
		return false
	}
	next := *s.current
	next.Tasks = workflow.UpdateStatus(s.current.Tasks, taskID, status)
	s.current = &next
	s.revision++
	return true
}

// UpdateParentStatus replaces the status of a top-level task. Subtasks are
// not matched.
func (s *WorkflowStore) UpdateParentStatus(taskID string, status workflow.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || !slices.ContainsFunc(s.current.Tasks, func(t workflow.Task) bool { return t.ID == taskID }) {
		return false
	}
	next := *s.current
	next.Tasks = workflow.UpdateStatusShallow(s.current.Tasks, taskID, status)
	s.current = &next
	s.revision++
	return true
}

func (s *WorkflowStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *WorkflowStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *WorkflowStore) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *WorkflowStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Revision increases on every write of the workflow value.
func (s *WorkflowStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// TaskStore holds a standalone task tree edited outside a workflow view.
type TaskStore struct {
	mu   sync.RWMutex
	tree []workflow.Task
}

func (s *TaskStore) SetTree(tasks []workflow.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tasks == nil {
		tasks = []workflow.Task{}
	}
	s.tree = tasks
}

func (s *TaskStore) Tree() []workflow.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// UpdateTask applies a partial update to the task with the given id. Unknown
// ids leave the tree unchanged.
func (s *TaskStore) UpdateTask(taskID string, patch workflow.TaskPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = workflow.PatchTask(s.tree, taskID, patch)
}
