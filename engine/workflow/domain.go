// Package workflow holds the canonical workflow and task-tree model together
// with the pure functions that build, flatten and mutate it.
package workflow

import "fmt"

// -----------------------------------------------------------------------------
// Status
// -----------------------------------------------------------------------------

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists every status in board order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

func (s Status) String() string {
	return string(s)
}

// IsValid reports whether s is one of the enumerated statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// Next returns the status that follows s in board order, wrapping from done
// back to todo.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusTodo
	}
}

// CoerceStatus maps a raw backend value onto the enumeration. Empty and unknown
// values become StatusTodo.
func CoerceStatus(raw string) Status {
	s := Status(raw)
	if s.IsValid() {
		return s
	}
	return StatusTodo
}

// ParseStatus is the strict form used for user input.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid task status %q: must be one of %v", raw, Statuses)
	}
	return s, nil
}

// -----------------------------------------------------------------------------
// Task and Workflow
// -----------------------------------------------------------------------------

// Task is one node of a workflow's task forest.
type Task struct {
	ID           string   `json:"id"`
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	Status       Status   `json:"status"`
	IsCompleted  bool     `json:"is_completed"`
	Dependencies []string `json:"dependencies"`
	Order        int      `json:"order"`
	ParentID     *string  `json:"parent_id"`
	Children     []Task   `json:"children"`
}

// HasChildren reports whether the task has at least one child.
func (t *Task) HasChildren() bool {
	return len(t.Children) > 0
}

// Workflow is a named forest of tasks generated from a user prompt.
type Workflow struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Prompt      string `json:"prompt"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	Tasks       []Task `json:"tasks"`
}

// TaskCount returns the number of tasks in the whole forest.
func (w *Workflow) TaskCount() int {
	if w == nil {
		return 0
	}
	return Count(w.Tasks)
}

// Count returns the total node count of a forest.
func Count(tasks []Task) int {
	n := 0
	for i := range tasks {
		n += 1 + Count(tasks[i].Children)
	}
	return n
}

// Find returns the first task with the given id, searching depth first.
func Find(tasks []Task, id string) (Task, bool) {
	for i := range tasks {
		if tasks[i].ID == id {
			return tasks[i], true
		}
		if found, ok := Find(tasks[i].Children, id); ok {
			return found, true
		}
	}
	return Task{}, false
}
