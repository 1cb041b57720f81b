package workflow

import (
	"errors"
	"fmt"
)

// ErrOrphanTask is returned by Rebuild when a flat entry names a parent that
// does not precede it.
var ErrOrphanTask = errors.New("flat task references unknown parent")

// FlatTask is a task annotated with its depth and the id of its parent in the
// tree, as produced by Flatten for list rendering.
type FlatTask struct {
	Task
	Level        int     `json:"level"`
	TreeParentID *string `json:"parentId,omitempty"`
}

// IsRoot reports whether the entry came from the top level of the forest.
func (f *FlatTask) IsRoot() bool {
	return f.TreeParentID == nil
}

// Flatten linearizes a forest in pre-order starting at level 0.
func Flatten(tasks []Task) []FlatTask {
	return FlattenFrom(tasks, 0, nil)
}

// FlattenFrom linearizes a forest in pre-order: every task is emitted before its
// children, children are one level deeper and carry the id of their parent.
// The input is not modified.
func FlattenFrom(tasks []Task, level int, parentID *string) []FlatTask {
	if level < 0 {
		level = 0
	}
	out := make([]FlatTask, 0, Count(tasks))
	return appendFlat(out, tasks, level, parentID)
}

func appendFlat(out []FlatTask, tasks []Task, level int, parentID *string) []FlatTask {
	for i := range tasks {
		out = append(out, FlatTask{Task: tasks[i], Level: level, TreeParentID: parentID})
		if tasks[i].HasChildren() {
			id := tasks[i].ID
			out = appendFlat(out, tasks[i].Children, level+1, &id)
		}
	}
	return out
}

type rebuildNode struct {
	task     Task
	level    int
	children []*rebuildNode
}

// Rebuild reverses Flatten: it reattaches every entry to the parent named by
// TreeParentID. Parents must appear before their children. It is exported for
// library callers that edit or filter a flat listing and need the forest back.
func Rebuild(flat []FlatTask) ([]Task, error) {
	roots := make([]*rebuildNode, 0)
	index := make(map[string]*rebuildNode, len(flat))
	for i := range flat {
		entry := &flat[i]
		node := &rebuildNode{task: entry.Task, level: entry.Level}
		node.task.Children = nil
		if entry.IsRoot() {
			roots = append(roots, node)
		} else {
			parent, ok := index[*entry.TreeParentID]
			if !ok {
				return nil, fmt.Errorf("%w: task %q names parent %q", ErrOrphanTask, entry.ID, *entry.TreeParentID)
			}
			if entry.Level != parent.level+1 {
				return nil, fmt.Errorf(
					"%w: task %q at level %d cannot be a child of level %d",
					ErrOrphanTask, entry.ID, entry.Level, parent.level,
				)
			}
			parent.children = append(parent.children, node)
		}
		index[entry.ID] = node
	}
	return materialize(roots), nil
}

func materialize(nodes []*rebuildNode) []Task {
	tasks := make([]Task, 0, len(nodes))
	for _, n := range nodes {
		task := n.task
		task.Children = materialize(n.children)
		tasks = append(tasks, task)
	}
	return tasks
}
