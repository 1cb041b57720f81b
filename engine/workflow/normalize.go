package workflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// ErrInvalidPayload is returned when a workflow payload cannot be normalized.
var ErrInvalidPayload = errors.New("invalid workflow payload")

// PayloadError names the part of the payload that failed validation.
type PayloadError struct {
	Reason string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidPayload.Error(), e.Reason)
}

func (e *PayloadError) Is(target error) bool {
	return target == ErrInvalidPayload
}

func invalidPayload(reason string) error {
	return &PayloadError{Reason: reason}
}

// Backend field names. The backend stores documents with a Mongo-style "_id".
const (
	fieldBackendID = "_id"
	fieldID        = "id"
	fieldTasks     = "tasks"
)

// NormalizeWorkflow validates a raw workflow document and converts it into the
// canonical shape. It is the only gate between the backend response and the
// rest of the client.
func NormalizeWorkflow(raw []byte) (*Workflow, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, invalidPayload("payload is empty")
	}
	if !gjson.ValidBytes(raw) {
		return nil, invalidPayload("payload is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, invalidPayload("payload is not an object")
	}
	id := identifier(doc)
	if id == "" {
		return nil, invalidPayload("missing identifier")
	}
	tasks := doc.Get(fieldTasks)
	if !tasks.IsArray() {
		return nil, invalidPayload("missing tasks")
	}
	return &Workflow{
		ID:          id,
		Title:       stringOrEmpty(doc.Get("title")),
		Description: stringOrEmpty(doc.Get("description")),
		UserID:      stringOrEmpty(doc.Get("user_id")),
		Prompt:      stringOrEmpty(doc.Get("prompt")),
		CreatedAt:   stringOrEmpty(doc.Get("created_at")),
		Tasks:       normalizeTasks(tasks),
	}, nil
}

// NormalizeWorkflowValue normalizes an already decoded document such as a
// map[string]any. A nil value is rejected like an empty payload. The CLI
// adapters hold raw bytes and use NormalizeWorkflow; this entry point is for
// library callers that decode responses themselves.
func NormalizeWorkflowValue(v any) (*Workflow, error) {
	if v == nil {
		return nil, invalidPayload("payload is empty")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, invalidPayload(fmt.Sprintf("payload cannot be encoded: %v", err))
	}
	return NormalizeWorkflow(raw)
}

// NormalizeTask converts one raw task record. It never fails: every optional
// field falls back to its default.
func NormalizeTask(raw gjson.Result) Task {
	task := Task{
		ID:           identifier(raw),
		Title:        raw.Get("title").String(),
		Description:  raw.Get("description").String(),
		Status:       StatusTodo,
		IsCompleted:  raw.Get("is_completed").Bool(),
		Dependencies: []string{},
		Children:     []Task{},
	}
	if status := raw.Get("status"); truthy(status) {
		task.Status = CoerceStatus(status.String())
	}
	if deps := raw.Get("dependencies"); deps.IsArray() {
		for _, dep := range deps.Array() {
			task.Dependencies = append(task.Dependencies, dep.String())
		}
	}
	if order := raw.Get("order"); order.Type == gjson.Number {
		task.Order = int(order.Int())
	}
	if parent := raw.Get("parent_id"); parent.Exists() && parent.Type != gjson.Null {
		id := parent.String()
		task.ParentID = &id
	}
	if children := raw.Get("children"); children.IsArray() {
		task.Children = normalizeTasks(children)
	}
	return task
}

// NormalizeTaskJSON is NormalizeTask for raw bytes, for library callers that
// hold a single task record outside of a workflow.
func NormalizeTaskJSON(raw []byte) Task {
	return NormalizeTask(gjson.ParseBytes(raw))
}

func normalizeTasks(list gjson.Result) []Task {
	items := list.Array()
	tasks := make([]Task, 0, len(items))
	for _, item := range items {
		tasks = append(tasks, NormalizeTask(item))
	}
	return tasks
}

func identifier(doc gjson.Result) string {
	if id := doc.Get(fieldBackendID); truthy(id) {
		return id.String()
	}
	if id := doc.Get(fieldID); truthy(id) {
		return id.String()
	}
	return ""
}

func stringOrEmpty(r gjson.Result) string {
	if !truthy(r) {
		return ""
	}
	return r.String()
}

// truthy follows the backend's loose notion of presence: null, false, 0 and the
// empty string all count as absent.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	default:
		return r.Exists()
	}
}
