package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/taskforge/taskforge/engine/workflow"
)

// TaskService mutates workflow tasks and kanban board tasks.
type TaskService struct {
	client *Client
}

func parentTaskPath(workflowID, taskID, action string) string {
	return fmt.Sprintf("/tasks/%s/parent/%s/%s", escape(workflowID), escape(taskID), action)
}

// UpdateParentStatus sets the status of a parent task of a workflow.
func (s *TaskService) UpdateParentStatus(
	ctx context.Context,
	workflowID, taskID string,
	status workflow.Status,
) error {
	if err := requireID("workflow ID", workflowID); err != nil {
		return err
	}
	if err := requireID("task ID", taskID); err != nil {
		return err
	}
	if !status.IsValid() {
		return fmt.Errorf("invalid status %q", status)
	}
	body := map[string]string{"new_status": string(status)}
	_, err := s.client.do(ctx, request{
		method: http.MethodPatch,
		path:   parentTaskPath(workflowID, taskID, "status"),
		body:   body,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to update status of task %s: %w", taskID, err)
	}
	return nil
}

// UpdateParentOrder moves a parent task from one order slot to another.
func (s *TaskService) UpdateParentOrder(ctx context.Context, workflowID, taskID string, from, to int) error {
	if err := requireID("workflow ID", workflowID); err != nil {
		return err
	}
	if err := requireID("task ID", taskID); err != nil {
		return err
	}
	if from < 0 || to < 0 {
		return fmt.Errorf("order must be non-negative, got %d -> %d", from, to)
	}
	body := map[string]int{"from_order": from, "to_order": to}
	_, err := s.client.do(ctx, request{
		method: http.MethodPatch,
		path:   parentTaskPath(workflowID, taskID, "order"),
		body:   body,
	}, nil)
	if err != nil {
		return fmt.Errorf("failed to reorder task %s: %w", taskID, err)
	}
	return nil
}

// ListByBoard returns the board's tasks keyed by column id.
func (s *TaskService) ListByBoard(ctx context.Context, boardID string) (map[string][]BoardTask, error) {
	if err := requireID("board ID", boardID); err != nil {
		return nil, err
	}
	var out struct {
		Tasks map[string][]BoardTask `json:"tasks"`
	}
	if _, err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/board/" + escape(boardID) + "/tasks",
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to list tasks of board %s: %w", boardID, err)
	}
	if out.Tasks == nil {
		out.Tasks = map[string][]BoardTask{}
	}
	return out.Tasks, nil
}

// UpdatePosition moves a board task within or across columns.
func (s *TaskService) UpdatePosition(ctx context.Context, taskID string, req *UpdatePositionRequest) error {
	if err := requireID("task ID", taskID); err != nil {
		return err
	}
	if err := s.client.validateRequest(req); err != nil {
		return err
	}
	if _, err := s.client.do(ctx, request{
		method: http.MethodPatch,
		path:   "/tasks/" + escape(taskID) + "/position",
		body:   req,
	}, nil); err != nil {
		return fmt.Errorf("failed to move task %s: %w", taskID, err)
	}
	return nil
}

// UpdateColumn moves a board task into another column.
func (s *TaskService) UpdateColumn(ctx context.Context, req *UpdateColumnRequest) error {
	if err := s.client.validateRequest(req); err != nil {
		return err
	}
	if _, err := s.client.do(ctx, request{
		method: http.MethodPatch,
		path:   "/tasks/update-status",
		body:   req,
	}, nil); err != nil {
		return fmt.Errorf("failed to change column of task %s: %w", req.TaskID, err)
	}
	return nil
}

// Create adds a task to a board column.
func (s *TaskService) Create(ctx context.Context, req *CreateTaskRequest) (*BoardTask, error) {
	if err := s.client.validateRequest(req); err != nil {
		return nil, err
	}
	var out TaskUpdateResult
	if _, err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/tasks/create-task",
		body:   req,
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	if out.Task == nil {
		return nil, fmt.Errorf("failed to create task: response has no task")
	}
	return out.Task, nil
}

// UpdatePartial changes only the given fields of a board task.
func (s *TaskService) UpdatePartial(ctx context.Context, req *PartialUpdateRequest) (*TaskUpdateResult, error) {
	if err := s.client.validateRequest(req); err != nil {
		return nil, err
	}
	var out TaskUpdateResult
	if _, err := s.client.do(ctx, request{
		method: http.MethodPut,
		path:   "/tasks/update-task-partial",
		body:   req,
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", req.TaskID, err)
	}
	return &out, nil
}
