package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/taskforge/taskforge/engine/workflow"
	"github.com/taskforge/taskforge/pkg/logger"
)

// WorkflowService reads and generates AI-planned workflows.
type WorkflowService struct {
	client *Client
}

// FetchRaw returns the undecoded body of GET /workflows/{id}.
func (s *WorkflowService) FetchRaw(ctx context.Context, workflowID string) ([]byte, error) {
	if err := requireID("workflow ID", workflowID); err != nil {
		return nil, err
	}
	resp, err := s.client.do(ctx, request{method: http.MethodGet, path: "/workflows/" + escape(workflowID)}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workflow %s: %w", workflowID, err)
	}
	return resp.Body(), nil
}

// Get fetches a workflow and normalizes it into the canonical tree.
func (s *WorkflowService) Get(ctx context.Context, workflowID string) (*workflow.Workflow, error) {
	raw, err := s.FetchRaw(ctx, workflowID)
	if err != nil {
		return nil, err
	}
	wf, err := workflow.NormalizeWorkflow(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize workflow %s: %w", workflowID, err)
	}
	logger.FromContext(ctx).Debug("workflow loaded", "workflow_id", wf.ID, "tasks", wf.TaskCount())
	return wf, nil
}

// ListByUser returns every workflow owned by the user. Entries that do not
// normalize are skipped and logged.
func (s *WorkflowService) ListByUser(ctx context.Context, userID string) ([]workflow.Workflow, error) {
	if err := requireID("user ID", userID); err != nil {
		return nil, err
	}
	resp, err := s.client.do(ctx, request{method: http.MethodGet, path: "/workflows/user/" + escape(userID)}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	doc := gjson.ParseBytes(resp.Body())
	if !doc.IsArray() {
		doc = doc.Get("workflows")
	}
	log := logger.FromContext(ctx)
	items := doc.Array()
	out := make([]workflow.Workflow, 0, len(items))
	for _, item := range items {
		wf, err := workflow.NormalizeWorkflow([]byte(item.Raw))
		if err != nil {
			log.Warn("skipping malformed workflow", "user_id", userID, "err", err)
			continue
		}
		out = append(out, *wf)
	}
	return out, nil
}

// GenerateTasks asks the backend to plan a workflow from a prompt and returns
// the new workflow id.
func (s *WorkflowService) GenerateTasks(ctx context.Context, req *GenerateTasksRequest) (string, error) {
	if err := s.client.validateRequest(req); err != nil {
		return "", err
	}
	resp, err := s.client.do(ctx, request{method: http.MethodPost, path: "/workflows/generate-tasks", body: req}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate tasks: %w", err)
	}
	id := gjson.GetBytes(resp.Body(), "workflow_id").String()
	if id == "" {
		return "", fmt.Errorf("failed to generate tasks: response has no workflow_id")
	}
	return id, nil
}
