package api

import (
	"context"
	"fmt"
	"net/http"
)

type BoardService struct {
	client *Client
}

// ListByProject returns the boards of a project.
func (s *BoardService) ListByProject(ctx context.Context, projectID string) ([]Board, error) {
	if err := requireID("project ID", projectID); err != nil {
		return nil, err
	}
	var out struct {
		Boards []Board `json:"boards"`
	}
	if _, err := s.client.do(ctx, request{method: http.MethodGet, path: "/board/" + escape(projectID)}, &out); err != nil {
		return nil, fmt.Errorf("failed to list boards of project %s: %w", projectID, err)
	}
	if out.Boards == nil {
		out.Boards = []Board{}
	}
	return out.Boards, nil
}
