package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

type ProjectService struct {
	client *Client
}

// SidebarProjects lists the projects shown in the navigation of an
// organization. The backend answers with a bare list or `{projects: [...]}`.
func (s *ProjectService) SidebarProjects(ctx context.Context, orgID string) ([]SidebarProject, error) {
	if err := requireID("organization ID", orgID); err != nil {
		return nil, err
	}
	resp, err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/projects/" + escape(orgID) + "/sidebar-projects",
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	doc := gjson.ParseBytes(resp.Body())
	if !doc.IsArray() {
		doc = doc.Get("projects")
	}
	projects := []SidebarProject{}
	if doc.IsArray() {
		if err := json.Unmarshal([]byte(doc.Raw), &projects); err != nil {
			return nil, fmt.Errorf("failed to decode projects: %w", err)
		}
	}
	return projects, nil
}

// Create adds a project to an organization and returns its id.
func (s *ProjectService) Create(ctx context.Context, req *CreateProjectRequest) (string, error) {
	if err := s.client.validateRequest(req); err != nil {
		return "", err
	}
	resp, err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/projects/create-project",
		body:   req,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create project: %w", err)
	}
	body := resp.Body()
	return firstNonEmpty(
		gjson.GetBytes(body, "project_id").String(),
		gjson.GetBytes(body, "project.id").String(),
		gjson.GetBytes(body, "id").String(),
	), nil
}
