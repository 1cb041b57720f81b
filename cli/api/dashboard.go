package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	SectionStats             = "stats"
	SectionRecentTasks       = "recent-tasks"
	SectionActiveProjects    = "active-projects"
	SectionUpcomingDeadlines = "upcoming-deadlines"
	SectionRecentActivity    = "recent-activity"
)

// DashboardService reads the organization dashboard.
type DashboardService struct {
	client *Client
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message,omitempty"`
}

// fetch unwraps the `{success, data}` envelope into out.
func (s *DashboardService) fetch(ctx context.Context, section, orgID string, out any) error {
	if err := requireID("organization ID", orgID); err != nil {
		return err
	}
	var env envelope
	path := "/dashboard/" + section + "/" + escape(orgID)
	if _, err := s.client.do(ctx, request{method: http.MethodGet, path: path}, &env); err != nil {
		return fmt.Errorf("failed to load dashboard %s: %w", section, err)
	}
	if !env.Success {
		msg := firstNonEmpty(env.Message, MessageGenericError)
		return fmt.Errorf("failed to load dashboard %s: %s", section, msg)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode dashboard %s: %w", section, err)
	}
	return nil
}

func (s *DashboardService) Summary(ctx context.Context, orgID string) (*DashboardSummary, error) {
	var out DashboardSummary
	if err := s.fetch(ctx, "summary", orgID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) Stats(ctx context.Context, orgID string) (*DashboardStats, error) {
	var out DashboardStats
	if err := s.fetch(ctx, SectionStats, orgID, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DashboardService) RecentTasks(ctx context.Context, orgID string) ([]RecentTask, error) {
	out := []RecentTask{}
	if err := s.fetch(ctx, SectionRecentTasks, orgID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DashboardService) ActiveProjects(ctx context.Context, orgID string) ([]ActiveProject, error) {
	out := []ActiveProject{}
	if err := s.fetch(ctx, SectionActiveProjects, orgID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DashboardService) UpcomingDeadlines(ctx context.Context, orgID string) ([]UpcomingDeadline, error) {
	out := []UpcomingDeadline{}
	if err := s.fetch(ctx, SectionUpcomingDeadlines, orgID, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DashboardService) RecentActivity(ctx context.Context, orgID string) ([]RecentActivity, error) {
	out := []RecentActivity{}
	if err := s.fetch(ctx, SectionRecentActivity, orgID, &out); err != nil {
		return nil, err
	}
	return out, nil
}
