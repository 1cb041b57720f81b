package api

import (
	"context"
	"fmt"
	"net/http"
)

// OrganizationService manages organizations, memberships and invitations.
type OrganizationService struct {
	client *Client
}

// Mine lists the organizations of the authenticated user.
func (s *OrganizationService) Mine(ctx context.Context) (*OrganizationList, error) {
	var out OrganizationList
	if _, err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/organizations/my-organizations",
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	if out.Organizations == nil {
		out.Organizations = []Organization{}
	}
	return &out, nil
}

func (s *OrganizationService) Get(ctx context.Context, orgID string) (*OrganizationDetails, error) {
	if err := requireID("organization ID", orgID); err != nil {
		return nil, err
	}
	var out OrganizationDetails
	if _, err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/organizations/" + escape(orgID),
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to get organization %s: %w", orgID, err)
	}
	return &out, nil
}

// Switch makes orgID the active organization of the session.
func (s *OrganizationService) Switch(ctx context.Context, orgID string) (*MessageResponse, error) {
	if err := requireID("organization ID", orgID); err != nil {
		return nil, err
	}
	var out MessageResponse
	if _, err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/organizations/switch/" + escape(orgID),
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to switch organization: %w", err)
	}
	return &out, nil
}

func (s *OrganizationService) CreateTeam(ctx context.Context, req *CreateTeamRequest) (*CreatedOrganization, error) {
	if err := s.client.validateRequest(req); err != nil {
		return nil, err
	}
	var out CreatedOrganization
	if _, err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/organizations/create-team",
		body:   req,
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}
	return &out, nil
}

// Invite sends an invitation mail and returns the invitation token.
func (s *OrganizationService) Invite(ctx context.Context, orgID string, req *InviteRequest) (*InviteResult, error) {
	if err := requireID("organization ID", orgID); err != nil {
		return nil, err
	}
	if err := s.client.validateRequest(req); err != nil {
		return nil, err
	}
	var out InviteResult
	if _, err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/organizations/" + escape(orgID) + "/invite",
		body:   req,
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to invite %s: %w", req.Email, err)
	}
	return &out, nil
}

func (s *OrganizationService) InvitationDetails(ctx context.Context, token string) (*InvitationInfo, error) {
	if err := requireID("invitation token", token); err != nil {
		return nil, err
	}
	var out InvitationInfo
	if _, err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/organizations/invitations/" + escape(token),
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return &out, nil
}

func (s *OrganizationService) AcceptInvitation(ctx context.Context, token string) (*MessageResponse, error) {
	if err := requireID("invitation token", token); err != nil {
		return nil, err
	}
	var out MessageResponse
	if _, err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/organizations/accept-invitation/" + escape(token),
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}
	return &out, nil
}

// Members lists the members of the organization with the given slug.
func (s *OrganizationService) Members(ctx context.Context, slug string) ([]Member, error) {
	if err := requireID("organization slug", slug); err != nil {
		return nil, err
	}
	var out struct {
		Members []Member `json:"members"`
	}
	if _, err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/organizations/" + escape(slug) + "/members",
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to list members of %s: %w", slug, err)
	}
	if out.Members == nil {
		out.Members = []Member{}
	}
	return out.Members, nil
}
