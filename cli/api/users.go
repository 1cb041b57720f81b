package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/taskforge/taskforge/pkg/logger"
	"github.com/taskforge/taskforge/pkg/session"
)

// UserService covers authentication and account endpoints.
type UserService struct {
	client *Client
}

// decodeUser accepts both a bare user object and the `{message, user}` form.
func decodeUser(body []byte) (*User, error) {
	raw := gjson.GetBytes(body, "user")
	data := body
	if raw.IsObject() {
		data = []byte(raw.Raw)
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// Login starts a login; the backend answers by mailing a one-time code.
func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*MessageResponse, error) {
	if err := s.client.validateRequest(req); err != nil {
		return nil, err
	}
	var out MessageResponse
	if _, err := s.client.do(ctx, request{method: http.MethodPost, path: "/users/login", body: req}, &out); err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	return &out, nil
}

// VerifyOTP completes a login. The session cookies are set by the response.
func (s *UserService) VerifyOTP(ctx context.Context, req *VerifyOTPRequest) (*User, error) {
	if err := s.client.validateRequest(req); err != nil {
		return nil, err
	}
	resp, err := s.client.do(ctx, request{method: http.MethodPost, path: "/users/verify-otp", body: req}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to verify code: %w", err)
	}
	if err := s.client.session.Remove(session.AuthErrorKey); err != nil {
		logger.FromContext(ctx).Warn("failed to clear auth error", "err", err)
	}
	return decodeUser(resp.Body())
}

func (s *UserService) register(ctx context.Context, kind string, req any) (*MessageResponse, error) {
	if err := s.client.validateRequest(req); err != nil {
		return nil, err
	}
	var out MessageResponse
	if _, err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/users/register/" + kind,
		body:   req,
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	return &out, nil
}

func (s *UserService) RegisterPersonal(ctx context.Context, req *SignupPersonalRequest) (*MessageResponse, error) {
	return s.register(ctx, "personal", req)
}

func (s *UserService) RegisterTeam(ctx context.Context, req *SignupTeamRequest) (*MessageResponse, error) {
	return s.register(ctx, "team", req)
}

func (s *UserService) RegisterWithInvitation(
	ctx context.Context,
	req *SignupInvitationRequest,
) (*MessageResponse, error) {
	return s.register(ctx, "join", req)
}

// VerifyEmail confirms an address with the token from the verification mail.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*MessageResponse, error) {
	if err := requireID("verification token", token); err != nil {
		return nil, err
	}
	var out MessageResponse
	if _, err := s.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/users/verify-email",
		query:  map[string]string{"token": token},
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}
	return &out, nil
}

func (s *UserService) ResendVerification(ctx context.Context, email string) (*MessageResponse, error) {
	if err := s.client.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email: %w", err)
	}
	var out MessageResponse
	if _, err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/users/resend-verification-email",
		query:  map[string]string{"email": email},
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to resend verification email: %w", err)
	}
	return &out, nil
}

// Me returns the authenticated user.
func (s *UserService) Me(ctx context.Context) (*User, error) {
	resp, err := s.client.do(ctx, request{method: http.MethodGet, path: "/users/me"}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return decodeUser(resp.Body())
}

// RefreshToken rotates the access cookie explicitly.
func (s *UserService) RefreshToken(ctx context.Context) error {
	if _, err := s.client.do(ctx, request{method: http.MethodPost, path: PathRefreshToken}, nil); err != nil {
		return fmt.Errorf("failed to refresh session: %w", err)
	}
	return nil
}

// Logout ends the session on the backend and wipes the local session file,
// even when the backend call fails.
func (s *UserService) Logout(ctx context.Context) error {
	_, callErr := s.client.do(ctx, request{method: http.MethodPost, path: "/users/logout"}, nil)
	if err := s.client.session.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if callErr != nil {
		return fmt.Errorf("failed to log out: %w", callErr)
	}
	return nil
}
