// Package api is the HTTP client of the TaskForge backend. Every domain
// adapter goes through Client, which owns credential cookies, error mapping and
// the single refresh-and-replay on an expired access token.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/segmentio/ksuid"

	"github.com/taskforge/taskforge/pkg/config"
	"github.com/taskforge/taskforge/pkg/logger"
	"github.com/taskforge/taskforge/pkg/session"
)

const HeaderRequestID = "X-Request-ID"

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	// Session persists cookies and receives the session-expired message.
	// A nil Session keeps everything in memory.
	Session *session.Store
	// SuppressAuthError skips writing the auth error; set for login and
	// signup commands.
	SuppressAuthError bool
	// HTTPClient overrides the underlying transport.
	HTTPClient *http.Client
}

// Client provides unified access to all TaskForge API services
type Client struct {
	http              *resty.Client
	session           *session.Store
	suppressAuthError bool
	validate          *validator.Validate

	users         *UserService
	organizations *OrganizationService
	projects      *ProjectService
	boards        *BoardService
	tasks         *TaskService
	workflows     *WorkflowService
	dashboard     *DashboardService
}

// NewClient creates a new API client
func NewClient(opts Options) (*Client, error) {
	baseURL, err := validateBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	store := opts.Session
	if store == nil {
		store = session.NewMemory()
	}
	var rc *resty.Client
	if opts.HTTPClient != nil {
		rc = resty.NewWithClient(opts.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetCookieJar(store.Jar())
	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		rc.SetHeader("User-Agent", opts.UserAgent)
	}
	c := &Client{
		http:              rc,
		session:           store,
		suppressAuthError: opts.SuppressAuthError,
		validate:          validator.New(),
	}
	c.users = &UserService{client: c}
	c.organizations = &OrganizationService{client: c}
	c.projects = &ProjectService{client: c}
	c.boards = &BoardService{client: c}
	c.tasks = &TaskService{client: c}
	c.workflows = &WorkflowService{client: c}
	c.dashboard = &DashboardService{client: c}
	return c, nil
}

// NewFromConfig builds a client from the loaded configuration.
func NewFromConfig(cfg *config.Config, store *session.Store, suppressAuthError bool) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	return NewClient(Options{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		UserAgent:         cfg.API.UserAgent,
		Session:           store,
		SuppressAuthError: suppressAuthError,
	})
}

func validateBaseURL(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		raw = config.DefaultBaseURL
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return "", fmt.Errorf("base URL must be absolute, got: %s", raw)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("base URL scheme must be http or https, got: %s", parsed.Scheme)
	}
	return strings.TrimRight(raw, "/"), nil
}

func (c *Client) Users() *UserService                 { return c.users }
func (c *Client) Organizations() *OrganizationService { return c.organizations }
func (c *Client) Projects() *ProjectService           { return c.projects }
func (c *Client) Boards() *BoardService               { return c.boards }
func (c *Client) Tasks() *TaskService                 { return c.tasks }
func (c *Client) Workflows() *WorkflowService         { return c.workflows }
func (c *Client) Dashboard() *DashboardService        { return c.dashboard }

// Session returns the store backing the client's cookies.
func (c *Client) Session() *session.Store {
	return c.session
}

// request describes one backend call.
type request struct {
	method string
	path   string
	query  map[string]string
	body   any
}

// do performs the request, maps error statuses to *APIError and decodes the
// body into result when result is non-nil.
func (c *Client) do(ctx context.Context, r request, result any) (*resty.Response, error) {
	log := logger.FromContext(ctx)
	requestID := ksuid.New().String()
	resp, err := c.withRefresh(ctx, r.path, func(ctx context.Context) (*resty.Response, error) {
		req := c.http.R().SetContext(ctx).SetHeader(HeaderRequestID, requestID)
		if len(r.query) > 0 {
			req.SetQueryParams(r.query)
		}
		if r.body != nil {
			req.SetBody(r.body)
		}
		return req.Execute(r.method, r.path)
	})
	if err != nil {
		return nil, err
	}
	log.Debug("API request completed",
		"method", r.method, "path", r.path, "status", resp.StatusCode(), "request_id", requestID)
	if err := checkResponse(r.method, r.path, resp); err != nil {
		return resp, err
	}
	if result != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), result); err != nil {
			return resp, fmt.Errorf("failed to decode %s %s response: %w", r.method, r.path, err)
		}
	}
	return resp, nil
}

func (c *Client) validateRequest(v any) error {
	if err := c.validate.Struct(v); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
