package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sethvargo/go-retry"

	"github.com/taskforge/taskforge/pkg/logger"
	"github.com/taskforge/taskforge/pkg/session"
)

const (
	PathRefreshToken = "/users/refresh-token"
	replayDelay      = time.Millisecond
)

var errReplay = errors.New("replaying request after credential refresh")

// withRefresh sends the request and, on the first 401 of a path other than the
// refresh endpoint, refreshes the credentials once and replays once. A failed
// refresh ends the session.
func (c *Client) withRefresh(
	ctx context.Context,
	path string,
	send func(context.Context) (*resty.Response, error),
) (*resty.Response, error) {
	var resp *resty.Response
	refreshed := false
	backoff := retry.WithMaxRetries(1, retry.NewConstant(replayDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		r, err := send(ctx)
		if err != nil {
			return transportError(path, err)
		}
		resp = r
		if r.StatusCode() != http.StatusUnauthorized || refreshed || isRefreshPath(path) {
			return nil
		}
		refreshed = true
		if err := c.refresh(ctx); err != nil {
			return c.expireSession(ctx, err)
		}
		return retry.RetryableError(errReplay)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) refresh(ctx context.Context) error {
	log := logger.FromContext(ctx)
	resp, err := c.http.R().SetContext(ctx).Post(PathRefreshToken)
	if err != nil {
		return transportError(PathRefreshToken, err)
	}
	if err := checkResponse(http.MethodPost, PathRefreshToken, resp); err != nil {
		return err
	}
	log.Debug("session refreshed")
	return nil
}

func (c *Client) expireSession(ctx context.Context, cause error) error {
	log := logger.FromContext(ctx)
	log.Warn("credential refresh failed", "err", cause)
	if !c.suppressAuthError {
		if err := c.session.SetAuthError(session.SessionExpiredMessage); err != nil {
			log.Warn("failed to record auth error", "err", err)
		}
	}
	return fmt.Errorf("%w: %w", ErrSessionExpired, cause)
}

func isRefreshPath(path string) bool {
	return strings.Contains(path, PathRefreshToken)
}
