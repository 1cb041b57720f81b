package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/taskforge/taskforge/cli/helpers"
)

const (
	MessageInternalError = "Internal server error. Please try again later."
	MessageGenericError  = "Something went wrong. Please try again later."
)

var (
	// ErrSessionExpired is returned when the credential refresh fails.
	ErrSessionExpired = fmt.Errorf("%w: session expired", helpers.ErrAuth)
	// ErrNotFound matches any *APIError with status 404.
	ErrNotFound = errors.New("resource not found")
)

// APIError is a non-2xx response from the backend. Message is always suitable
// for display; Detail keeps the raw detail text when the backend sent one.
type APIError struct {
	Status            int    `json:"status"`
	Method            string `json:"method"`
	Path              string `json:"path"`
	Message           string `json:"message"`
	Detail            string `json:"detail,omitempty"`
	RemainingAttempts *int   `json:"remaining_attempts,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorDetail returns the raw backend detail for display.
func (e *APIError) ErrorDetail() string {
	return e.Detail
}

func (e *APIError) Is(target error) bool {
	switch target {
	case helpers.ErrAuth:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// AsAPIError unwraps err to the backend error it carries, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// newAPIError reads the FastAPI `{"detail": ...}` envelope, where detail is a
// string or `{message, remaining_attempts}`, and the `{error|message}` form.
func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Method: method, Path: path, Message: MessageGenericError}
	doc := gjson.ParseBytes(body)
	if len(body) > 0 && gjson.ValidBytes(body) && doc.IsObject() {
		detail := doc.Get("detail")
		switch {
		case detail.IsObject():
			if msg := strings.TrimSpace(detail.Get("message").String()); msg != "" {
				apiErr.Message = msg
				apiErr.Detail = msg
			}
			if ra := detail.Get("remaining_attempts"); ra.Type == gjson.Number {
				n := int(ra.Int())
				apiErr.RemainingAttempts = &n
				apiErr.Message = fmt.Sprintf("%s (%d attempts left)", apiErr.Message, n)
			}
		case detail.Type == gjson.String && strings.TrimSpace(detail.Str) != "":
			apiErr.Detail = strings.TrimSpace(detail.Str)
			apiErr.Message = apiErr.Detail
		case detail.IsArray():
			// Request validation failures carry a list of {loc, msg}.
			if msg := detail.Get("0.msg").String(); msg != "" {
				apiErr.Detail = detail.Raw
				apiErr.Message = msg
			}
		default:
			if msg := firstNonEmpty(doc.Get("error").String(), doc.Get("message").String()); msg != "" {
				apiErr.Message = msg
			}
		}
	}
	if status >= http.StatusInternalServerError {
		apiErr.Message = MessageInternalError
	}
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

// transportError classifies failures where no response was received.
func transportError(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: request canceled: %w", op, err)
	}
	if isTimeoutError(err) {
		return helpers.NewTimeoutError(op, err)
	}
	if isNetworkError(err) {
		return helpers.NewNetworkError(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out")
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	lower := strings.ToLower(err.Error())
	for _, keyword := range []string{
		"connection refused",
		"connection reset",
		"no route to host",
		"network is unreachable",
		"no such host",
		"eof",
	} {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// checkResponse converts an error status into *APIError.
func checkResponse(method, path string, resp *resty.Response) error {
	if resp == nil || resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	return newAPIError(method, path, resp.StatusCode(), resp.Body())
}
