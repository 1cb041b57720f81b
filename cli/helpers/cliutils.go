package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// CliError represents a CLI-specific error with enhanced context
type CliError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func (e *CliError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCliError creates a new CLI error with context
func NewCliError(code, message string, details ...string) *CliError {
	err := &CliError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]any),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WithContext adds context to the error
func (e *CliError) WithContext(key string, value any) *CliError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// IsTimeoutError checks if an error is a timeout error
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out")
}

// IsNetworkError checks if an error is a network-related error
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNetwork) {
		return true
	}
	return ContainsAny(err.Error(), "connection refused", "connection reset", "no such host", "network is unreachable")
}

// IsAuthError checks if an error is authentication-related
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAuth) {
		return true
	}
	return ContainsAny(err.Error(), "unauthorized", "not authenticated", "session expired", "forbidden")
}

// errorDetailer is implemented by errors that carry a raw backend detail.
type errorDetailer interface {
	ErrorDetail() string
}

// errorPayload is the JSON shape written to stderr for a failed command.
type errorPayload struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details string         `json:"details"`
	Context map[string]any `json:"context,omitempty"`
}

func newErrorPayload(err error) errorPayload {
	var cliErr *CliError
	if errors.As(err, &cliErr) && cliErr != nil {
		return errorPayload{Error: cliErr.Message, Code: cliErr.Code, Details: cliErr.Details, Context: cliErr.Context}
	}
	payload := errorPayload{Error: err.Error()}
	var detailer errorDetailer
	if errors.As(err, &detailer) {
		payload.Details = detailer.ErrorDetail()
	}
	return payload
}

// FormatError formats errors based on output mode
func FormatError(err error, mode Mode) string {
	if err == nil {
		return ""
	}
	payload := newErrorPayload(err)
	switch mode {
	case ModeJSON:
		data, marshalErr := json.MarshalIndent(payload, "", "  ")
		if marshalErr != nil {
			return `{"error": "JSON marshaling failed", "details": ""}`
		}
		return string(data)
	case ModeTUI:
		return formatErrorTUI(err, &payload)
	default:
		return err.Error()
	}
}

var (
	errorMessageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	errorDetailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
)

func formatErrorTUI(err error, payload *errorPayload) string {
	var b strings.Builder
	b.WriteString(errorIcon(err) + " " + errorMessageStyle.Render(payload.Error))
	if payload.Details != "" && payload.Details != payload.Error {
		b.WriteString("\n" + errorDetailStyle.Render(payload.Details))
	}
	if payload.Code != "" {
		b.WriteString("\n" + errorDetailStyle.Render("code: "+payload.Code))
	}
	return b.String()
}

func errorIcon(err error) string {
	switch {
	case IsNetworkError(err):
		return "🌐"
	case IsAuthError(err):
		return "🔐"
	case IsTimeoutError(err):
		return "⏰"
	default:
		return "❌"
	}
}

// OutputError writes an error to w in the appropriate format
func OutputError(w io.Writer, err error, mode Mode) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, FormatError(err, mode))
}

// ValidateID rejects identifiers that cannot be used as a URL path segment.
func ValidateID(id, fieldName string) error {
	if strings.TrimSpace(id) == "" {
		return NewCliError("INVALID_ID", fmt.Sprintf("%s cannot be empty", fieldName))
	}
	if strings.ContainsAny(id, "/?# \t\n") {
		return NewCliError("INVALID_ID", fmt.Sprintf("%s contains invalid characters", fieldName),
			fmt.Sprintf("provided: %s", id))
	}
	return nil
}

// ValidateRequired validates that a required string value is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return NewCliError("REQUIRED_FIELD", fmt.Sprintf("%s is required", fieldName))
	}
	return nil
}

// ValidateEnum validates that a value is in a set of allowed values
func ValidateEnum(value string, allowed []string, fieldName string) error {
	if value == "" {
		return nil
	}
	if slices.Contains(allowed, value) {
		return nil
	}
	return NewCliError("INVALID_ENUM",
		fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(allowed, ", ")),
		fmt.Sprintf("provided: %s", value))
}

// ContainsAny reports whether s contains any of the provided substrings.
// The comparison is case-insensitive; empty substrings are ignored.
func ContainsAny(s string, substrings ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrings {
		if sub == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// Truncate returns s truncated to at most maxLength runes, ending with "..."
// when there is room for it.
func Truncate(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}
	return string(runes[:maxLength-3]) + "..."
}

// GetFlagStringWithDefault gets a string flag with a default value
func GetFlagStringWithDefault(cmd *cobra.Command, flagName, defaultValue string) string {
	if value, err := cmd.Flags().GetString(flagName); err == nil && value != "" {
		return value
	}
	return defaultValue
}
