package helpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCliError(t *testing.T) {
	t.Run("Should create error with code and message", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message")
		assert.Equal(t, "TEST_ERROR", err.Code)
		assert.Equal(t, "Test message", err.Message)
		assert.Empty(t, err.Details)
		assert.NotNil(t, err.Context)
	})

	t.Run("Should implement error interface", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message")
		assert.Equal(t, "TEST_ERROR: Test message", err.Error())
		errWithDetails := NewCliError("TEST_ERROR", "Test message", "Details")
		assert.Equal(t, "TEST_ERROR: Test message (Details)", errWithDetails.Error())
	})

	t.Run("Should add context to error", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message").WithContext("workflow_id", "w1")
		assert.Equal(t, "w1", err.Context["workflow_id"])
	})
}

func TestErrorClassification(t *testing.T) {
	t.Run("Should detect timeout errors", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(t.Context(), time.Millisecond)
		defer cancel()
		<-ctx.Done()
		assert.True(t, IsTimeoutError(ctx.Err()))
		assert.True(t, IsTimeoutError(NewTimeoutError("/users/me", context.DeadlineExceeded)))
		assert.False(t, IsTimeoutError(nil))
		assert.False(t, IsTimeoutError(NewCliError("OTHER", "not a time related error")))
	})

	t.Run("Should detect network errors through wrapping", func(t *testing.T) {
		err := fmt.Errorf("failed to list organizations: %w", NewNetworkError("/organizations/my-organizations", fmt.Errorf("dial")))
		assert.True(t, IsNetworkError(err))
		assert.True(t, IsNetworkError(NewCliError("NETWORK", "connection refused")))
		assert.False(t, IsNetworkError(NewCliError("OTHER", "Not a network error")))
	})

	t.Run("Should detect authentication errors", func(t *testing.T) {
		assert.True(t, IsAuthError(fmt.Errorf("%w: session expired", ErrAuth)))
		assert.True(t, IsAuthError(NewCliError("AUTH", "Not authenticated")))
		assert.False(t, IsAuthError(nil))
		assert.False(t, IsAuthError(NewCliError("OTHER", "Not related")))
	})
}

type detailedError struct{}

func (detailedError) Error() string       { return "Invalid OTP (2 attempts left)" }
func (detailedError) ErrorDetail() string { return "Invalid OTP" }

func TestFormatError(t *testing.T) {
	t.Run("Should format error for JSON mode", func(t *testing.T) {
		err := NewCliError("TEST_ERROR", "Test message", "Test details")
		formatted := FormatError(err, ModeJSON)
		assert.Contains(t, formatted, "TEST_ERROR")
		assert.Contains(t, formatted, "Test message")
		assert.Contains(t, formatted, "Test details")
	})

	t.Run("Should format error for TUI mode", func(t *testing.T) {
		formatted := FormatError(NewCliError("TEST_ERROR", "Test message"), ModeTUI)
		assert.Contains(t, formatted, "❌")
		assert.Contains(t, formatted, "Test message")
	})

	t.Run("Should show backend details", func(t *testing.T) {
		formatted := FormatError(fmt.Errorf("failed to verify code: %w", detailedError{}), ModeJSON)
		assert.Contains(t, formatted, `"details": "Invalid OTP"`)
		assert.Contains(t, FormatError(fmt.Errorf("%w: refresh rejected", ErrAuth), ModeTUI), "🔐")
	})

	t.Run("Should carry the error context in JSON mode", func(t *testing.T) {
		err := NewCliError("NOT_FOUND", "Workflow not found").WithContext("status", 404)
		formatted := FormatError(err, ModeJSON)
		assert.Contains(t, formatted, `"code": "NOT_FOUND"`)
		assert.Contains(t, formatted, `"status": 404`)
	})

	t.Run("Should handle nil error", func(t *testing.T) {
		assert.Empty(t, FormatError(nil, ModeJSON))
	})
}

func TestValidators(t *testing.T) {
	t.Run("Should validate identifiers", func(t *testing.T) {
		assert.NoError(t, ValidateID("665f1c2e9b1d4a0012345678", "workflow ID"))
		assert.NoError(t, ValidateID("123e4567-e89b-12d3-a456-426614174000", "organization ID"))
		for _, id := range []string{"", "  ", "a/b", "a b", "a?b"} {
			assert.Error(t, ValidateID(id, "id"), id)
		}
	})

	t.Run("Should validate required fields", func(t *testing.T) {
		assert.NoError(t, ValidateRequired("  valid  ", "field"))
		assert.Error(t, ValidateRequired("   ", "field"))
	})

	t.Run("Should validate enum values", func(t *testing.T) {
		allowed := []string{"todo", "in_progress", "done"}
		assert.NoError(t, ValidateEnum("done", allowed, "status"))
		assert.NoError(t, ValidateEnum("", allowed, "status"))
		err := ValidateEnum("blocked", allowed, "status")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "todo, in_progress, done")
	})
}

func TestStrings(t *testing.T) {
	t.Run("Should truncate by runes", func(t *testing.T) {
		assert.Equal(t, "hello", Truncate("hello", 5))
		assert.Equal(t, "hel...", Truncate("hello world", 6))
		assert.Equal(t, "he", Truncate("hello", 2))
		assert.Equal(t, "ééé...", Truncate("éééééééé", 6))
	})
}

