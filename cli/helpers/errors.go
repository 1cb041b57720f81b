package helpers

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is by the command layer.
var (
	ErrTimeout = errors.New("operation timed out")
	ErrNetwork = errors.New("network error")
	ErrAuth    = errors.New("authentication error")
)

// TimeoutError is a request to path that got no response in time.
type TimeoutError struct {
	Path  string
	Cause error
}

func NewTimeoutError(path string, cause error) error {
	return &TimeoutError{Path: path, Cause: cause}
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request to %s timed out", e.Path)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

func (e *TimeoutError) Unwrap() error { return e.Cause }

// NetworkError is a request to path that never reached the backend.
type NetworkError struct {
	Path  string
	Cause error
}

func NewNetworkError(path string, cause error) error {
	return &NetworkError{Path: path, Cause: cause}
}

func (e *NetworkError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("cannot reach the TaskForge API (%s)", e.Path)
	}
	return fmt.Sprintf("cannot reach the TaskForge API (%s): %v", e.Path, e.Cause)
}

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

func (e *NetworkError) Unwrap() error { return e.Cause }
