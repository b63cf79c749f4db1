package events

import (
	"errors"
	"os"
	"syscall"
)

// ErrorCode represents hub connection error types.
type ErrorCode int

const (
	ErrSocketNotFound ErrorCode = iota
	ErrSocketPermission
	ErrHubNotRunning
	ErrConnectionRefused
)

// HubError represents a structured hub connection error with a hint.
type HubError struct {
	Code    ErrorCode
	Message string
	Hint    string
}

// Error implements the error interface.
func (e *HubError) Error() string {
	if e.Hint != "" {
		return e.Message + ". " + e.Hint
	}
	return e.Message
}

// ClassifyHubError maps dial errors to structured HubError values.
func ClassifyHubError(err error) *HubError {
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return &HubError{
			Code:    ErrSocketNotFound,
			Message: "Socket file not found",
			Hint:    "Start the hub: taskboard daemon",
		}
	}

	if errors.Is(err, os.ErrPermission) {
		return &HubError{
			Code:    ErrSocketPermission,
			Message: "Permission denied",
			Hint:    "Check ~/.taskboard/ permissions: chmod 700 ~/.taskboard/",
		}
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno == syscall.ECONNREFUSED {
		return &HubError{
			Code:    ErrConnectionRefused,
			Message: "Connection refused",
			Hint:    "The hub may have crashed. Restart it: taskboard daemon",
		}
	}

	return &HubError{
		Code:    ErrHubNotRunning,
		Message: "Event hub not running",
		Hint:    "Start the hub: taskboard daemon",
	}
}
