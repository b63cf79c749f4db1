package task

import "errors"

// Task-related errors
var (
	// Validation errors
	ErrEmptyTitle        = errors.New("task title cannot be empty")
	ErrTitleTooLong      = errors.New("task title cannot exceed 255 characters")
	ErrInvalidTaskID     = errors.New("invalid task ID")
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrCreateDone        = errors.New("a task cannot be created as DONE")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrNegativeEstimate  = errors.New("estimated hours cannot be negative")
	ErrMissingActor      = errors.New("an acting user is required")
	ErrConflictingChange = errors.New("a reference cannot be set and cleared in the same update")

	// Reference errors
	ErrTaskNotFound     = errors.New("task not found")
	ErrActorNotFound    = errors.New("acting user not found")
	ErrProjectNotFound  = errors.New("project not found")
	ErrUnitNotFound     = errors.New("unit not found")
	ErrAssigneeNotFound = errors.New("assignee not found")
)
