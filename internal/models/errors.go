package models

import "errors"

// Domain-level invariant violations
var (
	// ErrCompletionInconsistent indicates completed-at disagrees with the DONE status
	ErrCompletionInconsistent = errors.New("completed-at must be set if and only if status is DONE")

	// ErrUnknownTaskStatus indicates a status outside the closed set reached a mapper
	ErrUnknownTaskStatus = errors.New("unknown task status")
)
