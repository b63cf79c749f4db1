package board

import "errors"

// Board-related errors
var (
	// Validation errors
	ErrEmptyName        = errors.New("board name cannot be empty")
	ErrNameTooLong      = errors.New("board name cannot exceed 255 characters")
	ErrInvalidBoardID   = errors.New("invalid board ID")
	ErrInvalidProjectID = errors.New("invalid project ID")

	// Business logic errors
	ErrBoardNotFound   = errors.New("board not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrBoardNotLinked  = errors.New("board is not linked to a project")
)
