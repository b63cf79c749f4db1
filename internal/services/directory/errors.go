package directory

import "errors"

// User and unit errors
var (
	// Validation errors
	ErrEmptyUsername = errors.New("username cannot be empty")
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrNameTooLong   = errors.New("name cannot exceed 255 characters")
	ErrInvalidUserID = errors.New("invalid user ID")

	// Business logic errors
	ErrUsernameTaken = errors.New("username is already taken")
	ErrUnitExists    = errors.New("unit already exists")
	ErrUserNotFound  = errors.New("user not found")
)
