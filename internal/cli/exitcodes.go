package cli

import (
	"errors"

	boardservice "github.com/thenoetrevino/taskboard/internal/services/board"
	directoryservice "github.com/thenoetrevino/taskboard/internal/services/directory"
	projectservice "github.com/thenoetrevino/taskboard/internal/services/project"
	taskservice "github.com/thenoetrevino/taskboard/internal/services/task"
)

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags, malformed ids or lists.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Task, board, project, unit or user ids that don't exist.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: Stored data that cannot be processed.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: Invalid status or priority values, empty names,
	// or any case where input fails validation rules.
	ExitValidation = 5
)

var (
	// ErrUsage marks errors caused by how the command was invoked
	ErrUsage = errors.New("usage error")
	// ErrInvalidInput marks flag values that failed to parse
	ErrInvalidInput = errors.New("invalid input")
)

type errorClass struct {
	target error
	code   string
	exit   int
}

var errorClasses = []errorClass{
	{ErrUsage, "USAGE_ERROR", ExitUsage},
	{ErrInvalidInput, "INVALID_INPUT", ExitValidation},

	{taskservice.ErrTaskNotFound, "TASK_NOT_FOUND", ExitNotFound},
	{taskservice.ErrActorNotFound, "ACTOR_NOT_FOUND", ExitNotFound},
	{taskservice.ErrProjectNotFound, "PROJECT_NOT_FOUND", ExitNotFound},
	{taskservice.ErrUnitNotFound, "UNIT_NOT_FOUND", ExitNotFound},
	{taskservice.ErrAssigneeNotFound, "ASSIGNEE_NOT_FOUND", ExitNotFound},
	{boardservice.ErrBoardNotFound, "BOARD_NOT_FOUND", ExitNotFound},
	{boardservice.ErrProjectNotFound, "PROJECT_NOT_FOUND", ExitNotFound},
	{projectservice.ErrProjectNotFound, "PROJECT_NOT_FOUND", ExitNotFound},
	{directoryservice.ErrUserNotFound, "USER_NOT_FOUND", ExitNotFound},

	{taskservice.ErrEmptyTitle, "INVALID_TITLE", ExitValidation},
	{taskservice.ErrTitleTooLong, "INVALID_TITLE", ExitValidation},
	{taskservice.ErrInvalidStatus, "INVALID_STATUS", ExitValidation},
	{taskservice.ErrCreateDone, "INVALID_STATUS", ExitValidation},
	{taskservice.ErrInvalidPriority, "INVALID_PRIORITY", ExitValidation},
	{taskservice.ErrNegativeEstimate, "INVALID_ESTIMATE", ExitValidation},
	{taskservice.ErrConflictingChange, "CONFLICTING_CHANGE", ExitValidation},
	{taskservice.ErrInvalidTaskID, "INVALID_ID", ExitValidation},
	{taskservice.ErrMissingActor, "MISSING_ACTOR", ExitValidation},
	{boardservice.ErrEmptyName, "INVALID_NAME", ExitValidation},
	{boardservice.ErrNameTooLong, "INVALID_NAME", ExitValidation},
	{boardservice.ErrInvalidBoardID, "INVALID_ID", ExitValidation},
	{boardservice.ErrInvalidProjectID, "INVALID_ID", ExitValidation},
	{boardservice.ErrBoardNotLinked, "BOARD_NOT_LINKED", ExitValidation},
	{projectservice.ErrEmptyName, "INVALID_NAME", ExitValidation},
	{projectservice.ErrNameTooLong, "INVALID_NAME", ExitValidation},
	{projectservice.ErrInvalidProjectID, "INVALID_ID", ExitValidation},
	{directoryservice.ErrEmptyUsername, "INVALID_NAME", ExitValidation},
	{directoryservice.ErrEmptyName, "INVALID_NAME", ExitValidation},
	{directoryservice.ErrNameTooLong, "INVALID_NAME", ExitValidation},
	{directoryservice.ErrInvalidUserID, "INVALID_ID", ExitValidation},
	{directoryservice.ErrUsernameTaken, "ALREADY_EXISTS", ExitValidation},
	{directoryservice.ErrUnitExists, "ALREADY_EXISTS", ExitValidation},
}

// Classify returns the error code reported to the user and the process exit code for err
func Classify(err error) (code string, exit int) {
	if err == nil {
		return "", ExitSuccess
	}
	for _, c := range errorClasses {
		if errors.Is(err, c.target) {
			return c.code, c.exit
		}
	}
	return "INTERNAL_ERROR", ExitError
}

// ExitCodeFor returns the process exit code for err
func ExitCodeFor(err error) int {
	_, exit := Classify(err)
	return exit
}
