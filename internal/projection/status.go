// Package projection keeps board cards consistent with the tasks they mirror.
// Tasks are the source of truth; cards are a derived view that can always be
// rebuilt by re-running the board import.
package projection

import (
	"fmt"

	"github.com/thenoetrevino/taskboard/internal/models"
)

// ColumnStatusFor maps a task status onto the board column it is shown in.
// REVIEW is never produced; cards only reach it by manual movement.
// An unknown status is a programming error and panics.
func ColumnStatusFor(status models.TaskStatus) models.ColumnStatus {
	switch status {
	case models.StatusBacklog, models.StatusTodo:
		return models.ColumnTodo
	case models.StatusInProgress, models.StatusBlocked:
		return models.ColumnInProgress
	case models.StatusDone:
		return models.ColumnDone
	default:
		panic(fmt.Sprintf("%v: %q", models.ErrUnknownTaskStatus, string(status)))
	}
}
