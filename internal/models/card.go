package models

import (
	"time"

	"github.com/thenoetrevino/taskboard/internal/types"
)

// Card projects zero or one task onto exactly one column of one board.
// Title, description, priority and assignee are snapshots taken when the card was created.
type Card struct {
	ID          types.CardID
	BoardID     types.BoardID
	ColumnID    types.ColumnID
	TaskID      *types.TaskID
	Title       string
	Description string
	Priority    Priority
	AssigneeID  *types.UserID
	Order       int // top-to-bottom position within the column
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewCardForTask builds an unsaved card that snapshots task into column at order
func NewCardForTask(task *Task, boardID types.BoardID, columnID types.ColumnID, order int) *Card {
	taskID := task.ID
	return &Card{
		BoardID:     boardID,
		ColumnID:    columnID,
		TaskID:      &taskID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		AssigneeID:  task.FirstAssignee(),
		Order:       order,
	}
}
