package models

import (
	"time"

	"github.com/thenoetrevino/taskboard/internal/types"
)

// Board is a named visual workspace, optionally bound to one project.
// Boards bound to a project mirror that project's tasks as cards.
type Board struct {
	ID        types.BoardID
	Name      string
	ProjectID *types.ProjectID
	Columns   []*Column // ordered by DisplayOrder
	CreatedAt time.Time
}

// ColumnByStatus returns the board's column for status, or nil when the board
// was loaded without columns.
func (b *Board) ColumnByStatus(status ColumnStatus) *Column {
	for _, c := range b.Columns {
		if c.Status == status {
			return c
		}
	}
	return nil
}

// BoardView is a board with its cards grouped per column, in display order
type BoardView struct {
	Board *Board
	Cards map[types.ColumnID][]*Card
}
