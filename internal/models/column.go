package models

import "github.com/thenoetrevino/taskboard/internal/types"

// Column is one lane of a board. A board owns exactly one column per ColumnStatus,
// created with the board and never reordered by the sync pipeline.
type Column struct {
	ID           types.ColumnID
	BoardID      types.BoardID
	Name         string
	Status       ColumnStatus
	DisplayOrder int
}

// DefaultColumns returns the four fixed columns every board is created with,
// one per ColumnStatus in display order.
func DefaultColumns() []*Column {
	statuses := AllColumnStatuses()
	cols := make([]*Column, len(statuses))
	for i, s := range statuses {
		cols[i] = &Column{Name: s.DefaultName(), Status: s, DisplayOrder: i}
	}
	return cols
}
