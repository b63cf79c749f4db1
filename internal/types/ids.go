package types

// ID type aliases give each integer key a domain meaning.
// They are distinct types so a TaskID cannot be passed where a BoardID is expected.

// TaskID identifies a unique task
type TaskID int

// ProjectID identifies a unique project
type ProjectID int

// UnitID identifies an organizational unit a task can be filed under
type UnitID int

// UserID identifies a user (actor or assignee)
type UserID int

// BoardID identifies a kanban board
type BoardID int

// ColumnID identifies a column within a board
type ColumnID int

// CardID identifies a card placed on a board
type CardID int

// ActivityID identifies a persisted activity event
type ActivityID int

// ToInt converts type alias back to int for SQL arguments and output
func (id TaskID) ToInt() int {
	return int(id)
}

func (id ProjectID) ToInt() int {
	return int(id)
}

func (id UnitID) ToInt() int {
	return int(id)
}

func (id UserID) ToInt() int {
	return int(id)
}

func (id BoardID) ToInt() int {
	return int(id)
}

func (id ColumnID) ToInt() int {
	return int(id)
}

func (id CardID) ToInt() int {
	return int(id)
}

func (id ActivityID) ToInt() int {
	return int(id)
}

// ProjectIDPtr returns a pointer to a ProjectID, handy for optional references
func ProjectIDPtr(id ProjectID) *ProjectID {
	return &id
}

// UnitIDPtr returns a pointer to a UnitID
func UnitIDPtr(id UnitID) *UnitID {
	return &id
}

// UserIDs converts a slice of ints to UserIDs
func UserIDs(ids ...int) []UserID {
	out := make([]UserID, len(ids))
	for i, id := range ids {
		out[i] = UserID(id)
	}
	return out
}
