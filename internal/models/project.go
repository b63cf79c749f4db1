package models

import (
	"time"

	"github.com/thenoetrevino/taskboard/internal/types"
)

// Project groups tasks. Boards linked to a project project its tasks as cards.
type Project struct {
	ID          types.ProjectID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Unit is an organizational unit (team, department) a task may be filed under
type Unit struct {
	ID   types.UnitID
	Name string
}

// User is an actor or assignee
type User struct {
	ID          types.UserID
	Username    string
	DisplayName string
}

// Name returns the display name, falling back to the username
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
