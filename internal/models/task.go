package models

import (
	"slices"
	"time"

	"github.com/thenoetrevino/taskboard/internal/types"
)

// Task is the canonical work item and the single source of truth for status,
// assignment and project linkage. Board cards are derived from it.
type Task struct {
	ID             types.TaskID
	Title          string
	Description    string
	ProjectID      *types.ProjectID // nil when the task is not filed under a project
	UnitID         *types.UnitID
	Status         TaskStatus
	Priority       Priority
	EstimatedHours int
	AssigneeIDs    []types.UserID // set semantics, kept sorted
	CompletedAt    *time.Time     // non-nil iff Status == StatusDone
	CreatedBy      types.UserID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CompletionConsistent reports whether the completed-at stamp agrees with the status.
func (t *Task) CompletionConsistent() bool {
	return (t.CompletedAt != nil) == (t.Status == StatusDone)
}

// FirstAssignee returns the lowest assignee id, or nil when nobody is assigned.
func (t *Task) FirstAssignee() *types.UserID {
	if len(t.AssigneeIDs) == 0 {
		return nil
	}
	id := t.AssigneeIDs[0]
	return &id
}

// Clone returns a deep copy so a prior snapshot cannot be mutated through the next state.
func (t *Task) Clone() *Task {
	c := *t
	c.AssigneeIDs = slices.Clone(t.AssigneeIDs)
	if t.ProjectID != nil {
		p := *t.ProjectID
		c.ProjectID = &p
	}
	if t.UnitID != nil {
		u := *t.UnitID
		c.UnitID = &u
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		c.CompletedAt = &ts
	}
	return &c
}

// TaskInput carries everything needed to create a task.
// Zero values fall back to defaults: status BACKLOG, priority MEDIUM.
type TaskInput struct {
	Title          string
	Description    string
	ProjectID      *types.ProjectID
	UnitID         *types.UnitID
	Status         TaskStatus
	Priority       Priority
	EstimatedHours int
	AssigneeIDs    []types.UserID
}

// TaskChanges is a partial update. A nil pointer means "do not touch".
// Nullable references use an explicit Clear flag so that an absent field and
// an explicit null stay distinguishable.
type TaskChanges struct {
	Title          *string
	Description    *string
	Status         *TaskStatus
	Priority       *Priority
	EstimatedHours *int
	Assignees      *[]types.UserID // non-nil empty slice clears all assignees

	ProjectID    *types.ProjectID
	ClearProject bool
	UnitID       *types.UnitID
	ClearUnit    bool
}

// IsEmpty reports whether no field was requested at all.
func (c TaskChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Status == nil &&
		c.Priority == nil && c.EstimatedHours == nil && c.Assignees == nil &&
		c.ProjectID == nil && !c.ClearProject && c.UnitID == nil && !c.ClearUnit
}

// TaskFilter narrows task listings. Nil fields are ignored.
type TaskFilter struct {
	ProjectID *types.ProjectID
	UnitID    *types.UnitID
	Status    *TaskStatus
}

// NormalizeUserIDs returns a sorted copy of ids with duplicates removed.
func NormalizeUserIDs(ids []types.UserID) []types.UserID {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// SameUserSet compares two assignee sets ignoring order and duplicates.
func SameUserSet(a, b []types.UserID) bool {
	return slices.Equal(NormalizeUserIDs(a), NormalizeUserIDs(b))
}
