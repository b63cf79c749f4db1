package models

import (
	"time"

	"github.com/thenoetrevino/taskboard/internal/types"
)

// ActivityKind classifies an activity event
type ActivityKind string

const (
	ActivityCreated          ActivityKind = "CREATED"
	ActivityStatusChanged    ActivityKind = "STATUS_CHANGED"
	ActivityAssigneesChanged ActivityKind = "ASSIGNEES_CHANGED"
	ActivityUpdated          ActivityKind = "UPDATED" // tagged with Field
)

// Field names carried by UPDATED events
const (
	FieldProject        = "project"
	FieldUnit           = "unit"
	FieldPriority       = "priority"
	FieldEstimatedHours = "estimated_hours"
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldStatus         = "status"
	FieldAssignees      = "assignees"
)

// ActivityPayload is the machine-readable before/after of one change
type ActivityPayload struct {
	Field string `json:"field"`
	From  any    `json:"from"`
	To    any    `json:"to"`
}

// ActivityEvent is an immutable audit record of one detected change on a task.
// Events are written once and never updated or deleted.
type ActivityEvent struct {
	ID        types.ActivityID
	TaskID    types.TaskID
	Kind      ActivityKind
	Field     string // empty except for UPDATED
	ActorID   types.UserID
	Message   string
	Payload   ActivityPayload
	CreatedAt time.Time
}
