package cli

import (
	"time"

	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// JSON shapes for --json output. Models carry no json tags, so the wire form
// lives here with the commands that print it.

// TaskJSON is the --json form of a task
type TaskJSON struct {
	ID             int        `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	ProjectID      *int       `json:"project_id"`
	UnitID         *int       `json:"unit_id"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	EstimatedHours int        `json:"estimated_hours"`
	AssigneeIDs    []int      `json:"assignee_ids"`
	CompletedAt    *time.Time `json:"completed_at"`
	CreatedBy      int        `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewTaskJSON converts a task for output
func NewTaskJSON(t *models.Task) TaskJSON {
	out := TaskJSON{
		ID:             t.ID.ToInt(),
		Title:          t.Title,
		Description:    t.Description,
		Status:         string(t.Status),
		Priority:       string(t.Priority),
		EstimatedHours: t.EstimatedHours,
		AssigneeIDs:    userInts(t.AssigneeIDs),
		CompletedAt:    t.CompletedAt,
		CreatedBy:      t.CreatedBy.ToInt(),
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.ProjectID != nil {
		id := t.ProjectID.ToInt()
		out.ProjectID = &id
	}
	if t.UnitID != nil {
		id := t.UnitID.ToInt()
		out.UnitID = &id
	}
	return out
}

// ActivityJSON is the --json form of an activity event
type ActivityJSON struct {
	ID        int                    `json:"id"`
	TaskID    int                    `json:"task_id"`
	Kind      string                 `json:"kind"`
	Field     string                 `json:"field,omitempty"`
	ActorID   int                    `json:"actor_id"`
	Message   string                 `json:"message"`
	Payload   models.ActivityPayload `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewActivityJSON converts an activity event for output
func NewActivityJSON(e *models.ActivityEvent) ActivityJSON {
	return ActivityJSON{
		ID:        e.ID.ToInt(),
		TaskID:    e.TaskID.ToInt(),
		Kind:      string(e.Kind),
		Field:     e.Field,
		ActorID:   e.ActorID.ToInt(),
		Message:   e.Message,
		Payload:   e.Payload,
		CreatedAt: e.CreatedAt,
	}
}

// CardJSON is the --json form of a card
type CardJSON struct {
	ID         int    `json:"id"`
	TaskID     *int   `json:"task_id"`
	Title      string `json:"title"`
	Priority   string `json:"priority,omitempty"`
	AssigneeID *int   `json:"assignee_id"`
	Order      int    `json:"order"`
}

// ColumnJSON is the --json form of a column and its cards
type ColumnJSON struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Status string     `json:"status"`
	Cards  []CardJSON `json:"cards"`
}

// BoardJSON is the --json form of a board
type BoardJSON struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	ProjectID *int         `json:"project_id"`
	Columns   []ColumnJSON `json:"columns,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewBoardJSON converts a board for output; cards are included when view holds them
func NewBoardJSON(b *models.Board, cards map[types.ColumnID][]*models.Card) BoardJSON {
	out := BoardJSON{ID: b.ID.ToInt(), Name: b.Name, CreatedAt: b.CreatedAt}
	if b.ProjectID != nil {
		id := b.ProjectID.ToInt()
		out.ProjectID = &id
	}
	for _, col := range b.Columns {
		cj := ColumnJSON{ID: col.ID.ToInt(), Name: col.Name, Status: string(col.Status), Cards: []CardJSON{}}
		for _, c := range cards[col.ID] {
			cj.Cards = append(cj.Cards, newCardJSON(c))
		}
		out.Columns = append(out.Columns, cj)
	}
	return out
}

func newCardJSON(c *models.Card) CardJSON {
	out := CardJSON{ID: c.ID.ToInt(), Title: c.Title, Priority: string(c.Priority), Order: c.Order}
	if c.TaskID != nil {
		id := c.TaskID.ToInt()
		out.TaskID = &id
	}
	if c.AssigneeID != nil {
		id := c.AssigneeID.ToInt()
		out.AssigneeID = &id
	}
	return out
}

func userInts(ids []types.UserID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = id.ToInt()
	}
	return out
}
