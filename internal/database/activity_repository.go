package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// ActivityRepo persists the append-only activity log. There is no update or
// delete path; events are removed only by the task cascade.
type ActivityRepo struct {
	db DBTX
}

// CreateActivityEvents appends events in slice order, filling in IDs
func (r *ActivityRepo) CreateActivityEvents(ctx context.Context, events []*models.ActivityEvent) error {
	for _, ev := range events {
		if ev.CreatedAt.IsZero() {
			ev.CreatedAt = nowUTC()
		}
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode activity payload: %w", err)
		}

		result, err := r.db.ExecContext(ctx,
			`INSERT INTO activity_events (task_id, kind, field, actor_id, message, payload, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ev.TaskID.ToInt(), string(ev.Kind), ev.Field, ev.ActorID.ToInt(), ev.Message, string(payload), ev.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert %s activity for task %d: %w", ev.Kind, ev.TaskID, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get activity id: %w", err)
		}
		ev.ID = types.ActivityID(id)
	}
	return nil
}

// ListActivityByTask returns a task's events oldest first
func (r *ActivityRepo) ListActivityByTask(ctx context.Context, taskID types.TaskID) ([]*models.ActivityEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, kind, field, actor_id, message, payload, created_at
		 FROM activity_events WHERE task_id = ? ORDER BY id`,
		taskID.ToInt(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity for task %d: %w", taskID, err)
	}
	defer func() { _ = rows.Close() }()

	var events []*models.ActivityEvent
	for rows.Next() {
		var (
			ev             models.ActivityEvent
			id, tid, actor int
			kind, payload  string
		)
		if err := rows.Scan(&id, &tid, &kind, &ev.Field, &actor, &ev.Message, &payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &ev.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode activity payload %d: %w", id, err)
		}
		ev.ID = types.ActivityID(id)
		ev.TaskID = types.TaskID(tid)
		ev.ActorID = types.UserID(actor)
		ev.Kind = models.ActivityKind(kind)
		events = append(events, &ev)
	}
	return events, rows.Err()
}
