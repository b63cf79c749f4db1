package database

import (
	"context"

	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// ActivityRepository is the append-only activity log
type ActivityRepository interface {
	CreateActivityEvents(ctx context.Context, events []*models.ActivityEvent) error
	ListActivityByTask(ctx context.Context, taskID types.TaskID) ([]*models.ActivityEvent, error)
}
