package app

import (
	"log/slog"

	"github.com/thenoetrevino/taskboard/internal/activity"
	"github.com/thenoetrevino/taskboard/internal/config"
	"github.com/thenoetrevino/taskboard/internal/database"
	"github.com/thenoetrevino/taskboard/internal/events"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/projection"
	boardservice "github.com/thenoetrevino/taskboard/internal/services/board"
	directoryservice "github.com/thenoetrevino/taskboard/internal/services/directory"
	projectservice "github.com/thenoetrevino/taskboard/internal/services/project"
	taskservice "github.com/thenoetrevino/taskboard/internal/services/task"
)

// App holds all application services and provides dependency injection.
// This is the main application container that manages service lifecycles.
type App struct {
	// Repository layer (direct database access)
	repo database.DataStore

	// Event system for live updates
	eventClient events.EventPublisher

	// Board projection shared by the task and board services
	Sync *projection.Synchronizer

	// Service layer (business logic)
	TaskService      taskservice.Service
	BoardService     boardservice.Service
	ProjectService   projectservice.Service
	DirectoryService directoryservice.Service
}

// New creates a new App with all services initialized.
// This is the single entry point for creating the application container.
func New(repo database.DataStore, opts ...Option) *App {
	cfg := &appConfig{
		logger: slog.Default(),
		labels: activity.DefaultLabels(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	syncOpts := []projection.Option{projection.WithLogger(cfg.logger)}
	if cfg.eventClient != nil {
		syncOpts = append(syncOpts, projection.WithPublisher(cfg.eventClient))
	}
	if cfg.metrics != nil {
		syncOpts = append(syncOpts, projection.WithMetrics(cfg.metrics))
	}
	sync := projection.NewSynchronizer(repo, syncOpts...)

	taskOpts := []taskservice.Option{
		taskservice.WithLogger(cfg.logger),
		taskservice.WithLabels(cfg.labels),
	}
	if cfg.eventClient != nil {
		taskOpts = append(taskOpts, taskservice.WithEventPublisher(cfg.eventClient))
	}

	return &App{
		repo:             repo,
		eventClient:      cfg.eventClient,
		Sync:             sync,
		TaskService:      taskservice.NewService(repo, sync, taskOpts...),
		BoardService:     boardservice.NewService(repo, sync, cfg.eventClient),
		ProjectService:   projectservice.NewService(repo),
		DirectoryService: directoryservice.NewService(repo),
	}
}

// Repo returns the underlying repository for direct database access.
func (a *App) Repo() database.DataStore {
	return a.repo
}

// Close releases the event connection, if any. The database is owned by the caller.
func (a *App) Close() error {
	if a.eventClient == nil {
		return nil
	}
	return a.eventClient.Close()
}

// LabelsFromConfig converts configured status labels, keyed by status code,
// into activity labels. Unknown codes are logged and skipped.
func LabelsFromConfig(cfg config.Labels, logger *slog.Logger) activity.Labels {
	labels := activity.DefaultLabels()
	for code, label := range cfg.Status {
		status, err := models.ParseTaskStatus(code)
		if err != nil {
			logger.Warn("ignoring label for unknown status", "status", code)
			continue
		}
		labels.Status[status] = label
	}
	return labels
}
