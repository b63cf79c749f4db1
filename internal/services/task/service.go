package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thenoetrevino/taskboard/internal/activity"
	"github.com/thenoetrevino/taskboard/internal/database"
	"github.com/thenoetrevino/taskboard/internal/events"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/projection"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// Service defines all task-related business operations
type Service interface {
	// Read operations
	GetTask(ctx context.Context, taskID types.TaskID) (*models.Task, error)
	ListTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error)
	ListActivity(ctx context.Context, taskID types.TaskID) ([]*models.ActivityEvent, error)

	// Write operations
	CreateTask(ctx context.Context, actor types.UserID, in models.TaskInput) (*models.Task, error)
	UpdateTask(ctx context.Context, actor types.UserID, taskID types.TaskID, changes models.TaskChanges) (*models.Task, error)
}

// Projector receives committed task changes and mirrors them onto boards.
// Implementations must not fail the caller; the outcome is informational.
type Projector interface {
	AfterTaskCreated(ctx context.Context, task *models.Task) projection.Outcome
	AfterTaskStatusChanged(ctx context.Context, task *models.Task, prior, next models.TaskStatus) projection.Outcome
}

// service implements Service interface
type service struct {
	repo        database.DataStore
	projector   Projector
	eventClient events.EventPublisher
	labels      activity.Labels
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures the task service
type Option func(*service)

// WithEventPublisher publishes task_changed events after each committed write
func WithEventPublisher(p events.EventPublisher) Option {
	return func(s *service) { s.eventClient = p }
}

// WithLabels sets the labels used in activity messages
func WithLabels(l activity.Labels) Option {
	return func(s *service) { s.labels = l }
}

// WithLogger sets the service logger
func WithLogger(l *slog.Logger) Option {
	return func(s *service) { s.logger = l }
}

// WithClock overrides the time source for completion stamps
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// NewService creates a new task service. projector may be nil, in which case
// boards are not updated.
func NewService(repo database.DataStore, projector Projector, opts ...Option) Service {
	s := &service{
		repo:      repo,
		projector: projector,
		labels:    activity.DefaultLabels(),
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ============================================================================
// READS
// ============================================================================

func (s *service) GetTask(ctx context.Context, taskID types.TaskID) (*models.Task, error) {
	if taskID <= 0 {
		return nil, ErrInvalidTaskID
	}
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, mapNotFound(err, ErrTaskNotFound)
	}
	return task, nil
}

func (s *service) ListTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	tasks, err := s.repo.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *service) ListActivity(ctx context.Context, taskID types.TaskID) ([]*models.ActivityEvent, error) {
	if _, err := s.GetTask(ctx, taskID); err != nil {
		return nil, err
	}
	evs, err := s.repo.ListActivityByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity for task %d: %w", taskID, err)
	}
	return evs, nil
}

// ============================================================================
// CREATE
// ============================================================================

// CreateTask validates in, then inserts the task, its assignees and one
// CREATED event in a single transaction. Board cards are placed afterwards on
// a best-effort basis: a projection failure never fails the create.
func (s *service) CreateTask(ctx context.Context, actor types.UserID, in models.TaskInput) (*models.Task, error) {
	if err := validateCreateTask(actor, &in); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:          in.Title,
		Description:    in.Description,
		ProjectID:      in.ProjectID,
		UnitID:         in.UnitID,
		Status:         in.Status,
		Priority:       in.Priority,
		EstimatedHours: in.EstimatedHours,
		AssigneeIDs:    models.NormalizeUserIDs(in.AssigneeIDs),
		CreatedBy:      actor,
	}

	err := s.repo.WithTx(ctx, func(ds database.DataStore) error {
		if err := checkReferences(ctx, ds, actor, task.ProjectID, task.UnitID, task.AssigneeIDs); err != nil {
			return err
		}
		if err := ds.CreateTask(ctx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		created := activity.NewRecorder(ds, s.labels, activity.WithLogger(s.logger)).Created(task, actor)
		if err := ds.CreateActivityEvents(ctx, []*models.ActivityEvent{created}); err != nil {
			return fmt.Errorf("failed to record task creation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.projector != nil {
		s.projector.AfterTaskCreated(ctx, task)
	}
	s.publishTaskEvent(task)

	return task, nil
}

// ============================================================================
// UPDATE
// ============================================================================

// UpdateTask applies changes to a task. Inside one transaction it loads the
// prior state, diffs it against changes, writes the new row and the activity
// events. A request that changes nothing writes nothing and records nothing.
// When the status changed, cards are moved afterwards on a best-effort basis.
func (s *service) UpdateTask(ctx context.Context, actor types.UserID, taskID types.TaskID, changes models.TaskChanges) (*models.Task, error) {
	if taskID <= 0 {
		return nil, ErrInvalidTaskID
	}
	if err := validateChanges(actor, &changes); err != nil {
		return nil, err
	}

	var prior, next *models.Task
	err := s.repo.WithTx(ctx, func(ds database.DataStore) error {
		current, err := ds.GetTask(ctx, taskID)
		if err != nil {
			return mapNotFound(err, ErrTaskNotFound)
		}
		prior = current

		var assignees []types.UserID
		if changes.Assignees != nil {
			assignees = *changes.Assignees
		}
		if err := checkReferences(ctx, ds, actor, changes.ProjectID, changes.UnitID, assignees); err != nil {
			return err
		}

		recorder := activity.NewRecorder(ds, s.labels, activity.WithLogger(s.logger))
		diff := recorder.Diff(ctx, prior, changes, actor)
		if len(diff) == 0 {
			next = prior
			return nil
		}

		next = applyChanges(prior, changes, s.now().UTC())
		if !next.CompletionConsistent() {
			return models.ErrCompletionInconsistent
		}
		if err := ds.UpdateTask(ctx, next); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		if err := ds.CreateActivityEvents(ctx, diff); err != nil {
			return fmt.Errorf("failed to record task changes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if next == prior {
		s.logger.DebugContext(ctx, "update changed nothing", "task_id", taskID.ToInt())
		return next, nil
	}

	if prior.Status != next.Status && s.projector != nil {
		s.projector.AfterTaskStatusChanged(ctx, next, prior.Status, next.Status)
	}
	s.publishTaskEvent(next)

	return next, nil
}

// applyChanges returns a copy of prior with changes applied. Entering DONE
// stamps completion with now; leaving DONE clears it.
func applyChanges(prior *models.Task, changes models.TaskChanges, now time.Time) *models.Task {
	next := prior.Clone()

	if changes.Title != nil {
		next.Title = *changes.Title
	}
	if changes.Description != nil {
		next.Description = *changes.Description
	}
	if changes.Priority != nil {
		next.Priority = *changes.Priority
	}
	if changes.EstimatedHours != nil {
		next.EstimatedHours = *changes.EstimatedHours
	}
	if changes.Assignees != nil {
		next.AssigneeIDs = models.NormalizeUserIDs(*changes.Assignees)
	}

	switch {
	case changes.ClearProject:
		next.ProjectID = nil
	case changes.ProjectID != nil:
		id := *changes.ProjectID
		next.ProjectID = &id
	}
	switch {
	case changes.ClearUnit:
		next.UnitID = nil
	case changes.UnitID != nil:
		id := *changes.UnitID
		next.UnitID = &id
	}

	if changes.Status != nil && *changes.Status != prior.Status {
		next.Status = *changes.Status
		switch {
		case next.Status == models.StatusDone:
			next.CompletedAt = &now
		case prior.Status == models.StatusDone:
			next.CompletedAt = nil
		}
	}
	return next
}

// ============================================================================
// VALIDATION
// ============================================================================

// validateCreateTask checks in and fills in defaults
func validateCreateTask(actor types.UserID, in *models.TaskInput) error {
	if actor <= 0 {
		return ErrMissingActor
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validateTitle(in.Title); err != nil {
		return err
	}

	if in.Status == "" {
		in.Status = models.StatusBacklog
	}
	if !in.Status.Valid() {
		return ErrInvalidStatus
	}
	if in.Status == models.StatusDone {
		return ErrCreateDone
	}

	if in.Priority == "" {
		in.Priority = models.DefaultPriority
	}
	if !in.Priority.Valid() {
		return ErrInvalidPriority
	}
	if in.EstimatedHours < 0 {
		return ErrNegativeEstimate
	}
	return nil
}

func validateChanges(actor types.UserID, c *models.TaskChanges) error {
	if actor <= 0 {
		return ErrMissingActor
	}
	if c.Title != nil {
		trimmed := strings.TrimSpace(*c.Title)
		if err := validateTitle(trimmed); err != nil {
			return err
		}
		c.Title = &trimmed
	}
	if c.Status != nil && !c.Status.Valid() {
		return ErrInvalidStatus
	}
	if c.Priority != nil && !c.Priority.Valid() {
		return ErrInvalidPriority
	}
	if c.EstimatedHours != nil && *c.EstimatedHours < 0 {
		return ErrNegativeEstimate
	}
	if (c.ProjectID != nil && c.ClearProject) || (c.UnitID != nil && c.ClearUnit) {
		return ErrConflictingChange
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > models.MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// checkReferences verifies that every id the write will store exists
func checkReferences(ctx context.Context, ds database.DataStore, actor types.UserID, project *types.ProjectID, unit *types.UnitID, assignees []types.UserID) error {
	if _, err := ds.GetUserByID(ctx, actor); err != nil {
		return mapNotFound(err, ErrActorNotFound)
	}
	if project != nil {
		if _, err := ds.GetProjectByID(ctx, *project); err != nil {
			return mapNotFound(err, ErrProjectNotFound)
		}
	}
	if unit != nil {
		if _, err := ds.GetUnitByID(ctx, *unit); err != nil {
			return mapNotFound(err, ErrUnitNotFound)
		}
	}

	ids := models.NormalizeUserIDs(assignees)
	if len(ids) == 0 {
		return nil
	}
	users, err := ds.GetUsersByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load assignees: %w", err)
	}
	if len(users) != len(ids) {
		found := make(map[types.UserID]bool, len(users))
		for _, u := range users {
			found[u.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return fmt.Errorf("%w: user %d", ErrAssigneeNotFound, id)
			}
		}
	}
	return nil
}

// mapNotFound turns a repository not-found into the service sentinel and
// wraps anything else
func mapNotFound(err, sentinel error) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return fmt.Errorf("failed to load record: %w", err)
}

// publishTaskEvent notifies listeners that a task changed. Failures are logged
// by the publisher and never reach the caller.
func (s *service) publishTaskEvent(task *models.Task) {
	if s.eventClient == nil {
		return
	}
	ev := events.Event{Type: events.EventTaskChanged, TaskID: task.ID.ToInt()}
	if task.ProjectID != nil {
		ev.ProjectID = task.ProjectID.ToInt()
	}
	_ = events.PublishWithRetry(s.eventClient, ev, 3)
}

var _ Projector = (*projection.Synchronizer)(nil)
