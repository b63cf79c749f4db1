// Package activity turns task mutations into an audit trail of immutable
// activity events, one per materially changed field.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

const (
	noneLabel      = "(none)"
	unknownProject = "(unknown project)"
	unknownUnit    = "(unknown unit)"
	listSeparator  = ", "
)

// Directory resolves display names for ids referenced by a change.
type Directory interface {
	GetProjectByID(ctx context.Context, id types.ProjectID) (*models.Project, error)
	GetUnitByID(ctx context.Context, id types.UnitID) (*models.Unit, error)
	GetUsersByIDs(ctx context.Context, ids []types.UserID) ([]*models.User, error)
}

// Recorder builds activity events. It never writes them; callers persist the
// result in the same transaction as the task row.
type Recorder struct {
	dir    Directory
	labels Labels
	logger *slog.Logger
}

// Option configures a Recorder
type Option func(*Recorder)

// WithLogger sets the logger used when a name lookup degrades
func WithLogger(l *slog.Logger) Option {
	return func(r *Recorder) { r.logger = l }
}

// NewRecorder creates a recorder resolving names through dir
func NewRecorder(dir Directory, labels Labels, opts ...Option) *Recorder {
	r := &Recorder{dir: dir, labels: labels, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Created returns the single CREATED event for a freshly inserted task
func (r *Recorder) Created(task *models.Task, actor types.UserID) *models.ActivityEvent {
	return &models.ActivityEvent{
		TaskID:  task.ID,
		Kind:    models.ActivityCreated,
		ActorID: actor,
		Message: fmt.Sprintf("created task %q in %s", task.Title, r.labels.StatusLabel(task.Status)),
		Payload: models.ActivityPayload{Field: models.FieldStatus, From: nil, To: string(task.Status)},
	}
}

// Diff compares prior against the requested changes and returns one event per
// field whose requested value differs. Fields are visited in a fixed order:
// status, assignees, project, unit, priority, estimated hours, title, description.
// A change that matches the prior value yields nothing.
func (r *Recorder) Diff(ctx context.Context, prior *models.Task, changes models.TaskChanges, actor types.UserID) []*models.ActivityEvent {
	var out []*models.ActivityEvent
	emit := func(kind models.ActivityKind, field, msg string, from, to any) {
		ev := &models.ActivityEvent{
			TaskID:  prior.ID,
			Kind:    kind,
			ActorID: actor,
			Message: msg,
			Payload: models.ActivityPayload{Field: field, From: from, To: to},
		}
		if kind == models.ActivityUpdated {
			ev.Field = field
		}
		out = append(out, ev)
	}

	if c := changes.Status; c != nil && *c != prior.Status {
		emit(models.ActivityStatusChanged, models.FieldStatus,
			fmt.Sprintf("changed status from %s to %s", r.labels.StatusLabel(prior.Status), r.labels.StatusLabel(*c)),
			string(prior.Status), string(*c))
	}

	if c := changes.Assignees; c != nil && !models.SameUserSet(prior.AssigneeIDs, *c) {
		from := models.NormalizeUserIDs(prior.AssigneeIDs)
		to := models.NormalizeUserIDs(*c)
		names := r.userNames(ctx, append(append([]types.UserID{}, from...), to...))
		emit(models.ActivityAssigneesChanged, models.FieldAssignees,
			fmt.Sprintf("changed assignees from %s to %s", joinNames(from, names), joinNames(to, names)),
			idInts(from), idInts(to))
	}

	if next, touched := projectChange(changes); touched && !sameRef(prior.ProjectID, next) {
		emit(models.ActivityUpdated, models.FieldProject, r.projectMessage(ctx, next),
			refValue(prior.ProjectID), refValue(next))
	}

	if next, touched := unitChange(changes); touched && !sameRef(prior.UnitID, next) {
		emit(models.ActivityUpdated, models.FieldUnit, r.unitMessage(ctx, next),
			refValue(prior.UnitID), refValue(next))
	}

	if c := changes.Priority; c != nil && *c != prior.Priority {
		emit(models.ActivityUpdated, models.FieldPriority,
			fmt.Sprintf("changed priority from %s to %s", prior.Priority, *c),
			string(prior.Priority), string(*c))
	}

	if c := changes.EstimatedHours; c != nil && *c != prior.EstimatedHours {
		emit(models.ActivityUpdated, models.FieldEstimatedHours,
			fmt.Sprintf("changed estimated hours from %d to %d", prior.EstimatedHours, *c),
			prior.EstimatedHours, *c)
	}

	if c := changes.Title; c != nil && *c != prior.Title {
		emit(models.ActivityUpdated, models.FieldTitle,
			fmt.Sprintf("renamed from %q to %q", prior.Title, *c),
			prior.Title, *c)
	}

	if c := changes.Description; c != nil && *c != prior.Description {
		emit(models.ActivityUpdated, models.FieldDescription, "updated description",
			prior.Description, *c)
	}

	return out
}

// ============================================================================
// NAME LOOKUPS
// ============================================================================

func (r *Recorder) projectMessage(ctx context.Context, next *types.ProjectID) string {
	if next == nil {
		return "removed from project"
	}
	p, err := r.dir.GetProjectByID(ctx, *next)
	if err != nil {
		r.logger.WarnContext(ctx, "project lookup for activity message failed",
			"project_id", next.ToInt(), "error", err)
		return "moved to project " + unknownProject
	}
	return "moved to project " + p.Name
}

func (r *Recorder) unitMessage(ctx context.Context, next *types.UnitID) string {
	if next == nil {
		return "removed from unit"
	}
	u, err := r.dir.GetUnitByID(ctx, *next)
	if err != nil {
		r.logger.WarnContext(ctx, "unit lookup for activity message failed",
			"unit_id", next.ToInt(), "error", err)
		return "moved to unit " + unknownUnit
	}
	return "moved to unit " + u.Name
}

func (r *Recorder) userNames(ctx context.Context, ids []types.UserID) map[types.UserID]string {
	names := make(map[types.UserID]string, len(ids))
	ids = models.NormalizeUserIDs(ids)
	if len(ids) == 0 {
		return names
	}
	users, err := r.dir.GetUsersByIDs(ctx, ids)
	if err != nil {
		r.logger.WarnContext(ctx, "user lookup for activity message failed", "error", err)
		return names
	}
	for _, u := range users {
		names[u.ID] = u.Name()
	}
	return names
}

func joinNames(ids []types.UserID, names map[types.UserID]string) string {
	if len(ids) == 0 {
		return noneLabel
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		if n, ok := names[id]; ok {
			parts[i] = n
		} else {
			parts[i] = fmt.Sprintf("user #%d", id)
		}
	}
	return strings.Join(parts, listSeparator)
}

// ============================================================================
// VALUE HELPERS
// ============================================================================

func projectChange(c models.TaskChanges) (*types.ProjectID, bool) {
	if c.ClearProject {
		return nil, true
	}
	return c.ProjectID, c.ProjectID != nil
}

func unitChange(c models.TaskChanges) (*types.UnitID, bool) {
	if c.ClearUnit {
		return nil, true
	}
	return c.UnitID, c.UnitID != nil
}

func sameRef[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// refValue flattens an optional id for the payload: nil stays null
func refValue[T ~int](p *T) any {
	if p == nil {
		return nil
	}
	return int(*p)
}

func idInts(ids []types.UserID) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = id.ToInt()
	}
	return out
}
