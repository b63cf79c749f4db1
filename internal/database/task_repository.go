package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// TaskRepo handles task persistence including the assignee join table
type TaskRepo struct {
	db DBTX
}

const taskColumns = `t.id, t.title, t.description, t.project_id, t.unit_id, t.status, t.priority,
	t.estimated_hours, t.completed_at, t.created_by, t.created_at, t.updated_at`

// CreateTask inserts task and its assignees. ID and timestamps are filled in.
func (r *TaskRepo) CreateTask(ctx context.Context, task *models.Task) error {
	now := nowUTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = task.CreatedAt

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, project_id, unit_id, status, priority,
			estimated_hours, completed_at, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.Title, task.Description, nullIntPtr(task.ProjectID), nullIntPtr(task.UnitID),
		string(task.Status), string(task.Priority), task.EstimatedHours, nullTime(task.CompletedAt),
		task.CreatedBy.ToInt(), task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get task id: %w", err)
	}
	task.ID = types.TaskID(id)
	task.AssigneeIDs = models.NormalizeUserIDs(task.AssigneeIDs)

	return r.insertAssignees(ctx, task.ID, task.AssigneeIDs)
}

// GetTask returns one task with its assignees
func (r *TaskRepo) GetTask(ctx context.Context, id types.TaskID) (*models.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks t WHERE t.id = ?`, id.ToInt())
	task, err := scanTask(row)
	if err != nil {
		return nil, notFound(err, "task", id.ToInt())
	}

	if err := r.attachAssignees(ctx, []*models.Task{task}); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask writes every mutable column of task and replaces its assignee set
func (r *TaskRepo) UpdateTask(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = nowUTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, project_id = ?, unit_id = ?, status = ?,
			priority = ?, estimated_hours = ?, completed_at = ?, updated_at = ?
		 WHERE id = ?`,
		task.Title, task.Description, nullIntPtr(task.ProjectID), nullIntPtr(task.UnitID),
		string(task.Status), string(task.Priority), task.EstimatedHours, nullTime(task.CompletedAt),
		task.UpdatedAt, task.ID.ToInt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", task.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("task %d: %w", task.ID, ErrNotFound)
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM task_assignees WHERE task_id = ?`, task.ID.ToInt()); err != nil {
		return fmt.Errorf("failed to clear assignees for task %d: %w", task.ID, err)
	}
	task.AssigneeIDs = models.NormalizeUserIDs(task.AssigneeIDs)
	return r.insertAssignees(ctx, task.ID, task.AssigneeIDs)
}

// ListTasks returns tasks matching filter ordered by id
func (r *TaskRepo) ListTasks(ctx context.Context, filter models.TaskFilter) ([]*models.Task, error) {
	var (
		where []string
		args  []any
	)
	if filter.ProjectID != nil {
		where = append(where, "t.project_id = ?")
		args = append(args, filter.ProjectID.ToInt())
	}
	if filter.UnitID != nil {
		where = append(where, "t.unit_id = ?")
		args = append(args, filter.UnitID.ToInt())
	}
	if filter.Status != nil {
		where = append(where, "t.status = ?")
		args = append(args, string(*filter.Status))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks t`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.id"

	return r.queryTasks(ctx, query, args...)
}

// ListProjectTasksWithoutCard returns the project's tasks that have no card on
// board yet, in ascending task id order.
func (r *TaskRepo) ListProjectTasksWithoutCard(ctx context.Context, projectID types.ProjectID, boardID types.BoardID) ([]*models.Task, error) {
	return r.queryTasks(ctx,
		`SELECT `+taskColumns+` FROM tasks t
		 WHERE t.project_id = ?
		   AND NOT EXISTS (SELECT 1 FROM cards c WHERE c.board_id = ? AND c.task_id = t.id)
		 ORDER BY t.id`,
		projectID.ToInt(), boardID.ToInt(),
	)
}

// queryTasks drains the row set before loading assignees; the pool has a
// single connection so a second query cannot run while rows are open.
func (r *TaskRepo) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	if err := rows.Close(); err != nil {
		return nil, fmt.Errorf("failed to close task rows: %w", err)
	}

	if err := r.attachAssignees(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepo) insertAssignees(ctx context.Context, taskID types.TaskID, userIDs []types.UserID) error {
	for _, uid := range userIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO task_assignees (task_id, user_id) VALUES (?, ?)`,
			taskID.ToInt(), uid.ToInt(),
		); err != nil {
			return fmt.Errorf("failed to assign user %d to task %d: %w", uid, taskID, err)
		}
	}
	return nil
}

func (r *TaskRepo) attachAssignees(ctx context.Context, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[types.TaskID]*models.Task, len(tasks))
	args := make([]any, 0, len(tasks))
	for _, t := range tasks {
		t.AssigneeIDs = []types.UserID{}
		byID[t.ID] = t
		args = append(args, t.ID.ToInt())
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, user_id FROM task_assignees
		 WHERE task_id IN (`+placeholders(len(args))+`)
		 ORDER BY task_id, user_id`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to query assignees: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var taskID, userID int
		if err := rows.Scan(&taskID, &userID); err != nil {
			return fmt.Errorf("failed to scan assignee: %w", err)
		}
		if t, ok := byID[types.TaskID(taskID)]; ok {
			t.AssigneeIDs = append(t.AssigneeIDs, types.UserID(userID))
		}
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (*models.Task, error) {
	var (
		task        models.Task
		id          int
		description sql.NullString
		projectID   sql.NullInt64
		unitID      sql.NullInt64
		status      string
		priority    string
		completedAt sql.NullTime
		createdBy   int
	)
	if err := s.Scan(&id, &task.Title, &description, &projectID, &unitID, &status, &priority,
		&task.EstimatedHours, &completedAt, &createdBy, &task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	task.ID = types.TaskID(id)
	task.Description = nullStringToString(description)
	task.ProjectID = ptrFromNullInt[types.ProjectID](projectID)
	task.UnitID = ptrFromNullInt[types.UnitID](unitID)
	task.Status = models.TaskStatus(status)
	task.Priority = models.Priority(priority)
	task.CompletedAt = ptrFromNullTime(completedAt)
	task.CreatedBy = types.UserID(createdBy)
	return &task, nil
}
