package database

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// UserRepo handles users and organizational units
type UserRepo struct {
	db DBTX
}

// CreateUser inserts a user. Usernames are unique.
func (r *UserRepo) CreateUser(ctx context.Context, user *models.User) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, display_name) VALUES (?, ?)`,
		user.Username, user.DisplayName,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user '%s': %w", user.Username, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user ID after insert: %w", err)
	}
	user.ID = types.UserID(id)
	return nil
}

// GetUserByID retrieves a user by id
func (r *UserRepo) GetUserByID(ctx context.Context, id types.UserID) (*models.User, error) {
	var (
		u   models.User
		uid int
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, display_name FROM users WHERE id = ?`, id.ToInt(),
	).Scan(&uid, &u.Username, &u.DisplayName)
	if err != nil {
		return nil, notFound(err, "user", id.ToInt())
	}
	u.ID = types.UserID(uid)
	return &u, nil
}

// GetUserByUsername retrieves a user by login name
func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	users, err := r.queryUsers(ctx,
		`SELECT id, username, display_name FROM users WHERE username = ?`, username,
	)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user '%s': %w", username, ErrNotFound)
	}
	return users[0], nil
}

// GetUsersByIDs returns the users that exist among ids, ordered by id.
// Missing ids are silently absent from the result.
func (r *UserRepo) GetUsersByIDs(ctx context.Context, ids []types.UserID) ([]*models.User, error) {
	if len(ids) == 0 {
		return []*models.User{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id.ToInt()
	}
	return r.queryUsers(ctx,
		`SELECT id, username, display_name FROM users WHERE id IN (`+placeholders(len(ids))+`) ORDER BY id`,
		args...,
	)
}

// ListUsers returns all users ordered by id
func (r *UserRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	return r.queryUsers(ctx, `SELECT id, username, display_name FROM users ORDER BY id`)
}

func (r *UserRepo) queryUsers(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	users := []*models.User{}
	for rows.Next() {
		var (
			u  models.User
			id int
		)
		if err := rows.Scan(&id, &u.Username, &u.DisplayName); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.ID = types.UserID(id)
		users = append(users, &u)
	}
	return users, rows.Err()
}

// CreateUnit inserts an organizational unit
func (r *UserRepo) CreateUnit(ctx context.Context, unit *models.Unit) error {
	result, err := r.db.ExecContext(ctx, `INSERT INTO units (name) VALUES (?)`, unit.Name)
	if err != nil {
		return fmt.Errorf("failed to insert unit '%s': %w", unit.Name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get unit ID after insert: %w", err)
	}
	unit.ID = types.UnitID(id)
	return nil
}

// GetUnitByID retrieves a unit by id
func (r *UserRepo) GetUnitByID(ctx context.Context, id types.UnitID) (*models.Unit, error) {
	var (
		u   models.Unit
		uid int
	)
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM units WHERE id = ?`, id.ToInt()).Scan(&uid, &u.Name)
	if err != nil {
		return nil, notFound(err, "unit", id.ToInt())
	}
	u.ID = types.UnitID(uid)
	return &u, nil
}

// ListUnits returns all units ordered by name
func (r *UserRepo) ListUnits(ctx context.Context) ([]*models.Unit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM units ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var units []*models.Unit
	for rows.Next() {
		var (
			u  models.Unit
			id int
		)
		if err := rows.Scan(&id, &u.Name); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		u.ID = types.UnitID(id)
		units = append(units, &u)
	}
	return units, rows.Err()
}
