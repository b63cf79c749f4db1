// Package directory manages the users and organizational units tasks refer to.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thenoetrevino/taskboard/internal/database"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// Service defines user and unit operations
type Service interface {
	// Users
	CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error)
	GetUserByID(ctx context.Context, id types.UserID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	EnsureUser(ctx context.Context, username string) (*models.User, error)

	// Units
	CreateUnit(ctx context.Context, name string) (*models.Unit, error)
	ListUnits(ctx context.Context) ([]*models.Unit, error)
}

// CreateUserRequest encapsulates data for creating a user
type CreateUserRequest struct {
	Username    string
	DisplayName string
}

type repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id types.UserID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	CreateUnit(ctx context.Context, unit *models.Unit) error
	ListUnits(ctx context.Context) ([]*models.Unit, error)
	WithTx(ctx context.Context, fn func(database.DataStore) error) error
}

type service struct {
	repo repository
}

// NewService creates a new directory service
func NewService(repo repository) Service {
	return &service{repo: repo}
}

// CreateUser registers a new user. Usernames are unique and case-sensitive.
func (s *service) CreateUser(ctx context.Context, req CreateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if len(username) > models.MaxTitleLength || len(req.DisplayName) > models.MaxTitleLength {
		return nil, ErrNameTooLong
	}

	u := &models.User{Username: username, DisplayName: strings.TrimSpace(req.DisplayName)}
	err := s.repo.WithTx(ctx, func(ds database.DataStore) error {
		_, err := ds.GetUserByUsername(ctx, username)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", ErrUsernameTaken, username)
		case !errors.Is(err, database.ErrNotFound):
			return err
		}
		return ds.CreateUser(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) GetUserByID(ctx context.Context, id types.UserID) (*models.User, error) {
	if id <= 0 {
		return nil, ErrInvalidUserID
	}
	u, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: #%d", ErrUserNotFound, id)
	}
	return u, err
}

func (s *service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := s.repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return u, err
}

func (s *service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// EnsureUser returns the user with username, creating it on first use.
// The CLI resolves its acting user this way.
func (s *service) EnsureUser(ctx context.Context, username string) (*models.User, error) {
	u, err := s.GetUserByUsername(ctx, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	return s.CreateUser(ctx, CreateUserRequest{Username: username})
}

// CreateUnit registers an organizational unit. Names are unique.
func (s *service) CreateUnit(ctx context.Context, name string) (*models.Unit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if len(name) > models.MaxTitleLength {
		return nil, ErrNameTooLong
	}

	units, err := s.repo.ListUnits(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		if u.Name == name {
			return nil, fmt.Errorf("%w: %s", ErrUnitExists, name)
		}
	}

	unit := &models.Unit{Name: name}
	if err := s.repo.CreateUnit(ctx, unit); err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}
	return unit, nil
}

func (s *service) ListUnits(ctx context.Context) ([]*models.Unit, error) {
	return s.repo.ListUnits(ctx)
}
