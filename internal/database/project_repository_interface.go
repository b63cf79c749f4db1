package database

import (
	"context"

	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// ProjectRepository defines project operations.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProjectByID(ctx context.Context, id types.ProjectID) (*models.Project, error)
	ListProjects(ctx context.Context) ([]*models.Project, error)
}

// UserRepository defines user and unit operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id types.UserID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []types.UserID) ([]*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)

	CreateUnit(ctx context.Context, unit *models.Unit) error
	GetUnitByID(ctx context.Context, id types.UnitID) (*models.Unit, error)
	ListUnits(ctx context.Context) ([]*models.Unit, error)
}
