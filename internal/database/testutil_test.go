package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates an in-memory database with the full schema
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// setupTestDBFile creates a file-based database for testing persistence across reopen
func setupTestDBFile(t *testing.T) (*sql.DB, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskboard-test.db")
	db, err := InitDB(context.Background(), path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return db, path
}

// ============================================================================
// DATA CREATION HELPERS
// ============================================================================

func createTestUser(t *testing.T, repo *Repository, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username}
	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return u
}

func createTestProject(t *testing.T, repo *Repository, name string) *models.Project {
	t.Helper()
	p := &models.Project{Name: name}
	if err := repo.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("Failed to create project %s: %v", name, err)
	}
	return p
}

func createTestTask(t *testing.T, repo *Repository, title string, project *types.ProjectID, actor types.UserID, assignees ...types.UserID) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:       title,
		ProjectID:   project,
		Status:      models.StatusBacklog,
		Priority:    models.DefaultPriority,
		AssigneeIDs: assignees,
		CreatedBy:   actor,
	}
	if err := repo.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("Failed to create task %s: %v", title, err)
	}
	return task
}

func createTestBoard(t *testing.T, repo *Repository, name string, project *types.ProjectID) *models.Board {
	t.Helper()
	board := &models.Board{Name: name, ProjectID: project, Columns: models.DefaultColumns()}
	err := repo.WithTx(context.Background(), func(ds DataStore) error {
		return ds.CreateBoard(context.Background(), board)
	})
	if err != nil {
		t.Fatalf("Failed to create board %s: %v", name, err)
	}
	return board
}
