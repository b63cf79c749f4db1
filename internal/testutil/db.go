// Package testutil holds helpers shared by package tests: an in-memory
// database, fixture builders, log capture and an event recorder.
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/thenoetrevino/taskboard/internal/database"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// SetupTestDB creates an in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SetupTestRepo returns a repository over a fresh in-memory database
func SetupTestRepo(t *testing.T) *database.Repository {
	t.Helper()
	return database.NewRepository(SetupTestDB(t))
}

// ============================================================================
// FIXTURES
// ============================================================================

// CreateTestUser inserts a user and returns it
func CreateTestUser(t *testing.T, store database.DataStore, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username}
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return u
}

// CreateTestProject inserts a project and returns it
func CreateTestProject(t *testing.T, store database.DataStore, name string) *models.Project {
	t.Helper()
	p := &models.Project{Name: name}
	if err := store.CreateProject(context.Background(), p); err != nil {
		t.Fatalf("Failed to create project %s: %v", name, err)
	}
	return p
}

// CreateTestUnit inserts a unit and returns it
func CreateTestUnit(t *testing.T, store database.DataStore, name string) *models.Unit {
	t.Helper()
	u := &models.Unit{Name: name}
	if err := store.CreateUnit(context.Background(), u); err != nil {
		t.Fatalf("Failed to create unit %s: %v", name, err)
	}
	return u
}

// CreateTestBoard inserts a board with the default columns and no cards
func CreateTestBoard(t *testing.T, store database.DataStore, name string, project *types.ProjectID) *models.Board {
	t.Helper()
	board := &models.Board{Name: name, ProjectID: project, Columns: models.DefaultColumns()}
	err := store.WithTx(context.Background(), func(ds database.DataStore) error {
		return ds.CreateBoard(context.Background(), board)
	})
	if err != nil {
		t.Fatalf("Failed to create board %s: %v", name, err)
	}
	return board
}

// CreateTestTask inserts a task row directly, bypassing the mutation pipeline.
// A DONE status gets a completion stamp so the row stays consistent.
func CreateTestTask(t *testing.T, store database.DataStore, title string, status models.TaskStatus, project *types.ProjectID, actor types.UserID) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:     title,
		ProjectID: project,
		Status:    status,
		Priority:  models.DefaultPriority,
		CreatedBy: actor,
	}
	if status == models.StatusDone {
		now := time.Now().UTC()
		task.CompletedAt = &now
	}
	if err := store.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("Failed to create task %s: %v", title, err)
	}
	return task
}

// CardsInColumn returns the cards of board sitting in the column for status
func CardsInColumn(t *testing.T, store database.DataStore, board *models.Board, status models.ColumnStatus) []*models.Card {
	t.Helper()
	cards, err := store.GetCardsByBoard(context.Background(), board.ID)
	if err != nil {
		t.Fatalf("Failed to load cards of board %d: %v", board.ID, err)
	}
	col := board.ColumnByStatus(status)
	if col == nil {
		t.Fatalf("Board %d has no %s column", board.ID, status)
	}
	var out []*models.Card
	for _, c := range cards {
		if c.ColumnID == col.ID {
			out = append(out, c)
		}
	}
	return out
}

// ============================================================================
// LOG CAPTURE
// ============================================================================

// LogBuffer is a goroutine-safe buffer for captured log output
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// CaptureLogs returns a debug-level text logger writing into a buffer
func CaptureLogs(t *testing.T) (*slog.Logger, *LogBuffer) {
	t.Helper()
	buf := &LogBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, buf
}
