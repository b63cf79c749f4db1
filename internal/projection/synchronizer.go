package projection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/taskboard/internal/database"
	"github.com/thenoetrevino/taskboard/internal/events"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// CardStore is the slice of the data store the synchronizer reads and writes.
// Every read-orders-then-insert sequence runs inside WithTx, and the store
// uses a single writer connection, so orders within a column never collide.
type CardStore interface {
	GetBoardsByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Board, error)
	GetColumnByStatus(ctx context.Context, boardID types.BoardID, status models.ColumnStatus) (*models.Column, error)
	CardExists(ctx context.Context, boardID types.BoardID, taskID types.TaskID) (bool, error)
	GetCardsByTask(ctx context.Context, taskID types.TaskID) ([]*models.Card, error)
	CardOrdersByColumn(ctx context.Context, columnID types.ColumnID) ([]int, error)
	CreateCard(ctx context.Context, card *models.Card) error
	CreateCards(ctx context.Context, cards []*models.Card) error
	MoveCard(ctx context.Context, cardID types.CardID, columnID types.ColumnID, order int) error
	ListProjectTasksWithoutCard(ctx context.Context, projectID types.ProjectID, boardID types.BoardID) ([]*models.Task, error)
	WithTx(ctx context.Context, fn func(database.DataStore) error) error
}

// Synchronizer propagates task lifecycle changes into the cards of every
// board that projects the task's project.
type Synchronizer struct {
	store CardStore
	guard *Guard
}

type syncConfig struct {
	logger    *slog.Logger
	publisher events.EventPublisher
	metrics   *Metrics
}

// Option configures a Synchronizer
type Option func(*syncConfig)

// WithLogger sets the logger failures are reported to
func WithLogger(l *slog.Logger) Option {
	return func(c *syncConfig) { c.logger = l }
}

// WithPublisher sets where board_changed and projection_failed events go
func WithPublisher(p events.EventPublisher) Option {
	return func(c *syncConfig) { c.publisher = p }
}

// WithMetrics shares a Metrics instance with the caller
func WithMetrics(m *Metrics) Option {
	return func(c *syncConfig) { c.metrics = m }
}

// NewSynchronizer creates a synchronizer over store
func NewSynchronizer(store CardStore, opts ...Option) *Synchronizer {
	cfg := &syncConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Synchronizer{
		store: store,
		guard: NewGuard(cfg.logger, cfg.publisher, cfg.metrics),
	}
}

// Metrics returns the synchronizer's counters
func (s *Synchronizer) Metrics() *Metrics {
	return s.guard.Metrics()
}

// ============================================================================
// BEST-EFFORT ENTRY POINTS
// ============================================================================

// AfterTaskCreated runs OnTaskCreated under the guard
func (s *Synchronizer) AfterTaskCreated(ctx context.Context, task *models.Task) Outcome {
	return s.guard.Run(ctx, OpTaskCreated, Attrs{TaskID: task.ID, ProjectID: task.ProjectID},
		func(ctx context.Context) (int, error) {
			return s.OnTaskCreated(ctx, task)
		})
}

// AfterTaskStatusChanged runs OnTaskStatusChanged under the guard
func (s *Synchronizer) AfterTaskStatusChanged(ctx context.Context, task *models.Task, prior, next models.TaskStatus) Outcome {
	return s.guard.Run(ctx, OpTaskStatusChanged, Attrs{TaskID: task.ID, ProjectID: task.ProjectID},
		func(ctx context.Context) (int, error) {
			return s.OnTaskStatusChanged(ctx, task, prior, next)
		})
}

// AfterBoardLinked runs OnBoardLinkedToProject under the guard
func (s *Synchronizer) AfterBoardLinked(ctx context.Context, board *models.Board) Outcome {
	return s.guard.Run(ctx, OpBoardLinked, Attrs{BoardID: board.ID, ProjectID: board.ProjectID},
		func(ctx context.Context) (int, error) {
			return s.OnBoardLinkedToProject(ctx, board)
		})
}

// ============================================================================
// PROJECTION OPERATIONS
// ============================================================================

// OnTaskCreated places one card for task on every board of its project that
// does not already hold one. Returns the number of cards created.
// A failing board does not stop the others; their errors are joined.
func (s *Synchronizer) OnTaskCreated(ctx context.Context, task *models.Task) (int, error) {
	if task.ProjectID == nil {
		return 0, nil
	}

	boards, err := s.store.GetBoardsByProject(ctx, *task.ProjectID)
	if err != nil {
		return 0, fmt.Errorf("loading boards of project %d: %w", *task.ProjectID, err)
	}

	target := ColumnStatusFor(task.Status)
	created := 0
	var errs []error
	for _, board := range boards {
		var placed bool
		err := s.store.WithTx(ctx, func(ds database.DataStore) error {
			exists, err := ds.CardExists(ctx, board.ID, task.ID)
			if err != nil {
				return err
			}
			if exists {
				return nil
			}

			col, err := ds.GetColumnByStatus(ctx, board.ID, target)
			if err != nil {
				return err
			}
			orders, err := ds.CardOrdersByColumn(ctx, col.ID)
			if err != nil {
				return err
			}
			if err := ds.CreateCard(ctx, models.NewCardForTask(task, board.ID, col.ID, NextOrder(orders))); err != nil {
				return err
			}
			placed = true
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("placing task %d on board %d: %w", task.ID, board.ID, err))
			continue
		}
		if placed {
			created++
		}
	}
	return created, errors.Join(errs...)
}

// OnTaskStatusChanged moves every card of task to the column mapped from next,
// appending it there. Cards already in that column are not written.
// Returns the number of cards moved.
func (s *Synchronizer) OnTaskStatusChanged(ctx context.Context, task *models.Task, prior, next models.TaskStatus) (int, error) {
	if prior == next {
		return 0, nil
	}
	target := ColumnStatusFor(next)

	cards, err := s.store.GetCardsByTask(ctx, task.ID)
	if err != nil {
		return 0, fmt.Errorf("loading cards of task %d: %w", task.ID, err)
	}

	moved := 0
	var errs []error
	for _, card := range cards {
		var didMove bool
		err := s.store.WithTx(ctx, func(ds database.DataStore) error {
			col, err := ds.GetColumnByStatus(ctx, card.BoardID, target)
			if err != nil {
				return err
			}
			if col.ID == card.ColumnID {
				return nil
			}
			orders, err := ds.CardOrdersByColumn(ctx, col.ID)
			if err != nil {
				return err
			}
			if err := ds.MoveCard(ctx, card.ID, col.ID, NextOrder(orders)); err != nil {
				return err
			}
			didMove = true
			return nil
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("moving card %d of task %d on board %d: %w", card.ID, task.ID, card.BoardID, err))
			continue
		}
		if didMove {
			moved++
		}
	}
	return moved, errors.Join(errs...)
}

// OnBoardLinkedToProject imports every task of the board's project that has no
// card on this board yet. Tasks are grouped by mapped column and each group gets
// a contiguous block of orders after that column's current maximum, in task id
// order. The import is one transaction. Returns the number of cards created.
func (s *Synchronizer) OnBoardLinkedToProject(ctx context.Context, board *models.Board) (int, error) {
	if board.ProjectID == nil {
		return 0, nil
	}

	var cards []*models.Card
	err := s.store.WithTx(ctx, func(ds database.DataStore) error {
		cards = nil

		tasks, err := ds.ListProjectTasksWithoutCard(ctx, *board.ProjectID, board.ID)
		if err != nil {
			return err
		}

		groups := make(map[models.ColumnStatus][]*models.Task)
		for _, t := range tasks {
			status := ColumnStatusFor(t.Status)
			groups[status] = append(groups[status], t)
		}

		for _, status := range models.AllColumnStatuses() {
			batch := groups[status]
			if len(batch) == 0 {
				continue
			}
			col, err := ds.GetColumnByStatus(ctx, board.ID, status)
			if err != nil {
				return err
			}
			orders, err := ds.CardOrdersByColumn(ctx, col.ID)
			if err != nil {
				return err
			}
			block := AllocateBlock(orders, len(batch))
			for i, t := range batch {
				cards = append(cards, models.NewCardForTask(t, board.ID, col.ID, block[i]))
			}
		}

		return ds.CreateCards(ctx, cards)
	})
	if err != nil {
		return 0, fmt.Errorf("importing project %d into board %d: %w", *board.ProjectID, board.ID, err)
	}
	return len(cards), nil
}
