package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thenoetrevino/taskboard/internal/database"
	"github.com/thenoetrevino/taskboard/internal/events"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/projection"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// Service defines all board-related business operations
type Service interface {
	// Read operations
	GetBoard(ctx context.Context, id types.BoardID) (*models.BoardView, error)
	ListBoards(ctx context.Context) ([]*models.Board, error)

	// Write operations
	CreateBoard(ctx context.Context, req CreateBoardRequest) (*models.Board, error)
	LinkBoardToProject(ctx context.Context, boardID types.BoardID, projectID types.ProjectID) (*models.Board, error)
	RebuildBoard(ctx context.Context, boardID types.BoardID) (int, error)
}

// CreateBoardRequest encapsulates data for creating a board
type CreateBoardRequest struct {
	Name      string
	ProjectID *types.ProjectID // Optional: nil creates an unbound board
}

// Projector imports a project's tasks onto a board
type Projector interface {
	AfterBoardLinked(ctx context.Context, board *models.Board) projection.Outcome
}

// repository defines the data access methods needed by the board service
type repository interface {
	GetBoard(ctx context.Context, id types.BoardID) (*models.Board, error)
	ListBoards(ctx context.Context) ([]*models.Board, error)
	GetCardsByBoard(ctx context.Context, boardID types.BoardID) ([]*models.Card, error)
	GetProjectByID(ctx context.Context, id types.ProjectID) (*models.Project, error)
	WithTx(ctx context.Context, fn func(database.DataStore) error) error
}

// service implements Service interface
type service struct {
	repo        repository
	projector   Projector
	eventClient events.EventPublisher
}

// NewService creates a new board service. projector may be nil, in which
// case boards are created without importing cards.
func NewService(repo repository, projector Projector, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		projector:   projector,
		eventClient: eventClient,
	}
}

// GetBoard returns a board with its cards grouped by column
func (s *service) GetBoard(ctx context.Context, id types.BoardID) (*models.BoardView, error) {
	board, err := s.loadBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	cards, err := s.repo.GetCardsByBoard(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load cards of board %d: %w", id, err)
	}

	view := &models.BoardView{Board: board, Cards: make(map[types.ColumnID][]*models.Card, len(board.Columns))}
	for _, c := range cards {
		view.Cards[c.ColumnID] = append(view.Cards[c.ColumnID], c)
	}
	return view, nil
}

// ListBoards returns every board with its columns
func (s *service) ListBoards(ctx context.Context) ([]*models.Board, error) {
	boards, err := s.repo.ListBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// CreateBoard creates a board with the four fixed columns. When a project is
// given, the project's existing tasks are imported as cards afterwards; an
// import failure is logged and does not fail the create.
func (s *service) CreateBoard(ctx context.Context, req CreateBoardRequest) (*models.Board, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if req.ProjectID != nil && *req.ProjectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	board := &models.Board{Name: name, ProjectID: req.ProjectID, Columns: models.DefaultColumns()}
	err := s.repo.WithTx(ctx, func(ds database.DataStore) error {
		if board.ProjectID != nil {
			if _, err := ds.GetProjectByID(ctx, *board.ProjectID); err != nil {
				return mapNotFound(err, ErrProjectNotFound)
			}
		}
		if err := ds.CreateBoard(ctx, board); err != nil {
			return fmt.Errorf("failed to create board: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if board.ProjectID != nil && s.projector != nil {
		s.projector.AfterBoardLinked(ctx, board)
	}
	s.publishBoardEvent(board)
	return board, nil
}

// LinkBoardToProject binds a board to a project and imports the project's
// tasks that have no card on it yet. Cards of a previously linked project
// are left in place.
func (s *service) LinkBoardToProject(ctx context.Context, boardID types.BoardID, projectID types.ProjectID) (*models.Board, error) {
	if boardID <= 0 {
		return nil, ErrInvalidBoardID
	}
	if projectID <= 0 {
		return nil, ErrInvalidProjectID
	}

	var board *models.Board
	err := s.repo.WithTx(ctx, func(ds database.DataStore) error {
		if _, err := ds.GetProjectByID(ctx, projectID); err != nil {
			return mapNotFound(err, ErrProjectNotFound)
		}
		if err := ds.SetBoardProject(ctx, boardID, &projectID); err != nil {
			return mapNotFound(err, ErrBoardNotFound)
		}
		b, err := ds.GetBoard(ctx, boardID)
		if err != nil {
			return mapNotFound(err, ErrBoardNotFound)
		}
		board = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.projector != nil {
		s.projector.AfterBoardLinked(ctx, board)
	}
	s.publishBoardEvent(board)
	return board, nil
}

// RebuildBoard re-runs the import for a linked board, placing a card for
// every project task that lacks one. It is the recovery path after a failed
// projection and returns the number of cards created.
func (s *service) RebuildBoard(ctx context.Context, boardID types.BoardID) (int, error) {
	board, err := s.loadBoard(ctx, boardID)
	if err != nil {
		return 0, err
	}
	if board.ProjectID == nil {
		return 0, ErrBoardNotLinked
	}
	if s.projector == nil {
		return 0, nil
	}

	out := s.projector.AfterBoardLinked(ctx, board)
	if !out.OK() {
		return 0, fmt.Errorf("rebuild of board %d failed (attempt %s): %w", boardID, out.AttemptID, out.Err)
	}
	return out.Affected, nil
}

func (s *service) loadBoard(ctx context.Context, id types.BoardID) (*models.Board, error) {
	if id <= 0 {
		return nil, ErrInvalidBoardID
	}
	board, err := s.repo.GetBoard(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrBoardNotFound)
	}
	return board, nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > models.MaxTitleLength {
		return ErrNameTooLong
	}
	return nil
}

func mapNotFound(err, sentinel error) error {
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return err
}

// publishBoardEvent tells listeners to refresh the board
func (s *service) publishBoardEvent(board *models.Board) {
	ev := events.Event{Type: events.EventBoardChanged, BoardID: board.ID.ToInt()}
	if board.ProjectID != nil {
		ev.ProjectID = board.ProjectID.ToInt()
	}
	_ = events.PublishWithRetry(s.eventClient, ev, 3)
}
