package database

import (
	"context"

	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// BoardReader defines read operations for boards and columns.
type BoardReader interface {
	GetBoard(ctx context.Context, id types.BoardID) (*models.Board, error)
	ListBoards(ctx context.Context) ([]*models.Board, error)
	GetBoardsByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Board, error)
	GetColumnByStatus(ctx context.Context, boardID types.BoardID, status models.ColumnStatus) (*models.Column, error)
}

// BoardWriter defines write operations for boards.
type BoardWriter interface {
	CreateBoard(ctx context.Context, board *models.Board) error
	SetBoardProject(ctx context.Context, boardID types.BoardID, projectID *types.ProjectID) error
}

// CardReader defines read operations for cards.
type CardReader interface {
	CardExists(ctx context.Context, boardID types.BoardID, taskID types.TaskID) (bool, error)
	GetCardsByTask(ctx context.Context, taskID types.TaskID) ([]*models.Card, error)
	GetCardsByBoard(ctx context.Context, boardID types.BoardID) ([]*models.Card, error)
	CardOrdersByColumn(ctx context.Context, columnID types.ColumnID) ([]int, error)
}

// CardWriter defines write operations for cards.
type CardWriter interface {
	CreateCard(ctx context.Context, card *models.Card) error
	CreateCards(ctx context.Context, cards []*models.Card) error
	MoveCard(ctx context.Context, cardID types.CardID, columnID types.ColumnID, order int) error
}

// BoardRepository combines board, column and card operations.
type BoardRepository interface {
	BoardReader
	BoardWriter
	CardReader
	CardWriter
}
