package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// BoardRepo handles boards and their fixed columns.
type BoardRepo struct {
	db DBTX
}

// CreateBoard inserts board together with board.Columns.
// Run it inside WithTx so a board never exists without its columns.
func (r *BoardRepo) CreateBoard(ctx context.Context, board *models.Board) error {
	if board.CreatedAt.IsZero() {
		board.CreatedAt = nowUTC()
	}

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO boards (name, project_id, created_at) VALUES (?, ?, ?)`,
		board.Name, nullIntPtr(board.ProjectID), board.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert board: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get board id: %w", err)
	}
	board.ID = types.BoardID(id)

	for _, col := range board.Columns {
		col.BoardID = board.ID
		result, err := r.db.ExecContext(ctx,
			`INSERT INTO board_columns (board_id, name, status, display_order) VALUES (?, ?, ?, ?)`,
			board.ID.ToInt(), col.Name, string(col.Status), col.DisplayOrder,
		)
		if err != nil {
			return fmt.Errorf("failed to insert %s column for board %d: %w", col.Status, board.ID, err)
		}
		colID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get column id: %w", err)
		}
		col.ID = types.ColumnID(colID)
	}
	return nil
}

// GetBoard returns a board with its columns in display order
func (r *BoardRepo) GetBoard(ctx context.Context, id types.BoardID) (*models.Board, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, project_id, created_at FROM boards WHERE id = ?`, id.ToInt())
	board, err := scanBoard(row)
	if err != nil {
		return nil, notFound(err, "board", id.ToInt())
	}

	board.Columns, err = r.columnsByBoard(ctx, board.ID)
	if err != nil {
		return nil, err
	}
	return board, nil
}

// ListBoards returns every board without columns
func (r *BoardRepo) ListBoards(ctx context.Context) ([]*models.Board, error) {
	return r.queryBoards(ctx, `SELECT id, name, project_id, created_at FROM boards ORDER BY id`)
}

// GetBoardsByProject returns the boards bound to projectID
func (r *BoardRepo) GetBoardsByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Board, error) {
	return r.queryBoards(ctx,
		`SELECT id, name, project_id, created_at FROM boards WHERE project_id = ? ORDER BY id`,
		projectID.ToInt(),
	)
}

// SetBoardProject binds a board to a project, or unbinds it when projectID is nil
func (r *BoardRepo) SetBoardProject(ctx context.Context, boardID types.BoardID, projectID *types.ProjectID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE boards SET project_id = ? WHERE id = ?`,
		nullIntPtr(projectID), boardID.ToInt(),
	)
	if err != nil {
		return fmt.Errorf("failed to update board %d: %w", boardID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("board %d: %w", boardID, ErrNotFound)
	}
	return nil
}

// GetColumnByStatus returns the board's column for status
func (r *BoardRepo) GetColumnByStatus(ctx context.Context, boardID types.BoardID, status models.ColumnStatus) (*models.Column, error) {
	var (
		col            models.Column
		id, bid, order int
		colStatus      string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, board_id, name, status, display_order FROM board_columns WHERE board_id = ? AND status = ?`,
		boardID.ToInt(), string(status),
	).Scan(&id, &bid, &col.Name, &colStatus, &order)
	if err != nil {
		return nil, notFound(err, string(status)+" column of board", boardID.ToInt())
	}
	col.ID = types.ColumnID(id)
	col.BoardID = types.BoardID(bid)
	col.Status = models.ColumnStatus(colStatus)
	col.DisplayOrder = order
	return &col, nil
}

func (r *BoardRepo) columnsByBoard(ctx context.Context, boardID types.BoardID) ([]*models.Column, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, board_id, name, status, display_order FROM board_columns
		 WHERE board_id = ? ORDER BY display_order`,
		boardID.ToInt(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying columns for board: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var columns []*models.Column
	for rows.Next() {
		var (
			col     models.Column
			id, bid int
			status  string
		)
		if err := rows.Scan(&id, &bid, &col.Name, &status, &col.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.ID = types.ColumnID(id)
		col.BoardID = types.BoardID(bid)
		col.Status = models.ColumnStatus(status)
		columns = append(columns, &col)
	}
	return columns, rows.Err()
}

func (r *BoardRepo) queryBoards(ctx context.Context, query string, args ...any) ([]*models.Board, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query boards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var boards []*models.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func scanBoard(s rowScanner) (*models.Board, error) {
	var (
		b         models.Board
		id        int
		projectID sql.NullInt64
	)
	if err := s.Scan(&id, &b.Name, &projectID, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.ID = types.BoardID(id)
	b.ProjectID = ptrFromNullInt[types.ProjectID](projectID)
	return &b, nil
}
