package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// CardRepo handles the cards placed on boards.
type CardRepo struct {
	db DBTX
}

const cardColumns = `id, board_id, column_id, task_id, title, description, priority, assignee_id,
	card_order, created_at, updated_at`

// CreateCard inserts one card and fills in its ID and timestamps
func (r *CardRepo) CreateCard(ctx context.Context, card *models.Card) error {
	now := nowUTC()
	card.CreatedAt = now
	card.UpdatedAt = now

	result, err := r.db.ExecContext(ctx,
		`INSERT INTO cards (board_id, column_id, task_id, title, description, priority, assignee_id,
			card_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		card.BoardID.ToInt(), card.ColumnID.ToInt(), nullIntPtr(card.TaskID), card.Title, card.Description,
		string(card.Priority), nullIntPtr(card.AssigneeID), card.Order, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert card on board %d: %w", card.BoardID, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get card id: %w", err)
	}
	card.ID = types.CardID(id)
	return nil
}

// CreateCards inserts cards in slice order. Wrap it in WithTx for an all-or-nothing import.
func (r *CardRepo) CreateCards(ctx context.Context, cards []*models.Card) error {
	for _, c := range cards {
		if err := r.CreateCard(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// CardExists reports whether board already holds a card for task
func (r *CardRepo) CardExists(ctx context.Context, boardID types.BoardID, taskID types.TaskID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM cards WHERE board_id = ? AND task_id = ?)`,
		boardID.ToInt(), taskID.ToInt(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check card for task %d on board %d: %w", taskID, boardID, err)
	}
	return exists, nil
}

// GetCardsByTask returns every card referencing task across all boards
func (r *CardRepo) GetCardsByTask(ctx context.Context, taskID types.TaskID) ([]*models.Card, error) {
	return r.queryCards(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE task_id = ? ORDER BY id`,
		taskID.ToInt(),
	)
}

// GetCardsByBoard returns a board's cards ordered by column then position
func (r *CardRepo) GetCardsByBoard(ctx context.Context, boardID types.BoardID) ([]*models.Card, error) {
	return r.queryCards(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE board_id = ? ORDER BY column_id, card_order, id`,
		boardID.ToInt(),
	)
}

// CardOrdersByColumn reads the current orders of a column straight from storage
func (r *CardRepo) CardOrdersByColumn(ctx context.Context, columnID types.ColumnID) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT card_order FROM cards WHERE column_id = ? ORDER BY card_order`,
		columnID.ToInt(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders for column %d: %w", columnID, err)
	}
	defer func() { _ = rows.Close() }()

	orders := []int{}
	for rows.Next() {
		var o int
		if err := rows.Scan(&o); err != nil {
			return nil, fmt.Errorf("failed to scan card order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// MoveCard rewrites a card's column and order
func (r *CardRepo) MoveCard(ctx context.Context, cardID types.CardID, columnID types.ColumnID, order int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE cards SET column_id = ?, card_order = ?, updated_at = ? WHERE id = ?`,
		columnID.ToInt(), order, nowUTC(), cardID.ToInt(),
	)
	if err != nil {
		return fmt.Errorf("failed to move card %d: %w", cardID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("card %d: %w", cardID, ErrNotFound)
	}
	return nil
}

func (r *CardRepo) queryCards(ctx context.Context, query string, args ...any) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*models.Card
	for rows.Next() {
		var (
			c                  models.Card
			id, boardID, colID int
			taskID, assigneeID sql.NullInt64
			description        sql.NullString
			priority           string
		)
		if err := rows.Scan(&id, &boardID, &colID, &taskID, &c.Title, &description, &priority,
			&assigneeID, &c.Order, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		c.ID = types.CardID(id)
		c.BoardID = types.BoardID(boardID)
		c.ColumnID = types.ColumnID(colID)
		c.TaskID = ptrFromNullInt[types.TaskID](taskID)
		c.AssigneeID = ptrFromNullInt[types.UserID](assigneeID)
		c.Description = nullStringToString(description)
		c.Priority = models.Priority(priority)
		cards = append(cards, &c)
	}
	return cards, rows.Err()
}
