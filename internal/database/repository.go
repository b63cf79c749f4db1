package database

import (
	"context"
	"database/sql"
)

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*TaskRepo
	*ActivityRepo
	*BoardRepo
	*CardRepo
	*ProjectRepo
	*UserRepo

	conn *sql.DB // nil when bound to a transaction
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	r := newRepository(db)
	r.conn = db
	return r
}

func newRepository(q DBTX) *Repository {
	return &Repository{
		TaskRepo:     &TaskRepo{db: q},
		ActivityRepo: &ActivityRepo{db: q},
		BoardRepo:    &BoardRepo{db: q},
		CardRepo:     &CardRepo{db: q},
		ProjectRepo:  &ProjectRepo{db: q},
		UserRepo:     &UserRepo{db: q},
	}
}

// WithTx runs fn inside a transaction. Every repository method reached through
// the DataStore handed to fn uses that transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(DataStore) error) error {
	if r.conn == nil {
		return fn(r)
	}
	return withTx(ctx, r.conn, func(tx *sql.Tx) error {
		return fn(newRepository(tx))
	})
}

var _ DataStore = (*Repository)(nil)
