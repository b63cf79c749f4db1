package database

import "context"

// DataStore defines the unified interface for all data operations.
// It is composed of smaller, domain-specific interfaces; consumers can depend
// on the smaller ones (e.g. TaskRepository, BoardRepository) instead.
type DataStore interface {
	TaskRepository
	ActivityRepository
	BoardRepository
	ProjectRepository
	UserRepository

	// WithTx runs fn against a store bound to one transaction. Calling WithTx
	// on a store that is already transactional reuses the open transaction.
	WithTx(ctx context.Context, fn func(DataStore) error) error
}
