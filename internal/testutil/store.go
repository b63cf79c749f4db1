package testutil

import (
	"context"
	"sync"

	"github.com/thenoetrevino/taskboard/internal/database"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// Method names FaultyStore can fail
const (
	OpCreateTask           = "CreateTask"
	OpUpdateTask           = "UpdateTask"
	OpCreateActivityEvents = "CreateActivityEvents"
	OpGetBoardsByProject   = "GetBoardsByProject"
	OpCardOrdersByColumn   = "CardOrdersByColumn"
	OpCreateCard           = "CreateCard"
	OpCreateCards          = "CreateCards"
	OpMoveCard             = "MoveCard"
)

type faultSet struct {
	mu     sync.Mutex
	errs   map[string]error
	panics map[string]any
	calls  map[string]int
}

// FaultyStore wraps a real DataStore and injects errors or panics into chosen
// methods. Faults survive WithTx: the transactional store is wrapped too.
type FaultyStore struct {
	database.DataStore
	faults *faultSet
}

// NewFaultyStore wraps inner with no faults configured
func NewFaultyStore(inner database.DataStore) *FaultyStore {
	return &FaultyStore{
		DataStore: inner,
		faults: &faultSet{
			errs:   map[string]error{},
			panics: map[string]any{},
			calls:  map[string]int{},
		},
	}
}

// FailOn makes method return err
func (f *FaultyStore) FailOn(method string, err error) {
	f.faults.mu.Lock()
	defer f.faults.mu.Unlock()
	f.faults.errs[method] = err
}

// PanicOn makes method panic with v
func (f *FaultyStore) PanicOn(method string, v any) {
	f.faults.mu.Lock()
	defer f.faults.mu.Unlock()
	f.faults.panics[method] = v
}

// Heal removes every configured fault
func (f *FaultyStore) Heal() {
	f.faults.mu.Lock()
	defer f.faults.mu.Unlock()
	f.faults.errs = map[string]error{}
	f.faults.panics = map[string]any{}
}

// Calls returns how often method was invoked
func (f *FaultyStore) Calls(method string) int {
	f.faults.mu.Lock()
	defer f.faults.mu.Unlock()
	return f.faults.calls[method]
}

func (f *FaultyStore) fault(method string) error {
	f.faults.mu.Lock()
	f.faults.calls[method]++
	p, shouldPanic := f.faults.panics[method]
	err := f.faults.errs[method]
	f.faults.mu.Unlock()

	if shouldPanic {
		panic(p)
	}
	return err
}

// WithTx wraps the transactional store so faults keep applying inside it
func (f *FaultyStore) WithTx(ctx context.Context, fn func(database.DataStore) error) error {
	return f.DataStore.WithTx(ctx, func(ds database.DataStore) error {
		return fn(&FaultyStore{DataStore: ds, faults: f.faults})
	})
}

func (f *FaultyStore) CreateTask(ctx context.Context, task *models.Task) error {
	if err := f.fault(OpCreateTask); err != nil {
		return err
	}
	return f.DataStore.CreateTask(ctx, task)
}

func (f *FaultyStore) UpdateTask(ctx context.Context, task *models.Task) error {
	if err := f.fault(OpUpdateTask); err != nil {
		return err
	}
	return f.DataStore.UpdateTask(ctx, task)
}

func (f *FaultyStore) CreateActivityEvents(ctx context.Context, events []*models.ActivityEvent) error {
	if err := f.fault(OpCreateActivityEvents); err != nil {
		return err
	}
	return f.DataStore.CreateActivityEvents(ctx, events)
}

func (f *FaultyStore) GetBoardsByProject(ctx context.Context, projectID types.ProjectID) ([]*models.Board, error) {
	if err := f.fault(OpGetBoardsByProject); err != nil {
		return nil, err
	}
	return f.DataStore.GetBoardsByProject(ctx, projectID)
}

func (f *FaultyStore) CardOrdersByColumn(ctx context.Context, columnID types.ColumnID) ([]int, error) {
	if err := f.fault(OpCardOrdersByColumn); err != nil {
		return nil, err
	}
	return f.DataStore.CardOrdersByColumn(ctx, columnID)
}

func (f *FaultyStore) CreateCard(ctx context.Context, card *models.Card) error {
	if err := f.fault(OpCreateCard); err != nil {
		return err
	}
	return f.DataStore.CreateCard(ctx, card)
}

func (f *FaultyStore) CreateCards(ctx context.Context, cards []*models.Card) error {
	if err := f.fault(OpCreateCards); err != nil {
		return err
	}
	return f.DataStore.CreateCards(ctx, cards)
}

func (f *FaultyStore) MoveCard(ctx context.Context, cardID types.CardID, columnID types.ColumnID, order int) error {
	if err := f.fault(OpMoveCard); err != nil {
		return err
	}
	return f.DataStore.MoveCard(ctx, cardID, columnID, order)
}

var _ database.DataStore = (*FaultyStore)(nil)
