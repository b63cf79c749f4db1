package projection

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/taskboard/internal/database"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/testutil"
)

type fixture struct {
	repo    *database.Repository
	actor   *models.User
	project *models.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := testutil.SetupTestRepo(t)
	return &fixture{
		repo:    repo,
		actor:   testutil.CreateTestUser(t, repo, "alice"),
		project: testutil.CreateTestProject(t, repo, "Apollo"),
	}
}

func (f *fixture) task(t *testing.T, title string, status models.TaskStatus) *models.Task {
	t.Helper()
	return testutil.CreateTestTask(t, f.repo, title, status, &f.project.ID, f.actor.ID)
}

func orders(cards []*models.Card) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = c.Order
	}
	return out
}

// ============================================================================
// TASK CREATED
// ============================================================================

func TestOnTaskCreated_PlacesCardInMappedColumn(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	board := testutil.CreateTestBoard(t, f.repo, "Main", &f.project.ID)
	s := NewSynchronizer(f.repo)

	t1 := f.task(t, "T1", models.StatusBacklog)
	n, err := s.OnTaskCreated(ctx, t1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cards := testutil.CardsInColumn(t, f.repo, board, models.ColumnTodo)
	require.Len(t, cards, 1)
	assert.Equal(t, 0, cards[0].Order)
	require.NotNil(t, cards[0].TaskID)
	assert.Equal(t, t1.ID, *cards[0].TaskID)
	assert.Equal(t, "T1", cards[0].Title)
	assert.Equal(t, models.DefaultPriority, cards[0].Priority)

	t2 := f.task(t, "T2", models.StatusTodo)
	_, err = s.OnTaskCreated(ctx, t2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, orders(testutil.CardsInColumn(t, f.repo, board, models.ColumnTodo)))

	done := f.task(t, "Shipped", models.StatusDone)
	_, err = s.OnTaskCreated(ctx, done)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, orders(testutil.CardsInColumn(t, f.repo, board, models.ColumnDone)))
}

func TestOnTaskCreated_Idempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	board := testutil.CreateTestBoard(t, f.repo, "Main", &f.project.ID)
	s := NewSynchronizer(f.repo)

	task := f.task(t, "Once", models.StatusTodo)
	n, err := s.OnTaskCreated(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.OnTaskCreated(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	cards, err := f.repo.GetCardsByBoard(ctx, board.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestOnTaskCreated_EveryBoardOfProject(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	b1 := testutil.CreateTestBoard(t, f.repo, "One", &f.project.ID)
	b2 := testutil.CreateTestBoard(t, f.repo, "Two", &f.project.ID)
	other := testutil.CreateTestProject(t, f.repo, "Gemini")
	unrelated := testutil.CreateTestBoard(t, f.repo, "Other", &other.ID)
	unbound := testutil.CreateTestBoard(t, f.repo, "Loose", nil)

	task := f.task(t, "Spread", models.StatusInProgress)
	n, err := NewSynchronizer(f.repo).OnTaskCreated(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Len(t, testutil.CardsInColumn(t, f.repo, b1, models.ColumnInProgress), 1)
	assert.Len(t, testutil.CardsInColumn(t, f.repo, b2, models.ColumnInProgress), 1)
	for _, b := range []*models.Board{unrelated, unbound} {
		cards, err := f.repo.GetCardsByBoard(ctx, b.ID)
		require.NoError(t, err)
		assert.Empty(t, cards)
	}
}

func TestOnTaskCreated_NoProjectIsNoop(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	testutil.CreateTestBoard(t, f.repo, "Main", &f.project.ID)
	task := testutil.CreateTestTask(t, f.repo, "Orphan", models.StatusTodo, nil, f.actor.ID)

	n, err := NewSynchronizer(f.repo).OnTaskCreated(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOnTaskCreated_ConcurrentOrdersAreDistinct(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	board := testutil.CreateTestBoard(t, f.repo, "Main", &f.project.ID)
	s := NewSynchronizer(f.repo)

	const n = 8
	tasks := make([]*models.Task, n)
	for i := range tasks {
		tasks[i] = f.task(t, "Task", models.StatusTodo)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.OnTaskCreated(ctx, task)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	got := orders(testutil.CardsInColumn(t, f.repo, board, models.ColumnTodo))
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, got)
}

// ============================================================================
// STATUS CHANGED
// ============================================================================

func TestOnTaskStatusChanged_MovesCardToEnd(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	board := testutil.CreateTestBoard(t, f.repo, "Main", &f.project.ID)
	s := NewSynchronizer(f.repo)

	busy := f.task(t, "Busy", models.StatusInProgress)
	moving := f.task(t, "Moving", models.StatusTodo)
	for _, task := range []*models.Task{busy, moving} {
		_, err := s.OnTaskCreated(ctx, task)
		require.NoError(t, err)
	}

	n, err := s.OnTaskStatusChanged(ctx, moving, models.StatusTodo, models.StatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Empty(t, testutil.CardsInColumn(t, f.repo, board, models.ColumnTodo))
	inProgress := testutil.CardsInColumn(t, f.repo, board, models.ColumnInProgress)
	require.Len(t, inProgress, 2)
	assert.Equal(t, busy.ID, *inProgress[0].TaskID)
	assert.Equal(t, moving.ID, *inProgress[1].TaskID)
	assert.Equal(t, []int{0, 1}, orders(inProgress))
}

func TestOnTaskStatusChanged_SameColumnDoesNotMove(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	board := testutil.CreateTestBoard(t, f.repo, "Main", &f.project.ID)
	s := NewSynchronizer(f.repo)

	task := f.task(t, "Steady", models.StatusBacklog)
	_, err := s.OnTaskCreated(ctx, task)
	require.NoError(t, err)
	before := testutil.CardsInColumn(t, f.repo, board, models.ColumnTodo)

	n, err := s.OnTaskStatusChanged(ctx, task, models.StatusBacklog, models.StatusBacklog)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// BACKLOG and TODO share a column
	n, err = s.OnTaskStatusChanged(ctx, task, models.StatusBacklog, models.StatusTodo)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	after := testutil.CardsInColumn(t, f.repo, board, models.ColumnTodo)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].Order, after[0].Order)
	assert.True(t, before[0].UpdatedAt.Equal(after[0].UpdatedAt))
}

func TestOnTaskStatusChanged_NoCardsIsNoop(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	task := f.task(t, "Unseen", models.StatusTodo)

	n, err := NewSynchronizer(f.repo).OnTaskStatusChanged(context.Background(), task, models.StatusTodo, models.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// ============================================================================
// BOARD LINKED
// ============================================================================

func TestOnBoardLinkedToProject_ImportsInTaskOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	t1 := f.task(t, "T1", models.StatusBacklog)
	t2 := f.task(t, "T2", models.StatusTodo)
	t3 := f.task(t, "T3", models.StatusBlocked)
	t4 := f.task(t, "T4", models.StatusDone)

	board := testutil.CreateTestBoard(t, f.repo, "Late", &f.project.ID)
	n, err := NewSynchronizer(f.repo).OnBoardLinkedToProject(ctx, board)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	todo := testutil.CardsInColumn(t, f.repo, board, models.ColumnTodo)
	require.Len(t, todo, 2)
	assert.Equal(t, t1.ID, *todo[0].TaskID)
	assert.Equal(t, t2.ID, *todo[1].TaskID)
	assert.Equal(t, []int{0, 1}, orders(todo))

	inProgress := testutil.CardsInColumn(t, f.repo, board, models.ColumnInProgress)
	require.Len(t, inProgress, 1)
	assert.Equal(t, t3.ID, *inProgress[0].TaskID)

	done := testutil.CardsInColumn(t, f.repo, board, models.ColumnDone)
	require.Len(t, done, 1)
	assert.Equal(t, t4.ID, *done[0].TaskID)

	assert.Empty(t, testutil.CardsInColumn(t, f.repo, board, models.ColumnReview))
}

func TestOnBoardLinkedToProject_AppendsAfterExistingCards(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	board := testutil.CreateTestBoard(t, f.repo, "Main", &f.project.ID)
	s := NewSynchronizer(f.repo)

	t1 := f.task(t, "T1", models.StatusTodo)
	_, err := s.OnTaskCreated(ctx, t1)
	require.NoError(t, err)
	t2 := f.task(t, "T2", models.StatusTodo)

	n, err := s.OnBoardLinkedToProject(ctx, board)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	todo := testutil.CardsInColumn(t, f.repo, board, models.ColumnTodo)
	require.Len(t, todo, 2)
	assert.Equal(t, t2.ID, *todo[1].TaskID)
	assert.Equal(t, []int{0, 1}, orders(todo))

	n, err = s.OnBoardLinkedToProject(ctx, board)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOnBoardLinkedToProject_UnboundBoardIsNoop(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.task(t, "T1", models.StatusTodo)
	board := testutil.CreateTestBoard(t, f.repo, "Loose", nil)

	n, err := NewSynchronizer(f.repo).OnBoardLinkedToProject(context.Background(), board)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOnBoardLinkedToProject_FailureWritesNothing(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	f.task(t, "T1", models.StatusTodo)
	f.task(t, "T2", models.StatusDone)
	board := testutil.CreateTestBoard(t, f.repo, "Main", &f.project.ID)

	store := testutil.NewFaultyStore(f.repo)
	store.FailOn(testutil.OpCreateCards, assert.AnError)

	_, err := NewSynchronizer(store).OnBoardLinkedToProject(ctx, board)
	require.ErrorIs(t, err, assert.AnError)

	cards, err := f.repo.GetCardsByBoard(ctx, board.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestOnTaskCreated_FailingBoardDoesNotStopOthers(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	testutil.CreateTestBoard(t, f.repo, "One", &f.project.ID)
	testutil.CreateTestBoard(t, f.repo, "Two", &f.project.ID)
	task := f.task(t, "Flaky", models.StatusTodo)

	store := testutil.NewFaultyStore(f.repo)
	store.FailOn(testutil.OpCardOrdersByColumn, assert.AnError)

	n, err := NewSynchronizer(store).OnTaskCreated(ctx, task)
	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, n)
	assert.Equal(t, 2, store.Calls(testutil.OpCardOrdersByColumn), "second board must still be attempted")

	store.Heal()
	n, err = NewSynchronizer(store).OnTaskCreated(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
