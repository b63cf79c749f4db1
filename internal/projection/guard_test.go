package projection

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/taskboard/internal/events"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/testutil"
	"github.com/thenoetrevino/taskboard/internal/types"
)

func TestGuardRun_Success(t *testing.T) {
	t.Parallel()
	logger, logs := testutil.CaptureLogs(t)
	pub := testutil.NewRecordingPublisher()
	g := NewGuard(logger, pub, nil)
	project := types.ProjectID(3)

	out := g.Run(context.Background(), OpTaskCreated, Attrs{TaskID: 7, ProjectID: &project},
		func(context.Context) (int, error) { return 2, nil })

	assert.True(t, out.OK())
	assert.Equal(t, 2, out.Affected)
	assert.Equal(t, types.TaskID(7), out.TaskID)
	assert.NotEqual(t, uuid.Nil, out.AttemptID)
	assert.Contains(t, logs.String(), "projection applied")

	changed := pub.OfType(events.EventBoardChanged)
	require.Len(t, changed, 1)
	assert.Equal(t, 7, changed[0].TaskID)
	assert.Equal(t, 3, changed[0].ProjectID)
	assert.Equal(t, out.AttemptID.String(), changed[0].AttemptID)

	snap := g.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.Attempts)
	assert.Equal(t, int64(2), snap.CardsCreated)
	assert.Zero(t, snap.Failures)
	assert.Nil(t, snap.LastFailure)
}

func TestGuardRun_NothingAffectedPublishesNothing(t *testing.T) {
	t.Parallel()
	logger, _ := testutil.CaptureLogs(t)
	pub := testutil.NewRecordingPublisher()
	g := NewGuard(logger, pub, nil)

	out := g.Run(context.Background(), OpTaskStatusChanged, Attrs{TaskID: 1},
		func(context.Context) (int, error) { return 0, nil })

	assert.True(t, out.OK())
	assert.Empty(t, pub.Events())
}

func TestGuardRun_ErrorIsContained(t *testing.T) {
	t.Parallel()
	logger, logs := testutil.CaptureLogs(t)
	pub := testutil.NewRecordingPublisher()
	g := NewGuard(logger, pub, nil)
	boom := errors.New("disk on fire")

	out := g.Run(context.Background(), OpBoardLinked, Attrs{BoardID: 4},
		func(context.Context) (int, error) { return 0, boom })

	assert.False(t, out.OK())
	assert.ErrorIs(t, out.Err, boom)
	assert.Equal(t, types.BoardID(4), out.BoardID)

	text := logs.String()
	assert.Contains(t, text, `msg="projection failed"`)
	assert.Contains(t, text, "op=board_linked")
	assert.Contains(t, text, "attempt_id="+out.AttemptID.String())
	assert.Contains(t, text, "board_id=4")
	assert.Contains(t, text, "disk on fire")

	failed := pub.OfType(events.EventProjectionFailed)
	require.Len(t, failed, 1)
	assert.Equal(t, "disk on fire", failed[0].Detail)
	assert.Equal(t, out.AttemptID.String(), failed[0].AttemptID)
	assert.Empty(t, pub.OfType(events.EventBoardChanged))

	snap := g.Metrics().Snapshot()
	assert.Equal(t, int64(1), snap.Failures)
	assert.Zero(t, snap.Panics)
	assert.NotNil(t, snap.LastFailure)
}

func TestGuardRun_PanicIsRecovered(t *testing.T) {
	t.Parallel()
	logger, logs := testutil.CaptureLogs(t)
	g := NewGuard(logger, nil, nil)

	var out Outcome
	require.NotPanics(t, func() {
		out = g.Run(context.Background(), OpTaskCreated, Attrs{TaskID: 9},
			func(context.Context) (int, error) { panic("nil board") })
	})

	require.Error(t, out.Err)
	assert.Contains(t, out.Err.Error(), "nil board")
	assert.Contains(t, logs.String(), "panicked=true")
	assert.Equal(t, int64(1), g.Metrics().Snapshot().Panics)
}

func TestGuard_AttemptIDsAreUnique(t *testing.T) {
	t.Parallel()
	logger, _ := testutil.CaptureLogs(t)
	g := NewGuard(logger, nil, nil)

	seen := make(map[uuid.UUID]bool)
	for range 20 {
		out := g.Run(context.Background(), OpTaskCreated, Attrs{},
			func(context.Context) (int, error) { return 0, nil })
		assert.False(t, seen[out.AttemptID])
		seen[out.AttemptID] = true
	}
}

// ============================================================================
// BEST-EFFORT ENTRY POINTS
// ============================================================================

func TestAfterTaskCreated_StoreFailureIsLoggedNotReturned(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	board := testutil.CreateTestBoard(t, f.repo, "Main", &f.project.ID)
	task := f.task(t, "Survivor", models.StatusTodo)

	store := testutil.NewFaultyStore(f.repo)
	store.FailOn(testutil.OpCreateCard, assert.AnError)
	logger, logs := testutil.CaptureLogs(t)
	pub := testutil.NewRecordingPublisher()
	s := NewSynchronizer(store, WithLogger(logger), WithPublisher(pub))

	out := s.AfterTaskCreated(ctx, task)
	require.ErrorIs(t, out.Err, assert.AnError)
	assert.Equal(t, OpTaskCreated, out.Op)
	assert.Equal(t, task.ID, out.TaskID)
	assert.Contains(t, logs.String(), "attempt_id="+out.AttemptID.String())
	assert.Contains(t, logs.String(), "task_id="+strconv.Itoa(task.ID.ToInt()))
	assert.Len(t, pub.OfType(events.EventProjectionFailed), 1)

	// task untouched, no card written
	got, err := f.repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Survivor", got.Title)
	assert.Empty(t, testutil.CardsInColumn(t, f.repo, board, models.ColumnTodo))
	assert.Equal(t, int64(1), s.Metrics().Snapshot().Failures)
}

func TestAfterTaskCreated_PanickingStoreIsContained(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	testutil.CreateTestBoard(t, f.repo, "Main", &f.project.ID)
	task := f.task(t, "Crash", models.StatusTodo)

	store := testutil.NewFaultyStore(f.repo)
	store.PanicOn(testutil.OpGetBoardsByProject, "driver exploded")
	logger, _ := testutil.CaptureLogs(t)
	s := NewSynchronizer(store, WithLogger(logger))

	var out Outcome
	require.NotPanics(t, func() { out = s.AfterTaskCreated(context.Background(), task) })
	require.Error(t, out.Err)
	assert.Equal(t, int64(1), s.Metrics().Snapshot().Panics)
}

func TestAfterHooks_UpdateSharedMetrics(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	metrics := NewMetrics()
	logger, _ := testutil.CaptureLogs(t)
	s := NewSynchronizer(f.repo, WithLogger(logger), WithMetrics(metrics))

	early := f.task(t, "Early", models.StatusTodo)
	board := testutil.CreateTestBoard(t, f.repo, "Main", &f.project.ID)
	require.True(t, s.AfterBoardLinked(ctx, board).OK())

	late := f.task(t, "Late", models.StatusTodo)
	require.True(t, s.AfterTaskCreated(ctx, late).OK())
	require.True(t, s.AfterTaskStatusChanged(ctx, early, models.StatusTodo, models.StatusDone).OK())

	snap := metrics.Snapshot()
	assert.Equal(t, int64(3), snap.Attempts)
	assert.Equal(t, int64(1), snap.CardsImported)
	assert.Equal(t, int64(1), snap.CardsCreated)
	assert.Equal(t, int64(1), snap.CardsMoved)
	assert.Same(t, metrics, s.Metrics())
}
