package task

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/taskboard/internal/database"
	"github.com/thenoetrevino/taskboard/internal/events"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/projection"
	"github.com/thenoetrevino/taskboard/internal/testutil"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func ptr[T any](v T) *T { return &v }

type env struct {
	repo    *database.Repository
	svc     Service
	pub     *testutil.RecordingPublisher
	logs    *testutil.LogBuffer
	actor   *models.User
	project *models.Project
	board   *models.Board
}

// newEnv wires the service to a real synchronizer over store, which defaults
// to the repository itself
func newEnv(t *testing.T, wrap func(database.DataStore) database.DataStore) *env {
	t.Helper()
	repo := testutil.SetupTestRepo(t)
	var store database.DataStore = repo
	if wrap != nil {
		store = wrap(repo)
	}
	logger, logs := testutil.CaptureLogs(t)
	pub := testutil.NewRecordingPublisher()
	sync := projection.NewSynchronizer(store, projection.WithLogger(logger), projection.WithPublisher(pub))

	e := &env{
		repo:    repo,
		svc:     NewService(store, sync, WithLogger(logger), WithEventPublisher(pub)),
		pub:     pub,
		logs:    logs,
		actor:   testutil.CreateTestUser(t, repo, "alice"),
		project: testutil.CreateTestProject(t, repo, "Apollo"),
	}
	e.board = testutil.CreateTestBoard(t, repo, "Main", &e.project.ID)
	return e
}

func (e *env) create(t *testing.T, title string) *models.Task {
	t.Helper()
	task, err := e.svc.CreateTask(context.Background(), e.actor.ID, models.TaskInput{
		Title:     title,
		ProjectID: &e.project.ID,
	})
	require.NoError(t, err)
	return task
}

func (e *env) setStatus(t *testing.T, task *models.Task, status models.TaskStatus) *models.Task {
	t.Helper()
	got, err := e.svc.UpdateTask(context.Background(), e.actor.ID, task.ID, models.TaskChanges{Status: &status})
	require.NoError(t, err)
	return got
}

func (e *env) activity(t *testing.T, task *models.Task, kind models.ActivityKind) []*models.ActivityEvent {
	t.Helper()
	all, err := e.svc.ListActivity(context.Background(), task.ID)
	require.NoError(t, err)
	var out []*models.ActivityEvent
	for _, ev := range all {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func cardTaskIDs(cards []*models.Card) []types.TaskID {
	out := make([]types.TaskID, len(cards))
	for i, c := range cards {
		out[i] = *c.TaskID
	}
	return out
}

// ============================================================================
// CREATE
// ============================================================================

func TestCreateTask_PlacesCardsInOrder(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)

	t1 := e.create(t, "T1")
	assert.Equal(t, models.StatusBacklog, t1.Status)
	assert.Equal(t, models.DefaultPriority, t1.Priority)
	assert.Nil(t, t1.CompletedAt)

	todo := testutil.CardsInColumn(t, e.repo, e.board, models.ColumnTodo)
	require.Len(t, todo, 1)
	assert.Equal(t, 0, todo[0].Order)

	t2 := e.create(t, "T2")
	todo = testutil.CardsInColumn(t, e.repo, e.board, models.ColumnTodo)
	assert.Equal(t, []types.TaskID{t1.ID, t2.ID}, cardTaskIDs(todo))
	assert.Equal(t, 1, todo[1].Order)

	created := e.activity(t, t1, models.ActivityCreated)
	require.Len(t, created, 1)
	assert.Equal(t, e.actor.ID, created[0].ActorID)

	changed := e.pub.OfType(events.EventTaskChanged)
	require.Len(t, changed, 2)
	assert.Equal(t, e.project.ID.ToInt(), changed[0].ProjectID)
	assert.Len(t, e.pub.OfType(events.EventBoardChanged), 2)
}

func TestCreateTask_WithoutProjectHasNoCards(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)

	task, err := e.svc.CreateTask(context.Background(), e.actor.ID, models.TaskInput{Title: "Loose"})
	require.NoError(t, err)
	assert.Nil(t, task.ProjectID)

	cards, err := e.repo.GetCardsByTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestCreateTask_CardSnapshotsFields(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	bob := testutil.CreateTestUser(t, e.repo, "bob")

	task, err := e.svc.CreateTask(context.Background(), e.actor.ID, models.TaskInput{
		Title:       "  Padded  ",
		Description: "details",
		ProjectID:   &e.project.ID,
		Status:      models.StatusInProgress,
		Priority:    models.PriorityHigh,
		AssigneeIDs: []types.UserID{bob.ID, e.actor.ID, bob.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Padded", task.Title)
	assert.Equal(t, []types.UserID{e.actor.ID, bob.ID}, task.AssigneeIDs)

	cards := testutil.CardsInColumn(t, e.repo, e.board, models.ColumnInProgress)
	require.Len(t, cards, 1)
	assert.Equal(t, "Padded", cards[0].Title)
	assert.Equal(t, "details", cards[0].Description)
	assert.Equal(t, models.PriorityHigh, cards[0].Priority)
	require.NotNil(t, cards[0].AssigneeID)
	assert.Equal(t, e.actor.ID, *cards[0].AssigneeID)
}

func TestCreateTask_Validation(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		actor types.UserID
		in    models.TaskInput
		want  error
	}{
		{"missing actor", 0, models.TaskInput{Title: "x"}, ErrMissingActor},
		{"unknown actor", 999, models.TaskInput{Title: "x"}, ErrActorNotFound},
		{"empty title", e.actor.ID, models.TaskInput{Title: "   "}, ErrEmptyTitle},
		{"long title", e.actor.ID, models.TaskInput{Title: strings.Repeat("a", 256)}, ErrTitleTooLong},
		{"bad status", e.actor.ID, models.TaskInput{Title: "x", Status: "LATER"}, ErrInvalidStatus},
		{"created done", e.actor.ID, models.TaskInput{Title: "x", Status: models.StatusDone}, ErrCreateDone},
		{"bad priority", e.actor.ID, models.TaskInput{Title: "x", Priority: "MEH"}, ErrInvalidPriority},
		{"negative estimate", e.actor.ID, models.TaskInput{Title: "x", EstimatedHours: -1}, ErrNegativeEstimate},
		{"unknown project", e.actor.ID, models.TaskInput{Title: "x", ProjectID: ptr(types.ProjectID(999))}, ErrProjectNotFound},
		{"unknown unit", e.actor.ID, models.TaskInput{Title: "x", UnitID: ptr(types.UnitID(999))}, ErrUnitNotFound},
		{"unknown assignee", e.actor.ID, models.TaskInput{Title: "x", AssigneeIDs: types.UserIDs(999)}, ErrAssigneeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.CreateTask(ctx, tt.actor, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	tasks, err := e.svc.ListTasks(ctx, models.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreateTask_ActivityFailureRollsBack(t *testing.T) {
	t.Parallel()
	var faulty *testutil.FaultyStore
	e := newEnv(t, func(ds database.DataStore) database.DataStore {
		faulty = testutil.NewFaultyStore(ds)
		return faulty
	})
	faulty.FailOn(testutil.OpCreateActivityEvents, assert.AnError)

	_, err := e.svc.CreateTask(context.Background(), e.actor.ID, models.TaskInput{Title: "Ghost", ProjectID: &e.project.ID})
	require.ErrorIs(t, err, assert.AnError)

	tasks, err := e.repo.ListTasks(context.Background(), models.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Empty(t, e.pub.Events())
}

func TestCreateTask_CardStoreFailureDoesNotFailCreate(t *testing.T) {
	t.Parallel()
	var faulty *testutil.FaultyStore
	e := newEnv(t, func(ds database.DataStore) database.DataStore {
		faulty = testutil.NewFaultyStore(ds)
		return faulty
	})
	faulty.FailOn(testutil.OpCreateCard, errors.New("card table locked"))

	task, err := e.svc.CreateTask(context.Background(), e.actor.ID, models.TaskInput{Title: "Resilient", ProjectID: &e.project.ID})
	require.NoError(t, err)
	require.NotZero(t, task.ID)

	stored, err := e.repo.GetTask(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Resilient", stored.Title)
	assert.Len(t, e.activity(t, task, models.ActivityCreated), 1)

	assert.Empty(t, testutil.CardsInColumn(t, e.repo, e.board, models.ColumnTodo))
	logs := e.logs.String()
	assert.Contains(t, logs, `msg="projection failed"`)
	assert.Contains(t, logs, "card table locked")
	assert.Len(t, e.pub.OfType(events.EventProjectionFailed), 1)
	assert.Len(t, e.pub.OfType(events.EventTaskChanged), 1)

	// the documented recovery path places the missing card
	faulty.Heal()
	n, err := projection.NewSynchronizer(e.repo).OnBoardLinkedToProject(context.Background(), e.board)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// ============================================================================
// UPDATE
// ============================================================================

func TestUpdateTask_StatusMovesCard(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	t1 := e.create(t, "T1")

	updated := e.setStatus(t, t1, models.StatusInProgress)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Empty(t, testutil.CardsInColumn(t, e.repo, e.board, models.ColumnTodo))
	inProgress := testutil.CardsInColumn(t, e.repo, e.board, models.ColumnInProgress)
	require.Len(t, inProgress, 1)
	assert.Equal(t, t1.ID, *inProgress[0].TaskID)
	assert.Len(t, e.activity(t, t1, models.ActivityStatusChanged), 1)

	// same status again: no movement, no event
	before := inProgress[0]
	e.setStatus(t, t1, models.StatusInProgress)
	after := testutil.CardsInColumn(t, e.repo, e.board, models.ColumnInProgress)
	require.Len(t, after, 1)
	assert.Equal(t, before.Order, after[0].Order)
	assert.True(t, before.UpdatedAt.Equal(after[0].UpdatedAt))
	assert.Len(t, e.activity(t, t1, models.ActivityStatusChanged), 1)
}

func TestUpdateTask_DoneStampsCompletion(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	t1 := e.create(t, "T1")
	e.setStatus(t, t1, models.StatusInProgress)

	done := e.setStatus(t, t1, models.StatusDone)
	require.NotNil(t, done.CompletedAt)
	assert.Len(t, e.activity(t, t1, models.ActivityStatusChanged), 2)
	assert.Len(t, testutil.CardsInColumn(t, e.repo, e.board, models.ColumnDone), 1)

	stored, err := e.svc.GetTask(context.Background(), t1.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompletedAt)

	reopened := e.setStatus(t, t1, models.StatusTodo)
	assert.Nil(t, reopened.CompletedAt)
	assert.Len(t, testutil.CardsInColumn(t, e.repo, e.board, models.ColumnTodo), 1)
}

func TestUpdateTask_CompletionInvariantHoldsForEveryTransition(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()

	for _, from := range models.AllTaskStatuses() {
		for _, to := range models.AllTaskStatuses() {
			task := e.create(t, string(from)+"->"+string(to))
			task = e.setStatus(t, task, from)
			before := len(e.activity(t, task, models.ActivityStatusChanged))

			got := e.setStatus(t, task, to)
			assert.True(t, got.CompletionConsistent(), "%s -> %s", from, to)

			stored, err := e.svc.GetTask(ctx, task.ID)
			require.NoError(t, err)
			assert.True(t, stored.CompletionConsistent(), "stored %s -> %s", from, to)

			want := 1
			if from == to {
				want = 0
			}
			assert.Len(t, e.activity(t, task, models.ActivityStatusChanged), before+want, "%s -> %s", from, to)
		}
	}
}

func TestUpdateTask_ClockStampsCompletion(t *testing.T) {
	t.Parallel()
	repo := testutil.SetupTestRepo(t)
	actor := testutil.CreateTestUser(t, repo, "alice")
	fixed := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	svc := NewService(repo, nil, WithClock(func() time.Time { return fixed }))

	task, err := svc.CreateTask(context.Background(), actor.ID, models.TaskInput{Title: "Timed"})
	require.NoError(t, err)
	done, err := svc.UpdateTask(context.Background(), actor.ID, task.ID, models.TaskChanges{Status: ptr(models.StatusDone)})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, fixed.Equal(*done.CompletedAt))
}

func TestUpdateTask_NoopWritesNothing(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()
	t1 := e.create(t, "Same")
	stored, err := e.svc.GetTask(ctx, t1.ID)
	require.NoError(t, err)
	published := len(e.pub.Events())

	got, err := e.svc.UpdateTask(ctx, e.actor.ID, t1.ID, models.TaskChanges{
		Title:    ptr("Same"),
		Status:   ptr(models.StatusBacklog),
		Priority: ptr(models.DefaultPriority),
	})
	require.NoError(t, err)
	assert.True(t, stored.UpdatedAt.Equal(got.UpdatedAt))

	all, err := e.svc.ListActivity(ctx, t1.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Len(t, e.pub.Events(), published)
}

func TestUpdateTask_RecordsEveryChangedField(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()
	bob := testutil.CreateTestUser(t, e.repo, "bob")
	unit := testutil.CreateTestUnit(t, e.repo, "Ops")
	other := testutil.CreateTestProject(t, e.repo, "Gemini")
	t1 := e.create(t, "Multi")

	got, err := e.svc.UpdateTask(ctx, e.actor.ID, t1.ID, models.TaskChanges{
		Title:          ptr("Multi v2"),
		Description:    ptr("more"),
		Priority:       ptr(models.PriorityUrgent),
		EstimatedHours: ptr(5),
		Assignees:      &[]types.UserID{bob.ID},
		ProjectID:      &other.ID,
		UnitID:         &unit.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Multi v2", got.Title)
	assert.Equal(t, []types.UserID{bob.ID}, got.AssigneeIDs)
	require.NotNil(t, got.ProjectID)
	assert.Equal(t, other.ID, *got.ProjectID)

	all, err := e.svc.ListActivity(ctx, t1.ID)
	require.NoError(t, err)
	var messages []string
	for _, ev := range all[1:] {
		messages = append(messages, ev.Message)
	}
	assert.Equal(t, []string{
		"changed assignees from (none) to bob",
		"moved to project Gemini",
		"moved to unit Ops",
		"changed priority from MEDIUM to URGENT",
		"changed estimated hours from 0 to 5",
		`renamed from "Multi" to "Multi v2"`,
		"updated description",
	}, messages)
}

func TestUpdateTask_ClearReferences(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()
	t1 := e.create(t, "Unfile")

	got, err := e.svc.UpdateTask(ctx, e.actor.ID, t1.ID, models.TaskChanges{ClearProject: true})
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID)

	removed := e.activity(t, t1, models.ActivityUpdated)
	require.Len(t, removed, 1)
	assert.Equal(t, "removed from project", removed[0].Message)
}

func TestUpdateTask_Validation(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()
	t1 := e.create(t, "Valid")

	tests := []struct {
		name    string
		actor   types.UserID
		id      types.TaskID
		changes models.TaskChanges
		want    error
	}{
		{"bad id", e.actor.ID, 0, models.TaskChanges{}, ErrInvalidTaskID},
		{"missing actor", 0, t1.ID, models.TaskChanges{}, ErrMissingActor},
		{"unknown actor", 999, t1.ID, models.TaskChanges{Title: ptr("x")}, ErrActorNotFound},
		{"missing task", e.actor.ID, 999, models.TaskChanges{Title: ptr("x")}, ErrTaskNotFound},
		{"empty title", e.actor.ID, t1.ID, models.TaskChanges{Title: ptr(" ")}, ErrEmptyTitle},
		{"bad status", e.actor.ID, t1.ID, models.TaskChanges{Status: ptr(models.TaskStatus("NOPE"))}, ErrInvalidStatus},
		{"bad priority", e.actor.ID, t1.ID, models.TaskChanges{Priority: ptr(models.Priority("NOPE"))}, ErrInvalidPriority},
		{"negative estimate", e.actor.ID, t1.ID, models.TaskChanges{EstimatedHours: ptr(-3)}, ErrNegativeEstimate},
		{"set and clear project", e.actor.ID, t1.ID, models.TaskChanges{ProjectID: &e.project.ID, ClearProject: true}, ErrConflictingChange},
		{"set and clear unit", e.actor.ID, t1.ID, models.TaskChanges{UnitID: ptr(types.UnitID(1)), ClearUnit: true}, ErrConflictingChange},
		{"unknown project", e.actor.ID, t1.ID, models.TaskChanges{ProjectID: ptr(types.ProjectID(999))}, ErrProjectNotFound},
		{"unknown assignee", e.actor.ID, t1.ID, models.TaskChanges{Assignees: &[]types.UserID{999}}, ErrAssigneeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.UpdateTask(ctx, tt.actor, tt.id, tt.changes)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	all, err := e.svc.ListActivity(ctx, t1.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateTask_ActivityFailureRollsBackFieldChange(t *testing.T) {
	t.Parallel()
	var faulty *testutil.FaultyStore
	e := newEnv(t, func(ds database.DataStore) database.DataStore {
		faulty = testutil.NewFaultyStore(ds)
		return faulty
	})
	t1 := e.create(t, "Atomic")
	faulty.FailOn(testutil.OpCreateActivityEvents, assert.AnError)

	_, err := e.svc.UpdateTask(context.Background(), e.actor.ID, t1.ID, models.TaskChanges{Status: ptr(models.StatusDone)})
	require.ErrorIs(t, err, assert.AnError)

	stored, err := e.repo.GetTask(context.Background(), t1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusBacklog, stored.Status)
	assert.Nil(t, stored.CompletedAt)
	assert.Len(t, testutil.CardsInColumn(t, e.repo, e.board, models.ColumnTodo), 1)
}

func TestUpdateTask_CardMoveFailureDoesNotFailUpdate(t *testing.T) {
	t.Parallel()
	var faulty *testutil.FaultyStore
	e := newEnv(t, func(ds database.DataStore) database.DataStore {
		faulty = testutil.NewFaultyStore(ds)
		return faulty
	})
	t1 := e.create(t, "Stuck card")
	faulty.FailOn(testutil.OpMoveCard, assert.AnError)

	got := e.setStatus(t, t1, models.StatusBlocked)
	assert.Equal(t, models.StatusBlocked, got.Status)
	assert.Len(t, e.activity(t, t1, models.ActivityStatusChanged), 1)
	assert.Len(t, testutil.CardsInColumn(t, e.repo, e.board, models.ColumnTodo), 1)
	assert.Contains(t, e.logs.String(), "op=task_status_changed")
}

// ============================================================================
// READS
// ============================================================================

func TestListTasks_Filters(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)
	ctx := context.Background()
	t1 := e.create(t, "A")
	e.create(t, "B")
	e.setStatus(t, t1, models.StatusBlocked)

	blocked := models.StatusBlocked
	got, err := e.svc.ListTasks(ctx, models.TaskFilter{Status: &blocked})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, t1.ID, got[0].ID)

	all, err := e.svc.ListTasks(ctx, models.TaskFilter{ProjectID: &e.project.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bad := models.TaskStatus("NOPE")
	_, err = e.svc.ListTasks(ctx, models.TaskFilter{Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetTask_NotFound(t *testing.T) {
	t.Parallel()
	e := newEnv(t, nil)

	_, err := e.svc.GetTask(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrTaskNotFound)
	_, err = e.svc.GetTask(context.Background(), -1)
	assert.ErrorIs(t, err, ErrInvalidTaskID)
	_, err = e.svc.ListActivity(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
