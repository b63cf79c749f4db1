package projection

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/thenoetrevino/taskboard/internal/events"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// Operation names a projection entry point
type Operation string

const (
	OpTaskCreated       Operation = "task_created"
	OpTaskStatusChanged Operation = "task_status_changed"
	OpBoardLinked       Operation = "board_linked"
)

// Attrs identifies what a projection attempt was working on.
// Zero ids are left out of logs and events.
type Attrs struct {
	TaskID    types.TaskID
	BoardID   types.BoardID
	ProjectID *types.ProjectID
}

// Outcome is the result of one best-effort projection attempt. It is the only
// place a projection failure surfaces; the mutation that triggered it has
// already committed.
type Outcome struct {
	Op        Operation
	AttemptID uuid.UUID
	TaskID    types.TaskID
	BoardID   types.BoardID
	Affected  int
	Err       error
}

// OK reports whether the attempt completed
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Guard runs projection work so that neither errors nor panics escape.
// Failures are logged, counted and reported as projection_failed events.
type Guard struct {
	logger    *slog.Logger
	publisher events.EventPublisher
	metrics   *Metrics
}

// NewGuard creates a guard. A nil logger uses slog.Default, a nil publisher
// disables events and nil metrics allocates fresh counters.
func NewGuard(logger *slog.Logger, publisher events.EventPublisher, metrics *Metrics) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Guard{logger: logger, publisher: publisher, metrics: metrics}
}

// Metrics returns the counters the guard updates
func (g *Guard) Metrics() *Metrics {
	return g.metrics
}

// Run executes fn and converts whatever happens into an Outcome.
func (g *Guard) Run(ctx context.Context, op Operation, attrs Attrs, fn func(context.Context) (int, error)) Outcome {
	out := Outcome{
		Op:        op,
		AttemptID: uuid.New(),
		TaskID:    attrs.TaskID,
		BoardID:   attrs.BoardID,
	}
	g.metrics.Attempts.Add(1)

	affected, panicked, err := call(ctx, fn)
	out.Affected = affected
	out.Err = err

	logAttrs := []any{"op", string(op), "attempt_id", out.AttemptID.String()}
	if attrs.TaskID != 0 {
		logAttrs = append(logAttrs, "task_id", attrs.TaskID.ToInt())
	}
	if attrs.BoardID != 0 {
		logAttrs = append(logAttrs, "board_id", attrs.BoardID.ToInt())
	}
	if attrs.ProjectID != nil {
		logAttrs = append(logAttrs, "project_id", attrs.ProjectID.ToInt())
	}

	event := events.Event{
		TaskID:    attrs.TaskID.ToInt(),
		BoardID:   attrs.BoardID.ToInt(),
		AttemptID: out.AttemptID.String(),
	}
	if attrs.ProjectID != nil {
		event.ProjectID = attrs.ProjectID.ToInt()
	}

	if err != nil {
		g.metrics.fail(panicked)
		g.logger.ErrorContext(ctx, "projection failed", append(logAttrs, "panicked", panicked, "error", err)...)

		event.Type = events.EventProjectionFailed
		event.Detail = err.Error()
		_ = events.PublishWithRetry(g.publisher, event, 3)
		return out
	}

	g.metrics.record(op, affected)
	g.logger.DebugContext(ctx, "projection applied", append(logAttrs, "affected", affected)...)

	if affected > 0 {
		event.Type = events.EventBoardChanged
		_ = events.PublishWithRetry(g.publisher, event, 3)
	}
	return out
}

func call(ctx context.Context, fn func(context.Context) (int, error)) (affected int, panicked bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			affected, panicked, err = 0, true, fmt.Errorf("projection panicked: %v", r)
		}
	}()
	affected, err = fn(ctx)
	return affected, false, err
}
