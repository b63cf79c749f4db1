package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thenoetrevino/taskboard/internal/models"
)

func TestColumnStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status models.TaskStatus
		want   models.ColumnStatus
	}{
		{models.StatusBacklog, models.ColumnTodo},
		{models.StatusTodo, models.ColumnTodo},
		{models.StatusInProgress, models.ColumnInProgress},
		{models.StatusBlocked, models.ColumnInProgress},
		{models.StatusDone, models.ColumnDone},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, ColumnStatusFor(tt.status))
		})
	}
}

func TestColumnStatusFor_CoversEveryStatus(t *testing.T) {
	t.Parallel()
	for _, s := range models.AllTaskStatuses() {
		got := ColumnStatusFor(s)
		assert.True(t, got.Valid(), "status %s mapped to invalid column %s", s, got)
		assert.NotEqual(t, models.ColumnReview, got, "status %s must not map to REVIEW", s)
	}
}

func TestColumnStatusFor_UnknownPanics(t *testing.T) {
	t.Parallel()
	assert.PanicsWithValue(t, `unknown task status: "ARCHIVED"`, func() {
		ColumnStatusFor(models.TaskStatus("ARCHIVED"))
	})
}
