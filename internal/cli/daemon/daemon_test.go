package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/taskboard/internal/events"
	"github.com/thenoetrevino/taskboard/internal/testutil"
)

func TestRunRelaysEvents(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "hub.sock")
	logger, logs := testutil.CaptureLogs(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, socket, logger) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(socket)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	watcher := events.NewClient(socket)
	require.NoError(t, watcher.Connect(ctx))
	defer func() { _ = watcher.Close() }()
	require.NoError(t, watcher.Subscribe(0))
	received, err := watcher.Listen(ctx)
	require.NoError(t, err)

	publisher := events.NewClient(socket)
	require.NoError(t, publisher.Connect(ctx))

	// Resend until the subscription is registered on the hub side
	var got events.Event
	require.Eventually(t, func() bool {
		_ = publisher.SendEvent(events.Event{Type: events.EventTaskChanged, TaskID: 9})
		select {
		case got = <-received:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)
	assert.Equal(t, events.EventTaskChanged, got.Type)
	assert.Equal(t, 9, got.TaskID)

	require.NoError(t, publisher.Close())
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("hub did not stop")
	}
	assert.Contains(t, logs.String(), "taskboard daemon starting")
}

func TestRunBadSocketDir(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	logger, _ := testutil.CaptureLogs(t)

	err := Run(context.Background(), filepath.Join(file, "hub.sock"), logger)
	assert.Error(t, err)
}
