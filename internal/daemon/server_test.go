package daemon

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thenoetrevino/taskboard/internal/events"
)

// Test helpers to avoid import cycle with testutil

func setupTestHub(t *testing.T, opts ...Option) (*Server, string) {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "hub.sock")

	server, err := NewServer(socketPath, opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = server.Start(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return server, socketPath
}

func connectRawClient(t *testing.T, socketPath string) (*json.Encoder, *json.Decoder) {
	t.Helper()
	conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return json.NewEncoder(conn), json.NewDecoder(conn)
}

func subscribe(t *testing.T, enc *json.Encoder, projectID int) {
	t.Helper()
	require.NoError(t, enc.Encode(events.Message{
		Version:   events.ProtocolVersion,
		Type:      "subscribe",
		Subscribe: &events.SubscribeMessage{ProjectID: projectID},
	}))
}

func publish(t *testing.T, enc *json.Encoder, ev events.Event) {
	t.Helper()
	require.NoError(t, enc.Encode(events.Message{Version: events.ProtocolVersion, Type: "event", Event: &ev}))
}

// readEvent decodes messages until an event arrives or the deadline passes
func readEvent(t *testing.T, dec *json.Decoder) (events.Event, bool) {
	t.Helper()
	type result struct {
		ev events.Event
		ok bool
	}
	ch := make(chan result, 1)
	go func() {
		for {
			var msg events.Message
			if err := dec.Decode(&msg); err != nil {
				ch <- result{}
				return
			}
			if msg.Type == "event" && msg.Event != nil {
				ch <- result{*msg.Event, true}
				return
			}
		}
	}()
	select {
	case r := <-ch:
		return r.ev, r.ok
	case <-time.After(500 * time.Millisecond):
		return events.Event{}, false
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func TestHub_RelaysToSubscribers(t *testing.T) {
	server, socketPath := setupTestHub(t)

	subEnc, subDec := connectRawClient(t, socketPath)
	subscribe(t, subEnc, 0)
	pubEnc, _ := connectRawClient(t, socketPath)
	waitFor(t, func() bool { return server.Metrics().ConnectedClients.Load() == 2 })

	// Give the hub a moment to process the subscription before publishing
	time.Sleep(50 * time.Millisecond)
	publish(t, pubEnc, events.Event{Type: events.EventTaskChanged, TaskID: 9, ProjectID: 4})

	ev, ok := readEvent(t, subDec)
	require.True(t, ok, "subscriber should receive the event")
	assert.Equal(t, events.EventTaskChanged, ev.Type)
	assert.Equal(t, 9, ev.TaskID)
	assert.Equal(t, int64(1), ev.SequenceID)
	assert.Equal(t, int64(1), server.Metrics().EventsReceived.Load())
}

func TestHub_ProjectFilter(t *testing.T) {
	_, socketPath := setupTestHub(t)

	wantEnc, wantDec := connectRawClient(t, socketPath)
	subscribe(t, wantEnc, 4)
	otherEnc, otherDec := connectRawClient(t, socketPath)
	subscribe(t, otherEnc, 5)
	pubEnc, _ := connectRawClient(t, socketPath)
	time.Sleep(50 * time.Millisecond)

	publish(t, pubEnc, events.Event{Type: events.EventBoardChanged, BoardID: 1, ProjectID: 4})

	_, ok := readEvent(t, wantDec)
	assert.True(t, ok, "project 4 subscriber receives project 4 events")
	_, ok = readEvent(t, otherDec)
	assert.False(t, ok, "project 5 subscriber does not")
}

func TestHub_PublishersDoNotReceive(t *testing.T) {
	_, socketPath := setupTestHub(t)

	pubEnc, pubDec := connectRawClient(t, socketPath)
	time.Sleep(50 * time.Millisecond)
	publish(t, pubEnc, events.Event{Type: events.EventTaskChanged, TaskID: 1})

	_, ok := readEvent(t, pubDec)
	assert.False(t, ok)
}

func TestHub_CountsProjectionFailures(t *testing.T) {
	server, socketPath := setupTestHub(t)

	pubEnc, _ := connectRawClient(t, socketPath)
	publish(t, pubEnc, events.Event{Type: events.EventProjectionFailed, AttemptID: "a1", TaskID: 3})

	waitFor(t, func() bool { return server.Metrics().ProjectionFailures.Load() == 1 })
}

func TestHub_WithEventClient(t *testing.T) {
	_, socketPath := setupTestHub(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := events.NewClient(socketPath)
	require.NoError(t, listener.Connect(ctx))
	defer listener.Close()
	require.NoError(t, listener.Subscribe(0))
	stream, err := listener.Listen(ctx)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	publisher := events.NewClient(socketPath)
	require.NoError(t, publisher.Connect(ctx))
	require.NoError(t, publisher.SendEvent(events.Event{Type: events.EventBoardChanged, BoardID: 2}))
	require.NoError(t, publisher.Close())

	select {
	case ev := <-stream:
		assert.Equal(t, 2, ev.BoardID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for relayed event")
	}
}

func TestHub_DropsSilentSubscribers(t *testing.T) {
	server, socketPath := setupTestHub(t, WithPingInterval(20*time.Millisecond))

	enc, _ := connectRawClient(t, socketPath)
	subscribe(t, enc, 0)
	waitFor(t, func() bool { return server.Metrics().ConnectedClients.Load() == 1 })

	// Never answers pings
	waitFor(t, func() bool { return server.Metrics().ConnectedClients.Load() == 0 })
}

func TestHub_ShutdownRemovesSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "hub.sock")
	server, err := NewServer(socketPath)
	require.NoError(t, err)

	_, err = os.Stat(socketPath)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = server.Start(context.Background())
	}()

	require.NoError(t, server.Shutdown())
	wg.Wait()
	require.NoError(t, server.Shutdown(), "shutdown is idempotent")

	_, err = os.Stat(socketPath)
	assert.True(t, os.IsNotExist(err))
}

func TestNewServer_RemovesStaleSocket(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "hub.sock")
	require.NoError(t, os.WriteFile(socketPath, []byte("stale"), 0o600))

	server, err := NewServer(socketPath)
	require.NoError(t, err)
	require.NoError(t, server.Shutdown())
}
