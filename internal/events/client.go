package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"
)

var (
	// ErrQueueFull is returned by SendEvent when the outbound queue is saturated
	ErrQueueFull = errors.New("event queue full")
	// ErrClientClosed is returned by SendEvent after Close
	ErrClientClosed = errors.New("event client closed")
	// ErrNotConnected is returned when an operation needs an open socket
	ErrNotConnected = errors.New("not connected to event hub")
)

const writeTimeout = 5 * time.Second

// Client is a connection to the taskboard event hub. Publishers queue events
// with SendEvent; a single writer goroutine drains the queue onto the socket.
// Listeners Subscribe and then Listen for relayed events.
type Client struct {
	socketPath string
	conn       net.Conn
	encoder    *json.Encoder
	decoder    *json.Decoder
	mu         sync.Mutex

	queue      chan Event
	closed     bool // Prevent double-close panics
	started    bool
	writerDone chan struct{}

	lastSequence int64
}

// NewClient creates a new event client but does not connect.
// The socket path should be the full path to the Unix domain socket.
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		queue:      make(chan Event, 100),
		writerDone: make(chan struct{}),
	}
}

// Connect dials the hub socket and starts the writer goroutine.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to dial event hub: %w", err)
	}

	c.conn = conn
	c.encoder = json.NewEncoder(conn)
	c.decoder = json.NewDecoder(conn)

	if !c.started {
		c.started = true
		go c.writer()
	}
	return nil
}

// SendEvent queues an event without blocking.
func (c *Client) SendEvent(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientClosed
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	select {
	case c.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

// writer drains the queue until Close closes it
func (c *Client) writer() {
	defer close(c.writerDone)

	for event := range c.queue {
		if err := c.send(Message{Version: ProtocolVersion, Type: "event", Event: &event}); err != nil {
			if !isConnectionError(err) {
				slog.Warn("failed to deliver event", "event_type", event.Type, "error", err)
			}
		}
	}
}

func (c *Client) send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}
	// Set a short write deadline to detect dead connections
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("connection error: %w", err)
	}
	return c.encoder.Encode(msg)
}

// Subscribe asks the hub to relay events for projectID (0 = all projects).
func (c *Client) Subscribe(projectID int) error {
	return c.send(Message{
		Version:   ProtocolVersion,
		Type:      "subscribe",
		Subscribe: &SubscribeMessage{ProjectID: projectID},
	})
}

// Listen reads relayed events until ctx is done or the connection drops.
// The returned channel is closed when reading stops.
func (c *Client) Listen(ctx context.Context) (<-chan Event, error) {
	c.mu.Lock()
	decoder := c.decoder
	c.mu.Unlock()
	if decoder == nil {
		return nil, ErrNotConnected
	}

	out := make(chan Event, 10)
	go func() {
		defer close(out)
		if err := c.readEvents(ctx, decoder, out); err != nil && ctx.Err() == nil && !isConnectionError(err) {
			slog.Debug("event stream ended", "error", err)
		}
	}()
	return out, nil
}

func (c *Client) readEvents(ctx context.Context, decoder *json.Decoder, out chan<- Event) error {
	for {
		var msg Message
		if err := decoder.Decode(&msg); err != nil {
			return fmt.Errorf("failed to decode message: %w", err)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil {
				continue
			}
			// Drop duplicates and stale replays
			if msg.Event.SequenceID != 0 && msg.Event.SequenceID <= c.lastSequence {
				continue
			}
			c.lastSequence = msg.Event.SequenceID
			select {
			case out <- *msg.Event:
			case <-ctx.Done():
				return ctx.Err()
			}

		case "ping":
			if err := c.send(Message{Version: ProtocolVersion, Type: "pong"}); err != nil && !isConnectionError(err) {
				slog.Debug("failed to send pong", "error", err)
			}
		}
	}
}

// isConnectionError checks if an error is a network connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, net.ErrClosed) || errors.Is(err, ErrNotConnected) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset")
}

// Close flushes queued events, then closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.queue)
	started := c.started
	c.mu.Unlock()

	if started {
		<-c.writerDone
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
