// Package daemon runs the taskboard event hub: a Unix-socket relay that
// accepts change notifications from CLI processes and fans them out to
// subscribed listeners.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thenoetrevino/taskboard/internal/events"
)

// client represents a connection to the hub. Publishers never subscribe and
// therefore never receive broadcasts.
type client struct {
	conn         net.Conn
	send         chan events.Message
	subscription *events.SubscribeMessage
	lastPong     time.Time
	mu           sync.Mutex // Protects subscription and lastPong
	closeOnce    sync.Once  // Ensures send channel is closed only once
}

func (c *client) wants(projectID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subscription == nil {
		return false
	}
	return projectID == 0 || c.subscription.ProjectID == 0 || c.subscription.ProjectID == projectID
}

// Server represents the taskboard event hub
type Server struct {
	socketPath       string
	listener         net.Listener
	clients          map[*client]bool
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	broadcast        chan events.Event
	metrics          *Metrics
	sequenceCounter  atomic.Int64
	clientBufferSize int
	pingInterval     time.Duration
	shutdownOnce     sync.Once
	logger           *slog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithPingInterval sets how often subscribers are pinged. Subscribers silent
// for three intervals are dropped.
func WithPingInterval(d time.Duration) Option {
	return func(s *Server) { s.pingInterval = d }
}

// WithClientBuffer sets the per-client send queue size
func WithClientBuffer(n int) Option {
	return func(s *Server) { s.clientBufferSize = n }
}

// WithLogger sets the hub logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates the hub and binds its socket
func NewServer(socketPath string, opts ...Option) (*Server, error) {
	if dir := filepath.Dir(socketPath); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	// Remove stale socket file if it exists
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		socketPath:       socketPath,
		listener:         listener,
		clients:          make(map[*client]bool),
		ctx:              ctx,
		cancel:           cancel,
		broadcast:        make(chan events.Event, 100),
		metrics:          NewMetrics(),
		clientBufferSize: 10,
		pingInterval:     30 * time.Second,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Metrics exposes the hub counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start runs the hub until ctx is cancelled or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("event hub starting", "socket_path", s.socketPath)

	combinedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		select {
		case <-s.ctx.Done():
			cancel()
		case <-combinedCtx.Done():
		}
	}()

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(combinedCtx)
	}()
	go s.broadcastLoop(combinedCtx)
	go s.monitorHealth(combinedCtx)

	select {
	case <-combinedCtx.Done():
	case err := <-acceptErr:
		if err != nil {
			s.logger.Error("accept loop error", "error", err)
		}
	}

	return s.Shutdown()
}

// acceptLoop accepts incoming client connections
func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// A deadline lets the loop notice cancellation
		if ul, ok := s.listener.(*net.UnixListener); ok {
			if err := ul.SetDeadline(time.Now().Add(time.Second)); err != nil {
				s.logger.Warn("error setting listener deadline", "error", err)
			}
		}

		conn, err := s.listener.Accept()
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.clientBufferSize),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()
		s.updateClientCount()

		go s.handleClient(c)
		go s.clientWriter(c)
	}
}

// broadcastLoop stamps sequence ids and distributes events to subscribers
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-s.broadcast:
			event.SequenceID = s.sequenceCounter.Add(1)
			msg := events.Message{Version: events.ProtocolVersion, Type: "event", Event: &event}

			s.mu.RLock()
			for c := range s.clients {
				if !c.wants(event.ProjectID) {
					continue
				}
				// Non-blocking send - if client is slow, skip
				if !s.sendToClient(c, msg) {
					s.metrics.IncEventsDropped()
					s.logger.Warn("client send queue full, event dropped", "event_type", event.Type)
				}
			}
			s.mu.RUnlock()
		}
	}
}

// handleClient reads messages from a connected client
func (s *Server) handleClient(c *client) {
	defer s.removeClient(c)

	decoder := json.NewDecoder(c.conn)
	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			s.logger.Warn("protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case "event":
			if msg.Event == nil {
				continue
			}
			s.metrics.IncEventsReceived()
			if msg.Event.Type == events.EventProjectionFailed {
				s.metrics.IncProjectionFailures()
				s.logger.Warn("projection failure reported",
					"attempt_id", msg.Event.AttemptID,
					"task_id", msg.Event.TaskID,
					"board_id", msg.Event.BoardID,
					"detail", msg.Event.Detail)
			}
			if err := s.Broadcast(*msg.Event); err != nil {
				s.metrics.IncEventsDropped()
				s.logger.Warn("broadcast channel full")
			}

		case "subscribe":
			if msg.Subscribe != nil {
				sub := *msg.Subscribe
				c.mu.Lock()
				c.subscription = &sub
				c.mu.Unlock()
				s.logger.Debug("client subscribed", "project_id", sub.ProjectID)
			}

		case "pong":
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

// clientWriter sends queued messages to a client
func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)
	for msg := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
			return
		}
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// monitorHealth pings subscribers and drops the ones that stopped answering
func (s *Server) monitorHealth(ctx context.Context) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			s.mu.RLock()
			subscribers := make([]*client, 0, len(s.clients))
			for c := range s.clients {
				if c.wants(0) {
					subscribers = append(subscribers, c)
				}
			}
			s.mu.RUnlock()

			// Collect first, then remove outside the server lock
			now := time.Now()
			ping := events.Message{Version: events.ProtocolVersion, Type: "ping"}
			for _, c := range subscribers {
				c.mu.Lock()
				silent := now.Sub(c.lastPong)
				c.mu.Unlock()

				if silent > 3*s.pingInterval {
					s.logger.Info("removing stale subscriber", "silent_for", silent)
					s.removeClient(c)
					continue
				}
				s.sendToClient(c, ping)
			}
		}
	}
}

// Broadcast queues an event for distribution (non-blocking)
func (s *Server) Broadcast(event events.Event) error {
	select {
	case s.broadcast <- event:
		return nil
	default:
		return fmt.Errorf("broadcast channel full")
	}
}

// Shutdown closes the listener and every client connection and removes the socket file
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		s.logger.Info("event hub shutting down")
		s.cancel()

		if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Warn("error closing listener", "error", err)
		}

		s.mu.Lock()
		for c := range s.clients {
			_ = c.conn.Close()
			c.closeOnce.Do(func() { close(c.send) })
		}
		s.clients = make(map[*client]bool)
		s.mu.Unlock()
		s.updateClientCount()

		if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove socket file", "error", err)
		}
	})
	return nil
}

func (s *Server) clientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() {
	s.metrics.SetConnectedClients(int32(s.clientCount()))
}

// removeClient safely removes a client from the server
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	_ = c.conn.Close()
	c.closeOnce.Do(func() { close(c.send) })
	s.updateClientCount()
}

// sendToClient attempts to queue a message for a client.
// Returns false if the queue is full.
func (s *Server) sendToClient(c *client, msg events.Message) (sent bool) {
	defer func() {
		// send may already be closed by a concurrent removeClient
		if recover() != nil {
			sent = false
		}
	}()
	select {
	case c.send <- msg:
		s.metrics.IncEventsSent()
		return true
	default:
		return false
	}
}
