package events

import "context"

// EventPublisher defines the interface for sending and receiving events.
// Services depend on it rather than on *Client so tests can record events.
type EventPublisher interface {
	// SendEvent queues an event for delivery to the hub
	SendEvent(event Event) error

	// Close flushes queued events and closes the connection
	Close() error
}

// EventListener receives events relayed by the hub
type EventListener interface {
	Connect(ctx context.Context) error
	Subscribe(projectID int) error
	Listen(ctx context.Context) (<-chan Event, error)
	Close() error
}

// Compile-time verification that *Client implements both roles
var (
	_ EventPublisher = (*Client)(nil)
	_ EventListener  = (*Client)(nil)
)
