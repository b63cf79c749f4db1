package testutil

import (
	"sync"

	"github.com/thenoetrevino/taskboard/internal/events"
)

// RecordingPublisher is an events.EventPublisher that keeps every event.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	closed bool
}

// NewRecordingPublisher creates an empty recorder
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// SendEvent records the event
func (p *RecordingPublisher) SendEvent(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Close marks the recorder closed
func (p *RecordingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Events returns a copy of everything recorded so far
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.events...)
}

// OfType returns the recorded events of type t
func (p *RecordingPublisher) OfType(t events.EventType) []events.Event {
	var out []events.Event
	for _, e := range p.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Closed reports whether Close was called
func (p *RecordingPublisher) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
