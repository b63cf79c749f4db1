package events

import "time"

// ProtocolVersion is stamped on every wire message
const ProtocolVersion = 1

// EventType indicates what kind of change occurred
type EventType string

const (
	// EventTaskChanged follows a committed task create or update
	EventTaskChanged EventType = "task_changed"
	// EventBoardChanged follows a projection run that touched a board
	EventBoardChanged EventType = "board_changed"
	// EventProjectionFailed reports a swallowed projection failure
	EventProjectionFailed EventType = "projection_failed"

	EventPing EventType = "ping"
	EventPong EventType = "pong"
)

// Event is a change notification. Zero-valued ids are omitted on the wire.
type Event struct {
	Type       EventType `json:"type"`
	TaskID     int       `json:"task_id,omitempty"`
	BoardID    int       `json:"board_id,omitempty"`
	ProjectID  int       `json:"project_id,omitempty"` // For filtering - which project was affected
	AttemptID  string    `json:"attempt_id,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	SequenceID int64     `json:"sequence_id,omitempty"` // Assigned by the hub, monotonically increasing
}

// SubscribeMessage is sent by listeners to receive events
type SubscribeMessage struct {
	ProjectID int `json:"project_id"` // 0 = all projects, >0 = specific project
}

// Message wraps events and control messages for the wire protocol
type Message struct {
	Version   int               `json:"version"`
	Type      string            `json:"type"` // "event", "subscribe", "ping", "pong"
	Event     *Event            `json:"event,omitempty"`
	Subscribe *SubscribeMessage `json:"subscribe,omitempty"`
}
