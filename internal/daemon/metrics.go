package daemon

import (
	"sync/atomic"
	"time"
)

// Metrics tracks hub statistics using atomic operations for thread-safety
type Metrics struct {
	EventsSent         atomic.Int64
	EventsReceived     atomic.Int64
	EventsDropped      atomic.Int64
	ProjectionFailures atomic.Int64
	ConnectedClients   atomic.Int32
	StartTime          time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// IncEventsSent increments the events sent counter
func (m *Metrics) IncEventsSent() {
	m.EventsSent.Add(1)
}

// IncEventsReceived increments the events received counter
func (m *Metrics) IncEventsReceived() {
	m.EventsReceived.Add(1)
}

// IncEventsDropped counts events lost to full queues
func (m *Metrics) IncEventsDropped() {
	m.EventsDropped.Add(1)
}

// IncProjectionFailures counts projection_failed reports
func (m *Metrics) IncProjectionFailures() {
	m.ProjectionFailures.Add(1)
}

// SetConnectedClients sets the current connected clients count
func (m *Metrics) SetConnectedClients(count int32) {
	m.ConnectedClients.Store(count)
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	EventsSent         int64     `json:"events_sent"`
	EventsReceived     int64     `json:"events_received"`
	EventsDropped      int64     `json:"events_dropped"`
	ProjectionFailures int64     `json:"projection_failures"`
	ConnectedClients   int32     `json:"connected_clients"`
	StartTime          time.Time `json:"start_time"`
	Uptime             string    `json:"uptime"`
}

// Snapshot returns a snapshot of current metrics
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsSent:         m.EventsSent.Load(),
		EventsReceived:     m.EventsReceived.Load(),
		EventsDropped:      m.EventsDropped.Load(),
		ProjectionFailures: m.ProjectionFailures.Load(),
		ConnectedClients:   m.ConnectedClients.Load(),
		StartTime:          m.StartTime,
		Uptime:             time.Since(m.StartTime).Round(time.Second).String(),
	}
}
