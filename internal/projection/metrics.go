package projection

import (
	"sync/atomic"
	"time"
)

// Metrics tracks projection attempts and their effect using atomic counters
type Metrics struct {
	Attempts      atomic.Int64
	Failures      atomic.Int64
	Panics        atomic.Int64
	CardsCreated  atomic.Int64
	CardsMoved    atomic.Int64
	CardsImported atomic.Int64
	LastFailure   atomic.Int64 // unix nanos, 0 when nothing failed yet
}

// NewMetrics creates a zeroed Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) record(op Operation, affected int) {
	switch op {
	case OpTaskCreated:
		m.CardsCreated.Add(int64(affected))
	case OpTaskStatusChanged:
		m.CardsMoved.Add(int64(affected))
	case OpBoardLinked:
		m.CardsImported.Add(int64(affected))
	}
}

func (m *Metrics) fail(panicked bool) {
	m.Failures.Add(1)
	if panicked {
		m.Panics.Add(1)
	}
	m.LastFailure.Store(time.Now().UnixNano())
}

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	Attempts      int64      `json:"attempts"`
	Failures      int64      `json:"failures"`
	Panics        int64      `json:"panics"`
	CardsCreated  int64      `json:"cards_created"`
	CardsMoved    int64      `json:"cards_moved"`
	CardsImported int64      `json:"cards_imported"`
	LastFailure   *time.Time `json:"last_failure,omitempty"`
}

// Snapshot returns the current counter values
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Attempts:      m.Attempts.Load(),
		Failures:      m.Failures.Load(),
		Panics:        m.Panics.Load(),
		CardsCreated:  m.CardsCreated.Load(),
		CardsMoved:    m.CardsMoved.Load(),
		CardsImported: m.CardsImported.Load(),
	}
	if ns := m.LastFailure.Load(); ns != 0 {
		t := time.Unix(0, ns)
		snap.LastFailure = &t
	}
	return snap
}
