package models

import (
	"fmt"
	"strings"
)

// ============================================================================
// TASK STATUS
// ============================================================================

// TaskStatus is the domain status of a task
type TaskStatus string

const (
	StatusBacklog    TaskStatus = "BACKLOG"
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusBlocked    TaskStatus = "BLOCKED"
	StatusDone       TaskStatus = "DONE"
)

// AllTaskStatuses returns every task status in workflow order
func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{StatusBacklog, StatusTodo, StatusInProgress, StatusBlocked, StatusDone}
}

var taskStatusLabels = map[TaskStatus]string{
	StatusBacklog:    "Backlog",
	StatusTodo:       "To Do",
	StatusInProgress: "In Progress",
	StatusBlocked:    "Blocked",
	StatusDone:       "Done",
}

// Valid reports whether s is one of the known statuses
func (s TaskStatus) Valid() bool {
	_, ok := taskStatusLabels[s]
	return ok
}

// Label returns the default English display label
func (s TaskStatus) Label() string {
	if l, ok := taskStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseTaskStatus accepts codes in any case, with '-' or ' ' in place of '_'
func ParseTaskStatus(raw string) (TaskStatus, error) {
	s := TaskStatus(normalizeCode(raw))
	if !s.Valid() {
		return "", fmt.Errorf("invalid status '%s' (must be: backlog, todo, in_progress, blocked, done)", raw)
	}
	return s, nil
}

// ============================================================================
// COLUMN STATUS
// ============================================================================

// ColumnStatus is the fixed visual vocabulary of board columns
type ColumnStatus string

const (
	ColumnTodo       ColumnStatus = "TODO"
	ColumnInProgress ColumnStatus = "IN_PROGRESS"
	ColumnReview     ColumnStatus = "REVIEW"
	ColumnDone       ColumnStatus = "DONE"
)

// AllColumnStatuses returns the column statuses in display order
func AllColumnStatuses() []ColumnStatus {
	return []ColumnStatus{ColumnTodo, ColumnInProgress, ColumnReview, ColumnDone}
}

var columnNames = map[ColumnStatus]string{
	ColumnTodo:       "To Do",
	ColumnInProgress: "In Progress",
	ColumnReview:     "Review",
	ColumnDone:       "Done",
}

// Valid reports whether c is one of the four column statuses
func (c ColumnStatus) Valid() bool {
	_, ok := columnNames[c]
	return ok
}

// DefaultName is the column name used when a board is created
func (c ColumnStatus) DefaultName() string {
	if n, ok := columnNames[c]; ok {
		return n
	}
	return string(c)
}

// ============================================================================
// PRIORITY
// ============================================================================

// Priority of a task
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// DefaultPriority is applied when a task is created without one
const DefaultPriority = PriorityMedium

// AllPriorities returns priorities from lowest to highest
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// Valid reports whether p is a known priority
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ParsePriority accepts priority codes in any case
func ParsePriority(raw string) (Priority, error) {
	p := Priority(normalizeCode(raw))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority '%s' (must be: low, medium, high, urgent)", raw)
	}
	return p, nil
}

// ============================================================================
// LIMITS
// ============================================================================

// MaxTitleLength bounds task, project, board and unit names
const MaxTitleLength = 255

func normalizeCode(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}
