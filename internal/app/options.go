package app

import (
	"log/slog"

	"github.com/thenoetrevino/taskboard/internal/activity"
	"github.com/thenoetrevino/taskboard/internal/events"
	"github.com/thenoetrevino/taskboard/internal/projection"
)

// Option is a functional option for configuring App initialization
type Option func(*appConfig)

// appConfig holds the configuration for App initialization
type appConfig struct {
	eventClient events.EventPublisher
	logger      *slog.Logger
	labels      activity.Labels
	metrics     *projection.Metrics
}

// WithEventPublisher sets the event publisher for the application
func WithEventPublisher(ec events.EventPublisher) Option {
	return func(cfg *appConfig) {
		cfg.eventClient = ec
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *appConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithLabels sets the labels used in activity messages
func WithLabels(labels activity.Labels) Option {
	return func(cfg *appConfig) {
		cfg.labels = labels
	}
}

// WithProjectionMetrics shares projection counters with the caller
func WithProjectionMetrics(m *projection.Metrics) Option {
	return func(cfg *appConfig) {
		cfg.metrics = m
	}
}
