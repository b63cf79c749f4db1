package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	clidaemon "github.com/thenoetrevino/taskboard/internal/cli/daemon"
	"github.com/thenoetrevino/taskboard/internal/config"
	"github.com/thenoetrevino/taskboard/internal/logging"
)

// Standalone hub binary for service managers (systemd, launchd). It runs the
// same hub as 'taskboard daemon'.
func main() {
	// Set up signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	closer, err := logging.Init(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		slog.Error("failed to initialize logging", "error", err)
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	if err := clidaemon.Run(ctx, cfg.Events.Socket, slog.Default()); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}
}
