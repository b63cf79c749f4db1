// Package daemon wires the event hub into the CLI as 'taskboard daemon'.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/config"
	eventhub "github.com/thenoetrevino/taskboard/internal/daemon"
	"github.com/thenoetrevino/taskboard/internal/logging"
)

// DaemonCmd returns the daemon command
func DaemonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the event hub that relays change notifications",
		Long: `Run the event hub on a Unix socket. CLI processes publish task_changed,
board_changed and projection_failed events to it, and 'taskboard watch'
subscribes to them. Set events.enabled in the config (or TASKBOARD_SOCKET)
so writers connect.`,
		RunE: runDaemon,
	}

	cmd.Flags().String("socket", "", "Socket path (defaults to config)")

	return cmd
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if socket, _ := cmd.Flags().GetString("socket"); socket != "" {
		cfg.Events.Socket = socket
	}

	closer, err := logging.Init(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	return Run(ctx, cfg.Events.Socket, slog.Default())
}

// Run starts the hub on socketPath and blocks until ctx is cancelled
func Run(ctx context.Context, socketPath string, logger *slog.Logger) error {
	server, err := eventhub.NewServer(socketPath, eventhub.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create event hub: %w", err)
	}

	logger.Info("taskboard daemon starting", "socket_path", socketPath, "pid", os.Getpid())
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("event hub stopped: %w", err)
	}
	logger.Info("taskboard daemon shutting down gracefully")
	return nil
}
