// Package watch streams change notifications from the event hub to the terminal.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
	"github.com/thenoetrevino/taskboard/internal/cli/styles"
	"github.com/thenoetrevino/taskboard/internal/config"
	"github.com/thenoetrevino/taskboard/internal/events"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream task and board changes from the event hub",
		Long: `Connect to the event hub started with 'taskboard daemon' and print every
task_changed, board_changed and projection_failed event as it happens.
A projection_failed line names the board to repair with 'taskboard board sync'.`,
		RunE: runWatch,
	}

	cmd.Flags().Int("project", 0, "Only events for this project (0 = all)")
	cmd.Flags().String("socket", "", "Hub socket path (defaults to config)")
	cmd.Flags().Bool("json", false, "Print one JSON event per line")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	socket, _ := cmd.Flags().GetString("socket")
	if socket == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		socket = cfg.Events.Socket
	}
	projectID, _ := cmd.Flags().GetInt("project")
	asJSON, _ := cmd.Flags().GetBool("json")

	return Stream(ctx, events.NewClient(socket), projectID, cmd.OutOrStdout(), asJSON)
}

// Stream subscribes l to projectID and writes each relayed event to w until
// ctx is done or the hub closes the connection.
func Stream(ctx context.Context, l events.EventListener, projectID int, w io.Writer, asJSON bool) error {
	if err := l.Connect(ctx); err != nil {
		return fmt.Errorf("%w: %v", cli.ErrUsage, events.ClassifyHubError(err))
	}
	defer func() { _ = l.Close() }()

	if err := l.Subscribe(projectID); err != nil {
		return fmt.Errorf("subscribing to project %d: %w", projectID, err)
	}
	ch, err := l.Listen(ctx)
	if err != nil {
		return fmt.Errorf("listening for events: %w", err)
	}

	enc := json.NewEncoder(w)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			if asJSON {
				if err := enc.Encode(ev); err != nil {
					return err
				}
				continue
			}
			fmt.Fprintln(w, FormatEvent(ev))
		}
	}
}

// FormatEvent renders ev as one human-readable line
func FormatEvent(ev events.Event) string {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	line := fmt.Sprintf("%s %-17s", ts.Local().Format("15:04:05"), ev.Type)
	if ev.TaskID != 0 {
		line += fmt.Sprintf(" task=%d", ev.TaskID)
	}
	if ev.BoardID != 0 {
		line += fmt.Sprintf(" board=%d", ev.BoardID)
	}
	if ev.ProjectID != 0 {
		line += fmt.Sprintf(" project=%d", ev.ProjectID)
	}
	if ev.AttemptID != "" {
		line += " attempt=" + ev.AttemptID
	}
	if ev.Detail != "" {
		line += " " + ev.Detail
	}
	if ev.Type == events.EventProjectionFailed {
		return styles.WarningStyle.Render(line)
	}
	return line
}
