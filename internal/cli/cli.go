package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/thenoetrevino/taskboard/internal/app"
	"github.com/thenoetrevino/taskboard/internal/cli/styles"
	"github.com/thenoetrevino/taskboard/internal/config"
	"github.com/thenoetrevino/taskboard/internal/database"
	"github.com/thenoetrevino/taskboard/internal/events"
	"github.com/thenoetrevino/taskboard/internal/logging"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/user"
)

// CLI represents the CLI application context
type CLI struct {
	App    *app.App // Application container with services
	Config *config.Config

	closers  []io.Closer // closed in reverse order after the app
	borrowed bool        // App belongs to the caller and is not closed here
}

// NewCLI loads configuration, opens the database and tries to reach the event hub
func NewCLI(ctx context.Context) (*CLI, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewCLIWithConfig(ctx, cfg)
}

// NewCLIWithConfig is NewCLI with an already loaded configuration
func NewCLIWithConfig(ctx context.Context, cfg *config.Config) (*CLI, error) {
	c := &CLI{Config: cfg}

	logCloser, err := logging.Init(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	c.closers = append(c.closers, logCloser)
	logger := slog.Default()

	db, err := database.InitDB(ctx, cfg.Database.Path)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	c.closers = append(c.closers, db)

	opts := []app.Option{
		app.WithLogger(logger),
		app.WithLabels(app.LabelsFromConfig(cfg.Labels, logger)),
	}

	// The hub is optional: without it writes still succeed, nobody is notified
	if cfg.Events.Enabled {
		client := events.NewClient(cfg.Events.Socket)
		if err := client.Connect(ctx); err == nil {
			opts = append(opts, app.WithEventPublisher(client))
		} else {
			hubErr := events.ClassifyHubError(err)
			logger.Warn("failed to connect to event hub", "message", hubErr.Message, "hint", hubErr.Hint)
			logger.Info("continuing without change notifications")
		}
	}

	styles.Init(cfg.ColorScheme)
	c.App = app.New(database.NewRepository(db), opts...)
	return c, nil
}

// Actor resolves the acting user: --actor flag, then the configured default,
// then the OS username. Unknown usernames are registered on first use.
func (c *CLI) Actor(ctx context.Context, flag string) (*models.User, error) {
	configured := ""
	if c.Config != nil {
		configured = c.Config.DefaultActor
	}
	return c.App.DirectoryService.EnsureUser(ctx, user.ResolveActor(flag, configured))
}

// Close cleans up CLI resources
func (c *CLI) Close() error {
	if c.borrowed {
		return nil
	}
	var errs []error
	if c.App != nil {
		errs = append(errs, c.App.Close())
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i].Close())
	}
	return errors.Join(errs...)
}
