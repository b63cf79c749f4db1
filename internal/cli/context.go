package cli

import (
	"context"

	"github.com/thenoetrevino/taskboard/internal/app"
	"github.com/thenoetrevino/taskboard/internal/config"
)

type contextKey string

const appKey contextKey = "app"

// WithApp returns a context carrying a, which GetCLIFromContext will use
// instead of opening the configured database
func WithApp(ctx context.Context, a *app.App) context.Context {
	return context.WithValue(ctx, appKey, a)
}

// GetCLIFromContext returns a CLI bound to the App carried by ctx, or opens a new one
func GetCLIFromContext(ctx context.Context) (*CLI, error) {
	if a, ok := ctx.Value(appKey).(*app.App); ok && a != nil {
		return &CLI{App: a, Config: config.Default(), borrowed: true}, nil
	}
	return NewCLI(ctx)
}
