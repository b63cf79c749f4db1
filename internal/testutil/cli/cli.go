// Package cli holds helpers for CLI command tests. It is separate from
// testutil so service tests can import testutil without pulling in the app.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/app"
	clipkg "github.com/thenoetrevino/taskboard/internal/cli"
	"github.com/thenoetrevino/taskboard/internal/database"
	"github.com/thenoetrevino/taskboard/internal/testutil"
)

// SetupCLITest creates an in-memory repository and an App over it.
// EventPublisher is nil; event publishing is tested in the service packages.
func SetupCLITest(t *testing.T) (*database.Repository, *app.App) {
	t.Helper()
	repo := testutil.SetupTestRepo(t)
	logger, _ := testutil.CaptureLogs(t)
	return repo, app.New(repo, app.WithLogger(logger))
}

// Result is what a command wrote
type Result struct {
	Stdout string
	Stderr string
}

// ExecuteCLICommand runs cmd with args against testApp and captures its output
func ExecuteCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args ...string) (Result, error) {
	t.Helper()
	return ExecuteCLICommandWithInput(t, testApp, cmd, nil, args...)
}

// ExecuteCLICommandWithInput is ExecuteCLICommand with stdin
func ExecuteCLICommandWithInput(t *testing.T, testApp *app.App, cmd *cobra.Command, stdin io.Reader, args ...string) (Result, error) {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(clipkg.WithApp(context.Background(), testApp))
	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, err
}

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}
