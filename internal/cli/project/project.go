package project

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// ProjectCmd returns the project parent command
func ProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())

	return cmd
}

func logCloseError(err error) {
	if err != nil {
		slog.Warn("error closing CLI", "error", err)
	}
}
