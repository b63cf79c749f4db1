package board

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
)

// BoardCmd returns the board parent command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Manage boards",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ShowCmd())
	cmd.AddCommand(ListCmd())
	cmd.AddCommand(LinkCmd())
	cmd.AddCommand(SyncCmd())

	return cmd
}

func closeCLI(c *cli.CLI) {
	if err := c.Close(); err != nil {
		slog.Warn("error closing CLI", "error", err)
	}
}

func openCLI(cmd *cobra.Command, formatter *cli.OutputFormatter) (*cli.CLI, error) {
	cliInstance, err := cli.GetCLIFromContext(cmd.Context())
	if err != nil {
		return nil, formatter.FailInit(err)
	}
	return cliInstance, nil
}
