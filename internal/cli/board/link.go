package board

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// LinkCmd returns the board link subcommand
func LinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <board-id>",
		Short: "Link a board to a project and import its tasks",
		Long: `Link a board to a project. Tasks of the project that have no card on the
board yet are imported into the column matching their status. Cards from a
previously linked project stay where they are.`,
		Args: cobra.ExactArgs(1),
		RunE: runLink,
	}

	cmd.Flags().Int("project", 0, "Project ID (required)")
	if err := cmd.MarkFlagRequired("project"); err != nil {
		slog.Error("error marking flag as required", "error", err)
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runLink(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	boardID, err := cli.ParseIDArg(args[0], "board")
	if err != nil {
		return formatter.Fail(err)
	}
	projectID, _ := cmd.Flags().GetInt("project")

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)

	board, err := cliInstance.App.BoardService.LinkBoardToProject(ctx, types.BoardID(boardID), types.ProjectID(projectID))
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		formatter.IDs(board.ID.ToInt())
		return nil
	}
	if formatter.JSON {
		return formatter.Success("board", cli.NewBoardJSON(board, nil))
	}

	fmt.Fprintf(formatter.Out(), "✓ Board %d linked to project %d\n", board.ID, projectID)
	return nil
}
