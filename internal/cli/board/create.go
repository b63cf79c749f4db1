package board

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
	boardservice "github.com/thenoetrevino/taskboard/internal/services/board"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// CreateCmd returns the board create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a board",
		Long: `Create a board with the four fixed columns. With --project the board is
linked right away and the project's existing tasks are imported as cards.

Examples:
  taskboard board create --name="Sprint 12" --project=1
  BOARD_ID=$(taskboard board create --name="Scratch" --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().String("name", "", "Board name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		slog.Error("error marking flag as required", "error", err)
	}
	cmd.Flags().Int("project", 0, "Project ID to link")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)

	name, _ := cmd.Flags().GetString("name")
	req := boardservice.CreateBoardRequest{Name: name}
	if v, ok := cli.OptionalInt(cmd, "project"); ok {
		projectID := types.ProjectID(v)
		req.ProjectID = &projectID
	}

	board, err := cliInstance.App.BoardService.CreateBoard(ctx, req)
	if err != nil {
		return formatter.FailWithSuggestion(err, "Use 'taskboard project list' to see available projects")
	}

	if formatter.Quiet {
		formatter.IDs(board.ID.ToInt())
		return nil
	}
	if formatter.JSON {
		return formatter.Success("board", cli.NewBoardJSON(board, nil))
	}

	fmt.Fprintf(formatter.Out(), "✓ Board '%s' created successfully (ID: %d)\n", board.Name, board.ID)
	if board.ProjectID != nil {
		fmt.Fprintf(formatter.Out(), "  Linked to project #%d\n", *board.ProjectID)
	}
	return nil
}
