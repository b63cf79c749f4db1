package board

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// SyncCmd returns the board sync subcommand
func SyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync <board-id>",
		Short: "Import project tasks missing from a board",
		Long: `Re-run the project import for a linked board. Use it after a projection
failure was reported: tasks without a card on the board get one, existing
cards are left alone.`,
		Args: cobra.ExactArgs(1),
		RunE: runSync,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	boardID, err := cli.ParseIDArg(args[0], "board")
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)

	imported, err := cliInstance.App.BoardService.RebuildBoard(ctx, types.BoardID(boardID))
	if err != nil {
		return formatter.FailWithSuggestion(err, "Link the board first with 'taskboard board link <board-id> --project=<id>'")
	}

	if formatter.Quiet {
		formatter.IDs(imported)
		return nil
	}
	if formatter.JSON {
		return formatter.Success("sync", map[string]any{"board_id": boardID, "imported": imported})
	}

	fmt.Fprintf(formatter.Out(), "✓ Board %d synced: %d card(s) imported\n", boardID, imported)
	return nil
}
