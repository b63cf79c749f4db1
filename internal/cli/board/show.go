package board

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
	"github.com/thenoetrevino/taskboard/internal/cli/styles"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// ShowCmd returns the board show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <board-id>",
		Short: "Show a board with its columns side by side",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
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

	view, err := cliInstance.App.BoardService.GetBoard(ctx, types.BoardID(boardID))
	if err != nil {
		return formatter.FailWithSuggestion(err, "Use 'taskboard board list' to see available boards")
	}

	if formatter.Quiet {
		for _, col := range view.Board.Columns {
			for _, card := range view.Cards[col.ID] {
				formatter.IDs(card.ID.ToInt())
			}
		}
		return nil
	}
	if formatter.JSON {
		return formatter.Success("board", cli.NewBoardJSON(view.Board, view.Cards))
	}

	fmt.Fprintln(formatter.Out(), styles.TitleStyle.Render(fmt.Sprintf("%s (#%d)", view.Board.Name, view.Board.ID)))
	fmt.Fprintln(formatter.Out(), styles.RenderBoard(view))
	return nil
}
