package board

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
)

// ListCmd returns the board list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all boards",
		RunE:  runList,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := openCLI(cmd, formatter)
	if err != nil {
		return err
	}
	defer closeCLI(cliInstance)

	boards, err := cliInstance.App.BoardService.ListBoards(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, b := range boards {
			formatter.IDs(b.ID.ToInt())
		}
		return nil
	}
	if formatter.JSON {
		out := make([]cli.BoardJSON, len(boards))
		for i, b := range boards {
			out[i] = cli.NewBoardJSON(b, nil)
		}
		return formatter.Success("boards", out)
	}

	if len(boards) == 0 {
		fmt.Fprintln(formatter.Out(), "No boards found")
		return nil
	}
	for _, b := range boards {
		project := "unbound"
		if b.ProjectID != nil {
			project = fmt.Sprintf("project #%d", *b.ProjectID)
		}
		fmt.Fprintf(formatter.Out(), "#%-4d %s (%s)\n", b.ID, b.Name, project)
	}
	return nil
}
