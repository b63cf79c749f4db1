package task

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// ActivityCmd returns the task activity subcommand
func ActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity <task-id>",
		Short: "Show a task's activity log",
		Args:  cobra.ExactArgs(1),
		RunE:  runActivity,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runActivity(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	taskID, err := cli.ParseIDArg(args[0], "task")
	if err != nil {
		return formatter.Fail(err)
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.FailInit(err)
	}
	defer closeCLI(cliInstance)

	activity, err := cliInstance.App.TaskService.ListActivity(ctx, types.TaskID(taskID))
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, e := range activity {
			formatter.IDs(e.ID.ToInt())
		}
		return nil
	}
	if formatter.JSON {
		out := make([]cli.ActivityJSON, len(activity))
		for i, e := range activity {
			out[i] = cli.NewActivityJSON(e)
		}
		return formatter.Success("activity", out)
	}

	for _, e := range activity {
		fmt.Fprintf(formatter.Out(), "%s  user #%-3d %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.ActorID, e.Message)
	}
	return nil
}
