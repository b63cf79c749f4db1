package task

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// ListCmd returns the task list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks, optionally filtered by project, unit or status.

Examples:
  taskboard task list --project=1
  taskboard task list --status=blocked --quiet
`,
		RunE: runList,
	}

	cmd.Flags().Int("project", 0, "Only tasks of this project")
	cmd.Flags().Int("unit", 0, "Only tasks of this unit")
	cmd.Flags().String("status", "", "Only tasks with this status")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	var filter models.TaskFilter
	if v, ok := cli.OptionalInt(cmd, "project"); ok {
		projectID := types.ProjectID(v)
		filter.ProjectID = &projectID
	}
	if v, ok := cli.OptionalInt(cmd, "unit"); ok {
		unitID := types.UnitID(v)
		filter.UnitID = &unitID
	}
	if v, ok := cli.OptionalString(cmd, "status"); ok {
		status, err := cli.ParseStatus(v)
		if err != nil {
			return formatter.Fail(err)
		}
		filter.Status = &status
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.FailInit(err)
	}
	defer closeCLI(cliInstance)

	tasks, err := cliInstance.App.TaskService.ListTasks(ctx, filter)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, t := range tasks {
			formatter.IDs(t.ID.ToInt())
		}
		return nil
	}
	if formatter.JSON {
		out := make([]cli.TaskJSON, len(tasks))
		for i, t := range tasks {
			out[i] = cli.NewTaskJSON(t)
		}
		return formatter.Success("tasks", out)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(formatter.Out(), "No tasks found")
		return nil
	}
	for _, t := range tasks {
		fmt.Fprintf(formatter.Out(), "#%-4d [%-11s] %-6s %s\n", t.ID, t.Status, t.Priority, t.Title)
	}
	return nil
}
