package task

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// UpdateCmd returns the task update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task",
		Long: `Update fields of a task. Only flags that are given are changed; every
change is recorded in the task's activity log. A status change moves the
task's cards on every linked board.

Examples:
  taskboard task update 12 --status=in_progress
  taskboard task update 12 --assignees=2,3 --priority=urgent
  taskboard task update 12 --no-project
`,
		Args: cobra.ExactArgs(1),
		RunE: runUpdate,
	}

	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description (use - for stdin)")
	cmd.Flags().String("status", "", "Status: backlog, todo, in_progress, blocked, done")
	cmd.Flags().String("priority", "", "Priority: low, medium, high, urgent")
	cmd.Flags().Int("estimate", 0, "Estimated hours")
	cmd.Flags().String("assignees", "", "Comma separated assignee user IDs (empty clears)")
	cmd.Flags().Int("project", 0, "Move to project ID")
	cmd.Flags().Bool("no-project", false, "Remove from its project")
	cmd.Flags().Int("unit", 0, "Move to unit ID")
	cmd.Flags().Bool("no-unit", false, "Remove from its unit")
	cmd.Flags().String("actor", "", "Acting username (defaults to config, then OS user)")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	taskID, err := cli.ParseIDArg(args[0], "task")
	if err != nil {
		return formatter.Fail(err)
	}

	changes, err := taskChangesFromFlags(cmd)
	if err != nil {
		return formatter.Fail(err)
	}
	if changes.IsEmpty() {
		return formatter.FailWithSuggestion(fmt.Errorf("%w: no fields to update", cli.ErrUsage),
			"Pass at least one of --title, --description, --status, --priority, --estimate, --assignees, --project, --unit")
	}

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.FailInit(err)
	}
	defer closeCLI(cliInstance)

	actorFlag, _ := cmd.Flags().GetString("actor")
	actor, err := cliInstance.Actor(ctx, actorFlag)
	if err != nil {
		return formatter.Fail(err)
	}

	task, err := cliInstance.App.TaskService.UpdateTask(ctx, actor.ID, types.TaskID(taskID), changes)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		formatter.IDs(task.ID.ToInt())
		return nil
	}
	if formatter.JSON {
		return formatter.Success("task", cli.NewTaskJSON(task))
	}

	fmt.Fprintf(formatter.Out(), "✓ Task %d updated (status: %s)\n", task.ID, task.Status.Label())
	return nil
}

func taskChangesFromFlags(cmd *cobra.Command) (models.TaskChanges, error) {
	var changes models.TaskChanges

	if v, ok := cli.OptionalString(cmd, "title"); ok {
		changes.Title = &v
	}
	if v, ok := cli.OptionalString(cmd, "description"); ok {
		description, err := cli.ReadDescription(cmd.InOrStdin(), v)
		if err != nil {
			return changes, err
		}
		changes.Description = &description
	}
	if v, ok := cli.OptionalString(cmd, "status"); ok {
		status, err := cli.ParseStatus(v)
		if err != nil {
			return changes, err
		}
		changes.Status = &status
	}
	if v, ok := cli.OptionalString(cmd, "priority"); ok {
		priority, err := cli.ParsePriority(v)
		if err != nil {
			return changes, err
		}
		changes.Priority = &priority
	}
	if v, ok := cli.OptionalInt(cmd, "estimate"); ok {
		changes.EstimatedHours = &v
	}
	if v, ok := cli.OptionalString(cmd, "assignees"); ok {
		assignees, err := cli.ParseUserIDs(v)
		if err != nil {
			return changes, err
		}
		changes.Assignees = &assignees
	}
	if v, ok := cli.OptionalInt(cmd, "project"); ok {
		projectID := types.ProjectID(v)
		changes.ProjectID = &projectID
	}
	changes.ClearProject, _ = cmd.Flags().GetBool("no-project")
	if v, ok := cli.OptionalInt(cmd, "unit"); ok {
		unitID := types.UnitID(v)
		changes.UnitID = &unitID
	}
	changes.ClearUnit, _ = cmd.Flags().GetBool("no-unit")

	return changes, nil
}
