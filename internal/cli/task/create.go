package task

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
	"github.com/thenoetrevino/taskboard/internal/models"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// CreateCmd returns the task create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		Long: `Create a new task. Boards linked to the task's project get a card
in the column matching the task's status.

Examples:
  # Simple task (human-readable output)
  taskboard task create --title="Fix bug" --project=1

  # Quiet mode for bash capture
  TASK_ID=$(taskboard task create --title="Fix bug" --project=1 --quiet)

  # Full example with all options
  taskboard task create \
    --title="Add authentication" \
    --description="Implement JWT auth" \
    --status=todo \
    --priority=high \
    --estimate=8 \
    --assignees=2,3 \
    --project=1 --unit=1
`,
		RunE: runCreate,
	}

	// Required flags
	cmd.Flags().String("title", "", "Task title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		slog.Error("error marking flag as required", "error", err)
	}

	// Optional flags
	cmd.Flags().String("description", "", "Task description (use - for stdin)")
	cmd.Flags().Int("project", 0, "Project ID")
	cmd.Flags().Int("unit", 0, "Unit ID")
	cmd.Flags().String("status", "backlog", "Status: backlog, todo, in_progress, blocked")
	cmd.Flags().String("priority", "medium", "Priority: low, medium, high, urgent")
	cmd.Flags().Int("estimate", 0, "Estimated hours")
	cmd.Flags().String("assignees", "", "Comma separated assignee user IDs")
	cmd.Flags().String("actor", "", "Acting username (defaults to config, then OS user)")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.FailInit(err)
	}
	defer closeCLI(cliInstance)

	in, err := taskInputFromFlags(cmd)
	if err != nil {
		return formatter.Fail(err)
	}

	actorFlag, _ := cmd.Flags().GetString("actor")
	actor, err := cliInstance.Actor(ctx, actorFlag)
	if err != nil {
		return formatter.Fail(err)
	}

	task, err := cliInstance.App.TaskService.CreateTask(ctx, actor.ID, in)
	if err != nil {
		return formatter.FailWithSuggestion(err, "Use 'taskboard project list' and 'taskboard user list' to check referenced ids")
	}

	if formatter.Quiet {
		formatter.IDs(task.ID.ToInt())
		return nil
	}
	if formatter.JSON {
		return formatter.Success("task", cli.NewTaskJSON(task))
	}

	out := formatter.Out()
	fmt.Fprintf(out, "✓ Task '%s' created successfully (ID: %d)\n", task.Title, task.ID)
	fmt.Fprintf(out, "  Status: %s\n", task.Status.Label())
	fmt.Fprintf(out, "  Priority: %s\n", task.Priority)
	if task.ProjectID != nil {
		fmt.Fprintf(out, "  Project: #%d\n", *task.ProjectID)
	}
	return nil
}

func taskInputFromFlags(cmd *cobra.Command) (models.TaskInput, error) {
	title, _ := cmd.Flags().GetString("title")
	rawDescription, _ := cmd.Flags().GetString("description")
	rawStatus, _ := cmd.Flags().GetString("status")
	rawPriority, _ := cmd.Flags().GetString("priority")
	estimate, _ := cmd.Flags().GetInt("estimate")
	rawAssignees, _ := cmd.Flags().GetString("assignees")

	description, err := cli.ReadDescription(cmd.InOrStdin(), rawDescription)
	if err != nil {
		return models.TaskInput{}, err
	}
	status, err := cli.ParseStatus(rawStatus)
	if err != nil {
		return models.TaskInput{}, err
	}
	priority, err := cli.ParsePriority(rawPriority)
	if err != nil {
		return models.TaskInput{}, err
	}
	assignees, err := cli.ParseUserIDs(rawAssignees)
	if err != nil {
		return models.TaskInput{}, err
	}

	in := models.TaskInput{
		Title:          title,
		Description:    description,
		Status:         status,
		Priority:       priority,
		EstimatedHours: estimate,
		AssigneeIDs:    assignees,
	}
	if id, ok := cli.OptionalInt(cmd, "project"); ok {
		projectID := types.ProjectID(id)
		in.ProjectID = &projectID
	}
	if id, ok := cli.OptionalInt(cmd, "unit"); ok {
		unitID := types.UnitID(id)
		in.UnitID = &unitID
	}
	return in, nil
}
