package task

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
	"github.com/thenoetrevino/taskboard/internal/cli/styles"
	"github.com/thenoetrevino/taskboard/internal/types"
)

// ShowCmd returns the task show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
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

	task, err := cliInstance.App.TaskService.GetTask(ctx, types.TaskID(taskID))
	if err != nil {
		return formatter.FailWithSuggestion(err, "Use 'taskboard task list' to see available tasks")
	}

	if formatter.Quiet {
		formatter.IDs(task.ID.ToInt())
		return nil
	}
	if formatter.JSON {
		return formatter.Success("task", cli.NewTaskJSON(task))
	}

	project := "(none)"
	if task.ProjectID != nil {
		project = fmt.Sprintf("#%d", *task.ProjectID)
		if p, err := cliInstance.App.ProjectService.GetProjectByID(ctx, *task.ProjectID); err == nil {
			project = fmt.Sprintf("%s (#%d)", p.Name, p.ID)
		}
	}

	lines := []string{
		styles.TitleStyle.Render(fmt.Sprintf("#%d %s", task.ID, task.Title)),
		"",
		styles.Field("Status", task.Status.Label()),
		styles.Field("Priority", string(task.Priority)),
		styles.Field("Project", project),
		styles.Field("Assignees", assigneeList(task.AssigneeIDs)),
		styles.Field("Estimate", fmt.Sprintf("%dh", task.EstimatedHours)),
	}
	if task.UnitID != nil {
		lines = append(lines, styles.Field("Unit", fmt.Sprintf("#%d", *task.UnitID)))
	}
	if task.CompletedAt != nil {
		lines = append(lines, styles.Field("Completed", task.CompletedAt.Local().Format("2006-01-02 15:04")))
	}
	if task.Description != "" {
		lines = append(lines, styles.SectionStyle.Render("Description"), task.Description)
	}

	fmt.Fprintln(formatter.Out(), styles.CardStyle.Render(strings.Join(lines, "\n")))
	return nil
}

func assigneeList(ids []types.UserID) string {
	if len(ids) == 0 {
		return "(none)"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.Itoa(id.ToInt())
	}
	return strings.Join(parts, ", ")
}

