package project

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
	projectservice "github.com/thenoetrevino/taskboard/internal/services/project"
)

// CreateCmd returns the project create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project",
		Long: `Create a new project.

Examples:
  taskboard project create --title="Backend" --description="API work"
  PROJECT_ID=$(taskboard project create --title="Backend" --quiet)
`,
		RunE: runCreate,
	}

	cmd.Flags().String("title", "", "Project title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		slog.Error("error marking flag as required", "error", err)
	}
	cmd.Flags().String("description", "", "Project description")

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
	defer func() { logCloseError(cliInstance.Close()) }()

	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")

	project, err := cliInstance.App.ProjectService.CreateProject(ctx, projectservice.CreateProjectRequest{
		Name:        title,
		Description: description,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		formatter.IDs(project.ID.ToInt())
		return nil
	}
	if formatter.JSON {
		return formatter.Success("project", map[string]any{
			"id":          project.ID,
			"name":        project.Name,
			"description": project.Description,
			"created_at":  project.CreatedAt,
		})
	}

	fmt.Fprintf(formatter.Out(), "✓ Project '%s' created successfully (ID: %d)\n", project.Name, project.ID)
	return nil
}
