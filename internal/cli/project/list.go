package project

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
)

// ListCmd returns the project list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all projects",
		Long:  "List all projects with their details.",
		RunE:  runList,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := cli.GetCLIFromContext(ctx)
	if err != nil {
		return formatter.FailInit(err)
	}
	defer func() { logCloseError(cliInstance.Close()) }()

	projects, err := cliInstance.App.ProjectService.GetAllProjects(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		// Just print IDs (one per line)
		for _, p := range projects {
			formatter.IDs(p.ID.ToInt())
		}
		return nil
	}
	if formatter.JSON {
		out := make([]map[string]any, len(projects))
		for i, p := range projects {
			out[i] = map[string]any{"id": p.ID, "name": p.Name, "description": p.Description}
		}
		return formatter.Success("projects", out)
	}

	if len(projects) == 0 {
		fmt.Fprintln(formatter.Out(), "No projects found")
		return nil
	}

	fmt.Fprintf(formatter.Out(), "Found %d project(s):\n\n", len(projects))
	for _, p := range projects {
		fmt.Fprintf(formatter.Out(), "  [%d] %s\n", p.ID, p.Name)
		if p.Description != "" {
			fmt.Fprintf(formatter.Out(), "      %s\n", p.Description)
		}
	}
	return nil
}
