// Package unit holds the unit subcommands. Units are the organizational
// groups (team, department) a task may be filed under.
package unit

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
)

// UnitCmd returns the unit parent command
func UnitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Manage organizational units",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())

	return cmd
}

// CreateCmd returns the unit create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a unit",
		RunE:  runCreate,
	}

	cmd.Flags().String("name", "", "Unit name (required)")
	if err := cmd.MarkFlagRequired("name"); err != nil {
		slog.Error("error marking flag as required", "error", err)
	}

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
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Warn("error closing CLI", "error", err)
		}
	}()

	name, _ := cmd.Flags().GetString("name")
	u, err := cliInstance.App.DirectoryService.CreateUnit(ctx, name)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		formatter.IDs(u.ID.ToInt())
		return nil
	}
	if formatter.JSON {
		return formatter.Success("unit", map[string]any{"id": u.ID, "name": u.Name})
	}

	fmt.Fprintf(formatter.Out(), "✓ Unit '%s' created successfully (ID: %d)\n", u.Name, u.ID)
	return nil
}

// ListCmd returns the unit list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all units",
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
	defer func() {
		if err := cliInstance.Close(); err != nil {
			slog.Warn("error closing CLI", "error", err)
		}
	}()

	units, err := cliInstance.App.DirectoryService.ListUnits(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, u := range units {
			formatter.IDs(u.ID.ToInt())
		}
		return nil
	}
	if formatter.JSON {
		out := make([]map[string]any, len(units))
		for i, u := range units {
			out[i] = map[string]any{"id": u.ID, "name": u.Name}
		}
		return formatter.Success("units", out)
	}

	if len(units) == 0 {
		fmt.Fprintln(formatter.Out(), "No units found")
		return nil
	}
	for _, u := range units {
		fmt.Fprintf(formatter.Out(), "  [%d] %s\n", u.ID, u.Name)
	}
	return nil
}
