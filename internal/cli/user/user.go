// Package user holds the user subcommands: the people tasks are assigned to
// and who act on them.
package user

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
	directoryservice "github.com/thenoetrevino/taskboard/internal/services/directory"
)

// UserCmd returns the user parent command
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(CreateCmd())
	cmd.AddCommand(ListCmd())

	return cmd
}

// CreateCmd returns the user create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a user",
		RunE:  runCreate,
	}

	cmd.Flags().String("username", "", "Unique username (required)")
	if err := cmd.MarkFlagRequired("username"); err != nil {
		slog.Error("error marking flag as required", "error", err)
	}
	cmd.Flags().String("display-name", "", "Name shown in activity messages")

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

	username, _ := cmd.Flags().GetString("username")
	displayName, _ := cmd.Flags().GetString("display-name")

	u, err := cliInstance.App.DirectoryService.CreateUser(ctx, directoryservice.CreateUserRequest{
		Username:    username,
		DisplayName: displayName,
	})
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		formatter.IDs(u.ID.ToInt())
		return nil
	}
	if formatter.JSON {
		return formatter.Success("user", map[string]any{"id": u.ID, "username": u.Username, "display_name": u.DisplayName})
	}

	fmt.Fprintf(formatter.Out(), "✓ User '%s' created successfully (ID: %d)\n", u.Name(), u.ID)
	return nil
}

// ListCmd returns the user list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all users",
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

	users, err := cliInstance.App.DirectoryService.ListUsers(ctx)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		for _, u := range users {
			formatter.IDs(u.ID.ToInt())
		}
		return nil
	}
	if formatter.JSON {
		out := make([]map[string]any, len(users))
		for i, u := range users {
			out[i] = map[string]any{"id": u.ID, "username": u.Username, "display_name": u.DisplayName}
		}
		return formatter.Success("users", out)
	}

	if len(users) == 0 {
		fmt.Fprintln(formatter.Out(), "No users found")
		return nil
	}
	for _, u := range users {
		fmt.Fprintf(formatter.Out(), "  [%d] %s (%s)\n", u.ID, u.Name(), u.Username)
	}
	return nil
}
