package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thenoetrevino/taskboard/internal/cli"
	"github.com/thenoetrevino/taskboard/internal/cli/board"
	"github.com/thenoetrevino/taskboard/internal/cli/daemon"
	"github.com/thenoetrevino/taskboard/internal/cli/project"
	"github.com/thenoetrevino/taskboard/internal/cli/task"
	"github.com/thenoetrevino/taskboard/internal/cli/unit"
	"github.com/thenoetrevino/taskboard/internal/cli/user"
	"github.com/thenoetrevino/taskboard/internal/cli/watch"
)

// NewRootCmd builds the taskboard command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskboard",
		Short: "Taskboard - tasks with kanban boards kept in sync",
		Long: `Taskboard tracks tasks and mirrors them as cards on kanban boards.
Tasks are the source of truth: creating or moving a task updates every
board linked to its project, and every change lands in the task's activity log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", cli.ErrUsage, err)
	})

	rootCmd.AddCommand(task.TaskCmd())
	rootCmd.AddCommand(board.BoardCmd())
	rootCmd.AddCommand(project.ProjectCmd())
	rootCmd.AddCommand(user.UserCmd())
	rootCmd.AddCommand(unit.UnitCmd())
	rootCmd.AddCommand(watch.WatchCmd())
	rootCmd.AddCommand(daemon.DaemonCmd())

	return rootCmd
}

// Execute runs the command tree and returns the first error
func Execute() error {
	return NewRootCmd().Execute()
}
