package dashboard

import (
	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/cmd"
)

// Cmd returns the dashboard command group
func Cmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "dashboard",
		Short: "Organization dashboard: stats, tasks, projects, deadlines and activity",
	}
	c.AddCommand(
		summaryCmd(),
		sectionCmd("stats", "Show task and member statistics", handleStats),
		sectionCmd("tasks", "Show recently updated tasks", handleRecentTasks),
		sectionCmd("projects", "Show active projects with progress", handleActiveProjects),
		sectionCmd("deadlines", "Show upcoming deadlines", handleDeadlines),
		sectionCmd("activity", "Show recent activity", handleActivity),
	)
	return c
}

func sectionCmd(use, short string, handler cmd.HandlerFunc) *cobra.Command {
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handler,
			}, args)
		},
	}
	cmd.AddOrgFlag(c)
	return c
}

func summaryCmd() *cobra.Command {
	c := sectionCmd("summary", "Show every dashboard section", handleSummary)
	c.Flags().Bool("refresh", false, "Reload each section from its own endpoint after the summary")
	return c
}
