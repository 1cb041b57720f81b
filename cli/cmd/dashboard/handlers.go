package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/api"
	"github.com/taskforge/taskforge/cli/cmd"
	"github.com/taskforge/taskforge/cli/helpers"
	"github.com/taskforge/taskforge/cli/state"
	"github.com/taskforge/taskforge/cli/tui/views"
)

func orgID(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor) (string, error) {
	org, err := executor.ResolveOrganization(ctx, cmd.OrgRef(cobraCmd))
	if err != nil {
		return "", err
	}
	return org.ID, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func statsView(stats *api.DashboardStats) *views.KeyValue {
	return views.NewKeyValue("Stats").
		Add("Total tasks", stats.TotalTasks).
		Add("Completed", stats.CompletedTasks).
		Add("In progress", stats.InProgressTasks).
		Add("Overdue", stats.OverdueTasks).
		Add("Active projects", stats.ActiveProjects).
		Add("Completion rate", fmt.Sprintf("%.0f%%", stats.CompletionRate)).
		Add("Team members", fmt.Sprintf("%d (%d active)", stats.TeamMembers, stats.ActiveMembers))
}

func recentTasksView(tasks []api.RecentTask) *views.Table {
	table := views.NewTable("Recent tasks", "Title", "Status", "Priority", "Project", "Assignee", "Due")
	table.StatusColumn = 1
	for i := range tasks {
		t := &tasks[i]
		table.AddRow(helpers.Truncate(t.Title, 40), t.Status, t.Priority, t.Project, t.Assignee, deref(t.DueDate))
	}
	return table
}

func activeProjectsView(projects []api.ActiveProject) *views.Table {
	table := views.NewTable("Active projects", "Name", "Status", "Progress", "Tasks", "Members", "Ends")
	table.StatusColumn = 1
	for i := range projects {
		p := &projects[i]
		status := p.DisplayStatus
		if status == "" {
			status = p.Status
		}
		table.AddRow(
			p.Name,
			status,
			progressBar(p.Progress, 10),
			fmt.Sprintf("%d/%d", p.CompletedTasks, p.TotalTasks),
			fmt.Sprint(p.MembersCount),
			deref(p.EndDate),
		)
	}
	return table
}

// progressBar renders a percentage as a fixed width bar.
func progressBar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + fmt.Sprintf(" %3.0f%%", percent)
}

func deadlinesView(deadlines []api.UpcomingDeadline) *views.Table {
	table := views.NewTable("Upcoming deadlines", "Date", "Title", "Type", "Priority", "Project")
	table.StatusColumn = 3
	for i := range deadlines {
		d := &deadlines[i]
		table.AddRow(d.Date, helpers.Truncate(d.Title, 40), d.Type, d.Priority, d.ProjectName)
	}
	return table
}

func activityView(activity []api.RecentActivity) *views.Table {
	table := views.NewTable("Recent activity", "When", "User", "Action", "Item")
	for i := range activity {
		a := &activity[i]
		table.AddRow(a.Time, a.User, a.Action, helpers.Truncate(a.Item, 40))
	}
	return table
}

// summaryView renders every section held by the dashboard store.
type summaryView struct {
	store *state.DashboardStore
}

func (v *summaryView) RenderTUI(width int) string {
	parts := []string{}
	if stats := v.store.Stats(); stats != nil {
		parts = append(parts, statsView(stats).RenderTUI(width))
	}
	parts = append(parts,
		recentTasksView(v.store.RecentTasks()).RenderTUI(width),
		activeProjectsView(v.store.ActiveProjects()).RenderTUI(width),
		deadlinesView(v.store.UpcomingDeadlines()).RenderTUI(width),
		activityView(v.store.RecentActivity()).RenderTUI(width),
	)
	if updated := v.store.LastUpdated(); !updated.IsZero() {
		parts = append(parts, views.Info("updated %s", updated.Format(time.Kitchen)).RenderTUI(width))
	}
	return strings.Join(parts, "\n\n")
}

func handleSummary(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	id, err := orgID(ctx, cobraCmd, executor)
	if err != nil {
		return err
	}
	summary, err := executor.GetClient().Dashboard().Summary(ctx, id)
	if err != nil {
		return err
	}
	store := executor.GetState().Dashboard
	store.SetSummary(summary)
	refresh, err := cobraCmd.Flags().GetBool("refresh")
	if err != nil {
		return fmt.Errorf("failed to get refresh flag: %w", err)
	}
	if refresh {
		if err := refreshSections(ctx, executor.GetClient().Dashboard(), id, store); err != nil {
			return err
		}
	}
	return executor.Output(store.Summary(), &summaryView{store: store})
}

// refreshSections reloads every section from its own endpoint and merges it
// into the stored summary.
func refreshSections(ctx context.Context, dashboard *api.DashboardService, orgID string, store *state.DashboardStore) error {
	stats, err := dashboard.Stats(ctx, orgID)
	if err != nil {
		return err
	}
	store.SetStats(*stats)
	tasks, err := dashboard.RecentTasks(ctx, orgID)
	if err != nil {
		return err
	}
	store.SetRecentTasks(tasks)
	projects, err := dashboard.ActiveProjects(ctx, orgID)
	if err != nil {
		return err
	}
	store.SetActiveProjects(projects)
	deadlines, err := dashboard.UpcomingDeadlines(ctx, orgID)
	if err != nil {
		return err
	}
	store.SetUpcomingDeadlines(deadlines)
	activity, err := dashboard.RecentActivity(ctx, orgID)
	if err != nil {
		return err
	}
	store.SetRecentActivity(activity)
	return nil
}

func handleStats(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	id, err := orgID(ctx, cobraCmd, executor)
	if err != nil {
		return err
	}
	stats, err := executor.GetClient().Dashboard().Stats(ctx, id)
	if err != nil {
		return err
	}
	return executor.Output(stats, statsView(stats))
}

func handleRecentTasks(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	id, err := orgID(ctx, cobraCmd, executor)
	if err != nil {
		return err
	}
	tasks, err := executor.GetClient().Dashboard().RecentTasks(ctx, id)
	if err != nil {
		return err
	}
	return executor.Output(tasks, recentTasksView(tasks))
}

func handleActiveProjects(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	id, err := orgID(ctx, cobraCmd, executor)
	if err != nil {
		return err
	}
	projects, err := executor.GetClient().Dashboard().ActiveProjects(ctx, id)
	if err != nil {
		return err
	}
	return executor.Output(projects, activeProjectsView(projects))
}

func handleDeadlines(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	id, err := orgID(ctx, cobraCmd, executor)
	if err != nil {
		return err
	}
	deadlines, err := executor.GetClient().Dashboard().UpcomingDeadlines(ctx, id)
	if err != nil {
		return err
	}
	return executor.Output(deadlines, deadlinesView(deadlines))
}

func handleActivity(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	id, err := orgID(ctx, cobraCmd, executor)
	if err != nil {
		return err
	}
	activity, err := executor.GetClient().Dashboard().RecentActivity(ctx, id)
	if err != nil {
		return err
	}
	return executor.Output(activity, activityView(activity))
}
