package project

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/api"
	"github.com/taskforge/taskforge/cli/cmd"
	"github.com/taskforge/taskforge/cli/helpers"
	"github.com/taskforge/taskforge/cli/tui/views"
)

// Cmd returns the project command group
func Cmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "project",
		Short: "List and create projects",
	}
	c.AddCommand(ListCmd(), CreateCmd())
	return c
}

// ListCmd returns the project list command
func ListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List projects of an organization",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handleList,
			}, args)
		},
	}
	cmd.AddOrgFlag(c)
	return c
}

// CreateCmd returns the project create command
func CreateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project in an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handleCreate,
			}, args)
		},
	}
	cmd.AddOrgFlag(c)
	c.Flags().String("description", "", "Project description")
	c.Flags().String("color", "", "Hex color such as #3B82F6")
	c.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	c.Flags().String("end", "", "End date (YYYY-MM-DD)")
	return c
}

type createResult struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	OrganizationID string `json:"organization_id"`
}

func handleList(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	org, err := executor.ResolveOrganization(ctx, cmd.OrgRef(cobraCmd))
	if err != nil {
		return err
	}
	projects, err := executor.GetClient().Projects().SidebarProjects(ctx, org.ID)
	if err != nil {
		return err
	}
	store := executor.GetState().Projects
	store.SetProjects(projects)
	projects = store.Projects()
	table := views.NewTable(org.Name+" projects", "ID", "Name", "Slug", "Tasks")
	table.Empty = "No projects yet. Create one with `taskforge project create`."
	for i := range projects {
		p := &projects[i]
		table.AddRow(p.ID, p.Name, p.Slug, fmt.Sprint(p.TaskCount))
	}
	return executor.Output(projects, table)
}

func handleCreate(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	org, err := executor.ResolveOrganization(ctx, cmd.OrgRef(cobraCmd))
	if err != nil {
		return err
	}
	id, err := executor.GetClient().Projects().Create(ctx, &api.CreateProjectRequest{
		OrganizationID: org.ID,
		Name:           args[0],
		Description:    helpers.GetFlagStringWithDefault(cobraCmd, "description", ""),
		Color:          helpers.GetFlagStringWithDefault(cobraCmd, "color", ""),
		StartDate:      helpers.GetFlagStringWithDefault(cobraCmd, "start", ""),
		EndDate:        helpers.GetFlagStringWithDefault(cobraCmd, "end", ""),
	})
	if err != nil {
		return err
	}
	executor.GetState().Projects.Touch(id)
	result := &createResult{ID: id, Name: args[0], OrganizationID: org.ID}
	return executor.Output(result, views.Success("created project %s (%s)", result.Name, result.ID))
}
