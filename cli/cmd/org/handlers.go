package org

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/api"
	"github.com/taskforge/taskforge/cli/cmd"
	"github.com/taskforge/taskforge/cli/helpers"
	"github.com/taskforge/taskforge/cli/tui/views"
	"github.com/taskforge/taskforge/pkg/logger"
)

func handleList(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	list, err := executor.GetClient().Organizations().Mine(ctx)
	if err != nil {
		return err
	}
	executor.GetState().Organizations.SetOrganizations(list.Organizations, list.Total)
	table := views.NewTable("Organizations", "", "Name", "Slug", "Type", "Role", "Members")
	table.Empty = "You are not a member of any organization."
	for i := range list.Organizations {
		org := &list.Organizations[i]
		marker := ""
		if org.IsActive {
			marker = "*"
		}
		table.AddRow(marker, org.Name, org.Slug, org.Type, org.Role, fmt.Sprint(org.MembersCount))
	}
	return executor.Output(list, table)
}

func handleShow(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	ref := ""
	if len(args) > 0 {
		ref = args[0]
	}
	org, err := executor.ResolveOrganization(ctx, ref)
	if err != nil {
		return err
	}
	details, err := executor.GetClient().Organizations().Get(ctx, org.ID)
	if err != nil {
		return err
	}
	view := views.NewKeyValue(details.Name).
		Add("ID", details.ID).
		Add("Slug", details.Slug).
		Add("Type", details.Type).
		Add("Description", details.Description).
		Add("Members", details.MemberCount).
		Add("Your role", details.UserRole).
		Add("Created", details.CreatedAt)
	return executor.Output(details, view)
}

func handleSwitch(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	org, err := executor.ResolveOrganization(ctx, args[0])
	if err != nil {
		return err
	}
	resp, err := executor.GetClient().Organizations().Switch(ctx, org.ID)
	if err != nil {
		return err
	}
	message := resp.Message
	if message == "" {
		message = "switched to " + org.Name
	}
	return executor.Output(resp, views.Success("%s", message))
}

func handleInvite(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	org, err := executor.ResolveOrganization(ctx, cmd.OrgRef(cobraCmd))
	if err != nil {
		return err
	}
	result, err := executor.GetClient().Organizations().Invite(ctx, org.ID, &api.InviteRequest{
		Email:   args[0],
		Role:    helpers.GetFlagStringWithDefault(cobraCmd, "role", "member"),
		Message: helpers.GetFlagStringWithDefault(cobraCmd, "message", ""),
	})
	if err != nil {
		return err
	}
	view := views.NewKeyValue("Invitation sent").
		Add("Organization", org.Name).
		Add("Email", args[0]).
		Add("Token", result.InvitationToken)
	copyToken, err := cobraCmd.Flags().GetBool("copy")
	if err != nil {
		return fmt.Errorf("failed to get copy flag: %w", err)
	}
	if copyToken && result.InvitationToken != "" {
		if err := clipboard.WriteAll(result.InvitationToken); err != nil {
			logger.FromContext(ctx).Warn("failed to copy invitation token", "error", err)
		} else {
			view.Add("Clipboard", "token copied")
		}
	}
	return executor.Output(result, view)
}

func handleInvitation(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	info, err := executor.GetClient().Organizations().InvitationDetails(ctx, args[0])
	if err != nil {
		return err
	}
	view := views.NewKeyValue("Invitation").
		Add("Organization", info.OrganizationName).
		Add("Email", info.Email).
		Add("Role", info.Role).
		Add("Message", info.Message)
	return executor.Output(info, view)
}

func handleAccept(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	resp, err := executor.GetClient().Organizations().AcceptInvitation(ctx, args[0])
	if err != nil {
		return err
	}
	return executor.Output(resp, views.Success("%s", resp.Message))
}

func handleMembers(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	org, err := executor.ResolveOrganization(ctx, cmd.OrgRef(cobraCmd))
	if err != nil {
		return err
	}
	members, err := executor.GetClient().Organizations().Members(ctx, org.Slug)
	if err != nil {
		return err
	}
	store := executor.GetState().Organizations
	store.SetMembers(members)
	members = store.Members()
	table := views.NewTable(org.Name+" members", "Name", "Email", "Role", "Status", "Joined")
	table.StatusColumn = 3
	for i := range members {
		m := &members[i]
		table.AddRow(m.Name, m.Email, m.Role, m.Status, m.JoinedAt)
	}
	return executor.Output(members, table)
}

func handleCreate(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	created, err := executor.GetClient().Organizations().CreateTeam(ctx, &api.CreateTeamRequest{
		Name:        args[0],
		Description: helpers.GetFlagStringWithDefault(cobraCmd, "description", ""),
	})
	if err != nil {
		return err
	}
	view := views.NewKeyValue("Organization created").
		Add("ID", created.Organization.ID).
		Add("Name", created.Organization.Name).
		Add("Slug", created.Organization.Slug)
	return executor.Output(created, view)
}
