package org

import (
	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/cmd"
)

// Cmd returns the org command group
func Cmd() *cobra.Command {
	c := &cobra.Command{
		Use:     "org",
		Aliases: []string{"organization"},
		Short:   "Manage organizations, members and invitations",
	}
	c.AddCommand(
		ListCmd(),
		ShowCmd(),
		SwitchCmd(),
		InviteCmd(),
		InvitationCmd(),
		AcceptCmd(),
		MembersCmd(),
		CreateCmd(),
	)
	return c
}

func run(handler cmd.HandlerFunc) func(*cobra.Command, []string) error {
	return func(cobraCmd *cobra.Command, args []string) error {
		return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
			RequireAPI: true,
		}, cmd.ModeHandlers{
			JSON: handler,
		}, args)
	}
}

// ListCmd returns the org list command
func ListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your organizations",
		Args:  cobra.NoArgs,
		RunE:  run(handleList),
	}
}

// ShowCmd returns the org show command
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [org]",
		Short: "Show an organization (defaults to the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run(handleShow),
	}
}

// SwitchCmd returns the org switch command
func SwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <org>",
		Short: "Make an organization the active one",
		Args:  cobra.ExactArgs(1),
		RunE:  run(handleSwitch),
	}
}

// InviteCmd returns the org invite command
func InviteCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "invite <email>",
		Short: "Invite someone to an organization",
		Args:  cobra.ExactArgs(1),
		RunE:  run(handleInvite),
	}
	cmd.AddOrgFlag(c)
	c.Flags().String("role", "member", "Role: owner, admin, manager, member or viewer")
	c.Flags().String("message", "", "Personal message included in the invitation")
	c.Flags().Bool("copy", false, "Copy the invitation token to the clipboard")
	return c
}

// InvitationCmd returns the org invitation command
func InvitationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invitation <token>",
		Short: "Show the details of an invitation",
		Args:  cobra.ExactArgs(1),
		RunE:  run(handleInvitation),
	}
}

// AcceptCmd returns the org accept command
func AcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <token>",
		Short: "Accept an invitation as the signed-in user",
		Args:  cobra.ExactArgs(1),
		RunE:  run(handleAccept),
	}
}

// MembersCmd returns the org members command
func MembersCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "members",
		Short: "List members of an organization",
		Args:  cobra.NoArgs,
		RunE:  run(handleMembers),
	}
	cmd.AddOrgFlag(c)
	return c
}

// CreateCmd returns the org create command
func CreateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a team organization",
		Args:  cobra.ExactArgs(1),
		RunE:  run(handleCreate),
	}
	c.Flags().String("description", "", "Organization description")
	return c
}
