package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/api"
	"github.com/taskforge/taskforge/cli/helpers"
)

// AddOrgFlag registers the --org flag shared by organization-scoped commands.
func AddOrgFlag(c *cobra.Command) {
	c.Flags().String("org", "", "Organization id or slug (defaults to the active organization)")
}

// OrgRef returns the --org value, or an empty string.
func OrgRef(c *cobra.Command) string {
	return helpers.GetFlagStringWithDefault(c, "org", "")
}

// ResolveOrganization loads the caller's organizations and returns the one
// named by ref (id or slug). An empty ref selects the active organization.
func (e *CommandExecutor) ResolveOrganization(ctx context.Context, ref string) (*api.Organization, error) {
	list, err := e.client.Organizations().Mine(ctx)
	if err != nil {
		return nil, err
	}
	store := e.app.Organizations
	store.SetOrganizations(list.Organizations, list.Total)
	if ref != "" {
		org, ok := store.Find(ref)
		if !ok {
			return nil, helpers.NewCliError("ORG_NOT_FOUND", fmt.Sprintf("organization %q not found", ref),
				"run `taskforge org list` to see your organizations")
		}
		store.SetActive(org)
		return org, nil
	}
	if org := store.Active(); org != nil {
		return org, nil
	}
	return nil, helpers.NewCliError("NO_ACTIVE_ORG", "no active organization",
		"pass --org or run `taskforge org switch <org>`")
}

// CurrentUser returns the signed-in user, fetching it once per command.
func (e *CommandExecutor) CurrentUser(ctx context.Context) (*api.User, error) {
	if user := e.app.User.User(); user != nil {
		return user, nil
	}
	user, err := e.client.Users().Me(ctx)
	if err != nil {
		return nil, err
	}
	e.app.User.Set(user)
	return user, nil
}
