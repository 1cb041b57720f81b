package auth

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/api"
	"github.com/taskforge/taskforge/cli/cmd"
	"github.com/taskforge/taskforge/cli/helpers"
	"github.com/taskforge/taskforge/cli/tui/components"
	"github.com/taskforge/taskforge/cli/tui/views"
	"github.com/taskforge/taskforge/pkg/logger"
)

// loginResult is the output of a completed sign in.
type loginResult struct {
	Message string    `json:"message"`
	User    *api.User `json:"user,omitempty"`
}

func userView(user *api.User) *views.KeyValue {
	verified := "no"
	if user.IsVerified {
		verified = "yes"
	}
	lastLogin := ""
	if user.LastLogin != nil {
		lastLogin = *user.LastLogin
	}
	return views.NewKeyValue("Signed in").
		Add("ID", user.ID).
		Add("Name", user.Name).
		Add("Email", user.Email).
		Add("Verified", verified).
		Add("Timezone", user.Profile.Timezone).
		Add("Last login", lastLogin)
}

// credentials resolves email and password from flags, then configuration.
func credentials(cobraCmd *cobra.Command, executor *cmd.CommandExecutor) (email, password string) {
	cfg := executor.GetConfig()
	email = helpers.GetFlagStringWithDefault(cobraCmd, "email", cfg.Auth.Email)
	password = helpers.GetFlagStringWithDefault(cobraCmd, "password", cfg.Auth.Password.Value())
	return email, password
}

// showPendingAuthError prints and consumes a session-expired notice left by
// an earlier command.
func showPendingAuthError(cobraCmd *cobra.Command, executor *cmd.CommandExecutor) {
	message, err := executor.GetSession().TakeAuthError()
	if err != nil {
		logger.FromContext(cobraCmd.Context()).Warn("failed to read session notice", "error", err)
		return
	}
	if message != "" {
		fmt.Fprintln(cobraCmd.ErrOrStderr(), views.Warning("%s", message).RenderTUI(0))
	}
}

func handleLoginJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	email, password := credentials(cobraCmd, executor)
	if err := helpers.ValidateRequired(email, "email"); err != nil {
		return err
	}
	if err := helpers.ValidateRequired(password, "password"); err != nil {
		return err
	}
	_, _ = executor.GetSession().TakeAuthError()
	resp, err := executor.GetClient().Users().Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	return executor.Output(resp, views.Info("%s", resp.Message))
}

func handleLoginTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	if !executor.Interactive() {
		return handleLoginJSON(ctx, cobraCmd, executor, args)
	}
	showPendingAuthError(cobraCmd, executor)
	email, password := credentials(cobraCmd, executor)
	var fields []huh.Field
	if email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(&email).
			Validate(components.Required("email")))
	}
	if password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password).
			Validate(components.Required("password")))
	}
	if len(fields) > 0 {
		if err := components.RunForm(ctx, fields...); err != nil {
			return err
		}
	}
	users := executor.GetClient().Users()
	resp, err := users.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	fmt.Fprintln(cobraCmd.OutOrStdout(), views.Info("%s", resp.Message).RenderTUI(0))
	user, err := promptOTP(ctx, cobraCmd.ErrOrStderr(), users, email)
	if err != nil {
		return err
	}
	executor.GetState().User.Set(user)
	return executor.Output(&loginResult{Message: "Signed in", User: user}, userView(user))
}

// promptOTP asks for the emailed code until it verifies or attempts run out.
func promptOTP(ctx context.Context, w io.Writer, users *api.UserService, email string) (*api.User, error) {
	for {
		var otp string
		err := components.RunForm(ctx, huh.NewInput().
			Title("One-time password").
			Description("Enter the code sent to "+email).
			Value(&otp).
			Validate(components.Required("code")))
		if err != nil {
			return nil, err
		}
		user, err := users.VerifyOTP(ctx, &api.VerifyOTPRequest{Email: email, OTP: otp})
		if err == nil {
			return user, nil
		}
		apiErr, ok := api.AsAPIError(err)
		if !ok || apiErr.RemainingAttempts == nil || *apiErr.RemainingAttempts <= 0 {
			return nil, err
		}
		fmt.Fprintln(w, views.Warning("%s", apiErr.Message).RenderTUI(0))
	}
}

func verifyOTPInput(cobraCmd *cobra.Command, executor *cmd.CommandExecutor) (email, otp string) {
	email = helpers.GetFlagStringWithDefault(cobraCmd, "email", executor.GetConfig().Auth.Email)
	otp = helpers.GetFlagStringWithDefault(cobraCmd, "otp", "")
	return email, otp
}

func handleVerifyOTPJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	email, otp := verifyOTPInput(cobraCmd, executor)
	if err := helpers.ValidateRequired(email, "email"); err != nil {
		return err
	}
	if err := helpers.ValidateRequired(otp, "otp"); err != nil {
		return err
	}
	return verifyOTP(ctx, executor, email, otp)
}

func handleVerifyOTPTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	email, otp := verifyOTPInput(cobraCmd, executor)
	if !executor.Interactive() || (email != "" && otp != "") {
		return handleVerifyOTPJSON(ctx, cobraCmd, executor, args)
	}
	if err := components.RunForm(ctx,
		huh.NewInput().Title("Email").Value(&email).Validate(components.Required("email")),
		huh.NewInput().Title("One-time password").Value(&otp).Validate(components.Required("code")),
	); err != nil {
		return err
	}
	return verifyOTP(ctx, executor, email, otp)
}

func verifyOTP(ctx context.Context, executor *cmd.CommandExecutor, email, otp string) error {
	user, err := executor.GetClient().Users().VerifyOTP(ctx, &api.VerifyOTPRequest{Email: email, OTP: otp})
	if err != nil {
		return err
	}
	executor.GetState().User.Set(user)
	return executor.Output(&loginResult{Message: "Signed in", User: user}, userView(user))
}

func handleLogout(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	err := executor.GetClient().Users().Logout(ctx)
	executor.GetState().User.Clear()
	if err != nil {
		logger.FromContext(ctx).Warn("logout request failed, local session cleared anyway", "error", err)
	}
	msg := views.Success("signed out")
	return executor.Output(msg, msg)
}

func handleMe(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	user, err := executor.CurrentUser(ctx)
	if err != nil {
		return err
	}
	return executor.Output(user, userView(user))
}

// registration holds every value a register kind may need.
type registration struct {
	kind           string
	email          string
	name           string
	password       string
	orgName        string
	orgDescription string
	token          string
}

func readRegistration(cobraCmd *cobra.Command, kind string) (*registration, error) {
	if err := helpers.ValidateEnum(kind, []string{RegisterPersonal, RegisterTeam, RegisterJoin}, "account type"); err != nil {
		return nil, err
	}
	return &registration{
		kind:           kind,
		email:          helpers.GetFlagStringWithDefault(cobraCmd, "email", ""),
		name:           helpers.GetFlagStringWithDefault(cobraCmd, "name", ""),
		password:       helpers.GetFlagStringWithDefault(cobraCmd, "password", ""),
		orgName:        helpers.GetFlagStringWithDefault(cobraCmd, "org-name", ""),
		orgDescription: helpers.GetFlagStringWithDefault(cobraCmd, "org-description", ""),
		token:          helpers.GetFlagStringWithDefault(cobraCmd, "token", ""),
	}, nil
}

func (r *registration) submit(ctx context.Context, users *api.UserService) (*api.MessageResponse, error) {
	switch r.kind {
	case RegisterTeam:
		return users.RegisterTeam(ctx, &api.SignupTeamRequest{
			Email:                   r.email,
			Name:                    r.name,
			Password:                r.password,
			OrganizationName:        r.orgName,
			OrganizationDescription: r.orgDescription,
		})
	case RegisterJoin:
		return users.RegisterWithInvitation(ctx, &api.SignupInvitationRequest{
			Email:           r.email,
			Name:            r.name,
			Password:        r.password,
			InvitationToken: r.token,
		})
	default:
		return users.RegisterPersonal(ctx, &api.SignupPersonalRequest{
			Email:    r.email,
			Name:     r.name,
			Password: r.password,
		})
	}
}

func (r *registration) fields() []huh.Field {
	var fields []huh.Field
	if r.email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&r.email).Validate(components.Required("email")))
	}
	if r.name == "" {
		fields = append(fields, huh.NewInput().Title("Full name").Value(&r.name).Validate(components.Required("name")))
	}
	if r.password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			Description("At least 8 characters").
			EchoMode(huh.EchoModePassword).
			Value(&r.password).
			Validate(func(s string) error {
				if len(s) < 8 {
					return fmt.Errorf("password must be at least 8 characters")
				}
				return nil
			}))
	}
	if r.kind == RegisterTeam && r.orgName == "" {
		fields = append(fields,
			huh.NewInput().Title("Organization name").Value(&r.orgName).Validate(components.Required("organization name")),
			huh.NewText().Title("Organization description").Value(&r.orgDescription),
		)
	}
	if r.kind == RegisterJoin && r.token == "" {
		fields = append(fields, huh.NewInput().Title("Invitation token").Value(&r.token).Validate(components.Required("token")))
	}
	return fields
}

func handleRegisterJSON(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	reg, err := readRegistration(cobraCmd, args[0])
	if err != nil {
		return err
	}
	return register(ctx, executor, reg)
}

func handleRegisterTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	reg, err := readRegistration(cobraCmd, args[0])
	if err != nil {
		return err
	}
	if fields := reg.fields(); executor.Interactive() && len(fields) > 0 {
		if err := components.RunForm(ctx, fields...); err != nil {
			return err
		}
	}
	return register(ctx, executor, reg)
}

func register(ctx context.Context, executor *cmd.CommandExecutor, reg *registration) error {
	resp, err := reg.submit(ctx, executor.GetClient().Users())
	if err != nil {
		return err
	}
	return executor.Output(resp, views.Success("%s", resp.Message))
}

func handleVerifyEmail(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	resp, err := executor.GetClient().Users().VerifyEmail(ctx, args[0])
	if err != nil {
		return err
	}
	return executor.Output(resp, views.Success("%s", resp.Message))
}

func handleResendVerification(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	resp, err := executor.GetClient().Users().ResendVerification(ctx, args[0])
	if err != nil {
		return err
	}
	return executor.Output(resp, views.Info("%s", resp.Message))
}

func handleRefresh(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	if err := executor.GetClient().Users().RefreshToken(ctx); err != nil {
		return err
	}
	msg := views.Success("session refreshed")
	return executor.Output(msg, msg)
}
