package auth

import (
	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/cmd"
)

const (
	RegisterPersonal = "personal"
	RegisterTeam     = "team"
	RegisterJoin     = "join"
)

// Cmd returns the auth command group
func Cmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign up and manage the session",
		Long:  "Commands for the email and one-time-password sign in flow, registration and the stored session",
	}
	c.AddCommand(
		LoginCmd(),
		VerifyOTPCmd(),
		LogoutCmd(),
		MeCmd(),
		RegisterCmd(),
		VerifyEmailCmd(),
		ResendVerificationCmd(),
		RefreshCmd(),
	)
	return c
}

// LoginCmd returns the login command
func LoginCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "login",
		Short: "Request a one-time password by email",
		Long: `Send email and password to the backend, which mails a one-time password.
In an interactive terminal missing values are prompted for and the code is
verified right away; otherwise finish with ` + "`taskforge auth verify-otp`.",
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI:        true,
				SuppressAuthError: true,
			}, cmd.ModeHandlers{
				JSON: handleLoginJSON,
				TUI:  handleLoginTUI,
			}, args)
		},
	}
	c.Flags().String("email", "", "Account email (or TASKFORGE_AUTH_EMAIL)")
	c.Flags().String("password", "", "Account password (or TASKFORGE_AUTH_PASSWORD)")
	return c
}

// VerifyOTPCmd returns the verify-otp command
func VerifyOTPCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "verify-otp",
		Short: "Complete sign in with the emailed code",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI:        true,
				SuppressAuthError: true,
			}, cmd.ModeHandlers{
				JSON: handleVerifyOTPJSON,
				TUI:  handleVerifyOTPTUI,
			}, args)
		},
	}
	c.Flags().String("email", "", "Account email (or TASKFORGE_AUTH_EMAIL)")
	c.Flags().String("otp", "", "One-time password from the email")
	return c
}

// LogoutCmd returns the logout command
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget stored cookies",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handleLogout,
			}, args)
		},
	}
}

// MeCmd returns the me command
func MeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handleMe,
			}, args)
		},
	}
}

// RegisterCmd returns the register command
func RegisterCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "register <personal|team|join>",
		Short: "Create an account",
		Long: `Create a personal account, a team account with a new organization, or an
account that joins an organization through an invitation token.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{RegisterPersonal, RegisterTeam, RegisterJoin},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI:        true,
				SuppressAuthError: true,
			}, cmd.ModeHandlers{
				JSON: handleRegisterJSON,
				TUI:  handleRegisterTUI,
			}, args)
		},
	}
	c.Flags().String("email", "", "Account email")
	c.Flags().String("name", "", "Full name")
	c.Flags().String("password", "", "Password, at least 8 characters")
	c.Flags().String("org-name", "", "Organization name (team)")
	c.Flags().String("org-description", "", "Organization description (team)")
	c.Flags().String("token", "", "Invitation token (join)")
	return c
}

// VerifyEmailCmd returns the verify-email command
func VerifyEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-email <token>",
		Short: "Confirm an email address with the token from the verification email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI:        true,
				SuppressAuthError: true,
			}, cmd.ModeHandlers{
				JSON: handleVerifyEmail,
			}, args)
		},
	}
}

// ResendVerificationCmd returns the resend-verification command
func ResendVerificationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resend-verification <email>",
		Short: "Send the verification email again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI:        true,
				SuppressAuthError: true,
			}, cmd.ModeHandlers{
				JSON: handleResendVerification,
			}, args)
		},
	}
}

// RefreshCmd returns the refresh command
func RefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Renew the access token using the refresh cookie",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handleRefresh,
			}, args)
		},
	}
}
