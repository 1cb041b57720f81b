package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/api"
	"github.com/taskforge/taskforge/cli/helpers"
	"github.com/taskforge/taskforge/cli/state"
	"github.com/taskforge/taskforge/pkg/config"
	"github.com/taskforge/taskforge/pkg/logger"
	"github.com/taskforge/taskforge/pkg/session"
)

type fsCtxKey struct{}

// ContextWithFs overrides the filesystem used for the session file.
func ContextWithFs(ctx context.Context, fs afero.Fs) context.Context {
	return context.WithValue(ctx, fsCtxKey{}, fs)
}

func fsFromContext(ctx context.Context) afero.Fs {
	if fs, ok := ctx.Value(fsCtxKey{}).(afero.Fs); ok && fs != nil {
		return fs
	}
	return afero.NewOsFs()
}

// CommandExecutor handles common setup and execution patterns for CLI commands:
// mode detection, session and API client creation, application state and
// error rendering.
type CommandExecutor struct {
	mode   helpers.Mode
	format helpers.OutputFormat
	cfg    *config.Config
	out    io.Writer

	session *session.Store
	client  *api.Client
	app     *state.App
}

// HandlerFunc defines the signature for command handlers.
type HandlerFunc func(ctx context.Context, cmd *cobra.Command, executor *CommandExecutor, args []string) error

// ModeHandlers contains handlers for different execution modes. A nil TUI
// handler falls back to the JSON handler.
type ModeHandlers struct {
	JSON HandlerFunc
	TUI  HandlerFunc
}

// ExecutorOptions allows customization of the command executor
type ExecutorOptions struct {
	// RequireAPI opens the session and builds the API client.
	RequireAPI bool
	// SuppressAuthError keeps a failed refresh from recording the session
	// expired message. Used by login and signup commands.
	SuppressAuthError bool
}

// NewCommandExecutor creates a new command executor with all necessary setup.
func NewCommandExecutor(cmd *cobra.Command, opts ExecutorOptions) (*CommandExecutor, error) {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	cfg := config.FromContext(ctx)
	mode := helpers.DetectMode(cmd)
	log.Debug("detected execution mode", "mode", mode)
	executor := &CommandExecutor{
		mode:   mode,
		format: helpers.FormatForMode(mode),
		cfg:    cfg,
		out:    cmd.OutOrStdout(),
		app:    state.NewApp(state.DefaultRecentProjects),
	}
	if output, err := cmd.Flags().GetString("output"); err == nil {
		format, err := helpers.ParseOutputFormat(output, mode)
		if err != nil {
			return nil, err
		}
		executor.format = format
	}
	if !opts.RequireAPI {
		return executor, nil
	}
	store, err := session.Open(fsFromContext(ctx), cfg.Session.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	client, err := api.NewFromConfig(cfg, store, opts.SuppressAuthError)
	if err != nil {
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}
	executor.session = store
	executor.client = client
	return executor, nil
}

// Execute runs the appropriate handler based on the detected mode.
func (e *CommandExecutor) Execute(ctx context.Context, cmd *cobra.Command, handlers ModeHandlers, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	switch e.mode {
	case helpers.ModeJSON:
		if handlers.JSON == nil {
			return fmt.Errorf("JSON mode handler not implemented")
		}
		return handlers.JSON(ctx, cmd, e, args)
	case helpers.ModeTUI:
		if handlers.TUI != nil {
			return handlers.TUI(ctx, cmd, e, args)
		}
		if handlers.JSON == nil {
			return fmt.Errorf("TUI mode handler not implemented")
		}
		return handlers.JSON(ctx, cmd, e, args)
	default:
		return fmt.Errorf("unsupported mode: %s", e.mode)
	}
}

func (e *CommandExecutor) GetMode() helpers.Mode {
	return e.mode
}

func (e *CommandExecutor) GetFormat() helpers.OutputFormat {
	return e.format
}

func (e *CommandExecutor) GetConfig() *config.Config {
	return e.cfg
}

func (e *CommandExecutor) GetClient() *api.Client {
	return e.client
}

func (e *CommandExecutor) GetSession() *session.Store {
	return e.session
}

func (e *CommandExecutor) GetState() *state.App {
	return e.app
}

// Interactive reports whether prompts can be shown.
func (e *CommandExecutor) Interactive() bool {
	return e.mode == helpers.ModeTUI && helpers.IsInteractive(e.cfg)
}

// Output writes data in the selected format. In TUI format the view renders
// it when one is given.
func (e *CommandExecutor) Output(data any, view helpers.Renderer) error {
	writer := helpers.NewOutputWriter(e.out, e.format)
	if e.format == helpers.OutputFormatTUI && view != nil {
		return writer.WriteData(view)
	}
	return writer.WriteData(data)
}

// ExecuteCommand is a convenience function that combines executor creation and execution.
func ExecuteCommand(cmd *cobra.Command, opts ExecutorOptions, handlers ModeHandlers, args []string) error {
	executor, err := NewCommandExecutor(cmd, opts)
	if err != nil {
		return HandleCommonErrors(cmd, err, helpers.DetectMode(cmd))
	}
	return HandleCommonErrors(cmd, executor.Execute(cmd.Context(), cmd, handlers, args), executor.GetMode())
}

// ValidateRequiredFlags checks that all required flags are present and valid.
func ValidateRequiredFlags(cmd *cobra.Command, required []string) error {
	for _, flag := range required {
		if !cmd.Flags().Changed(flag) {
			return helpers.NewCliError("MISSING_FLAG", fmt.Sprintf("required flag '%s' not specified", flag))
		}
		if value, err := cmd.Flags().GetString(flag); err == nil && value == "" {
			return helpers.NewCliError("EMPTY_FLAG", fmt.Sprintf("required flag '%s' cannot be empty", flag))
		}
	}
	return nil
}

// HandleCommonErrors renders err on the command's error stream and returns
// the structured form.
func HandleCommonErrors(cmd *cobra.Command, err error, mode helpers.Mode) error {
	if err == nil {
		return nil
	}
	if IsReported(err) {
		return err
	}
	if cliErr := categorizeError(err); cliErr != nil {
		helpers.OutputError(cmd.ErrOrStderr(), cliErr, mode)
		return &reportedError{err: cliErr}
	}
	helpers.OutputError(cmd.ErrOrStderr(), err, mode)
	return &reportedError{err: err}
}

// reportedError marks an error already written to the error stream.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

// IsReported reports whether err was already rendered for the user.
func IsReported(err error) bool {
	var reported *reportedError
	return errors.As(err, &reported)
}

func categorizeError(err error) *helpers.CliError {
	var cliErr *helpers.CliError
	var apiErr *api.APIError
	switch {
	case errors.As(err, &cliErr):
		return cliErr
	case errors.Is(err, context.Canceled):
		return helpers.NewCliError("OPERATION_CANCELED", "Operation was canceled by user")
	case errors.Is(err, api.ErrSessionExpired):
		return helpers.NewCliError("SESSION_EXPIRED", session.SessionExpiredMessage,
			"run `taskforge auth login` to sign in again")
	case errors.Is(err, helpers.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return helpers.NewCliError("OPERATION_TIMEOUT", "Operation timed out", err.Error())
	case errors.Is(err, helpers.ErrNetwork):
		return helpers.NewCliError("NETWORK_ERROR", "Network connection failed", err.Error())
	case errors.As(err, &apiErr):
		return helpers.NewCliError(apiErrorCode(apiErr), apiErr.Message, apiErr.Detail).
			WithContext("status", apiErr.Status).
			WithContext("path", apiErr.Path)
	case errors.Is(err, helpers.ErrAuth):
		return helpers.NewCliError("AUTH_ERROR", "Authentication failed", err.Error())
	default:
		return nil
	}
}

func apiErrorCode(err *api.APIError) string {
	switch {
	case errors.Is(err, helpers.ErrAuth):
		return "AUTH_ERROR"
	case errors.Is(err, api.ErrNotFound):
		return "NOT_FOUND"
	case err.Status >= 500:
		return "SERVER_ERROR"
	default:
		return "REQUEST_FAILED"
	}
}
