package config

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/cmd"
	"github.com/taskforge/taskforge/cli/helpers"
	"github.com/taskforge/taskforge/cli/tui/views"
	"github.com/taskforge/taskforge/pkg/config"
	"github.com/taskforge/taskforge/pkg/logger"
)

// NewConfigCommand creates the config command using the unified command pattern
func NewConfigCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Configuration inspection and diagnostics",
		Long:  `Show the effective TaskForge client configuration, where each value came from, and whether it is valid.`,
	}
	c.AddCommand(
		NewConfigShowCommand(),
		NewConfigDiagnosticsCommand(),
		NewConfigValidateCommand(),
	)
	return c
}

// NewConfigShowCommand creates the config show subcommand
func NewConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration values and their sources",
		Long: `Display every effective configuration value with the source that provided it
(default, yaml, env or cli) and the environment variable that can override it.
Sensitive values are redacted. Use -o json|yaml|tui to pick the format.`,
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
				JSON: handleConfigShow,
			}, args)
		},
	}
}

// NewConfigDiagnosticsCommand creates the config diagnostics subcommand
func NewConfigDiagnosticsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "diagnostics",
		Short: "Report configuration files, session location and detected mode",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
				JSON: handleConfigDiagnostics,
			}, args)
		},
	}
}

// NewConfigValidateCommand creates the config validate subcommand
func NewConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate the effective configuration or a YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{}, cmd.ModeHandlers{
				JSON: handleConfigValidate,
			}, args)
		},
	}
}

func handleConfigShow(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	log := logger.FromContext(ctx)
	log.Debug("executing config show command")
	entries, err := config.Entries(executor.GetConfig(), config.ServiceFromContext(ctx))
	if err != nil {
		return err
	}
	table := views.NewTable("Configuration", "Key", "Value", "Source", "Env")
	for _, entry := range entries {
		table.AddRow(entry.Path, fmt.Sprint(entry.Value), string(entry.Source), entry.Env)
	}
	return executor.Output(entries, table)
}

// diagnostics is the output of `config diagnostics`.
type diagnostics struct {
	WorkingDir    string `json:"working_dir"`
	ConfigFile    string `json:"config_file"`
	ConfigExists  bool   `json:"config_exists"`
	EnvFile       string `json:"env_file,omitempty"`
	BaseURL       string `json:"base_url"`
	SessionPath   string `json:"session_path"`
	SessionExists bool   `json:"session_exists"`
	Mode          string `json:"mode"`
	Interactive   bool   `json:"interactive"`
	Valid         bool   `json:"valid"`
	Error         string `json:"error,omitempty"`
}

func (d *diagnostics) RenderTUI(width int) string {
	view := views.NewKeyValue("Configuration diagnostics").
		Add("Working dir", d.WorkingDir).
		Add("Config file", existence(d.ConfigFile, d.ConfigExists)).
		Add("Env file", d.EnvFile).
		Add("Base URL", d.BaseURL).
		Add("Session", existence(d.SessionPath, d.SessionExists)).
		Add("Mode", d.Mode).
		Add("Interactive", d.Interactive)
	out := view.RenderTUI(width) + "\n"
	if d.Valid {
		return out + views.Success("configuration is valid").RenderTUI(width)
	}
	return out + views.Warning("configuration is invalid: %s", d.Error).RenderTUI(width)
}

func existence(path string, exists bool) string {
	if path == "" {
		return ""
	}
	if exists {
		return path
	}
	return path + " (missing)"
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func handleConfigDiagnostics(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	cfg := executor.GetConfig()
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	configFile := helpers.GetFlagStringWithDefault(cobraCmd, "config", "")
	report := &diagnostics{
		WorkingDir:    cwd,
		ConfigFile:    configFile,
		ConfigExists:  fileExists(configFile),
		EnvFile:       helpers.GetFlagStringWithDefault(cobraCmd, "env-file", ""),
		BaseURL:       cfg.API.BaseURL,
		SessionPath:   cfg.Session.Path,
		SessionExists: fileExists(cfg.Session.Path),
		Mode:          string(executor.GetMode()),
		Interactive:   helpers.IsInteractive(cfg),
		Valid:         true,
	}
	service := config.ServiceFromContext(ctx)
	if service == nil {
		service = config.NewService()
	}
	if err := service.Validate(cfg); err != nil {
		report.Valid = false
		report.Error = err.Error()
	}
	return executor.Output(report, report)
}

// validation is the output of `config validate`.
type validation struct {
	Source string `json:"source"`
	Valid  bool   `json:"valid"`
}

func handleConfigValidate(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	if len(args) == 0 {
		service := config.ServiceFromContext(ctx)
		if service == nil {
			service = config.NewService()
		}
		if err := service.Validate(executor.GetConfig()); err != nil {
			return helpers.NewCliError("INVALID_CONFIG", "configuration is invalid", err.Error())
		}
		result := &validation{Source: "effective", Valid: true}
		return executor.Output(result, views.Success("effective configuration is valid"))
	}
	path := args[0]
	if !fileExists(path) {
		return helpers.NewCliError("CONFIG_NOT_FOUND", fmt.Sprintf("configuration file %s not found", path))
	}
	if _, err := config.NewService().Load(ctx, config.NewYAMLProvider(path)); err != nil {
		return helpers.NewCliError("INVALID_CONFIG", fmt.Sprintf("%s is invalid", path), err.Error())
	}
	result := &validation{Source: path, Valid: true}
	return executor.Output(result, views.Success("%s is valid", path))
}
