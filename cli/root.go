package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/cmd/auth"
	"github.com/taskforge/taskforge/cli/cmd/board"
	configcmd "github.com/taskforge/taskforge/cli/cmd/config"
	"github.com/taskforge/taskforge/cli/cmd/dashboard"
	"github.com/taskforge/taskforge/cli/cmd/org"
	"github.com/taskforge/taskforge/cli/cmd/project"
	"github.com/taskforge/taskforge/cli/cmd/task"
	"github.com/taskforge/taskforge/cli/cmd/workflow"
	"github.com/taskforge/taskforge/cli/helpers"
	"github.com/taskforge/taskforge/pkg/config"
	"github.com/taskforge/taskforge/pkg/logger"
)

const DefaultConfigFile = "taskforge.yaml"

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskforge",
		Short: "TaskForge command-line client",
		Long: "Manage TaskForge workflows, boards, projects and organizations from the terminal.\n" +
			"Output is JSON when piped and styled text in an interactive terminal.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return SetupGlobalConfig(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", DefaultConfigFile, "Path to the YAML configuration file")
	flags.String("env-file", ".env", "Path to a .env file loaded before configuration")
	flags.String("base-url", config.DefaultBaseURL, "TaskForge API base URL")
	flags.Duration("timeout", config.DefaultTimeout, "HTTP request timeout")
	flags.String("format", config.FormatAuto, "Output mode: auto, json or tui")
	flags.StringP("output", "o", "", "Output format override: json, yaml or tui")
	flags.Bool("interactive", true, "Allow interactive prompts when attached to a terminal")
	flags.Bool("no-color", false, "Disable colored output")
	flags.String("session", "", "Path to the session file (defaults to the user config directory)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error, disabled")
	flags.Bool("log-json", false, "Emit logs as JSON")
	flags.Bool("log-source", false, "Include source locations in logs")

	root.AddCommand(
		workflow.Cmd(),
		auth.Cmd(),
		org.Cmd(),
		project.Cmd(),
		board.Cmd(),
		task.Cmd(),
		dashboard.Cmd(),
		configcmd.NewConfigCommand(),
	)

	return root
}

// SetupGlobalConfig loads the .env file and configuration, installs the
// logger and attaches config, config service and logger to the command
// context.
func SetupGlobalConfig(cmd *cobra.Command) error {
	fs := allFlags(cmd)
	if _, err := loadEnvFile(fs); err != nil {
		return err
	}
	configPath, err := fs.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	service := config.NewService()
	sources := []config.Source{config.NewCLIProvider(extractCLIFlags(fs))}
	if configPath != "" {
		sources = append([]config.Source{config.NewYAMLProvider(configPath)}, sources...)
	}
	cfg, err := service.Load(ctx, sources...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.SetupLogger(cfg.Runtime.LogLevel, cfg.Runtime.LogJSON, cfg.Runtime.LogSource)
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithConfig(ctx, cfg)
	ctx = config.ContextWithService(ctx, service)
	cmd.SetContext(ctx)

	if !helpers.ShouldUseColor(cmd) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	log.Debug("configuration loaded", "config_file", configPath, "base_url", cfg.API.BaseURL)
	return nil
}
