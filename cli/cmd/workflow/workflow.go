package workflow

import (
	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/cmd"
	"github.com/taskforge/taskforge/cli/helpers"
)

// Cmd returns the workflow command group
func Cmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "workflow",
		Short: "Inspect and update generated workflows",
		Long:  "Commands for viewing workflow task trees and updating parent task status and order",
	}
	c.AddCommand(
		ShowCmd(),
		RawCmd(),
		TreeCmd(),
		StatusCmd(),
		OrderCmd(),
		ListCmd(),
		GenerateCmd(),
	)
	return c
}

// ShowCmd returns the workflow show command
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <workflow-id>",
		Short: "Show a workflow and its task tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handleShow,
			}, args)
		},
	}
}

// RawCmd returns the workflow raw command
func RawCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "raw <workflow-id>",
		Short: "Print the workflow payload exactly as the backend returned it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handleRaw,
			}, args)
		},
	}
	c.Flags().Bool("compact", false, "Print the payload on a single line")
	return c
}

// TreeCmd returns the workflow tree command
func TreeCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "tree <workflow-id>",
		Short: "Print the flattened task tree",
		Long: `Print every task of the workflow in tree order with its depth and parent.
With --browse an interactive terminal opens a browser where space cycles the
status of the selected task.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handleTreeJSON,
				TUI:  handleTreeTUI,
			}, args)
		},
	}
	c.Flags().Bool("browse", false, "Open the interactive task browser")
	return c
}

// StatusCmd returns the workflow status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <workflow-id> <task-id> <todo|in_progress|done>",
		Short: "Set the status of a parent task",
		Args:  cobra.ExactArgs(3),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handleStatus,
			}, args)
		},
	}
}

// OrderCmd returns the workflow order command
func OrderCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "order <workflow-id> <task-id>",
		Short: "Move a parent task to another order slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			if err := cmd.ValidateRequiredFlags(cobraCmd, []string{"from", "to"}); err != nil {
				return cmd.HandleCommonErrors(cobraCmd, err, helpers.DetectMode(cobraCmd))
			}
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handleOrder,
			}, args)
		},
	}
	c.Flags().Int("from", 0, "Current order of the task")
	c.Flags().Int("to", 0, "Target order of the task")
	return c
}

// ListCmd returns the workflow list command
func ListCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "list",
		Short: "List workflows of a user",
		Args:  cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handleList,
			}, args)
		},
	}
	c.Flags().String("user", "", "User id (defaults to the signed-in user)")
	return c
}

// GenerateCmd returns the workflow generate command
func GenerateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a workflow from a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handleGenerate,
			}, args)
		},
	}
	c.Flags().String("title", "", "Workflow title")
	c.Flags().String("user", "", "User id (defaults to the signed-in user)")
	return c
}
