package task

import (
	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/cmd"
)

// Cmd returns the task command group
func Cmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "task",
		Short: "Create and update board cards",
	}
	c.AddCommand(CreateCmd(), MoveCmd(), ColumnCmd(), UpdateCmd())
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

// CreateCmd returns the task create command
func CreateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "create <title>",
		Short: "Create a card in a board column",
		Args:  cobra.ExactArgs(1),
		RunE:  run(handleCreate),
	}
	c.Flags().String("project", "", "Project id")
	c.Flags().String("board", "", "Board id")
	c.Flags().String("column", "", "Column id")
	c.Flags().String("description", "", "Card description")
	c.Flags().String("priority", "", "Priority: no_priority, low, medium, high or urgent")
	c.Flags().String("assignee", "", "Assignee user id")
	c.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	c.Flags().Float64("estimate", 0, "Estimated hours")
	c.Flags().StringSlice("label", nil, "Label, repeatable")
	_ = c.MarkFlagRequired("project")
	_ = c.MarkFlagRequired("board")
	_ = c.MarkFlagRequired("column")
	return c
}

// MoveCmd returns the task move command
func MoveCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Move a card to a position, optionally in another column",
		Args:  cobra.ExactArgs(1),
		RunE:  run(handleMove),
	}
	c.Flags().String("column", "", "Target column id")
	c.Flags().Float64("position", 0, "Target position within the column")
	_ = c.MarkFlagRequired("column")
	return c
}

// ColumnCmd returns the task column command
func ColumnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "column <task-id> <column-id>",
		Short: "Move a card to another column",
		Args:  cobra.ExactArgs(2),
		RunE:  run(handleColumn),
	}
}

// UpdateCmd returns the task update command
func UpdateCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Change fields of a card",
		Long: `Send only the fields given on the command line. Arbitrary fields can be set
with --set key=value; values that parse as YAML scalars keep their type.`,
		Args: cobra.ExactArgs(1),
		RunE: run(handleUpdate),
	}
	c.Flags().String("title", "", "New title")
	c.Flags().String("description", "", "New description")
	c.Flags().String("status", "", "New status")
	c.Flags().String("priority", "", "New priority")
	c.Flags().String("assignee", "", "New assignee user id")
	c.Flags().String("due", "", "New due date (YYYY-MM-DD)")
	c.Flags().Float64("estimate", 0, "New estimated hours")
	c.Flags().StringToString("set", nil, "Additional field as key=value, repeatable")
	return c
}
