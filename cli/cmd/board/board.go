package board

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskforge/taskforge/cli/api"
	"github.com/taskforge/taskforge/cli/cmd"
	"github.com/taskforge/taskforge/cli/helpers"
	"github.com/taskforge/taskforge/cli/state"
	"github.com/taskforge/taskforge/cli/tui/views"
)

// Cmd returns the board command group
func Cmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "board",
		Short: "Inspect kanban boards",
	}
	c.AddCommand(ShowCmd(), TasksCmd())
	return c
}

// ShowCmd returns the board show command
func ShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show the boards of a project with their columns",
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

// TasksCmd returns the board tasks command
func TasksCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "tasks <board-id>",
		Short: "List the cards of a board grouped by column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(cobraCmd, cmd.ExecutorOptions{
				RequireAPI: true,
			}, cmd.ModeHandlers{
				JSON: handleTasks,
			}, args)
		},
	}
	c.Flags().String("project", "", "Project id, used to show column names")
	return c
}

// boardsView lists every board with its ordered columns.
type boardsView struct {
	boards []api.Board
}

func (v *boardsView) RenderTUI(width int) string {
	table := views.NewTable("Boards", "ID", "Name", "Default", "Columns")
	table.Empty = "This project has no boards."
	for i := range v.boards {
		b := &v.boards[i]
		columns := slices.Clone(b.Columns)
		slices.SortFunc(columns, func(a, b api.BoardColumn) int { return a.Position - b.Position })
		names := make([]string, 0, len(columns))
		for _, c := range columns {
			names = append(names, c.Name)
		}
		isDefault := ""
		if b.IsDefault {
			isDefault = "yes"
		}
		table.AddRow(b.ID, b.Name, isDefault, strings.Join(names, " → "))
	}
	return table.RenderTUI(width)
}

func defaultBoard(boards []api.Board) *api.Board {
	for i := range boards {
		if boards[i].IsDefault {
			return &boards[i]
		}
	}
	if len(boards) > 0 {
		return &boards[0]
	}
	return nil
}

func handleShow(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	projectID := args[0]
	if err := helpers.ValidateID(projectID, "project ID"); err != nil {
		return err
	}
	boards, err := executor.GetClient().Boards().ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	executor.GetState().Projects.Touch(projectID)
	if b := defaultBoard(boards); b != nil {
		executor.GetState().Board.Set(b)
	}
	return executor.Output(boards, &boardsView{boards: boards})
}

// columnsView renders one table per column in board order.
type columnsView struct {
	store   *state.BoardStore
	columns []api.BoardColumn
}

func (v *columnsView) RenderTUI(width int) string {
	parts := make([]string, 0, len(v.columns))
	for _, column := range v.columns {
		tasks := v.store.ColumnTasks(column.ID)
		title := column.Name
		if column.TaskLimit != nil {
			title = fmt.Sprintf("%s [%d/%d]", title, len(tasks), *column.TaskLimit)
		}
		table := views.NewTable(title, "ID", "Title", "Priority", "Due")
		table.Empty = "No cards."
		table.StatusColumn = 2
		for i := range tasks {
			t := &tasks[i]
			due := ""
			if t.DueDate != nil {
				due = *t.DueDate
			}
			table.AddRow(t.ID, helpers.Truncate(t.Title, 48), string(t.Priority), due)
		}
		parts = append(parts, table.RenderTUI(width))
	}
	return strings.Join(parts, "\n\n")
}

// columnsFor returns the board's columns in position order. Without board
// metadata, columns are named by id in sorted order.
func columnsFor(board *api.Board, tasks map[string][]api.BoardTask) []api.BoardColumn {
	if board != nil && len(board.Columns) > 0 {
		columns := slices.Clone(board.Columns)
		slices.SortFunc(columns, func(a, b api.BoardColumn) int { return a.Position - b.Position })
		return columns
	}
	ids := make([]string, 0, len(tasks))
	for id := range tasks {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	columns := make([]api.BoardColumn, 0, len(ids))
	for i, id := range ids {
		columns = append(columns, api.BoardColumn{ID: id, Name: id, Position: i})
	}
	return columns
}

func handleTasks(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	boardID := args[0]
	if err := helpers.ValidateID(boardID, "board ID"); err != nil {
		return err
	}
	client := executor.GetClient()
	store := executor.GetState().Board
	if projectID := helpers.GetFlagStringWithDefault(cobraCmd, "project", ""); projectID != "" {
		boards, err := client.Boards().ListByProject(ctx, projectID)
		if err != nil {
			return err
		}
		for i := range boards {
			if boards[i].ID == boardID {
				store.Set(&boards[i])
			}
		}
	}
	tasks, err := client.Tasks().ListByBoard(ctx, boardID)
	if err != nil {
		return err
	}
	store.SetTasks(tasks)
	return executor.Output(tasks, &columnsView{store: store, columns: columnsFor(store.Board(), tasks)})
}
