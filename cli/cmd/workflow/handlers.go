package workflow

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"github.com/taskforge/taskforge/cli/api"
	"github.com/taskforge/taskforge/cli/cmd"
	"github.com/taskforge/taskforge/cli/helpers"
	"github.com/taskforge/taskforge/cli/state"
	"github.com/taskforge/taskforge/cli/tui/components"
	"github.com/taskforge/taskforge/cli/tui/views"
	"github.com/taskforge/taskforge/engine/workflow"
	"github.com/taskforge/taskforge/pkg/logger"
)

// statusResult is the output of `workflow status`.
type statusResult struct {
	WorkflowID string          `json:"workflow_id"`
	Task       workflow.Task   `json:"task"`
	Previous   workflow.Status `json:"previous_status"`
}

func (r *statusResult) RenderTUI(_ int) string {
	return views.Success("%s: %s -> %s", r.Task.ID, r.Previous, r.Task.Status).RenderTUI(0)
}

func load(ctx context.Context, executor *cmd.CommandExecutor, workflowID string) (*workflow.Workflow, error) {
	if err := helpers.ValidateID(workflowID, "workflow ID"); err != nil {
		return nil, err
	}
	loader := state.NewLoader(executor.GetClient().Workflows(), executor.GetState().Workflow)
	return loader.Load(ctx, workflowID)
}

func handleShow(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	wf, err := load(ctx, executor, args[0])
	if err != nil {
		return err
	}
	view := views.NewKeyValue("Workflow").
		Add("ID", wf.ID).
		Add("Title", wf.Title).
		Add("Description", wf.Description).
		Add("Prompt", wf.Prompt).
		Add("Created", wf.CreatedAt).
		Add("Tasks", wf.TaskCount())
	tree := views.NewTaskTree(wf)
	tree.Title = ""
	return executor.Output(wf, &combined{parts: []helpers.Renderer{view, tree}})
}

// combined renders several views separated by a blank line.
type combined struct {
	parts []helpers.Renderer
}

func (c *combined) RenderTUI(width int) string {
	out := ""
	for i, part := range c.parts {
		if i > 0 {
			out += "\n\n"
		}
		out += part.RenderTUI(width)
	}
	return out
}

func handleRaw(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	if err := helpers.ValidateID(args[0], "workflow ID"); err != nil {
		return err
	}
	raw, err := executor.GetClient().Workflows().FetchRaw(ctx, args[0])
	if err != nil {
		return err
	}
	compact, err := cobraCmd.Flags().GetBool("compact")
	if err != nil {
		return fmt.Errorf("failed to get compact flag: %w", err)
	}
	var out []byte
	switch {
	case compact:
		out = append(pretty.Ugly(raw), '\n')
	case executor.GetMode() == helpers.ModeTUI && helpers.ShouldUseColor(cobraCmd):
		out = pretty.Color(pretty.Pretty(raw), nil)
	default:
		out = pretty.Pretty(raw)
	}
	if _, err := cobraCmd.OutOrStdout().Write(out); err != nil {
		return fmt.Errorf("failed to write workflow payload: %w", err)
	}
	return nil
}

func handleTreeJSON(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	if _, err := load(ctx, executor, args[0]); err != nil {
		return err
	}
	return executor.Output(executor.GetState().Workflow.Flatten(), nil)
}

func handleTreeTUI(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	wf, err := load(ctx, executor, args[0])
	if err != nil {
		return err
	}
	browse, err := cobraCmd.Flags().GetBool("browse")
	if err != nil {
		return fmt.Errorf("failed to get browse flag: %w", err)
	}
	if !browse || !executor.Interactive() {
		return executor.Output(executor.GetState().Workflow.Flatten(), views.NewTaskTree(wf))
	}
	tasks := executor.GetClient().Tasks()
	update := func(ctx context.Context, taskID string, status workflow.Status) error {
		return tasks.UpdateParentStatus(ctx, wf.ID, taskID, status)
	}
	return components.RunTaskBrowser(ctx, executor.GetState().Workflow, update)
}

func handleStatus(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	log := logger.FromContext(ctx)
	workflowID, taskID := args[0], args[1]
	status, err := workflow.ParseStatus(args[2])
	if err != nil {
		return helpers.NewCliError("INVALID_STATUS", err.Error())
	}
	if err := helpers.ValidateID(taskID, "task ID"); err != nil {
		return err
	}
	if _, err := load(ctx, executor, workflowID); err != nil {
		return err
	}
	store := executor.GetState().Workflow
	previous, ok := workflow.Find(store.Tasks(), taskID)
	if !ok {
		return helpers.NewCliError("TASK_NOT_FOUND",
			fmt.Sprintf("task %s is not part of workflow %s", taskID, workflowID))
	}
	if err := executor.GetClient().Tasks().UpdateParentStatus(ctx, workflowID, taskID, status); err != nil {
		return err
	}
	store.UpdateStatus(taskID, status)
	updated, _ := workflow.Find(store.Tasks(), taskID)
	log.Debug("task status updated", "workflow_id", workflowID, "task_id", taskID, "status", status)
	result := &statusResult{WorkflowID: workflowID, Task: updated, Previous: previous.Status}
	return executor.Output(result, result)
}

func handleOrder(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	workflowID, taskID := args[0], args[1]
	if err := helpers.ValidateID(workflowID, "workflow ID"); err != nil {
		return err
	}
	if err := helpers.ValidateID(taskID, "task ID"); err != nil {
		return err
	}
	from, err := cobraCmd.Flags().GetInt("from")
	if err != nil {
		return fmt.Errorf("failed to get from flag: %w", err)
	}
	to, err := cobraCmd.Flags().GetInt("to")
	if err != nil {
		return fmt.Errorf("failed to get to flag: %w", err)
	}
	if from < 0 || to < 0 {
		return helpers.NewCliError("INVALID_ORDER", "order values cannot be negative")
	}
	if err := executor.GetClient().Tasks().UpdateParentOrder(ctx, workflowID, taskID, from, to); err != nil {
		return err
	}
	msg := views.Success("moved %s from %d to %d", taskID, from, to)
	return executor.Output(msg, msg)
}

func resolveUserID(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor) (string, error) {
	if userID := helpers.GetFlagStringWithDefault(cobraCmd, "user", ""); userID != "" {
		return userID, helpers.ValidateID(userID, "user ID")
	}
	user, err := executor.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func handleList(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	userID, err := resolveUserID(ctx, cobraCmd, executor)
	if err != nil {
		return err
	}
	workflows, err := executor.GetClient().Workflows().ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	table := views.NewTable("Workflows", "ID", "Title", "Tasks", "Created")
	table.Empty = "No workflows yet. Create one with `taskforge workflow generate`."
	for i := range workflows {
		wf := &workflows[i]
		table.AddRow(wf.ID, helpers.Truncate(wf.Title, 48), fmt.Sprint(wf.TaskCount()), wf.CreatedAt)
	}
	return executor.Output(workflows, table)
}

func handleGenerate(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	userID, err := resolveUserID(ctx, cobraCmd, executor)
	if err != nil {
		return err
	}
	workflowID, err := executor.GetClient().Workflows().GenerateTasks(ctx, &api.GenerateTasksRequest{
		UserID: userID,
		Prompt: args[0],
		Title:  helpers.GetFlagStringWithDefault(cobraCmd, "title", ""),
	})
	if err != nil {
		return err
	}
	wf, err := load(ctx, executor, workflowID)
	if err != nil {
		return err
	}
	return executor.Output(wf, views.NewTaskTree(wf))
}
