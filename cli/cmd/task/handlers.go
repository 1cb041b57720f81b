package task

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/taskforge/taskforge/cli/api"
	"github.com/taskforge/taskforge/cli/cmd"
	"github.com/taskforge/taskforge/cli/helpers"
	"github.com/taskforge/taskforge/cli/tui/views"
)

var priorities = []string{
	string(api.PriorityNone),
	string(api.PriorityLow),
	string(api.PriorityMedium),
	string(api.PriorityHigh),
	string(api.PriorityUrgent),
}

func taskView(title string, t *api.BoardTask) *views.KeyValue {
	due := ""
	if t.DueDate != nil {
		due = *t.DueDate
	}
	return views.NewKeyValue(title).
		Add("ID", t.ID).
		Add("Title", t.Title).
		Add("Status", t.Status).
		Add("Priority", t.Priority).
		Add("Due", due).
		Add("Position", t.Position)
}

func handleCreate(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	flags := cobraCmd.Flags()
	priority := helpers.GetFlagStringWithDefault(cobraCmd, "priority", "")
	if priority != "" {
		if err := helpers.ValidateEnum(priority, priorities, "priority"); err != nil {
			return err
		}
	}
	req := &api.CreateTaskRequest{
		Title:       args[0],
		Description: helpers.GetFlagStringWithDefault(cobraCmd, "description", ""),
		Priority:    api.Priority(priority),
		ProjectID:   helpers.GetFlagStringWithDefault(cobraCmd, "project", ""),
		BoardID:     helpers.GetFlagStringWithDefault(cobraCmd, "board", ""),
		ColumnID:    helpers.GetFlagStringWithDefault(cobraCmd, "column", ""),
		AssigneeID:  helpers.GetFlagStringWithDefault(cobraCmd, "assignee", ""),
		DueDate:     helpers.GetFlagStringWithDefault(cobraCmd, "due", ""),
	}
	if flags.Changed("estimate") {
		estimate, err := flags.GetFloat64("estimate")
		if err != nil {
			return fmt.Errorf("failed to get estimate flag: %w", err)
		}
		req.EstimatedHours = &estimate
	}
	labels, err := flags.GetStringSlice("label")
	if err != nil {
		return fmt.Errorf("failed to get label flag: %w", err)
	}
	req.Labels = labels
	created, err := executor.GetClient().Tasks().Create(ctx, req)
	if err != nil {
		return err
	}
	return executor.Output(created, taskView("Card created", created))
}

func handleMove(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	taskID := args[0]
	if err := helpers.ValidateID(taskID, "task ID"); err != nil {
		return err
	}
	position, err := cobraCmd.Flags().GetFloat64("position")
	if err != nil {
		return fmt.Errorf("failed to get position flag: %w", err)
	}
	req := &api.UpdatePositionRequest{
		NewPosition: position,
		ColumnID:    helpers.GetFlagStringWithDefault(cobraCmd, "column", ""),
	}
	if err := executor.GetClient().Tasks().UpdatePosition(ctx, taskID, req); err != nil {
		return err
	}
	msg := views.Success("moved %s to position %g in column %s", taskID, position, req.ColumnID)
	return executor.Output(msg, msg)
}

func handleColumn(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	req := &api.UpdateColumnRequest{TaskID: args[0], NewColumnID: args[1]}
	if err := helpers.ValidateID(req.TaskID, "task ID"); err != nil {
		return err
	}
	if err := executor.GetClient().Tasks().UpdateColumn(ctx, req); err != nil {
		return err
	}
	msg := views.Success("moved %s to column %s", req.TaskID, req.NewColumnID)
	return executor.Output(msg, msg)
}

// collectUpdates builds the partial update from changed flags and --set pairs.
func collectUpdates(cobraCmd *cobra.Command) (map[string]any, error) {
	flags := cobraCmd.Flags()
	updates := make(map[string]any)
	stringFields := map[string]string{
		"title":       "title",
		"description": "description",
		"status":      "status",
		"priority":    "priority",
		"assignee":    "assignee_id",
		"due":         "due_date",
	}
	for flag, field := range stringFields {
		if !flags.Changed(flag) {
			continue
		}
		value, err := flags.GetString(flag)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", flag, err)
		}
		updates[field] = value
	}
	if priority, ok := updates["priority"].(string); ok {
		if err := helpers.ValidateEnum(priority, priorities, "priority"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("estimate") {
		estimate, err := flags.GetFloat64("estimate")
		if err != nil {
			return nil, fmt.Errorf("failed to get estimate flag: %w", err)
		}
		updates["estimated_hours"] = estimate
	}
	extra, err := flags.GetStringToString("set")
	if err != nil {
		return nil, fmt.Errorf("failed to get set flag: %w", err)
	}
	for key, raw := range extra {
		updates[key] = scalar(raw)
	}
	return updates, nil
}

// scalar decodes raw as a YAML scalar so numbers and booleans keep their type.
func scalar(raw string) any {
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
		return raw
	}
	switch value.(type) {
	case map[string]any, []any:
		return raw
	}
	return value
}

func handleUpdate(ctx context.Context, cobraCmd *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	taskID := args[0]
	if err := helpers.ValidateID(taskID, "task ID"); err != nil {
		return err
	}
	updates, err := collectUpdates(cobraCmd)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return helpers.NewCliError("NOTHING_TO_UPDATE", "no fields to update",
			"pass at least one of --title, --description, --status, --priority, --assignee, --due, --estimate or --set")
	}
	result, err := executor.GetClient().Tasks().UpdatePartial(ctx, &api.PartialUpdateRequest{
		TaskID:  taskID,
		Updates: updates,
	})
	if err != nil {
		return err
	}
	if result.Task != nil {
		return executor.Output(result, taskView("Card updated", result.Task))
	}
	message := result.Message
	if message == "" {
		message = "updated " + taskID
	}
	return executor.Output(result, views.Success("%s", message))
}
