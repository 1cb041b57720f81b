package components

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/taskforge/taskforge/cli/tui/models"
)

// ErrFormCanceled is returned when the user aborts a prompt.
var ErrFormCanceled = errors.New("prompt canceled")

// promptModel runs a huh form inside a BaseModel so prompts share the
// command context and terminal size handling of the other models.
type promptModel struct {
	models.BaseModel
	form *huh.Form
}

func newPromptModel(ctx context.Context, form *huh.Form) *promptModel {
	return &promptModel{BaseModel: models.NewBaseModel(ctx), form: form}
}

func (p *promptModel) Init() tea.Cmd {
	return p.form.Init()
}

func (p *promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "ctrl+c" {
		p.form.State = huh.StateAborted
		p.Quit()
		return p, tea.Quit
	}
	p.HandleResize(msg)
	next, cmd := p.form.Update(msg)
	if form, ok := next.(*huh.Form); ok {
		p.form = form
	}
	if p.form.State != huh.StateNormal {
		p.Quit()
		return p, tea.Quit
	}
	return p, cmd
}

func (p *promptModel) View() string {
	if p.IsQuitting() {
		return ""
	}
	return p.form.View()
}

func (p *promptModel) canceled() bool {
	return p.form.State == huh.StateAborted
}

// RunForm shows the fields as a single group and blocks until the user
// submits or aborts. Field values are written through their bound pointers.
func RunForm(ctx context.Context, fields ...huh.Field) error {
	form := huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true)
	prompt := newPromptModel(ctx, form)
	if _, err := tea.NewProgram(prompt, tea.WithContext(ctx)).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to run prompt: %w", err)
	}
	if prompt.canceled() {
		return ErrFormCanceled
	}
	return nil
}

// Required is a huh validator rejecting blank input.
func Required(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
