package models

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskforge/taskforge/cli/tui/styles"
)

// NoticeKind selects how a status line is styled.
type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

// BaseModel holds the state every TaskForge bubbletea model shares: the
// command context, the terminal size, the status line and the last error.
type BaseModel struct {
	ctx        context.Context
	width      int
	height     int
	ready      bool
	quitting   bool
	err        error
	notice     string
	noticeKind NoticeKind
}

func NewBaseModel(ctx context.Context) BaseModel {
	return BaseModel{ctx: ctx}
}

// Context is the context of the command that opened the model. Backend calls
// issued from tea.Cmds use it so that cancellation reaches them.
func (m BaseModel) Context() context.Context {
	return m.ctx
}

func (m BaseModel) Size() (width, height int) {
	return m.width, m.height
}

// IsReady reports whether a window size has been received.
func (m BaseModel) IsReady() bool {
	return m.ready
}

func (m BaseModel) IsQuitting() bool {
	return m.quitting
}

func (m BaseModel) Error() error {
	return m.err
}

// Notice returns the unstyled status line.
func (m BaseModel) Notice() string {
	return m.notice
}

// RenderNotice returns the styled status line, or "" when there is none.
func (m BaseModel) RenderNotice() string {
	if m.notice == "" {
		return ""
	}
	switch m.noticeKind {
	case NoticeSuccess:
		return styles.SuccessStyle.Render(m.notice)
	case NoticeError:
		return styles.ErrorStyle.Render(m.notice)
	default:
		return styles.InfoStyle.Render(m.notice)
	}
}

func (m *BaseModel) SetNotice(kind NoticeKind, text string) {
	m.noticeKind = kind
	m.notice = text
}

// Fail records err and shows text as an error notice.
func (m *BaseModel) Fail(err error, text string) {
	m.err = err
	m.SetNotice(NoticeError, text)
}

// Succeed clears the last error and shows text as a success notice.
func (m *BaseModel) Succeed(text string) {
	m.err = nil
	m.SetNotice(NoticeSuccess, text)
}

func (m *BaseModel) Quit() {
	m.quitting = true
}

// HandleResize records the terminal size and reports whether msg was a resize.
func (m *BaseModel) HandleResize(msg tea.Msg) bool {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return false
	}
	m.width = size.Width
	m.height = size.Height
	m.ready = true
	return true
}
