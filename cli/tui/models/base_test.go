package models

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func TestBaseModel(t *testing.T) {
	t.Run("Should record the window size", func(t *testing.T) {
		m := NewBaseModel(t.Context())
		assert.False(t, m.IsReady())
		assert.True(t, m.HandleResize(tea.WindowSizeMsg{Width: 120, Height: 40}))
		w, h := m.Size()
		assert.Equal(t, 120, w)
		assert.Equal(t, 40, h)
		assert.True(t, m.IsReady())
	})

	t.Run("Should ignore other messages", func(t *testing.T) {
		m := NewBaseModel(t.Context())
		assert.False(t, m.HandleResize(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}))
		assert.False(t, m.IsReady())
	})

	t.Run("Should track failures and successes in the status line", func(t *testing.T) {
		m := NewBaseModel(t.Context())
		assert.Empty(t, m.RenderNotice())
		m.Fail(errors.New("boom"), "Failed to update t1")
		assert.EqualError(t, m.Error(), "boom")
		assert.Equal(t, "Failed to update t1", m.Notice())
		assert.Contains(t, m.RenderNotice(), "Failed to update t1")
		m.Succeed("t1 is now done")
		assert.NoError(t, m.Error())
		assert.Equal(t, "t1 is now done", m.Notice())
	})

	t.Run("Should mark the model as quitting", func(t *testing.T) {
		m := NewBaseModel(t.Context())
		m.Quit()
		assert.True(t, m.IsQuitting())
	})
}
