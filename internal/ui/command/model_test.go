package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandMsgParts(t *testing.T) {
	c := CommandMsg("  GoTo 2026-01-02 ")
	assert.Equal(t, "goto", c.Name())
	assert.Equal(t, "2026-01-02", c.Arg())

	assert.Equal(t, "reload", CommandMsg("reload").Name())
	assert.Equal(t, "", CommandMsg("reload").Arg())
}

func TestEnterEmitsTypedCommand(t *testing.T) {
	m := New(80, 24)
	for _, r := range "today" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg("today"), cmd())
	assert.Equal(t, "", m.input.Value())
}

func TestEscEmitsEmptyCommand(t *testing.T) {
	m := New(80, 24)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg(""), cmd())
	assert.Equal(t, "", m.input.Value())
}
