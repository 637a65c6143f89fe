package datejump

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/sadhana/internal/model"
)

func TestValidateDate(t *testing.T) {
	assert.NoError(t, validateDate("2026-02-03"))
	assert.NoError(t, validateDate(" 2026-02-03 "))
	assert.Error(t, validateDate("2026-02-30"))
	assert.Error(t, validateDate("tomorrow"))
	assert.Error(t, validateDate(""))
}

func TestStartPrefillsCurrentDay(t *testing.T) {
	m := New(80, 24)
	m.Start(model.MustParseDay("2026-02-03"))

	assert.Equal(t, "2026-02-03", m.fb.date)
	assert.Contains(t, m.View(), "Go to date")
}

func TestEscCancels(t *testing.T) {
	m := New(80, 24)
	m.Start(model.MustParseDay("2026-02-03"))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CancelledMsg{}, cmd())
	assert.Equal(t, "", m.View())
}

func TestIdleFormIgnoresMessages(t *testing.T) {
	m := New(80, 24)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}
