package datejump

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/sadhana/internal/model"
	"github.com/nhle/sadhana/internal/theme"
)

// SubmittedMsg is dispatched when the user enters a valid date.
type SubmittedMsg struct {
	Day model.Day
}

// CancelledMsg is dispatched when the user leaves the form.
type CancelledMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	date string
}

// Model is the "go to date" form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates an idle date jump form.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets the form, prefilled with current.
func (m *Model) Start(current model.Day) tea.Cmd {
	m.fb.date = current.String()
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Go to date").
				Placeholder("YYYY-MM-DD").
				Value(&m.fb.date).
				Validate(validateDate),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
	return m.form.Init()
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.form = nil
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		day, err := model.ParseDay(m.fb.date)
		m.form = nil
		if err != nil {
			return m, func() tea.Msg { return CancelledMsg{} }
		}
		return m, func() tea.Msg { return SubmittedMsg{Day: day} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelledMsg{} }
	}

	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Jump to a day") + "\n" + m.form.View()

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 8
	if w < 30 {
		w = 30
	}
	if w > 60 {
		w = 60
	}
	return w
}

func validateDate(s string) error {
	_, err := model.ParseDay(strings.TrimSpace(s))
	return err
}
