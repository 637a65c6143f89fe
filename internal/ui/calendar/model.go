package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	cal "github.com/nhle/sadhana/internal/calendar"
	"github.com/nhle/sadhana/internal/keys"
	"github.com/nhle/sadhana/internal/model"
	"github.com/nhle/sadhana/internal/theme"
)

// DateSelectedMsg is emitted when the user picks a day other than the
// selected one.
type DateSelectedMsg struct {
	Day model.Day
}

const cellWidth = 5

// Model is the calendar strip / month grid view.
type Model struct {
	sel     cal.Selector
	keys    *keys.KeyMap
	today   model.Day
	focused bool
	width   int
}

// New creates a collapsed calendar with selected as the current date.
func New(selected, today model.Day, weekStart time.Weekday, keys *keys.KeyMap) Model {
	return Model{
		sel:   cal.New(selected, weekStart),
		keys:  keys,
		today: today,
		width: 7 * cellWidth,
	}
}

// Selected returns the selected date.
func (m Model) Selected() model.Day { return m.sel.Selected() }

// Cursor returns the day under the browse cursor.
func (m Model) Cursor() model.Day { return m.sel.Cursor() }

// Expanded reports whether the month grid is open.
func (m Model) Expanded() bool { return m.sel.Expanded() }

// SetSelected re-syncs the calendar after the owner changed the date.
// No DateSelectedMsg is emitted.
func (m *Model) SetSelected(day model.Day) {
	m.sel.Sync(day)
}

// SetToday updates the day highlighted as today.
func (m *Model) SetToday(day model.Day) {
	m.today = day
}

// ToggleMode switches between the week strip and the month grid.
func (m *Model) ToggleMode() {
	m.sel.Toggle()
}

// Focus gives the calendar keyboard focus.
func (m *Model) Focus() { m.focused = true }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the calendar has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// SetWidth updates the available width.
func (m *Model) SetWidth(width int) {
	m.width = width
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses while the calendar is focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.PrevDay):
		m.sel.Move(-1)
	case key.Matches(keyMsg, m.keys.NextDay):
		m.sel.Move(1)
	case key.Matches(keyMsg, m.keys.PrevWeek):
		m.sel.Move(-7)
	case key.Matches(keyMsg, m.keys.NextWeek):
		m.sel.Move(7)
	case key.Matches(keyMsg, m.keys.PrevMonth):
		m.sel.MoveMonths(-1)
	case key.Matches(keyMsg, m.keys.NextMonth):
		m.sel.MoveMonths(1)
	case key.Matches(keyMsg, m.keys.Calendar):
		m.sel.Toggle()
	case key.Matches(keyMsg, m.keys.Toggle):
		if day, changed := m.sel.Pick(); changed {
			return m, func() tea.Msg { return DateSelectedMsg{Day: day} }
		}
	}
	return m, nil
}

// View renders the header and either the strip or the grid.
func (m Model) View() string {
	chevron := "▾"
	if m.sel.Expanded() {
		chevron = "▴"
	}
	header := lipgloss.NewStyle().Bold(true).Render(m.sel.Title() + " " + chevron)

	rows := []string{header, m.renderWeekdays()}
	if m.sel.Expanded() {
		for _, week := range m.sel.Month() {
			rows = append(rows, m.renderRow(week))
		}
	} else {
		rows = append(rows, m.renderRow(m.sel.Week()))
	}

	style := theme.SectionStyle
	if m.focused {
		style = theme.FocusedSectionStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m Model) renderWeekdays() string {
	var b strings.Builder
	for _, wd := range m.sel.Weekdays() {
		b.WriteString(theme.MutedStyle.Width(cellWidth).Align(lipgloss.Center).Render(wd.String()[:2]))
	}
	return b.String()
}

func (m Model) renderRow(days []model.Day) string {
	var b strings.Builder
	for _, d := range days {
		b.WriteString(m.renderCell(d))
	}
	return b.String()
}

func (m Model) renderCell(d model.Day) string {
	cell := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	if d.IsZero() {
		return cell.Render("")
	}

	label := fmt.Sprintf("%d", d.Day)
	switch {
	case d == m.sel.Selected():
		return cell.Inherit(theme.SelectedDayStyle).Render(label)
	case m.focused && d == m.sel.Cursor():
		return cell.Inherit(theme.CursorDayStyle).Render("[" + label + "]")
	case d == m.today:
		return cell.Inherit(theme.TodayStyle).Render(label)
	}
	return cell.Render(label)
}
