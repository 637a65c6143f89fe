// Package calendar holds the date selector's state: the selected day, a
// browse cursor and the week strip / month grid mode. It knows nothing about
// rendering or the record store.
//
// Only an explicit pick of a different day reports a change. Cursor moves,
// page flips and Sync are incidental and never notify, so the owner's
// selected date cannot be overridden by a redraw.
package calendar

import (
	"time"

	"github.com/nhle/sadhana/internal/model"
)

// Source says where a date event came from.
type Source int

const (
	// SourceUser is an explicit pick (enter/space on a day).
	SourceUser Source = iota
	// SourceIncidental covers scrolling, paging and redraws.
	SourceIncidental
)

// Selector is the date selector state machine. The zero value is not
// usable; call New.
type Selector struct {
	selected  model.Day
	cursor    model.Day
	expanded  bool
	weekStart time.Weekday
}

// New returns a collapsed selector with both the selection and the cursor
// on selected.
func New(selected model.Day, weekStart time.Weekday) Selector {
	return Selector{
		selected:  selected,
		cursor:    selected,
		weekStart: weekStart,
	}
}

// Selected returns the currently selected day.
func (s Selector) Selected() model.Day { return s.selected }

// Cursor returns the day under the browse cursor.
func (s Selector) Cursor() model.Day { return s.cursor }

// Expanded reports whether the month grid is showing.
func (s Selector) Expanded() bool { return s.expanded }

// WeekStart returns the first weekday of each row.
func (s Selector) WeekStart() time.Weekday { return s.weekStart }

// Toggle switches between the week strip and the month grid.
func (s *Selector) Toggle() {
	s.expanded = !s.expanded
}

// Move shifts the cursor by n days.
func (s *Selector) Move(n int) {
	s.Observe(s.cursor.AddDays(n), SourceIncidental)
}

// MoveMonths shifts the cursor by n months, clamping the day of month.
func (s *Selector) MoveMonths(n int) {
	s.Observe(s.cursor.AddMonths(n), SourceIncidental)
}

// Pick selects the day under the cursor. It returns the day and true only
// when the selection actually changed. Picking from the month grid
// collapses it back to the strip.
func (s *Selector) Pick() (model.Day, bool) {
	day, changed := s.Observe(s.cursor, SourceUser)
	s.expanded = false
	return day, changed
}

// Observe feeds a date event into the selector. Incidental events only move
// the cursor. User events also move the selection, and report true when it
// differs from the previous one.
func (s *Selector) Observe(day model.Day, src Source) (model.Day, bool) {
	if day.IsZero() {
		return s.selected, false
	}
	s.cursor = day
	if src != SourceUser || day == s.selected {
		return s.selected, false
	}
	s.selected = day
	return day, true
}

// Sync moves the selection and the cursor to day without reporting a change.
// The owner calls it after changing the date itself.
func (s *Selector) Sync(day model.Day) {
	if day.IsZero() {
		return
	}
	s.selected = day
	s.cursor = day
}

// weekOf returns the first day of the row containing d.
func (s Selector) weekOf(d model.Day) model.Day {
	offset := (int(d.Weekday()) - int(s.weekStart) + 7) % 7
	return d.AddDays(-offset)
}

// Week returns the seven days of the cursor's week.
func (s Selector) Week() []model.Day {
	start := s.weekOf(s.cursor)
	days := make([]model.Day, 7)
	for i := range days {
		days[i] = start.AddDays(i)
	}
	return days
}

// Month returns the cursor's month as rows of seven. Cells outside the
// month are zero Days.
func (s Selector) Month() [][]model.Day {
	first := s.cursor.FirstOfMonth()
	start := s.weekOf(first)

	var rows [][]model.Day
	for day := start; day.SameMonth(first) || day.Before(first); {
		row := make([]model.Day, 7)
		for i := range row {
			if day.SameMonth(first) {
				row[i] = day
			}
			day = day.AddDays(1)
		}
		rows = append(rows, row)
	}
	return rows
}

// Weekdays returns the column headings in display order.
func (s Selector) Weekdays() []time.Weekday {
	out := make([]time.Weekday, 7)
	for i := range out {
		out[i] = time.Weekday((int(s.weekStart) + i) % 7)
	}
	return out
}

// Title is the header text, e.g. "January 2026".
func (s Selector) Title() string {
	return s.cursor.Format("January 2006")
}
