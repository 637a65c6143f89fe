package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nhle/sadhana/internal/model"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCursorMovesNeverNotify(t *testing.T) {
	s := New(model.MustParseDay("2026-03-11"), time.Monday)

	s.Move(1)
	s.Move(-3)
	s.MoveMonths(1)

	assert.Equal(t, model.MustParseDay("2026-03-11"), s.Selected())
	assert.Equal(t, model.MustParseDay("2026-04-09"), s.Cursor())

	day, changed := s.Observe(model.MustParseDay("2026-05-01"), SourceIncidental)
	assert.False(t, changed)
	assert.Equal(t, model.MustParseDay("2026-03-11"), day)
}

func TestPickNotifiesOnlyOnChange(t *testing.T) {
	s := New(model.MustParseDay("2026-03-11"), time.Monday)

	_, changed := s.Pick()
	assert.False(t, changed, "picking the selected day must not notify")

	s.Move(-1)
	day, changed := s.Pick()
	require.True(t, changed)
	assert.Equal(t, model.MustParseDay("2026-03-10"), day)
	assert.Equal(t, day, s.Selected())

	_, changed = s.Pick()
	assert.False(t, changed)
}

func TestPickCollapsesMonthGrid(t *testing.T) {
	s := New(model.MustParseDay("2026-03-11"), time.Monday)
	s.Toggle()
	require.True(t, s.Expanded())

	s.Move(7)
	_, changed := s.Pick()
	assert.True(t, changed)
	assert.False(t, s.Expanded())
}

func TestSyncDoesNotNotify(t *testing.T) {
	s := New(model.MustParseDay("2026-03-11"), time.Monday)
	s.Move(2)

	s.Sync(model.MustParseDay("2025-12-25"))
	assert.Equal(t, model.MustParseDay("2025-12-25"), s.Selected())
	assert.Equal(t, model.MustParseDay("2025-12-25"), s.Cursor())

	_, changed := s.Pick()
	assert.False(t, changed, "a synced day is already selected")

	s.Sync(model.Day{})
	assert.Equal(t, model.MustParseDay("2025-12-25"), s.Selected())
}

func TestWeek(t *testing.T) {
	testCases := []struct {
		Desc      string
		WeekStart time.Weekday
		Day       string
		First     string
	}{
		{"monday start mid week", time.Monday, "2026-03-11", "2026-03-09"},
		{"monday start on sunday", time.Monday, "2026-03-15", "2026-03-09"},
		{"sunday start", time.Sunday, "2026-03-11", "2026-03-08"},
		{"week crosses year", time.Monday, "2026-01-01", "2025-12-29"},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			s := New(model.MustParseDay(tc.Day), tc.WeekStart)
			week := s.Week()
			require.Len(t, week, 7)
			assert.Equal(t, tc.First, week[0].String())
			assert.Equal(t, tc.WeekStart, week[0].Weekday())
			assert.Equal(t, model.MustParseDay(tc.First).AddDays(6), week[6])
		})
	}
}

func TestMonth(t *testing.T) {
	// February 2026 starts on a Sunday.
	s := New(model.MustParseDay("2026-02-14"), time.Monday)
	rows := s.Month()

	require.Len(t, rows, 5)
	assert.True(t, rows[0][5].IsZero())
	assert.Equal(t, "2026-02-01", rows[0][6].String())
	assert.Equal(t, "2026-02-28", rows[4][5].String())
	assert.True(t, rows[4][6].IsZero())

	count := 0
	for _, row := range rows {
		for _, d := range row {
			if !d.IsZero() {
				count++
			}
		}
	}
	assert.Equal(t, 28, count)

	s = New(model.MustParseDay("2026-02-14"), time.Sunday)
	rows = s.Month()
	require.Len(t, rows, 4)
	assert.Equal(t, "2026-02-01", rows[0][0].String())
}

func TestTitleAndWeekdays(t *testing.T) {
	s := New(model.MustParseDay("2026-01-20"), time.Sunday)
	assert.Equal(t, "January 2026", s.Title())
	assert.Equal(t, time.Sunday, s.Weekdays()[0])
	assert.Equal(t, time.Saturday, s.Weekdays()[6])

	s.MoveMonths(1)
	assert.Equal(t, "February 2026", s.Title())
}
