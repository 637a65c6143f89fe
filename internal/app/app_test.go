package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nhle/sadhana/internal/model"
	"github.com/nhle/sadhana/internal/store"
	"github.com/nhle/sadhana/internal/ui/accordion"
	"github.com/nhle/sadhana/internal/ui/alert"
	calendarview "github.com/nhle/sadhana/internal/ui/calendar"
	"github.com/nhle/sadhana/internal/ui/sections"
	"github.com/nhle/sadhana/tests/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStore is an in-memory Store with switchable failures.
type fakeStore struct {
	mu        sync.Mutex
	logs      map[model.Day]model.SadhanaLog
	fetchErr  error
	upsertErr error
	fetches   []model.Day
	upserts   []model.SadhanaLog
}

func newFakeStore(logs ...model.SadhanaLog) *fakeStore {
	f := &fakeStore{logs: make(map[model.Day]model.SadhanaLog)}
	for _, l := range logs {
		f.logs[l.Date] = l
	}
	return f
}

func (f *fakeStore) FetchByDate(_ context.Context, day model.Day) (model.SadhanaLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, day)
	if f.fetchErr != nil {
		return model.SadhanaLog{}, f.fetchErr
	}
	log, ok := f.logs[day]
	if !ok {
		return model.SadhanaLog{}, store.ErrNotFound
	}
	return log, nil
}

func (f *fakeStore) UpsertByDate(_ context.Context, log model.SadhanaLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, log)
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.logs[log.Date] = log
	return nil
}

func (f *fakeStore) Close() error { return nil }

// exec runs cmd and returns the messages it produced, flattening batches.
// Animation frames are dropped so tests do not wait on ticks.
func exec(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, exec(c)...)
		}
		return out
	}
	if _, ok := msg.(accordion.FrameMsg); ok {
		return nil
	}
	return []tea.Msg{msg}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

// settle feeds msg to m and keeps running the resulting commands until
// none are left.
func settle(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	m, cmd := send(t, m, msg)
	for _, next := range exec(cmd) {
		m = settle(t, m, next)
	}
	return m
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		m = settle(t, m, k)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

// started returns a model whose initial load has completed against s.
func started(t *testing.T, s store.Store) Model {
	t.Helper()
	m := New(s, Options{Today: today})
	require.True(t, m.ctrl.Loading())
	for _, msg := range exec(m.fetchLog(m.initial)) {
		m = settle(t, m, msg)
	}
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestInitialLoadEmptyStore(t *testing.T) {
	s := newFakeStore()
	m := started(t, s)

	assert.False(t, m.ctrl.Loading())
	assert.Nil(t, m.alert)
	assert.Equal(t, model.Draft{}, m.ctrl.Draft())
	assert.Equal(t, []model.Day{today}, s.fetches)
	assert.NotNil(t, m.Init())
}

func TestInitialLoadFailureShowsAlert(t *testing.T) {
	s := newFakeStore()
	s.fetchErr = errors.New("network down")
	m := started(t, s)

	require.NotNil(t, m.alert)
	assert.Equal(t, alert.Error, m.alert.Kind)
	assert.Contains(t, m.View(), "Failed to load data. Please try again.")
	assert.False(t, m.ctrl.Loading())

	m = press(t, m, keyEnter)
	assert.Nil(t, m.alert)
	assert.NotContains(t, m.View(), "Failed to load data")
}

func TestToggleExerciseAndSubmit(t *testing.T) {
	s := newFakeStore()
	m := started(t, s)

	// Focus the form, walk to the Physical header past the six japa/stotra
	// boxes, open it and tick the exercise box.
	m = press(t, m, keyTab)
	for i := 0; i < 7; i++ {
		m = press(t, m, keyDown)
	}
	m, _ = send(t, m, keyEnter)
	require.True(t, m.expanded[1])
	m = press(t, m, keyDown, keySpace)
	require.True(t, m.ctrl.Draft().ExerciseDone)
	assert.True(t, m.ctrl.Dirty())

	m = press(t, m, runes("s"))
	require.Len(t, s.upserts, 1)
	assert.Equal(t, model.SadhanaLog{Date: today, ExerciseDone: true}, s.upserts[0])
	assert.False(t, m.ctrl.Submitting())
	require.NotNil(t, m.alert)
	assert.Equal(t, "Your daily log has been saved!", m.alert.Message)
	assert.False(t, m.ctrl.Dirty())
}

func TestSubmitIgnoredWhileSubmitting(t *testing.T) {
	s := newFakeStore()
	m := started(t, s)

	m, first := send(t, m, runes("s"))
	require.NotNil(t, first)
	m, second := send(t, m, runes("s"))
	assert.Nil(t, second)
	assert.Contains(t, m.View(), "Submitting...")

	for _, msg := range exec(first) {
		m = settle(t, m, msg)
	}
	assert.Len(t, s.upserts, 1)
	assert.False(t, m.ctrl.Submitting())
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	s := newFakeStore()
	s.upsertErr = errors.New("permission denied")
	m := started(t, s)
	m = settle(t, m, sectionsToggle(t, m, model.JunkFoodField))

	m = press(t, m, runes("s"))
	require.NotNil(t, m.alert)
	assert.Equal(t, "Failed to save data. Please try again.", m.alert.Message)
	assert.True(t, m.ctrl.Draft().AteJunkFood)
	assert.False(t, m.ctrl.Submitting())
}

func TestPickPriorDateLoadsRecord(t *testing.T) {
	record := model.SadhanaLog{
		Date:           lastWeek,
		Japa:           model.Flags{true, false, false},
		ExerciseDone:   true,
		AteAfterSunset: true,
	}
	s := newFakeStore(record)
	m := started(t, s)

	// Calendar has focus: one week back, then pick.
	m = press(t, m, runes("k"), keyEnter)

	assert.Equal(t, lastWeek, m.ctrl.Selected())
	assert.False(t, m.ctrl.ContentLoading())
	assert.Equal(t, record.Draft(), m.ctrl.Draft())
	assert.Contains(t, m.View(), "Submit Log for Mar 4")
}

func TestBrowsingCalendarDoesNotFetch(t *testing.T) {
	s := newFakeStore()
	m := started(t, s)

	m = press(t, m, keyLeft, keyLeft, runes("]"), runes("["))
	assert.Equal(t, today, m.ctrl.Selected())
	assert.Len(t, s.fetches, 1)

	m = press(t, m, runes("t"))
	assert.Len(t, s.fetches, 1, "today is already selected")
	assert.Equal(t, today, m.calendar.Cursor())
}

func TestStaleResponseDoesNotOverwrite(t *testing.T) {
	s := newFakeStore(
		model.SadhanaLog{Date: lastWeek, ExerciseDone: true},
		model.SadhanaLog{Date: yesterday, AteJunkFood: true},
	)
	m := started(t, s)

	m, slow := send(t, m, msgDateSelected(lastWeek))
	m, fast := send(t, m, msgDateSelected(yesterday))

	for _, msg := range exec(fast) {
		m = settle(t, m, msg)
	}
	for _, msg := range exec(slow) {
		m = settle(t, m, msg)
	}

	assert.Equal(t, yesterday, m.ctrl.Selected())
	assert.Equal(t, model.Draft{AteJunkFood: true}, m.ctrl.Draft())
	assert.Equal(t, yesterday, m.calendar.Selected())
}

func TestFetchFailureOnDateChange(t *testing.T) {
	s := newFakeStore()
	m := started(t, s)
	m = settle(t, m, sectionsToggle(t, m, model.StotraField(0)))
	before := m.ctrl.Draft()

	s.fetchErr = errors.New("timeout")
	m = settle(t, m, msgDateSelected(yesterday))

	require.NotNil(t, m.alert)
	assert.Equal(t, "Failed to load data. Please try again.", m.alert.Message)
	assert.False(t, m.ctrl.ContentLoading())
	assert.Equal(t, before, m.ctrl.Draft())

	m = press(t, m, keyEnter)
	s.fetchErr = nil
	m = press(t, m, runes("r"))
	assert.Nil(t, m.alert)
	assert.Equal(t, model.Draft{}, m.ctrl.Draft())
}

func TestCommandPaletteGoto(t *testing.T) {
	s := newFakeStore(model.SadhanaLog{Date: model.MustParseDay("2026-03-01"), Stotra: model.Flags{true, true, true}})
	m := started(t, s)

	// Cursor blink commands are left unexecuted.
	m, _ = send(t, m, runes(":"))
	require.Equal(t, ViewCommand, m.currentView)
	for _, r := range "goto 2026-03-01" {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, cmd := send(t, m, keyEnter)
	for _, msg := range exec(cmd) {
		m = settle(t, m, msg)
	}

	assert.Equal(t, ViewLog, m.currentView)
	assert.Equal(t, model.MustParseDay("2026-03-01"), m.ctrl.Selected())
	assert.Equal(t, model.MustParseDay("2026-03-01"), m.calendar.Selected())
	assert.Equal(t, model.Flags{true, true, true}, m.ctrl.Draft().Stotra)
}

func TestViewRendersScreen(t *testing.T) {
	m := started(t, newFakeStore())

	view := m.View()
	assert.Contains(t, view, "My Daily Sadhana")
	assert.Contains(t, view, "March 2026")
	assert.Contains(t, view, "Japa & Stotra")
	assert.Contains(t, view, "Mantra Japa")
	assert.Contains(t, view, "Physical Well-being")
	assert.NotContains(t, view, "Did you exercise?", "collapsed sections hide their body")
	assert.Contains(t, view, "Submit Today's Log")
}

func TestBodyRenderIsCached(t *testing.T) {
	m := started(t, newFakeStore())

	m.View()
	renders := m.bodies.renders
	m.View()
	assert.Equal(t, renders, m.bodies.renders)

	m = settle(t, m, sectionsToggle(t, m, model.JapaField(2)))
	m.View()
	assert.Equal(t, renders+1, m.bodies.renders)
}

func TestDayRollover(t *testing.T) {
	m := started(t, newFakeStore())
	next := today.AddDays(1)

	m, cmd := send(t, m, dayChangedMsg{today: next})
	assert.NotNil(t, cmd)
	assert.Equal(t, next, m.ctrl.Today())
	assert.Equal(t, today, m.ctrl.Selected())
	assert.Contains(t, m.View(), "Submit Log for Mar 11")
}

func TestRoundTripThroughSQLite(t *testing.T) {
	s := testutil.NewTestStore(t)
	m := started(t, s)

	m = settle(t, m, sectionsToggle(t, m, model.JapaField(1)))
	m = settle(t, m, sectionsToggle(t, m, model.AfterSunsetField))
	m = press(t, m, runes("s"), keyEnter)

	fresh := started(t, s)
	assert.Equal(t, model.Draft{Japa: model.Flags{false, true, false}, AteAfterSunset: true}, fresh.ctrl.Draft())
}

func msgDateSelected(day model.Day) tea.Msg {
	return calendarview.DateSelectedMsg{Day: day}
}

// sectionsToggle returns the FieldChangedMsg a toggle of f would produce.
func sectionsToggle(t *testing.T, m Model, f model.Field) tea.Msg {
	t.Helper()
	msgs := exec(sections.Toggle(m.ctrl.Draft(), f))
	require.Len(t, msgs, 1)
	return msgs[0]
}

func TestReopenedSectionRunsOneFade(t *testing.T) {
	m := started(t, newFakeStore())
	m = press(t, m, keyTab)
	for i := 0; i < 7; i++ {
		m = press(t, m, keyDown)
	}

	m, _ = send(t, m, keyEnter)
	stale := accordion.FrameMsg{ID: 1, Gen: m.fades[1].Gen()}
	m, _ = send(t, m, keyEnter)
	m, _ = send(t, m, keyEnter)
	require.True(t, m.expanded[1])
	require.NotEqual(t, stale.Gen, m.fades[1].Gen())

	m, cmd := send(t, m, stale)
	assert.Nil(t, cmd)
	assert.Equal(t, 0.0, m.fades[1].Opacity())

	m, cmd = send(t, m, accordion.FrameMsg{ID: 1, Gen: m.fades[1].Gen()})
	assert.NotNil(t, cmd)
	assert.Greater(t, m.fades[1].Opacity(), 0.0)
}

func TestViewFitsWindow(t *testing.T) {
	sizes := []struct{ w, h int }{{80, 30}, {60, 20}, {120, 40}, {40, 12}}

	for _, size := range sizes {
		m := started(t, newFakeStore())
		m, _ = send(t, m, tea.WindowSizeMsg{Width: size.w, Height: size.h})

		screens := map[string]Model{"strip": m}
		grid := press(t, m, runes("c"))
		require.True(t, grid.calendar.Expanded())
		screens["grid"] = grid
		form := press(t, m, keyTab)
		screens["form"] = form
		alerted := m
		alerted.showNotice(Notice{Kind: alert.Error, Message: "Failed to load data. Please try again."})
		screens["alert"] = alerted

		for name, screen := range screens {
			lines := strings.Split(screen.View(), "\n")
			assert.LessOrEqual(t, len(lines), size.h, "%s at %dx%d", name, size.w, size.h)
			for i, line := range lines {
				assert.LessOrEqual(t, lipgloss.Width(line), size.w,
					"%s at %dx%d: line %d", name, size.w, size.h, i)
			}
		}
	}
}
