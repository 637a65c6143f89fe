package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nhle/sadhana/internal/model"
	"github.com/nhle/sadhana/internal/store"
	"github.com/nhle/sadhana/internal/theme"
	"github.com/nhle/sadhana/internal/ui"
	"github.com/nhle/sadhana/internal/ui/accordion"
	"github.com/nhle/sadhana/internal/ui/alert"
	calendarview "github.com/nhle/sadhana/internal/ui/calendar"
	"github.com/nhle/sadhana/internal/ui/command"
	"github.com/nhle/sadhana/internal/ui/datejump"
	helpview "github.com/nhle/sadhana/internal/ui/help"
	"github.com/nhle/sadhana/internal/ui/sections"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLog ViewState = iota
	ViewHelp
	ViewCommand
	ViewDateJump
)

// zone is the part of the log view holding keyboard focus.
type zone int

const (
	zoneCalendar zone = iota
	zoneForm
)

// target is one focusable element of the form: a section header, one of
// its checkboxes, or the submit button.
type target struct {
	kind   sections.Kind
	field  int
	submit bool
}

const headerField = -1

// Options configures a Model.
type Options struct {
	// Today is the current date. Defaults to model.Today().
	Today model.Day
	// StartDate is the date loaded first. Defaults to Today.
	StartDate model.Day
	// WeekStart is the first column of the calendar.
	WeekStart time.Weekday
	// Timeout bounds each store call. Defaults to 15s.
	Timeout time.Duration
	// Logger receives diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
	// Now is the clock used for midnight rollover. Defaults to time.Now.
	Now func() time.Time
}

// Model is the root Bubble Tea model: the log screen plus its overlays.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        store.Store
	keys         *KeyMap
	logger       *zap.Logger
	timeout      time.Duration
	now          func() time.Time

	ctrl    Controller
	initial FetchRequest

	calendar    calendarview.Model
	helpView    helpview.Model
	commandView command.Model
	jumpView    datejump.Model
	spinner     spinner.Model

	zone     zone
	focus    int
	expanded [3]bool
	fades    [3]accordion.Fade
	bodies   *bodyCache

	alert *alert.Alert
	ready bool
}

// New creates the root model and starts the controller's initial load. The
// fetch itself runs when Init's command is executed.
func New(s store.Store, opts Options) Model {
	if opts.Today.IsZero() {
		opts.Today = model.Today()
	}
	if opts.StartDate.IsZero() {
		opts.StartDate = opts.Today
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	keys := DefaultKeyMap()
	ctrl := NewController(opts.Today)
	initial := ctrl.Initialize(opts.StartDate)

	cal := calendarview.New(ctrl.Selected(), opts.Today, opts.WeekStart, keys)
	cal.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorSaffron)

	m := Model{
		currentView: ViewLog,
		store:       s,
		keys:        keys,
		logger:      opts.Logger,
		timeout:     opts.Timeout,
		now:         opts.Now,
		ctrl:        ctrl,
		initial:     initial,
		calendar:    cal,
		helpView:    helpview.New(keys, 80, 24),
		commandView: command.New(80, 24),
		jumpView:    datejump.New(80, 24),
		spinner:     sp,
		zone:        zoneCalendar,
		expanded:    [3]bool{true, false, false},
		bodies:      newBodyCache(),
		layout:      ui.NewLayout(80, 24),
	}
	for i := range m.fades {
		m.fades[i] = accordion.NewFade()
	}
	return m
}

// Init returns the initial load, the spinner and the midnight watch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchLog(m.initial),
		m.spinner.Tick,
		m.watchMidnight(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.calendar.SetWidth(contentWidth)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.jumpView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case logLoadedMsg:
		return m.handleLoaded(msg)

	case logSavedMsg:
		return m.handleSaved(msg)

	case dayChangedMsg:
		if msg.today != m.ctrl.Today() {
			m.ctrl.SetToday(msg.today)
			m.calendar.SetToday(msg.today)
		}
		return m, m.watchMidnight()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case accordion.FrameMsg:
		if msg.ID < 0 || msg.ID >= len(m.fades) || !m.fades[msg.ID].Current(msg) {
			return m, nil
		}
		if m.fades[msg.ID].Step() {
			return m, accordion.Frame(msg.ID, msg.Gen)
		}
		return m, nil

	case calendarview.DateSelectedMsg:
		return m, m.selectDate(msg.Day)

	case sections.FieldChangedMsg:
		if m.formLocked() {
			return m, nil
		}
		m.ctrl.SetField(msg.Field, msg.Value)
		return m, nil

	case datejump.SubmittedMsg:
		m.currentView = ViewLog
		return m, m.selectDate(msg.Day)

	case datejump.CancelledMsg:
		m.currentView = ViewLog
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.alert != nil {
			switch msg.String() {
			case "enter", "esc", " ":
				m.alert = nil
			}
			return m, nil
		}

		if m.currentView == ViewLog {
			return m, m.handleLogKey(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Help) && m.currentView != ViewCommand && m.currentView != ViewDateJump:
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Back) && m.currentView == ViewHelp:
			m.currentView = m.previousView
			return m, nil
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleLogKey handles keys on the log view. Keys without a global meaning
// go to the focused zone.
func (m *Model) handleLogKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m.commandView.Focus()

	case key.Matches(msg, m.keys.GoTo):
		m.previousView = m.currentView
		m.currentView = ViewDateJump
		return m.jumpView.Start(m.ctrl.Selected())

	case key.Matches(msg, m.keys.NextZone):
		m.switchZone()
		return nil

	case key.Matches(msg, m.keys.Today):
		return m.selectDate(m.ctrl.Today())

	case key.Matches(msg, m.keys.Reload):
		return m.reload()

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	if m.zone == zoneCalendar {
		var cmd tea.Cmd
		m.calendar, cmd = m.calendar.Update(msg)
		return cmd
	}
	return m.handleFormKey(msg)
}

// handleFormKey moves the focus and toggles within the form.
func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Calendar) {
		m.calendar.ToggleMode()
		return nil
	}
	if m.formLocked() {
		return nil
	}

	targets := m.targets()
	m.focus = clamp(m.focus, 0, len(targets)-1)
	cur := targets[m.focus]

	switch {
	case key.Matches(msg, m.keys.Up):
		m.focus = clamp(m.focus-1, 0, len(targets)-1)
	case key.Matches(msg, m.keys.Down):
		m.focus = clamp(m.focus+1, 0, len(targets)-1)
	case key.Matches(msg, m.keys.Collapse):
		if !cur.submit && m.expanded[cur.kind] {
			m.setExpanded(cur.kind, false)
			m.focusHeader(cur.kind)
		}
	case key.Matches(msg, m.keys.Expand):
		if !cur.submit && !m.expanded[cur.kind] {
			return m.setExpanded(cur.kind, true)
		}
	case key.Matches(msg, m.keys.Toggle):
		switch {
		case cur.submit:
			return m.submit()
		case cur.field == headerField:
			return m.setExpanded(cur.kind, !m.expanded[cur.kind])
		default:
			return sections.Toggle(m.ctrl.Draft(), sections.Fields(cur.kind)[cur.field])
		}
	}
	return nil
}

// setExpanded opens or closes a section. Opening starts a new fade
// generation, so ticks left over from an earlier opening are ignored.
func (m *Model) setExpanded(k sections.Kind, open bool) tea.Cmd {
	m.expanded[k] = open
	if !open {
		m.fades[k].Stop()
		return nil
	}
	return accordion.Frame(int(k), m.fades[k].Start())
}

func (m *Model) focusHeader(k sections.Kind) {
	for i, t := range m.targets() {
		if !t.submit && t.kind == k && t.field == headerField {
			m.focus = i
			return
		}
	}
}

// targets lists the focusable form elements in display order.
func (m Model) targets() []target {
	var out []target
	for _, k := range sections.Kinds {
		out = append(out, target{kind: k, field: headerField})
		if m.expanded[k] {
			for i := range sections.Fields(k) {
				out = append(out, target{kind: k, field: i})
			}
		}
	}
	return append(out, target{submit: true})
}

func (m *Model) switchZone() {
	if m.zone == zoneCalendar {
		m.zone = zoneForm
		m.calendar.Blur()
		return
	}
	m.zone = zoneCalendar
	m.calendar.Focus()
}

// formLocked reports whether the form is hidden behind a loader.
func (m Model) formLocked() bool {
	return m.ctrl.Loading() || m.ctrl.ContentLoading()
}

func (m *Model) showNotice(n Notice) {
	m.alert = alert.New(n.Kind, n.Message)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLog:
		m.calendar, cmd = m.calendar.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewDateJump:
		m.jumpView, cmd = m.jumpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("My Daily Sadhana", m.status())
	content := m.renderContent()
	if m.alert != nil {
		content = m.layout.Overlay(m.alert.View(m.layout.ContentWidth()))
	}
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View()
	case ViewDateJump:
		return m.jumpView.View()
	case ViewCommand:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderLog(), m.commandView.View())
	default:
		return m.renderLog()
	}
}

// renderLog draws the calendar, the sections and the submit button.
func (m Model) renderLog() string {
	parts := []string{m.calendar.View()}

	switch {
	case m.ctrl.Loading():
		parts = append(parts, "", m.spinner.View()+" Loading your sadhana...")
	case m.ctrl.ContentLoading():
		parts = append(parts, "", m.spinner.View()+" Loading "+m.ctrl.Selected().Format("Mon, Jan 2")+"...")
	default:
		parts = append(parts, m.renderSections()...)
	}

	parts = append(parts, "", m.renderSubmit())
	return lipgloss.NewStyle().
		Width(m.layout.ContentWidth()).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderSections() []string {
	targets := m.targets()
	focused := targets[clamp(m.focus, 0, len(targets)-1)]
	inSection := func(k sections.Kind) bool {
		return m.zone == zoneForm && !focused.submit && focused.kind == k
	}

	draft := m.ctrl.Draft()
	out := make([]string, 0, len(sections.Kinds))
	for _, k := range sections.Kinds {
		focus := -1
		if inSection(k) && focused.field >= 0 {
			focus = focused.field
		}
		header := accordion.Header{
			Icon:    k.Icon(),
			Title:   k.Title(),
			Focused: inSection(k) && focused.field == headerField,
		}
		opacity := m.fades[k].Opacity()
		out = append(out, accordion.Render(header, m.expanded[k], func() string {
			return m.bodies.render(k, draft, focus, opacity)
		}))
	}
	return out
}

func (m Model) renderSubmit() string {
	label := m.ctrl.SubmitLabel()
	style := theme.ButtonStyle
	if m.ctrl.Submitting() || m.formLocked() {
		style = theme.DisabledButtonStyle
	}
	if m.zone == zoneForm {
		targets := m.targets()
		if targets[clamp(m.focus, 0, len(targets)-1)].submit {
			style = style.Underline(true)
		}
	}
	return style.Render(label)
}

// status returns the right side of the header.
func (m Model) status() string {
	switch {
	case m.ctrl.Submitting():
		return m.spinner.View() + " saving"
	case m.ctrl.Loading() || m.ctrl.ContentLoading():
		return m.spinner.View() + " loading"
	case m.ctrl.Dirty():
		return "● unsaved " + m.ctrl.Selected().String()
	default:
		return m.ctrl.Selected().String()
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.alert != nil {
		return "enter dismiss"
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewDateJump:
		return "enter go | esc cancel"
	default:
		if m.zone == zoneCalendar {
			return "←/→ day  ↑/↓ week  [/] month  enter pick  c grid  tab form  ? help"
		}
		return "↑/↓ move  space toggle  ←/→ fold  tab calendar  s submit  ? help"
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd command.CommandMsg) tea.Cmd {
	switch cmd.Name() {
	case "":
		return nil
	case "today":
		return m.selectDate(m.ctrl.Today())
	case "goto", "date":
		day, err := model.ParseDay(cmd.Arg())
		if err != nil {
			m.showNotice(Notice{Kind: alert.Error, Message: err.Error()})
			return nil
		}
		return m.selectDate(day)
	case "reload", "refresh":
		return m.reload()
	case "submit", "save", "w":
		return m.submit()
	case "week":
		if m.calendar.Expanded() {
			m.calendar.ToggleMode()
		}
		return nil
	case "month":
		if !m.calendar.Expanded() {
			m.calendar.ToggleMode()
		}
		return nil
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil
	case "quit", "q":
		return tea.Quit
	default:
		m.showNotice(Notice{Kind: alert.Info, Message: fmt.Sprintf("Unknown command %q", strings.TrimSpace(string(cmd)))})
		return nil
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
