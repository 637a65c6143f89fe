package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/sadhana/internal/model"
	"github.com/nhle/sadhana/internal/store"
)

// logLoadedMsg carries the result of a fetch back to the UI loop.
type logLoadedMsg struct {
	req FetchRequest
	res store.Result
}

// logSavedMsg carries the result of an upsert.
type logSavedMsg struct {
	log model.SadhanaLog
	err error
}

// dayChangedMsg fires just after local midnight.
type dayChangedMsg struct {
	today model.Day
}

// fetchLog returns a command that looks up req.Day in the store.
func (m Model) fetchLog(req FetchRequest) tea.Cmd {
	s, timeout := m.store, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return logLoadedMsg{req: req, res: store.Lookup(ctx, s, req.Day)}
	}
}

// saveLog returns a command that upserts log.
func (m Model) saveLog(log model.SadhanaLog) tea.Cmd {
	s, timeout := m.store, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return logSavedMsg{log: log, err: s.UpsertByDate(ctx, log)}
	}
}

// watchMidnight schedules a dayChangedMsg for the next local midnight.
func (m Model) watchMidnight() tea.Cmd {
	now := m.now()
	y, mo, d := now.Date()
	next := time.Date(y, mo, d+1, 0, 0, 1, 0, now.Location())
	return tea.Tick(next.Sub(now), func(t time.Time) tea.Msg {
		return dayChangedMsg{today: model.DayOf(t)}
	})
}

// handleLoaded applies a fetch result to the controller.
func (m Model) handleLoaded(msg logLoadedMsg) (Model, tea.Cmd) {
	out := m.ctrl.ApplyFetch(msg.req, msg.res)
	if out.Stale {
		m.logger.Debug("discarded stale response",
			zap.String("date", msg.req.Day.String()),
			zap.Uint64("seq", msg.req.Seq),
		)
	}
	if msg.res.Outcome == store.OutcomeFailed && !out.Stale {
		m.logger.Warn("loading log failed",
			zap.String("date", msg.req.Day.String()),
			zap.Error(msg.res.Err),
		)
	}
	if out.Notice != nil {
		m.showNotice(*out.Notice)
	}
	if out.FollowUp != nil {
		return m, m.fetchLog(*out.FollowUp)
	}
	return m, nil
}

// handleSaved applies an upsert result.
func (m Model) handleSaved(msg logSavedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("saving log failed",
			zap.String("date", msg.log.Date.String()),
			zap.Error(msg.err),
		)
	}
	m.showNotice(m.ctrl.FinishSubmit(msg.log, msg.err))
	return m, nil
}

// selectDate changes the selected date from any source and re-syncs the
// calendar without it emitting again.
func (m *Model) selectDate(day model.Day) tea.Cmd {
	m.calendar.SetSelected(day)
	req, ok := m.ctrl.SelectDate(day)
	if !ok {
		return nil
	}
	m.logger.Debug("date selected", zap.String("date", day.String()))
	return m.fetchLog(req)
}

// reload re-fetches the selected date.
func (m *Model) reload() tea.Cmd {
	req, ok := m.ctrl.Reload()
	if !ok {
		return nil
	}
	return m.fetchLog(req)
}

// submit starts a save unless one is already running.
func (m *Model) submit() tea.Cmd {
	log, ok := m.ctrl.BeginSubmit()
	if !ok {
		return nil
	}
	return m.saveLog(log)
}
