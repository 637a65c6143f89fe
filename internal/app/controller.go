package app

import (
	"github.com/nhle/sadhana/internal/model"
	"github.com/nhle/sadhana/internal/store"
	"github.com/nhle/sadhana/internal/ui/alert"
)

const (
	msgLoadFailed = "Failed to load data. Please try again."
	msgSaveFailed = "Failed to save data. Please try again."
	msgSaved      = "Your daily log has been saved!"
)

// FetchRequest is one fetch issued by the controller. Seq increases with
// every request; only the response to the latest one is applied.
type FetchRequest struct {
	Day     model.Day
	Seq     uint64
	Initial bool
}

// Notice is a message the screen must show as an alert.
type Notice struct {
	Kind    alert.Kind
	Message string
}

// FetchOutcome tells the caller what applying a response led to.
type FetchOutcome struct {
	// Stale is set when the response was discarded.
	Stale bool
	// Notice is set when the user must be told about a failure.
	Notice *Notice
	// FollowUp is set when another fetch must be issued, which happens when
	// the date changed while the initial load was in flight.
	FollowUp *FetchRequest
}

// Controller is the log screen's state machine. It never performs I/O: it
// hands out FetchRequests and records, and is told the results. All
// methods are called from the UI loop.
type Controller struct {
	today    model.Day
	selected model.Day

	draft    model.Draft
	baseline model.Draft

	loading        bool
	contentLoading bool
	submitting     bool
	initialized    bool

	seq uint64
}

// NewController returns a controller with today selected and a default
// draft. Nothing is loading until Initialize.
func NewController(today model.Day) Controller {
	return Controller{today: today, selected: today}
}

// Initialize starts the first load for day (usually today).
func (c *Controller) Initialize(day model.Day) FetchRequest {
	if !day.IsZero() {
		c.selected = day
	}
	c.loading = true
	return c.issue(c.selected, true)
}

// SelectDate moves the selection to day. It returns a request to issue, or
// false when no fetch is needed: the day is already selected, or the
// initial load is still running (its response will trigger a follow-up).
func (c *Controller) SelectDate(day model.Day) (FetchRequest, bool) {
	if day.IsZero() || day == c.selected {
		return FetchRequest{}, false
	}
	c.selected = day
	if !c.initialized {
		return FetchRequest{}, false
	}
	c.contentLoading = true
	return c.issue(day, false), true
}

// Reload re-fetches the selected date.
func (c *Controller) Reload() (FetchRequest, bool) {
	if !c.initialized || c.loading {
		return FetchRequest{}, false
	}
	c.contentLoading = true
	return c.issue(c.selected, false), true
}

func (c *Controller) issue(day model.Day, initial bool) FetchRequest {
	c.seq++
	return FetchRequest{Day: day, Seq: c.seq, Initial: initial}
}

// ApplyFetch applies the response to req. Responses to superseded requests
// change nothing.
func (c *Controller) ApplyFetch(req FetchRequest, res store.Result) FetchOutcome {
	if req.Seq != c.seq {
		return FetchOutcome{Stale: true}
	}

	if req.Initial {
		c.loading = false
		c.initialized = true
		if req.Day != c.selected {
			c.contentLoading = true
			next := c.issue(c.selected, false)
			return FetchOutcome{Stale: true, FollowUp: &next}
		}
	} else {
		c.contentLoading = false
	}

	switch res.Outcome {
	case store.OutcomeFound:
		c.draft = res.Log.Draft()
	case store.OutcomeNotFound:
		c.draft = model.Draft{}
	default:
		return FetchOutcome{Notice: &Notice{Kind: alert.Error, Message: msgLoadFailed}}
	}
	c.baseline = c.draft
	return FetchOutcome{}
}

// SetField changes one checkbox of the draft. It reports false for a field
// that does not exist.
func (c *Controller) SetField(f model.Field, v bool) bool {
	if !f.Valid() {
		return false
	}
	c.draft = c.draft.With(f, v)
	return true
}

// BeginSubmit returns the record to upsert and marks a save in flight. It
// refuses while a save or a load is running.
func (c *Controller) BeginSubmit() (model.SadhanaLog, bool) {
	if c.submitting || c.loading || c.contentLoading {
		return model.SadhanaLog{}, false
	}
	c.submitting = true
	return c.draft.For(c.selected), true
}

// FinishSubmit records the upsert result for log and returns the notice
// to show.
func (c *Controller) FinishSubmit(log model.SadhanaLog, err error) Notice {
	c.submitting = false
	if err != nil {
		return Notice{Kind: alert.Error, Message: msgSaveFailed}
	}
	if log.Date == c.selected {
		c.baseline = log.Draft()
	}
	return Notice{Kind: alert.Success, Message: msgSaved}
}

// SetToday updates the notion of today after midnight.
func (c *Controller) SetToday(day model.Day) {
	c.today = day
}

// Today returns the current day.
func (c Controller) Today() model.Day { return c.today }

// Selected returns the selected date.
func (c Controller) Selected() model.Day { return c.selected }

// Draft returns the current form values.
func (c Controller) Draft() model.Draft { return c.draft }

// Loading reports whether the initial load is running.
func (c Controller) Loading() bool { return c.loading }

// ContentLoading reports whether a date-change fetch is running.
func (c Controller) ContentLoading() bool { return c.contentLoading }

// Submitting reports whether a save is running.
func (c Controller) Submitting() bool { return c.submitting }

// Initialized reports whether the initial load has completed.
func (c Controller) Initialized() bool { return c.initialized }

// Dirty reports whether the draft differs from what was last loaded or
// saved for the selected date.
func (c Controller) Dirty() bool {
	return c.draft != c.baseline
}

// SubmitLabel is the text of the submit button.
func (c Controller) SubmitLabel() string {
	switch {
	case c.submitting:
		return "Submitting..."
	case c.selected == c.today:
		return "Submit Today's Log"
	default:
		return "Submit Log for " + c.selected.Format("Jan 2")
	}
}
