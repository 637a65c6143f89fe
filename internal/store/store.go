package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/sadhana/internal/model"
)

// TableName is the remote table holding one row per date.
const TableName = "sadhna_logs"

// ErrNotFound is returned by FetchByDate when no record exists for the date.
// It is an expected outcome, not a failure.
var ErrNotFound = errors.New("no sadhana log for date")

// Error wraps a backend failure with the operation and date it concerned.
type Error struct {
	Op  string
	Day model.Day
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Day, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Store is the record store contract: point lookup and upsert, both keyed
// by date.
type Store interface {
	// FetchByDate returns the record for day, or ErrNotFound.
	FetchByDate(ctx context.Context, day model.Day) (model.SadhanaLog, error)

	// UpsertByDate inserts the record or replaces the one with the same date.
	// Every field is written; there is no partial update.
	UpsertByDate(ctx context.Context, log model.SadhanaLog) error

	// Close releases connections held by the backend.
	Close() error
}

// Outcome tags a lookup result.
type Outcome int

const (
	OutcomeFound Outcome = iota
	OutcomeNotFound
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "failed"
	}
}

// Result is the outcome of Lookup. Log is set only for OutcomeFound and
// Err only for OutcomeFailed.
type Result struct {
	Outcome Outcome
	Log     model.SadhanaLog
	Err     error
}

// Found wraps an existing record.
func Found(log model.SadhanaLog) Result {
	return Result{Outcome: OutcomeFound, Log: log}
}

// NotFound reports that the date has no record yet.
func NotFound() Result {
	return Result{Outcome: OutcomeNotFound}
}

// Failed wraps a store or unexpected failure.
func Failed(err error) Result {
	return Result{Outcome: OutcomeFailed, Err: err}
}

// Lookup fetches day from s and classifies the answer, so callers switch on
// an Outcome instead of inspecting errors.
func Lookup(ctx context.Context, s Store, day model.Day) Result {
	log, err := s.FetchByDate(ctx, day)
	switch {
	case err == nil:
		log.Date = day
		return Found(log)
	case errors.Is(err, ErrNotFound):
		return NotFound()
	default:
		return Failed(err)
	}
}
