package importers

import (
	"context"
	"time"
)

// RunState is the lifecycle position of an import run.
type RunState string

const (
	StateIdle      RunState = "idle"
	StateFetching  RunState = "fetching"
	StateParsing   RunState = "parsing"
	StateImporting RunState = "importing"
	StateComplete  RunState = "complete"
	StateFailed    RunState = "failed"
)

// Outcome classifies what happened to one record.
type Outcome string

const (
	OutcomeImported Outcome = "imported"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// Duplicate says which identity check, if any, matched an incoming record.
type Duplicate int

const (
	DuplicateNone Duplicate = iota
	DuplicateBySourceID
	DuplicateByUserMovie
)

func (d Duplicate) String() string {
	switch d {
	case DuplicateBySourceID:
		return "Already imported"
	case DuplicateByUserMovie:
		return "Review already exists for this movie"
	default:
		return "not a duplicate"
	}
}

// ImportProgress is a snapshot of a run's counters.
type ImportProgress struct {
	State        RunState `json:"state"`
	Total        int      `json:"total"`
	Processed    int      `json:"processed"`
	Imported     int      `json:"imported"`
	Skipped      int      `json:"skipped"`
	Failed       int      `json:"failed"`
	CurrentMovie string   `json:"current_movie"`
}

// ProgressFunc receives a snapshot after every processed record.
// It is called synchronously from the run's goroutine.
type ProgressFunc func(ImportProgress)

// RecordOutcome describes how one feed record was handled.
type RecordOutcome struct {
	Label   string  `json:"label"`
	MovieID string  `json:"movie_id"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// ImportResult is the final report of a run.
type ImportResult struct {
	Success   bool            `json:"success"`
	State     RunState        `json:"state"`
	Total     int             `json:"total"`
	Processed int             `json:"processed"`
	Imported  int             `json:"imported"`
	Skipped   int             `json:"skipped"`
	Failed    int             `json:"failed"`
	Dropped   int             `json:"dropped"`
	Errors    []string        `json:"errors"`
	Records   []RecordOutcome `json:"records,omitempty"`
}

func failedResult(reason string) ImportResult {
	return ImportResult{
		Success: false,
		State:   StateFailed,
		Errors:  []string{reason},
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
