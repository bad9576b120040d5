package domain

import "time"

// DateStatus is the outcome of regenerating a single date.
type DateStatus string

// Possible per-date outcomes.
const (
	// DateStatusWritten means a new snapshot was computed and stored.
	DateStatusWritten DateStatus = "written"

	// DateStatusUnchanged means an identical snapshot already existed.
	DateStatusUnchanged DateStatus = "unchanged"

	// DateStatusFailed means the date could not be regenerated.
	DateStatusFailed DateStatus = "failed"
)

// DateOutcome reports what happened to one date in a regeneration run.
type DateOutcome struct {
	Date     Date       `json:"date"`
	AnswerID int64      `json:"answerId,omitempty"`
	Version  string     `json:"version,omitempty"`
	Status   DateStatus `json:"status"`
	Error    string     `json:"error,omitempty"`
}

// RegenerationReport summarises one regeneration run.
type RegenerationReport struct {
	RunID     string    `json:"runId"`
	StartedAt time.Time `json:"startedAt"`
	EndedAt   time.Time `json:"endedAt"`

	// ScheduleCreated is true if this run created the schedule.
	ScheduleCreated bool `json:"scheduleCreated"`

	// CyclesAppended counts schedule cycles added to cover the lookahead.
	CyclesAppended int `json:"cyclesAppended"`

	Dates []DateOutcome `json:"dates"`

	// Pruned is the number of expired snapshots deleted.
	Pruned int `json:"pruned"`

	// PruneError is set when retention pruning failed. It is not fatal.
	PruneError string `json:"pruneError,omitempty"`
}

// Count returns how many dates ended with the given status.
func (r *RegenerationReport) Count(status DateStatus) int {
	n := 0
	for _, d := range r.Dates {
		if d.Status == status {
			n++
		}
	}
	return n
}

// Failed reports whether any date failed.
func (r *RegenerationReport) Failed() bool {
	return r.Count(DateStatusFailed) > 0
}
