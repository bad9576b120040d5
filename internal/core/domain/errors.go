package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a missing or wrong trigger secret.
	// The regeneration run is aborted entirely.
	ErrUnauthorized = errors.New("unauthorized")

	// Schedule Errors.

	// ErrScheduleExhausted indicates a date outside the stored schedule range.
	ErrScheduleExhausted = errors.New("schedule exhausted")

	// Snapshot Errors.

	// ErrSnapshotNotFound indicates no snapshot exists for the requested date,
	// usually because the regeneration job has not run for it yet.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrFutureDate indicates a request for a date after the current game day.
	// Not-yet-revealed answers are never disclosed.
	ErrFutureDate = errors.New("date is in the future")

	// Game Errors.

	// ErrStaleVersion indicates the client's version token no longer matches
	// the stored snapshot. The client must discard local state and refetch.
	ErrStaleVersion = errors.New("stale version")

	// ErrUnknownEntity indicates a guess that matches no entity name.
	// This is an expected outcome, not a failure.
	ErrUnknownEntity = errors.New("unknown entity")

	// Corpus Errors.

	// ErrInvalidCorpus indicates a corpus that cannot be used for ranking.
	ErrInvalidCorpus = errors.New("invalid corpus")

	// ErrComputation indicates a ranking could not be computed
	// (dimension mismatch, answer missing from corpus).
	ErrComputation = errors.New("ranking computation failed")
)
