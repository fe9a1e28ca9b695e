package models

import "errors"

// Engine and settlement error taxonomy. Statistical and eligibility errors
// are recovered at the simulate boundary and surfaced as structured results;
// settlement errors always block money movement.
var (
	// ErrInsufficientData: fewer than five distinct score values in range.
	ErrInsufficientData = errors.New("insufficient score data: need at least 5 distinct score values")

	// ErrNoEligibleParticipants: zero eligible subscribers for the draw.
	ErrNoEligibleParticipants = errors.New("no eligible participants for draw")

	// ErrInvalidTransition: lifecycle operation invoked outside its source status.
	ErrInvalidTransition = errors.New("invalid draw status transition")

	// ErrAlreadySettled: the entry or payout was already paid. Callers treat
	// this as a successful no-op to keep settlement idempotent.
	ErrAlreadySettled = errors.New("already settled")

	// ErrNotPublished: settlement requested for an entry whose draw has not
	// been published yet.
	ErrNotPublished = errors.New("draw is not published")

	// ErrVersionConflict: optimistic-concurrency check failed on the jackpot row.
	ErrVersionConflict = errors.New("jackpot version conflict")
)
