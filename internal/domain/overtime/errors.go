package overtime

import "errors"

// Overtime domain errors
var (
	ErrOvertimeNotFound  = errors.New("overtime request not found")
	ErrNotRequestOwner   = errors.New("overtime request belongs to another worker")
	ErrAlreadyProcessed  = errors.New("overtime request has already been approved or rejected")
	ErrNotApproved       = errors.New("overtime must be approved before completion")
	ErrAlreadyCompleted  = errors.New("overtime completion has already been submitted")
	ErrOutsideWindow     = errors.New("overtime cannot start before the overtime window opens")

	// ErrStateConflict is returned when a concurrent writer won the
	// conditional update race; the caller may re-read and retry.
	ErrStateConflict = errors.New("overtime request was modified concurrently")
)
