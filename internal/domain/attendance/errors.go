package attendance

import "errors"

// Attendance domain errors
var (
	// Worker transition errors
	ErrAlreadyClockedIn  = errors.New("you have already clocked in today")
	ErrNotClockedIn      = errors.New("you have not clocked in yet")
	ErrAlreadyClockedOut = errors.New("you have already clocked out")
	ErrDuplicateBreak    = errors.New("a break has already been taken today")
	ErrNoOpenBreak       = errors.New("no open break to end")
	ErrBreakStillOpen    = errors.New("break must be ended before clocking out")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrNotRecordOwner     = errors.New("attendance record belongs to another worker")
	ErrAlreadyProcessed   = errors.New("attendance has already been approved or declined")

	// ErrStateConflict is returned when a concurrent writer won the
	// conditional update race; the caller may re-read and retry.
	ErrStateConflict = errors.New("attendance record was modified concurrently")
)
