package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for daily presence records.
//
// Every mutation is an atomic conditional write: the expected pre-state is
// part of the statement, and a write that matches no row because another
// caller got there first fails with ErrStateConflict instead of silently
// overwriting. This is the at-most-one-writer guarantee for a (worker, date)
// key.
type AttendanceRepository interface {
	// Create inserts the day's record. The (employee_id, date) unique key
	// makes a second clock-in on the same day fail with ErrAlreadyClockedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// Upsert creates or fully replaces a record for administrator manual
	// entry. The ordering invariants must already have been validated.
	Upsert(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID retrieves a record by its primary id
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate retrieves the record for one worker on one
	// business-local date; returns (nil, nil) when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// SetBreakStart records break_start_at; pre-state: clocked in, no break
	// recorded, not clocked out.
	SetBreakStart(ctx context.Context, id string, at time.Time) error

	// SetBreakEnd records break_end_at; pre-state: open break.
	SetBreakEnd(ctx context.Context, id string, at time.Time) error

	// SetClockOut records clock_out_at; pre-state: not clocked out, no open
	// break.
	SetClockOut(ctx context.Context, id string, at time.Time) error

	// SetApproval moves the approval sub-state out of pending; pre-state:
	// approval_status = pending. Notes are persisted for declines.
	SetApproval(ctx context.Context, id string, status ApprovalStatus, approvedBy string, approvedAt time.Time, notes *string) error

	// List retrieves records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListByEmployeeRange retrieves one worker's records over a closed
	// business-date range, oldest first.
	ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
}
