package attendance

import (
	"context"
)

// AttendanceService is the lifecycle engine for daily presence records:
// NotStarted -> ClockedIn -> OnBreak -> ClockedIn -> ClockedOut, with the
// orthogonal approval sub-state Pending -> {Approved | Declined}.
type AttendanceService interface {
	// ClockIn opens today's record; allowed only when none exists yet
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// BreakStart records the start of the single daily break
	BreakStart(ctx context.Context, req BreakRequest) (AttendanceResponse, error)

	// BreakEnd terminates the open break
	BreakEnd(ctx context.Context, req BreakRequest) (AttendanceResponse, error)

	// ClockOut terminates the day; forbidden while a break is open
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// ManualEntry creates or overwrites a record on the worker's behalf,
	// bypassing the step-wise transitions but not the ordering invariants.
	// Admin-only; callers go through the approval gateway.
	ManualEntry(ctx context.Context, req ManualEntryRequest) (AttendanceResponse, error)

	// Approve marks the record approved; terminal. Admin-only.
	Approve(ctx context.Context, req ApproveRequest) (AttendanceResponse, error)

	// Decline marks the record declined with a mandatory note; terminal.
	// Admin-only.
	Decline(ctx context.Context, req DeclineRequest) (AttendanceResponse, error)

	// GetTodayStatus reports the worker's record for the current business
	// date, or an absent placeholder when none exists.
	GetTodayStatus(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// GetWeekly reports the worker's trailing seven business days
	GetWeekly(ctx context.Context, employeeID string) ([]AttendanceResponse, error)

	// GetAttendance retrieves a single record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// ListAttendance retrieves records with filters (admin)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
