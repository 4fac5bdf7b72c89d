package attendance

import (
	"time"
)

// ApprovalStatus is the administrator-facing sub-state of a daily record.
// It starts at pending and is terminal once approved or declined; there is
// no reopen edge.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalDeclined ApprovalStatus = "declined"
)

// DerivedStatus is computed on read, never stored.
type DerivedStatus string

const (
	StatusOnTime     DerivedStatus = "on_time"
	StatusLate       DerivedStatus = "late"
	StatusAbsent     DerivedStatus = "absent"
	StatusIncomplete DerivedStatus = "incomplete"
)

// Attendance is one worker's presence record for one business-local calendar
// day. Identity is (EmployeeID, Date); records are never deleted, only
// superseded by the next day's record. All event timestamps are UTC instants.
type Attendance struct {
	ID            string
	EmployeeID    string
	Date          time.Time // business-local calendar date, midnight-truncated
	ClockIn       *time.Time
	ClockOut      *time.Time
	BreakStart    *time.Time
	BreakEnd      *time.Time
	Latitude      *float64
	Longitude     *float64
	Address       *string
	ProofURL      *string
	ApprovalStatus ApprovalStatus
	AdminNotes    *string
	IsManualEntry bool
	ApprovedBy    *string
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OnBreak reports whether the record has an open, unterminated break.
func (a *Attendance) OnBreak() bool {
	return a.BreakStart != nil && a.BreakEnd == nil
}

// ClockedOut reports whether the day has been terminated.
func (a *Attendance) ClockedOut() bool {
	return a.ClockOut != nil
}

// HasBreak reports whether a break pair was ever started today. At most one
// pair is allowed per day.
func (a *Attendance) HasBreak() bool {
	return a.BreakStart != nil
}

// BreakDuration returns the elapsed break time, zero while the break pair is
// incomplete.
func (a *Attendance) BreakDuration() time.Duration {
	if a.BreakStart == nil || a.BreakEnd == nil {
		return 0
	}
	return a.BreakEnd.Sub(*a.BreakStart)
}

// WorkDuration returns net working time, (clock_out - clock_in) minus the
// break, or nil while the record is incomplete. Pure function of stored
// fields.
func (a *Attendance) WorkDuration() *time.Duration {
	if a.ClockIn == nil || a.ClockOut == nil {
		return nil
	}
	d := a.ClockOut.Sub(*a.ClockIn) - a.BreakDuration()
	if d < 0 {
		d = 0
	}
	return &d
}

// Processed reports whether the approval sub-state is terminal.
func (a *Attendance) Processed() bool {
	return a.ApprovalStatus != ApprovalPending
}
