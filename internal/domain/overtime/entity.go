package overtime

import (
	"time"
)

// Status is the administrator approval state: pending is the only non-terminal
// value; approved and rejected have no outgoing edges.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Type classifies the overtime for downstream pay-rate purposes. It is
// advisory metadata and never gates a transition.
type Type string

const (
	TypeRegular Type = "regular"
	TypeWeekend Type = "weekend"
	TypeHoliday Type = "holiday"
)

func ValidTypes() []string {
	return []string{string(TypeRegular), string(TypeWeekend), string(TypeHoliday)}
}

// Overtime is one worker's overtime request. It lives independently of the
// day's attendance record, linked only through EmployeeID and Date. A record
// can be approved but incomplete: completion is tracked by the presence of
// EndTime, orthogonally to Status.
type Overtime struct {
	ID              string
	EmployeeID      string
	Date            time.Time // business-local calendar date of the overtime
	StartTime       time.Time // UTC instant
	EndTime         *time.Time
	Type            Type
	Reason          string
	TasksCompleted  *string
	CompletionNotes *string
	DocumentURL     *string
	Status          Status
	RejectionReason *string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	DurationHours   *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Completed reports whether completion data has been submitted.
func (o *Overtime) Completed() bool {
	return o.EndTime != nil
}

// Processed reports whether the approval state is terminal.
func (o *Overtime) Processed() bool {
	return o.Status != StatusPending
}
