package overtime

import (
	"context"
)

// OvertimeService is the lifecycle engine for overtime requests:
// Pending -> {Approved | Rejected}, and once approved, Incomplete ->
// Completed tracked by the presence of completion data.
type OvertimeService interface {
	// Request opens a pending overtime request; reason is mandatory
	Request(ctx context.Context, req RequestOvertimeRequest) (OvertimeResponse, error)

	// Approve marks the request approved; terminal. Admin-only; callers go
	// through the approval gateway.
	Approve(ctx context.Context, req ApproveRequest) (OvertimeResponse, error)

	// Reject marks the request rejected with a mandatory reason; terminal.
	// Admin-only.
	Reject(ctx context.Context, req RejectRequest) (OvertimeResponse, error)

	// Complete submits end time and completion notes on an approved request
	// and derives duration_hours.
	Complete(ctx context.Context, req CompleteRequest) (OvertimeResponse, error)

	// GetOvertime retrieves a single request by ID
	GetOvertime(ctx context.Context, id string) (OvertimeResponse, error)

	// ListMine retrieves the worker's own requests
	ListMine(ctx context.Context, employeeID string, filter OvertimeFilter) (ListOvertimeResponse, error)

	// ListOvertime retrieves requests with filters (admin); the Completed
	// filter surfaces the approved-but-incomplete condition.
	ListOvertime(ctx context.Context, filter OvertimeFilter) (ListOvertimeResponse, error)
}
