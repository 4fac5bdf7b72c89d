package overtime

import (
	"context"
	"time"
)

// OvertimeRepository defines data access for overtime requests. Mutations are
// atomic conditional writes keyed by record id: the expected pre-state is part
// of the statement and a lost race fails with ErrStateConflict instead of
// silently overwriting.
type OvertimeRepository interface {
	// Create inserts a new pending request
	Create(ctx context.Context, overtime Overtime) (Overtime, error)

	// GetByID retrieves a request by id
	GetByID(ctx context.Context, id string) (Overtime, error)

	// SetStatus moves the approval state out of pending; pre-state:
	// status = pending. rejectionReason is persisted for rejections.
	SetStatus(ctx context.Context, id string, status Status, approvedBy string, approvedAt time.Time, rejectionReason *string) error

	// SetCompletion records end time, derived duration and completion notes;
	// pre-state: status = approved and end_time unset.
	SetCompletion(ctx context.Context, id string, endTime time.Time, durationHours float64, tasks, notes, documentURL *string) error

	// List retrieves requests with filters and pagination
	List(ctx context.Context, filter OvertimeFilter) ([]Overtime, int64, error)
}
