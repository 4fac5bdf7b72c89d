package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const overtimeColumns = `
	id, employee_id, date, start_time, end_time, overtime_type, reason,
	tasks_completed, completion_notes, document_url,
	status, rejection_reason, approved_by, approved_at, duration_hours,
	created_at, updated_at
`

type overtimeRepository struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepository{db: db}
}

func scanOvertime(row pgx.Row) (overtime.Overtime, error) {
	var ot overtime.Overtime
	err := row.Scan(
		&ot.ID, &ot.EmployeeID, &ot.Date, &ot.StartTime, &ot.EndTime,
		&ot.Type, &ot.Reason,
		&ot.TasksCompleted, &ot.CompletionNotes, &ot.DocumentURL,
		&ot.Status, &ot.RejectionReason, &ot.ApprovedBy, &ot.ApprovedAt,
		&ot.DurationHours, &ot.CreatedAt, &ot.UpdatedAt,
	)
	return ot, err
}

// Create implements overtime.OvertimeRepository.
func (o *overtimeRepository) Create(ctx context.Context, newOvertime overtime.Overtime) (overtime.Overtime, error) {
	q := GetQuerier(ctx, o.db)

	query := `
		INSERT INTO overtime_requests (
			id, employee_id, date, start_time, overtime_type, reason,
			document_url, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newOvertime.ID,
		newOvertime.EmployeeID,
		newOvertime.Date,
		newOvertime.StartTime,
		newOvertime.Type,
		newOvertime.Reason,
		newOvertime.DocumentURL,
		newOvertime.Status,
	).Scan(&newOvertime.CreatedAt, &newOvertime.UpdatedAt)

	if err != nil {
		return overtime.Overtime{}, fmt.Errorf("failed to create overtime request: %w", err)
	}

	return newOvertime, nil
}

// GetByID implements overtime.OvertimeRepository.
func (o *overtimeRepository) GetByID(ctx context.Context, id string) (overtime.Overtime, error) {
	q := GetQuerier(ctx, o.db)

	query := `SELECT ` + overtimeColumns + ` FROM overtime_requests WHERE id = $1`

	ot, err := scanOvertime(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.Overtime{}, overtime.ErrOvertimeNotFound
		}
		return overtime.Overtime{}, fmt.Errorf("failed to get overtime by ID: %w", err)
	}

	return ot, nil
}

// SetStatus implements overtime.OvertimeRepository.
func (o *overtimeRepository) SetStatus(ctx context.Context, id string, status overtime.Status, approvedBy string, approvedAt time.Time, rejectionReason *string) error {
	q := GetQuerier(ctx, o.db)

	query := `
		UPDATE overtime_requests
		SET status = $2, approved_by = $3, approved_at = $4,
		    rejection_reason = $5, updated_at = NOW()
		WHERE id = $1
		  AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, id, status, approvedBy, approvedAt, rejectionReason)
	return conditionalUpdate(tag, err, "set overtime status", overtime.ErrStateConflict)
}

// SetCompletion implements overtime.OvertimeRepository.
func (o *overtimeRepository) SetCompletion(ctx context.Context, id string, endTime time.Time, durationHours float64, tasks, notes, documentURL *string) error {
	q := GetQuerier(ctx, o.db)

	query := `
		UPDATE overtime_requests
		SET end_time = $2, duration_hours = $3,
		    tasks_completed = $4, completion_notes = $5,
		    document_url = COALESCE($6, document_url), updated_at = NOW()
		WHERE id = $1
		  AND status = 'approved'
		  AND end_time IS NULL
	`

	tag, err := q.Exec(ctx, query, id, endTime, durationHours, tasks, notes, documentURL)
	return conditionalUpdate(tag, err, "set overtime completion", overtime.ErrStateConflict)
}

// List implements overtime.OvertimeRepository.
func (o *overtimeRepository) List(ctx context.Context, filter overtime.OvertimeFilter) ([]overtime.Overtime, int64, error) {
	q := GetQuerier(ctx, o.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, *filter.Status)
		argPos++
	}
	if filter.Completed != nil {
		if *filter.Completed {
			conditions = append(conditions, "end_time IS NOT NULL")
		} else {
			conditions = append(conditions, "end_time IS NULL")
		}
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argPos))
		args = append(args, *filter.DateFrom)
		argPos++
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argPos))
		args = append(args, *filter.DateTo)
		argPos++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM overtime_requests WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count overtime requests: %w", err)
	}

	query := `SELECT ` + overtimeColumns + `
		FROM overtime_requests
		WHERE ` + where + `
		ORDER BY date DESC, created_at DESC
		LIMIT $` + fmt.Sprint(argPos) + ` OFFSET $` + fmt.Sprint(argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list overtime requests: %w", err)
	}
	defer rows.Close()

	var result []overtime.Overtime
	for rows.Next() {
		ot, err := scanOvertime(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan overtime row: %w", err)
		}
		result = append(result, ot)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate overtime rows: %w", err)
	}

	return result, total, nil
}
