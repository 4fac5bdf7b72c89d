package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const attendanceColumns = `
	id, employee_id, date, clock_in, clock_out, break_start, break_end,
	latitude, longitude, address, proof_url,
	approval_status, admin_notes, is_manual_entry,
	approved_by, approved_at, created_at, updated_at
`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.ClockIn, &att.ClockOut,
		&att.BreakStart, &att.BreakEnd,
		&att.Latitude, &att.Longitude, &att.Address, &att.ProofURL,
		&att.ApprovalStatus, &att.AdminNotes, &att.IsManualEntry,
		&att.ApprovedBy, &att.ApprovedAt, &att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	// The (employee_id, date) unique key is the double clock-in guard:
	// DO NOTHING returns no row when another writer inserted first.
	query := `
		INSERT INTO attendances (
			employee_id, date, clock_in,
			latitude, longitude, address, proof_url,
			approval_status, is_manual_entry
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (employee_id, date) DO NOTHING
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.EmployeeID,
		newAttendance.Date,
		newAttendance.ClockIn,
		newAttendance.Latitude,
		newAttendance.Longitude,
		newAttendance.Address,
		newAttendance.ProofURL,
		newAttendance.ApprovalStatus,
		newAttendance.IsManualEntry,
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// Upsert implements attendance.AttendanceRepository.
func (a *attendanceRepository) Upsert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			employee_id, date, clock_in, clock_out, break_start, break_end,
			latitude, longitude, address, proof_url,
			approval_status, admin_notes, is_manual_entry
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			clock_in = EXCLUDED.clock_in,
			clock_out = EXCLUDED.clock_out,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			address = EXCLUDED.address,
			proof_url = EXCLUDED.proof_url,
			approval_status = EXCLUDED.approval_status,
			admin_notes = EXCLUDED.admin_notes,
			is_manual_entry = TRUE,
			updated_at = NOW()
		WHERE attendances.approval_status = 'pending'
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.EmployeeID,
		att.Date,
		att.ClockIn,
		att.ClockOut,
		att.BreakStart,
		att.BreakEnd,
		att.Latitude,
		att.Longitude,
		att.Address,
		att.ProofURL,
		att.ApprovalStatus,
		att.AdminNotes,
		att.IsManualEntry,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		// The guarded upsert returns no row when the existing record already
		// left pending; approval is terminal, so the overwrite is refused.
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyProcessed
		}
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date = $2
		LIMIT 1`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// conditionalUpdate interprets the result of an UPDATE whose WHERE clause
// carries the expected pre-state; zero affected rows means a concurrent
// writer won the race and yields the domain's conflict error.
func conditionalUpdate(tag pgconn.CommandTag, err error, op string, conflict error) error {
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return conflict
	}
	return nil
}

// SetBreakStart implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetBreakStart(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET break_start = $2, updated_at = NOW()
		WHERE id = $1
		  AND clock_in IS NOT NULL
		  AND clock_out IS NULL
		  AND break_start IS NULL
	`

	tag, err := q.Exec(ctx, query, id, at)
	return conditionalUpdate(tag, err, "set break start", attendance.ErrStateConflict)
}

// SetBreakEnd implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetBreakEnd(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET break_end = $2, updated_at = NOW()
		WHERE id = $1
		  AND break_start IS NOT NULL
		  AND break_end IS NULL
	`

	tag, err := q.Exec(ctx, query, id, at)
	return conditionalUpdate(tag, err, "set break end", attendance.ErrStateConflict)
}

// SetClockOut implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetClockOut(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET clock_out = $2, updated_at = NOW()
		WHERE id = $1
		  AND clock_out IS NULL
		  AND (break_start IS NULL OR break_end IS NOT NULL)
	`

	tag, err := q.Exec(ctx, query, id, at)
	return conditionalUpdate(tag, err, "set clock out", attendance.ErrStateConflict)
}

// SetApproval implements attendance.AttendanceRepository.
func (a *attendanceRepository) SetApproval(ctx context.Context, id string, status attendance.ApprovalStatus, approvedBy string, approvedAt time.Time, notes *string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET approval_status = $2, approved_by = $3, approved_at = $4,
		    admin_notes = COALESCE($5, admin_notes), updated_at = NOW()
		WHERE id = $1
		  AND approval_status = 'pending'
	`

	tag, err := q.Exec(ctx, query, id, status, approvedBy, approvedAt, notes)
	return conditionalUpdate(tag, err, "set approval", attendance.ErrStateConflict)
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argPos := 1

	if filter.EmployeeID != nil {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", argPos))
		args = append(args, *filter.EmployeeID)
		argPos++
	}
	if filter.ApprovalStatus != nil {
		conditions = append(conditions, fmt.Sprintf("approval_status = $%d", argPos))
		args = append(args, *filter.ApprovalStatus)
		argPos++
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
	countQuery := `SELECT COUNT(*) FROM attendances WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE ` + where + `
		ORDER BY date DESC, created_at DESC
		LIMIT $` + fmt.Sprint(argPos) + ` OFFSET $` + fmt.Sprint(argPos+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var result []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		result = append(result, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendance rows: %w", err)
	}

	return result, total, nil
}

// ListByEmployeeRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances by range: %w", err)
	}
	defer rows.Close()

	var result []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		result = append(result, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance rows: %w", err)
	}

	return result, nil
}
