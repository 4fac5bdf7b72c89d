package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/worktime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/service/file"
)

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceRepository
	worktime    *worktime.Service
	fileService file.FileService
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	worktimeService *worktime.Service,
	fileService file.FileService,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepo,
		worktime:             worktimeService,
		fileService:          fileService,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

// deriveStatus computes the read-only attendance status from stored fields
// and the working-hours configuration. Idempotent within a business day.
func (a *AttendanceServiceImpl) deriveStatus(att *attendance.Attendance) attendance.DerivedStatus {
	if att == nil || att.ClockIn == nil {
		return attendance.StatusAbsent
	}
	if att.ClockOut == nil && att.Date.Before(a.worktime.NowBusinessDate()) {
		// Day rolled over without a clock-out; the record stays open and
		// reportable, never auto-closed.
		return attendance.StatusIncomplete
	}
	if a.worktime.LatenessMinutes(*att.ClockIn) > 0 {
		return attendance.StatusLate
	}
	return attendance.StatusOnTime
}

func (a *AttendanceServiceImpl) toResponse(att *attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.AttendanceResponse{
		ID:             att.ID,
		EmployeeID:     att.EmployeeID,
		Date:           att.Date.Format("2006-01-02"),
		Status:         string(a.deriveStatus(att)),
		ApprovalStatus: string(att.ApprovalStatus),
		ClockInTime:    timePtrToString(att.ClockIn),
		ClockOutTime:   timePtrToString(att.ClockOut),
		BreakStartTime: timePtrToString(att.BreakStart),
		BreakEndTime:   timePtrToString(att.BreakEnd),
		Latitude:       att.Latitude,
		Longitude:      att.Longitude,
		Address:        att.Address,
		ProofURL:       att.ProofURL,
		IsManualEntry:  att.IsManualEntry,
		AdminNotes:     att.AdminNotes,
		ApprovedBy:     att.ApprovedBy,
		ApprovedAt:     timePtrToString(att.ApprovedAt),
	}

	if att.ClockIn != nil {
		resp.LateMinutes = a.worktime.LatenessMinutes(*att.ClockIn)
	}
	if d := att.WorkDuration(); d != nil {
		hours := d.Hours()
		resp.WorkHours = &hours
	}
	if att.BreakStart != nil && att.BreakEnd != nil {
		breakHours := att.BreakDuration().Hours()
		resp.BreakHours = &breakHours
	}

	return resp
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	nowUTC := a.worktime.Now()
	today := a.worktime.NowBusinessDate()

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedIn
	}

	if req.File != nil && req.FileHeader != nil {
		proofURL, err := a.fileService.UploadAttendanceProof(ctx, req.EmployeeID, today, req.File, req.FileHeader.Filename)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to upload attendance proof: %w", err)
		}
		req.ProofURL = &proofURL
	}

	var address *string
	if req.Address != "" {
		address = &req.Address
	}

	data := attendance.Attendance{
		EmployeeID: req.EmployeeID,

		// Date is the business-local working day, not a timestamp
		Date: today,

		// Absolute instants are stored in UTC
		ClockIn: &nowUTC,

		Latitude:  &req.Latitude,
		Longitude: &req.Longitude,
		Address:   address,
		ProofURL:  req.ProofURL,

		ApprovalStatus: attendance.ApprovalPending,
	}

	// The repository's unique key catches the race between the existence
	// check above and this insert.
	created, err := a.AttendanceRepository.Create(ctx, data)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return a.toResponse(&created), nil
}

// todayRecord loads the worker's record for the current business date,
// rejecting requests with no record to act on.
func (a *AttendanceServiceImpl) todayRecord(ctx context.Context, employeeID string) (*attendance.Attendance, error) {
	rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, a.worktime.NowBusinessDate())
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if rec == nil {
		return nil, attendance.ErrNotClockedIn
	}
	return rec, nil
}

// BreakStart implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) BreakStart(ctx context.Context, req attendance.BreakRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := a.todayRecord(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if rec.ClockedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedOut
	}
	if rec.HasBreak() {
		// One break pair per day, open or closed.
		return attendance.AttendanceResponse{}, attendance.ErrDuplicateBreak
	}

	nowUTC := a.worktime.Now()
	if err := a.AttendanceRepository.SetBreakStart(ctx, rec.ID, nowUTC); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec.BreakStart = &nowUTC
	return a.toResponse(rec), nil
}

// BreakEnd implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) BreakEnd(ctx context.Context, req attendance.BreakRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := a.todayRecord(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if !rec.OnBreak() {
		return attendance.AttendanceResponse{}, attendance.ErrNoOpenBreak
	}

	nowUTC := a.worktime.Now()
	if err := a.AttendanceRepository.SetBreakEnd(ctx, rec.ID, nowUTC); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec.BreakEnd = &nowUTC
	return a.toResponse(rec), nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec, err := a.todayRecord(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if rec.ClockedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyClockedOut
	}
	if rec.OnBreak() {
		return attendance.AttendanceResponse{}, attendance.ErrBreakStillOpen
	}

	nowUTC := a.worktime.Now()
	if err := a.AttendanceRepository.SetClockOut(ctx, rec.ID, nowUTC); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec.ClockOut = &nowUTC
	return a.toResponse(rec), nil
}

// ManualEntry implements attendance.AttendanceService. The step-wise
// transitions are bypassed but every ordering invariant is re-validated
// before the atomic upsert commits.
func (a *AttendanceServiceImpl) ManualEntry(ctx context.Context, req attendance.ManualEntryRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, err := a.worktime.ParseBusinessDate(req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}

	clockIn, clockOut, breakStart, breakEnd, err := a.manualEntryInstants(date, req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check existing attendance: %w", err)
	}
	if existing != nil && existing.Processed() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyProcessed
	}

	data := attendance.Attendance{
		EmployeeID:     req.EmployeeID,
		Date:           date,
		ClockIn:        &clockIn,
		ClockOut:       clockOut,
		BreakStart:     breakStart,
		BreakEnd:       breakEnd,
		Address:        req.Address,
		AdminNotes:     req.Notes,
		ApprovalStatus: attendance.ApprovalPending,
		IsManualEntry:  true,
	}

	// The upsert itself refuses to replace a record whose approval already
	// became terminal, closing the race with a concurrent approve/decline.
	saved, err := a.AttendanceRepository.Upsert(ctx, data)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return a.toResponse(&saved), nil
}

// manualEntryInstants converts the request's local clock times into UTC
// instants and enforces interval ordering before anything is written.
func (a *AttendanceServiceImpl) manualEntryInstants(date time.Time, req attendance.ManualEntryRequest) (clockIn time.Time, clockOut, breakStart, breakEnd *time.Time, err error) {
	var errs validator.ValidationErrors

	parse := func(field, value string) (time.Time, bool) {
		tod, perr := worktime.ParseTimeOfDay(value)
		if perr != nil {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: "must be a local clock time in HH:MM format",
			})
			return time.Time{}, false
		}
		return a.worktime.At(date, tod).UTC(), true
	}

	in, ok := parse("clock_in", req.ClockIn)
	if ok {
		clockIn = in
	}

	if req.ClockOut != nil {
		if out, ok := parse("clock_out", *req.ClockOut); ok {
			clockOut = &out
		}
	}
	if req.BreakStart != nil {
		if bs, ok := parse("break_start", *req.BreakStart); ok {
			breakStart = &bs
		}
	}
	if req.BreakEnd != nil {
		if be, ok := parse("break_end", *req.BreakEnd); ok {
			breakEnd = &be
		}
	}

	if len(errs) > 0 {
		return time.Time{}, nil, nil, nil, errs
	}

	// Interval invariants: out > in; break pair strictly ordered and inside
	// [in, out] when out is present.
	if clockOut != nil && !clockOut.After(clockIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out",
			Message: "clock_out must be after clock_in",
		})
	}
	if breakStart != nil && breakEnd != nil {
		if !breakEnd.After(*breakStart) {
			errs = append(errs, validator.ValidationError{
				Field:   "break_end",
				Message: "break_end must be after break_start",
			})
		}
		if breakStart.Before(clockIn) {
			errs = append(errs, validator.ValidationError{
				Field:   "break_start",
				Message: "break_start must not be before clock_in",
			})
		}
		if clockOut != nil && breakEnd.After(*clockOut) {
			errs = append(errs, validator.ValidationError{
				Field:   "break_end",
				Message: "break_end must not be after clock_out",
			})
		}
	}

	if len(errs) > 0 {
		return time.Time{}, nil, nil, nil, errs
	}

	return clockIn, clockOut, breakStart, breakEnd, nil
}

// Approve implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Approve(ctx context.Context, req attendance.ApproveRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.setApproval(ctx, req.AttendanceID, req.AdminID, attendance.ApprovalApproved, nil)
}

// Decline implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Decline(ctx context.Context, req attendance.DeclineRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.setApproval(ctx, req.AttendanceID, req.AdminID, attendance.ApprovalDeclined, &req.Notes)
}

func (a *AttendanceServiceImpl) setApproval(ctx context.Context, attendanceID, adminID string, status attendance.ApprovalStatus, notes *string) (attendance.AttendanceResponse, error) {
	rec, err := a.AttendanceRepository.GetByID(ctx, attendanceID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if rec.Processed() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyProcessed
	}

	nowUTC := a.worktime.Now()
	if err := a.AttendanceRepository.SetApproval(ctx, rec.ID, status, adminID, nowUTC, notes); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	rec.ApprovalStatus = status
	rec.ApprovedBy = &adminID
	rec.ApprovedAt = &nowUTC
	if notes != nil {
		rec.AdminNotes = notes
	}
	return a.toResponse(&rec), nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodayStatus(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	today := a.worktime.NowBusinessDate()

	rec, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if rec == nil {
		// Absent placeholder, not an error: the day simply has no record yet.
		return attendance.AttendanceResponse{
			EmployeeID: employeeID,
			Date:       today.Format("2006-01-02"),
			Status:     string(attendance.StatusAbsent),
		}, nil
	}

	return a.toResponse(rec), nil
}

// GetWeekly implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetWeekly(ctx context.Context, employeeID string) ([]attendance.AttendanceResponse, error) {
	to := a.worktime.NowBusinessDate()
	from := to.AddDate(0, 0, -6)

	records, err := a.AttendanceRepository.ListByEmployeeRange(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for i := range records {
		responses = append(responses, a.toResponse(&records[i]))
	}
	return responses, nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	rec, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return a.toResponse(&rec), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	filter.Normalize()

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	items := make([]attendance.AttendanceResponse, 0, len(records))
	for i := range records {
		items = append(items, a.toResponse(&records[i]))
	}

	return attendance.ListAttendanceResponse{
		Items:      items,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}
