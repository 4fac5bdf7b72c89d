package overtime

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/worktime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/service/file"
	"github.com/google/uuid"
)

type OvertimeServiceImpl struct {
	db *database.DB
	overtime.OvertimeRepository
	worktime    *worktime.Service
	fileService file.FileService
}

func NewOvertimeService(
	db *database.DB,
	overtimeRepo overtime.OvertimeRepository,
	worktimeService *worktime.Service,
	fileService file.FileService,
) overtime.OvertimeService {
	return &OvertimeServiceImpl{
		db:                 db,
		OvertimeRepository: overtimeRepo,
		worktime:           worktimeService,
		fileService:        fileService,
	}
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format(time.RFC3339)
	return &format
}

func (o *OvertimeServiceImpl) toResponse(ot *overtime.Overtime) overtime.OvertimeResponse {
	return overtime.OvertimeResponse{
		ID:              ot.ID,
		EmployeeID:      ot.EmployeeID,
		Date:            ot.Date.Format("2006-01-02"),
		StartTime:       ot.StartTime.Format(time.RFC3339),
		EndTime:         timePtrToString(ot.EndTime),
		Type:            string(ot.Type),
		Reason:          ot.Reason,
		TasksCompleted:  ot.TasksCompleted,
		CompletionNotes: ot.CompletionNotes,
		DocumentURL:     ot.DocumentURL,
		Status:          string(ot.Status),
		Completed:       ot.Completed(),
		RejectionReason: ot.RejectionReason,
		ApprovedBy:      ot.ApprovedBy,
		ApprovedAt:      timePtrToString(ot.ApprovedAt),
		DurationHours:   ot.DurationHours,
	}
}

// Request implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) Request(ctx context.Context, req overtime.RequestOvertimeRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	date := o.worktime.NowBusinessDate()
	if req.Date != "" {
		parsed, err := o.worktime.ParseBusinessDate(req.Date)
		if err != nil {
			return overtime.OvertimeResponse{}, validator.ValidationErrors{{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			}}
		}
		date = parsed
	}

	startTod, err := worktime.ParseTimeOfDay(req.StartTime)
	if err != nil {
		return overtime.OvertimeResponse{}, validator.ValidationErrors{{
			Field:   "start_time",
			Message: "start_time must be a local clock time in HH:MM format",
		}}
	}
	start := o.worktime.At(date, startTod).UTC()

	// Regular overtime is only eligible once the overtime window opens;
	// weekend and holiday overtime may start at any local time.
	if overtime.Type(req.Type) == overtime.TypeRegular && !o.worktime.InOvertimeWindow(start) {
		return overtime.OvertimeResponse{}, overtime.ErrOutsideWindow
	}

	if req.File != nil && req.FileHeader != nil {
		documentURL, err := o.fileService.UploadOvertimeDocument(ctx, req.EmployeeID, req.File, req.FileHeader.Filename)
		if err != nil {
			return overtime.OvertimeResponse{}, fmt.Errorf("failed to upload overtime document: %w", err)
		}
		req.DocumentURL = &documentURL
	}

	data := overtime.Overtime{
		ID:          uuid.New().String(),
		EmployeeID:  req.EmployeeID,
		Date:        date,
		StartTime:   start,
		Type:        overtime.Type(req.Type),
		Reason:      req.Reason,
		DocumentURL: req.DocumentURL,
		Status:      overtime.StatusPending,
	}

	created, err := o.OvertimeRepository.Create(ctx, data)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	return o.toResponse(&created), nil
}

// Approve implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) Approve(ctx context.Context, req overtime.ApproveRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}
	return o.setStatus(ctx, req.OvertimeID, req.AdminID, overtime.StatusApproved, nil)
}

// Reject implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) Reject(ctx context.Context, req overtime.RejectRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}
	return o.setStatus(ctx, req.OvertimeID, req.AdminID, overtime.StatusRejected, &req.Reason)
}

func (o *OvertimeServiceImpl) setStatus(ctx context.Context, overtimeID, adminID string, status overtime.Status, rejectionReason *string) (overtime.OvertimeResponse, error) {
	rec, err := o.OvertimeRepository.GetByID(ctx, overtimeID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	if rec.Processed() {
		return overtime.OvertimeResponse{}, overtime.ErrAlreadyProcessed
	}

	nowUTC := o.worktime.Now()
	if err := o.OvertimeRepository.SetStatus(ctx, rec.ID, status, adminID, nowUTC, rejectionReason); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	rec.Status = status
	rec.ApprovedBy = &adminID
	rec.ApprovedAt = &nowUTC
	rec.RejectionReason = rejectionReason
	return o.toResponse(&rec), nil
}

// Complete implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) Complete(ctx context.Context, req overtime.CompleteRequest) (overtime.OvertimeResponse, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	rec, err := o.OvertimeRepository.GetByID(ctx, req.OvertimeID)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}

	if rec.EmployeeID != req.EmployeeID {
		return overtime.OvertimeResponse{}, overtime.ErrNotRequestOwner
	}
	if rec.Status == overtime.StatusPending || rec.Status == overtime.StatusRejected {
		return overtime.OvertimeResponse{}, overtime.ErrNotApproved
	}
	if rec.Completed() {
		return overtime.OvertimeResponse{}, overtime.ErrAlreadyCompleted
	}

	endDate := rec.Date
	if req.EndDate != "" {
		parsed, err := o.worktime.ParseBusinessDate(req.EndDate)
		if err != nil {
			return overtime.OvertimeResponse{}, validator.ValidationErrors{{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			}}
		}
		endDate = parsed
	}

	endTod, err := worktime.ParseTimeOfDay(req.EndTime)
	if err != nil {
		return overtime.OvertimeResponse{}, validator.ValidationErrors{{
			Field:   "end_time",
			Message: "end_time must be a local clock time in HH:MM format",
		}}
	}
	end := o.worktime.At(endDate, endTod).UTC()

	if !end.After(rec.StartTime) {
		return overtime.OvertimeResponse{}, validator.ValidationErrors{{
			Field:   "end_time",
			Message: "end_time must be after the overtime start",
		}}
	}

	durationHours, err := o.worktime.DurationHours(rec.StartTime, end)
	if err != nil {
		return overtime.OvertimeResponse{}, validator.ValidationErrors{{
			Field:   "end_time",
			Message: "end_time must be after the overtime start",
		}}
	}

	if req.File != nil && req.FileHeader != nil {
		documentURL, uerr := o.fileService.UploadOvertimeDocument(ctx, req.EmployeeID, req.File, req.FileHeader.Filename)
		if uerr != nil {
			return overtime.OvertimeResponse{}, fmt.Errorf("failed to upload overtime document: %w", uerr)
		}
		req.DocumentURL = &documentURL
	}

	if err := o.OvertimeRepository.SetCompletion(ctx, rec.ID, end, durationHours, req.Tasks, req.Notes, req.DocumentURL); err != nil {
		return overtime.OvertimeResponse{}, err
	}

	rec.EndTime = &end
	rec.DurationHours = &durationHours
	rec.TasksCompleted = req.Tasks
	rec.CompletionNotes = req.Notes
	if req.DocumentURL != nil {
		rec.DocumentURL = req.DocumentURL
	}
	return o.toResponse(&rec), nil
}

// GetOvertime implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) GetOvertime(ctx context.Context, id string) (overtime.OvertimeResponse, error) {
	rec, err := o.OvertimeRepository.GetByID(ctx, id)
	if err != nil {
		return overtime.OvertimeResponse{}, err
	}
	return o.toResponse(&rec), nil
}

// ListMine implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) ListMine(ctx context.Context, employeeID string, filter overtime.OvertimeFilter) (overtime.ListOvertimeResponse, error) {
	filter.EmployeeID = &employeeID
	return o.ListOvertime(ctx, filter)
}

// ListOvertime implements overtime.OvertimeService.
func (o *OvertimeServiceImpl) ListOvertime(ctx context.Context, filter overtime.OvertimeFilter) (overtime.ListOvertimeResponse, error) {
	filter.Normalize()

	records, total, err := o.OvertimeRepository.List(ctx, filter)
	if err != nil {
		return overtime.ListOvertimeResponse{}, err
	}

	items := make([]overtime.OvertimeResponse, 0, len(records))
	for i := range records {
		items = append(items, o.toResponse(&records[i]))
	}

	return overtime.ListOvertimeResponse{
		Items:      items,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}
