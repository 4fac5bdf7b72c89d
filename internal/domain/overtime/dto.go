package overtime

import (
	"mime/multipart"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

// ========================================
// OVERTIME DTOs
// ========================================

// RequestOvertimeRequest opens a pending overtime request. StartTime is a
// business-local clock time "HH:MM" on Date ("2006-01-02", defaults to the
// current business date when empty).
type RequestOvertimeRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date,omitempty"`
	StartTime  string `json:"start_time"`
	Type       string `json:"overtime_type"`
	Reason     string `json:"reason"`

	// Optional supporting document, attached by the handler from the
	// multipart form.
	DocumentURL *string               `json:"-"`
	File        multipart.File        `json:"-"`
	FileHeader  *multipart.FileHeader `json:"-"`
}

func (r *RequestOvertimeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.Date != "" {
		if _, ok := validator.IsValidDate(r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if validator.IsEmpty(r.StartTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: "start_time is required",
		})
	}

	if !validator.IsInSlice(r.Type, ValidTypes()) {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_type",
			Message: "overtime_type must be one of regular, weekend, holiday",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if r.FileHeader != nil {
		if msg := validator.CheckDocumentUpload(r.FileHeader.Filename, r.FileHeader.Size); msg != "" {
			errs = append(errs, validator.ValidationError{
				Field:   "file",
				Message: msg,
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ApproveRequest struct {
	AdminID    string `json:"-"`
	OvertimeID string `json:"-"`
}

func (r *ApproveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.OvertimeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_id",
			Message: "overtime_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RejectRequest struct {
	AdminID    string `json:"-"`
	OvertimeID string `json:"-"`
	Reason     string `json:"reason"`
}

func (r *RejectRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.OvertimeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_id",
			Message: "overtime_id is required",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "a rejection reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CompleteRequest submits completion data on an approved request. EndTime is
// a business-local clock time "HH:MM"; EndDate defaults to the request date
// and exists for overtime running past midnight.
type CompleteRequest struct {
	EmployeeID string  `json:"-"`
	OvertimeID string  `json:"-"`
	EndTime    string  `json:"end_time"`
	EndDate    string  `json:"end_date,omitempty"`
	Tasks      *string `json:"tasks_completed,omitempty"`
	Notes      *string `json:"completion_notes,omitempty"`

	DocumentURL *string               `json:"-"`
	File        multipart.File        `json:"-"`
	FileHeader  *multipart.FileHeader `json:"-"`
}

func (r *CompleteRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.OvertimeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "overtime_id",
			Message: "overtime_id is required",
		})
	}

	if validator.IsEmpty(r.EndTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: "end_time is required",
		})
	}

	if r.EndDate != "" {
		if _, ok := validator.IsValidDate(r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.FileHeader != nil {
		if msg := validator.CheckDocumentUpload(r.FileHeader.Filename, r.FileHeader.Size); msg != "" {
			errs = append(errs, validator.ValidationError{
				Field:   "file",
				Message: msg,
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type OvertimeFilter struct {
	EmployeeID *string
	Status     *string
	Completed  *bool // filter on the completion sub-state
	DateFrom   *string
	DateTo     *string
	Page       int
	Limit      int
}

func (f *OvertimeFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type OvertimeResponse struct {
	ID              string   `json:"id"`
	EmployeeID      string   `json:"employee_id"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	EndTime         *string  `json:"end_time"`
	Type            string   `json:"overtime_type"`
	Reason          string   `json:"reason"`
	TasksCompleted  *string  `json:"tasks_completed,omitempty"`
	CompletionNotes *string  `json:"completion_notes,omitempty"`
	DocumentURL     *string  `json:"document_url,omitempty"`
	Status          string   `json:"status"`
	Completed       bool     `json:"completed"`
	RejectionReason *string  `json:"rejection_reason,omitempty"`
	ApprovedBy      *string  `json:"approved_by,omitempty"`
	ApprovedAt      *string  `json:"approved_at,omitempty"`
	DurationHours   *float64 `json:"duration_hours,omitempty"`
}

type ListOvertimeResponse struct {
	Items      []OvertimeResponse `json:"items"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalItems int64              `json:"total_items"`
	TotalPages int                `json:"total_pages"`
}
