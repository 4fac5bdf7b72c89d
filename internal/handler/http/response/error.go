package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/worktime"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Worktime errors: rejected before any state mutation
	case errors.Is(err, worktime.ErrParse):
		ValidationError(w, map[string]string{"time": err.Error()})
	case errors.Is(err, worktime.ErrInvalidInterval):
		ValidationError(w, map[string]string{"interval": err.Error()})

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyClockedIn),
		errors.Is(err, attendance.ErrAlreadyClockedOut),
		errors.Is(err, attendance.ErrDuplicateBreak),
		errors.Is(err, attendance.ErrNoOpenBreak),
		errors.Is(err, attendance.ErrBreakStillOpen),
		errors.Is(err, attendance.ErrAlreadyProcessed),
		errors.Is(err, attendance.ErrStateConflict):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNotClockedIn),
		errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, attendance.ErrNotRecordOwner):
		Forbidden(w, err.Error())

	// Overtime domain errors
	case errors.Is(err, overtime.ErrAlreadyProcessed),
		errors.Is(err, overtime.ErrNotApproved),
		errors.Is(err, overtime.ErrAlreadyCompleted),
		errors.Is(err, overtime.ErrStateConflict):
		Conflict(w, err.Error())
	case errors.Is(err, overtime.ErrOvertimeNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, overtime.ErrNotRequestOwner):
		Forbidden(w, err.Error())
	case errors.Is(err, overtime.ErrOutsideWindow):
		ValidationError(w, map[string]string{"start_time": err.Error()})

	// Authorization errors: fatal to the request, never retried
	case errors.Is(err, user.ErrAdminPrivilegeRequired),
		errors.Is(err, user.ErrWorkerRoleRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrInvalidToken),
		errors.Is(err, user.ErrActorMissing):
		Unauthorized(w, err.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
