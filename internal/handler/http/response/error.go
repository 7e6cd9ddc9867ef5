package response

import (
	"errors"
	"net/http"

	"github.com/lumenhr/backoffice-go/internal/domain/employee"
	"github.com/lumenhr/backoffice-go/internal/domain/holiday"
	"github.com/lumenhr/backoffice-go/internal/domain/leave"
	"github.com/lumenhr/backoffice-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Overlap and status conflicts carry context worth surfacing.
	var overlapErr *leave.OverlapError
	if errors.As(err, &overlapErr) {
		Conflict(w, overlapErr.Error())
		return
	}
	var statusErr *leave.StatusError
	if errors.As(err, &statusErr) {
		Conflict(w, statusErr.Error())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrLeaveTypeCodeExists):
		Conflict(w, "Leave type code already exists")
	case errors.Is(err, leave.ErrLeaveTypeInactive):
		BadRequest(w, "Leave type is inactive", nil)
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, "Insufficient leave balance", nil)
	case errors.Is(err, leave.ErrAttachmentRequired):
		BadRequest(w, "Attachment required for this leave type", nil)
	case errors.Is(err, leave.ErrNoChargeableDays):
		BadRequest(w, "Requested range contains no chargeable days", nil)
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "End date must not be before start date", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
