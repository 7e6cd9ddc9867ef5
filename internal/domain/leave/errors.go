package leave

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrLeaveRequestDeleted  = errors.New("leave request deleted")
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrLeaveTypeInactive    = errors.New("leave type inactive")
	ErrLeaveTypeCodeExists  = errors.New("leave type code already exists")
	ErrBalanceNotFound      = errors.New("leave balance not found")
	ErrInsufficientBalance  = errors.New("insufficient leave balance")
	ErrAttachmentRequired   = errors.New("attachment required for this leave type")
	ErrNoChargeableDays     = errors.New("requested range contains no chargeable days")
	ErrInvalidDateRange     = errors.New("end date before start date")
)

// OverlapError reports a half-day slot conflict with an existing
// blocking request, naming the offending date.
type OverlapError struct {
	Date      time.Time
	RequestID string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("leave dates conflict with request %s on %s", e.RequestID, e.Date.Format("2006-01-02"))
}

// StatusError reports a transition attempted against a request in the
// wrong state.
type StatusError struct {
	RequestID  string
	Status     LeaveRequestStatus
	Transition string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cannot %s leave request %s in status %s", e.Transition, e.RequestID, e.Status)
}
