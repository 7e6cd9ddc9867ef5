package leave

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// LeaveType entity
type LeaveType struct {
	ID          string
	Code        string
	Name        string
	Description *string

	// Policy Rules
	RequiresBalance    bool
	RequiresAttachment bool
	IsActive           bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HalfDay marks a half-day boundary on a leave request. "pm" on the
// start date means the leave begins at midday; "am" on the end date
// means it finishes at midday.
type HalfDay string

const (
	HalfDayNone HalfDay = "none"
	HalfDayAM   HalfDay = "am"
	HalfDayPM   HalfDay = "pm"
)

func (h HalfDay) Valid() bool {
	switch h {
	case HalfDayNone, HalfDayAM, HalfDayPM:
		return true
	}
	return false
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPendingManager LeaveRequestStatus = "pending_manager"
	LeaveRequestStatusPendingHR      LeaveRequestStatus = "pending_hr"
	LeaveRequestStatusApproved       LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected       LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled      LeaveRequestStatus = "cancelled"
)

// BlockingStatuses are the statuses that count toward overlap
// detection and occupy a balance claim.
var BlockingStatuses = []LeaveRequestStatus{
	LeaveRequestStatusPendingManager,
	LeaveRequestStatusPendingHR,
	LeaveRequestStatusApproved,
}

func (s LeaveRequestStatus) IsBlocking() bool {
	switch s {
	case LeaveRequestStatusPendingManager, LeaveRequestStatusPendingHR, LeaveRequestStatusApproved:
		return true
	}
	return false
}

// IsClosed reports whether the status is terminal; closed requests
// accept no further transitions except administrative deletion.
func (s LeaveRequestStatus) IsClosed() bool {
	return s == LeaveRequestStatusRejected || s == LeaveRequestStatusCancelled
}

// LeaveBalance is the per (employee, leave type, year) ledger row.
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Year        int

	AllocatedDays decimal.Decimal
	UsedDays      decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingDays is derived, never stored: max(0, allocated - used).
func (b LeaveBalance) RemainingDays() decimal.Decimal {
	remaining := b.AllocatedDays.Sub(b.UsedDays)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// LeaveRequest entity
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string

	StartDate    time.Time
	EndDate      time.Time
	StartHalfDay HalfDay
	EndHalfDay   HalfDay

	// DaysCount is computed once at creation and never recomputed.
	DaysCount decimal.Decimal

	Status        LeaveRequestStatus
	Reason        *string
	AttachmentKey *string

	ManagerActorID *string
	ManagerActedAt *time.Time
	HRActorID      *string
	HRActedAt      *time.Time

	CreatedBy *string
	UpdatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// ActionName identifies an audit action on a leave request.
type ActionName string

const (
	ActionSubmitted       ActionName = "submitted"
	ActionApprovedManager ActionName = "approved_manager"
	ActionRejectedManager ActionName = "rejected_manager"
	ActionApprovedHR      ActionName = "approved_hr"
	ActionRejectedHR      ActionName = "rejected_hr"
	ActionCancelled       ActionName = "cancelled"
	ActionDeleted         ActionName = "deleted"
)

// LeaveRequestAction is an append-only audit row. Never updated or
// deleted.
type LeaveRequestAction struct {
	ID        string
	RequestID string
	ActorID   *string // nil for system actions
	Action    ActionName
	Comment   *string
	Metadata  *ActionMetadata
	CreatedAt time.Time
}

// ActionMetadata snapshots request state at the time of the action.
type ActionMetadata struct {
	Status    LeaveRequestStatus `json:"status,omitempty"`
	DaysCount decimal.Decimal    `json:"days_count"`
}

// Value implements driver.Valuer for database storage
func (m ActionMetadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for database retrieval
func (m *ActionMetadata) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan ActionMetadata: invalid type")
	}

	return json.Unmarshal(bytes, m)
}
