package leave

import (
	"mime/multipart"
	"time"

	"github.com/lumenhr/backoffice-go/internal/pkg/validator"
)

var halfDayValues = []string{string(HalfDayNone), string(HalfDayAM), string(HalfDayPM)}

type CreateLeaveRequestRequest struct {
	EmployeeID   string  `json:"employee_id"`
	LeaveTypeID  string  `json:"leave_type_id"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	StartHalfDay string  `json:"start_half_day,omitempty"`
	EndHalfDay   string  `json:"end_half_day,omitempty"`
	Reason       *string `json:"reason,omitempty"`

	// Attachment upload, filled by the handler from the multipart form
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date (YYYY-MM-DD)",
		})
	}

	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date (YYYY-MM-DD)",
		})
	}

	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if r.StartHalfDay != "" && !validator.IsInSlice(r.StartHalfDay, halfDayValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_half_day",
			Message: "start_half_day must be one of none, am, pm",
		})
	}

	if r.EndHalfDay != "" && !validator.IsInSlice(r.EndHalfDay, halfDayValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_half_day",
			Message: "end_half_day must be one of none, am, pm",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// StartHalf returns the start boundary flag, defaulting to none.
func (r *CreateLeaveRequestRequest) StartHalf() HalfDay {
	if r.StartHalfDay == "" {
		return HalfDayNone
	}
	return HalfDay(r.StartHalfDay)
}

// EndHalf returns the end boundary flag, defaulting to none.
func (r *CreateLeaveRequestRequest) EndHalf() HalfDay {
	if r.EndHalfDay == "" {
		return HalfDayNone
	}
	return HalfDay(r.EndHalfDay)
}

// DecideLeaveRequestRequest carries the optional comment on an
// approval, rejection or cancellation.
type DecideLeaveRequestRequest struct {
	Comment *string `json:"comment,omitempty"`
}

type CreateLeaveTypeRequest struct {
	Code               string  `json:"leave_type_code"`
	Name               string  `json:"leave_type_name"`
	Description        *string `json:"leave_type_description,omitempty"`
	RequiresBalance    bool    `json:"requires_balance"`
	RequiresAttachment bool    `json:"requires_attachment"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_code",
			Message: "leave_type_code is required",
		})
	}
	if len(r.Code) > 50 {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_code",
			Message: "leave_type_code must not exceed 50 characters",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_name",
			Message: "leave_type_name is required",
		})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_name",
			Message: "leave_type_name must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateLeaveTypeRequest struct {
	ID                 string  `json:"leave_type_id"`
	Name               *string `json:"leave_type_name,omitempty"`
	Description        *string `json:"leave_type_description,omitempty"`
	RequiresBalance    *bool   `json:"requires_balance,omitempty"`
	RequiresAttachment *bool   `json:"requires_attachment,omitempty"`
	IsActive           *bool   `json:"is_active,omitempty"`
}

func (r *UpdateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_type_name",
				Message: "leave_type_name must not be empty",
			})
		}
		if len(*r.Name) > 255 {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_type_name",
				Message: "leave_type_name must not exceed 255 characters",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type SetBalanceRequest struct {
	EmployeeID    string  `json:"employee_id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	Year          int     `json:"year"`
	AllocatedDays float64 `json:"allocated_days"`
}

func (r *SetBalanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type_id",
			Message: "leave_type_id is required",
		})
	}

	if r.Year <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a positive integer",
		})
	}

	if r.AllocatedDays < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "allocated_days",
			Message: "allocated_days must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveTypeResponse struct {
	ID                 string    `json:"id"`
	Code               string    `json:"leave_type_code"`
	Name               string    `json:"leave_type_name"`
	Description        *string   `json:"leave_type_description,omitempty"`
	RequiresBalance    bool      `json:"requires_balance"`
	RequiresAttachment bool      `json:"requires_attachment"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:                 t.ID,
		Code:               t.Code,
		Name:               t.Name,
		Description:        t.Description,
		RequiresBalance:    t.RequiresBalance,
		RequiresAttachment: t.RequiresAttachment,
		IsActive:           t.IsActive,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	}
}

// LeaveBalanceResponse is the wire form of a ledger row.
type LeaveBalanceResponse struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	Year          int     `json:"year"`
	AllocatedDays float64 `json:"allocated_days"`
	UsedDays      float64 `json:"used_days"`
	RemainingDays float64 `json:"remaining_days"`
}

func NewLeaveBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		ID:            b.ID,
		EmployeeID:    b.EmployeeID,
		LeaveTypeID:   b.LeaveTypeID,
		Year:          b.Year,
		AllocatedDays: b.AllocatedDays.InexactFloat64(),
		UsedDays:      b.UsedDays.InexactFloat64(),
		RemainingDays: b.RemainingDays().InexactFloat64(),
	}
}

type LeaveRequestResponse struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	LeaveTypeID   string     `json:"leave_type_id"`
	LeaveTypeName string     `json:"leave_type_name,omitempty"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	StartHalfDay  string     `json:"start_half_day"`
	EndHalfDay    string     `json:"end_half_day"`
	DaysCount     float64    `json:"days_count"`
	Status        string     `json:"status"`
	Reason        *string    `json:"reason,omitempty"`
	AttachmentURL *string    `json:"attachment_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// NewLeaveRequestResponse maps the entity to its wire form.
func NewLeaveRequestResponse(req LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:           req.ID,
		EmployeeID:   req.EmployeeID,
		LeaveTypeID:  req.LeaveTypeID,
		StartDate:    req.StartDate.Format("2006-01-02"),
		EndDate:      req.EndDate.Format("2006-01-02"),
		StartHalfDay: string(req.StartHalfDay),
		EndHalfDay:   string(req.EndHalfDay),
		DaysCount:    req.DaysCount.InexactFloat64(),
		Status:       string(req.Status),
		Reason:       req.Reason,
		CreatedAt:    req.CreatedAt,
		UpdatedAt:    req.UpdatedAt,
		DeletedAt:    req.DeletedAt,
	}
}

// BalanceResponse is the read-only balance lookup result. The day
// fields are nil when the leave type does not track a balance.
type BalanceResponse struct {
	EmployeeID      string   `json:"employee_id"`
	LeaveTypeID     string   `json:"leave_type_id"`
	Year            int      `json:"year"`
	RequiresBalance bool     `json:"requires_balance"`
	AllocatedDays   *float64 `json:"allocated_days,omitempty"`
	UsedDays        *float64 `json:"used_days,omitempty"`
	RemainingDays   *float64 `json:"remaining_days,omitempty"`
}

type ActionResponse struct {
	ID        string          `json:"id"`
	RequestID string          `json:"request_id"`
	ActorID   *string         `json:"actor_id,omitempty"`
	Action    string          `json:"action"`
	Comment   *string         `json:"comment,omitempty"`
	Metadata  *ActionMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
