package leave

import (
	"errors"
	"testing"

	"github.com/lumenhr/backoffice-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLeaveRequestRequest_Validate(t *testing.T) {
	valid := CreateLeaveRequestRequest{
		EmployeeID:  "emp-1",
		LeaveTypeID: "type-1",
		StartDate:   "2026-01-05",
		EndDate:     "2026-01-06",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*CreateLeaveRequestRequest)
		field  string
	}{
		{
			name:   "missing employee",
			mutate: func(r *CreateLeaveRequestRequest) { r.EmployeeID = "" },
			field:  "employee_id",
		},
		{
			name:   "missing leave type",
			mutate: func(r *CreateLeaveRequestRequest) { r.LeaveTypeID = "" },
			field:  "leave_type_id",
		},
		{
			name:   "bad start date",
			mutate: func(r *CreateLeaveRequestRequest) { r.StartDate = "05-01-2026" },
			field:  "start_date",
		},
		{
			name:   "end before start",
			mutate: func(r *CreateLeaveRequestRequest) { r.EndDate = "2026-01-04" },
			field:  "end_date",
		},
		{
			name:   "bad half day flag",
			mutate: func(r *CreateLeaveRequestRequest) { r.StartHalfDay = "morning" },
			field:  "start_half_day",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)

			var errs validator.ValidationErrors
			require.True(t, errors.As(err, &errs))
			assert.Contains(t, errs.ToMap(), tt.field)
		})
	}
}

func TestCreateLeaveRequestRequest_HalfDayDefaults(t *testing.T) {
	req := CreateLeaveRequestRequest{}
	assert.Equal(t, HalfDayNone, req.StartHalf())
	assert.Equal(t, HalfDayNone, req.EndHalf())

	req.StartHalfDay = "pm"
	req.EndHalfDay = "am"
	assert.Equal(t, HalfDayPM, req.StartHalf())
	assert.Equal(t, HalfDayAM, req.EndHalf())
}

func TestLeaveRequestStatus_Classification(t *testing.T) {
	assert.True(t, LeaveRequestStatusPendingManager.IsBlocking())
	assert.True(t, LeaveRequestStatusPendingHR.IsBlocking())
	assert.True(t, LeaveRequestStatusApproved.IsBlocking())
	assert.False(t, LeaveRequestStatusRejected.IsBlocking())
	assert.False(t, LeaveRequestStatusCancelled.IsBlocking())

	assert.True(t, LeaveRequestStatusRejected.IsClosed())
	assert.True(t, LeaveRequestStatusCancelled.IsClosed())
	assert.False(t, LeaveRequestStatusApproved.IsClosed())
}

func TestSetBalanceRequest_Validate(t *testing.T) {
	req := SetBalanceRequest{EmployeeID: "emp-1", LeaveTypeID: "type-1", Year: 2026, AllocatedDays: 10}
	assert.NoError(t, req.Validate())

	req.AllocatedDays = -1
	err := req.Validate()
	require.Error(t, err)

	var errs validator.ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Contains(t, errs.ToMap(), "allocated_days")
}
