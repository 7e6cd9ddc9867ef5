package leave

import (
	"context"
	"errors"
	"testing"

	"github.com/lumenhr/backoffice-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockingRequest(id, start, end string, startHalf, endHalf leave.HalfDay, status leave.LeaveRequestStatus) leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:           id,
		EmployeeID:   "emp-1",
		LeaveTypeID:  "type-1",
		StartDate:    mustDate(start),
		EndDate:      mustDate(end),
		StartHalfDay: startHalf,
		EndHalfDay:   endHalf,
		Status:       status,
	}
}

func TestOverlapChecker_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		existing  []leave.LeaveRequest
		start     string
		end       string
		startHalf leave.HalfDay
		endHalf   leave.HalfDay
		wantDate  string // "" means no conflict
	}{
		{
			name:  "no existing requests",
			start: "2026-03-02", end: "2026-03-04",
		},
		{
			name: "disjoint ranges",
			existing: []leave.LeaveRequest{
				blockingRequest("req-1", "2026-03-09", "2026-03-10", leave.HalfDayNone, leave.HalfDayNone, leave.LeaveRequestStatusApproved),
			},
			start: "2026-03-02", end: "2026-03-04",
		},
		{
			name: "full day collision",
			existing: []leave.LeaveRequest{
				blockingRequest("req-1", "2026-03-04", "2026-03-06", leave.HalfDayNone, leave.HalfDayNone, leave.LeaveRequestStatusPendingManager),
			},
			start: "2026-03-02", end: "2026-03-04",
			wantDate: "2026-03-04",
		},
		{
			name: "complementary halves on the same day are compatible",
			existing: []leave.LeaveRequest{
				blockingRequest("req-1", "2026-03-02", "2026-03-02", leave.HalfDayAM, leave.HalfDayNone, leave.LeaveRequestStatusApproved),
			},
			start: "2026-03-02", end: "2026-03-02",
			endHalf: leave.HalfDayPM,
		},
		{
			name: "same half on the same day conflicts",
			existing: []leave.LeaveRequest{
				blockingRequest("req-1", "2026-03-02", "2026-03-02", leave.HalfDayAM, leave.HalfDayNone, leave.LeaveRequestStatusApproved),
			},
			start: "2026-03-02", end: "2026-03-02",
			startHalf: leave.HalfDayAM,
			wantDate:  "2026-03-02",
		},
		{
			name: "half day against full day conflicts",
			existing: []leave.LeaveRequest{
				blockingRequest("req-1", "2026-03-02", "2026-03-02", leave.HalfDayNone, leave.HalfDayNone, leave.LeaveRequestStatusApproved),
			},
			start: "2026-03-02", end: "2026-03-02",
			startHalf: leave.HalfDayAM,
			wantDate:  "2026-03-02",
		},
		{
			name: "pm start frees the morning of the first day",
			existing: []leave.LeaveRequest{
				blockingRequest("req-1", "2026-03-01", "2026-03-02", leave.HalfDayNone, leave.HalfDayAM, leave.LeaveRequestStatusApproved),
			},
			start: "2026-03-02", end: "2026-03-04",
			startHalf: leave.HalfDayPM,
		},
		{
			name: "am end frees the afternoon of the last day",
			existing: []leave.LeaveRequest{
				blockingRequest("req-1", "2026-03-04", "2026-03-06", leave.HalfDayPM, leave.HalfDayNone, leave.LeaveRequestStatusApproved),
			},
			start: "2026-03-02", end: "2026-03-04",
			endHalf: leave.HalfDayAM,
		},
		{
			name: "interior days always occupy both halves",
			existing: []leave.LeaveRequest{
				blockingRequest("req-1", "2026-03-03", "2026-03-03", leave.HalfDayAM, leave.HalfDayNone, leave.LeaveRequestStatusApproved),
			},
			start: "2026-03-02", end: "2026-03-04",
			startHalf: leave.HalfDayPM, endHalf: leave.HalfDayAM,
			wantDate: "2026-03-03",
		},
		{
			name: "rejected requests do not block",
			existing: []leave.LeaveRequest{
				blockingRequest("req-1", "2026-03-02", "2026-03-04", leave.HalfDayNone, leave.HalfDayNone, leave.LeaveRequestStatusRejected),
			},
			start: "2026-03-02", end: "2026-03-04",
		},
		{
			name: "cancelled requests do not block",
			existing: []leave.LeaveRequest{
				blockingRequest("req-1", "2026-03-02", "2026-03-04", leave.HalfDayNone, leave.HalfDayNone, leave.LeaveRequestStatusCancelled),
			},
			start: "2026-03-02", end: "2026-03-04",
		},
		{
			name: "earliest conflicting date is reported",
			existing: []leave.LeaveRequest{
				blockingRequest("req-1", "2026-03-04", "2026-03-04", leave.HalfDayNone, leave.HalfDayNone, leave.LeaveRequestStatusApproved),
				blockingRequest("req-2", "2026-03-03", "2026-03-03", leave.HalfDayNone, leave.HalfDayNone, leave.LeaveRequestStatusApproved),
			},
			start: "2026-03-02", end: "2026-03-05",
			wantDate: "2026-03-03",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			checker := NewOverlapChecker(newFakeRequestRepo(tt.existing...))

			err := checker.Check(
				context.Background(), "emp-1",
				mustDate(tt.start), mustDate(tt.end),
				tt.startHalf, tt.endHalf, "",
			)

			if tt.wantDate == "" {
				assert.NoError(t, err)
				return
			}

			var overlapErr *leave.OverlapError
			require.ErrorAs(t, err, &overlapErr)
			assert.Equal(t, tt.wantDate, overlapErr.Date.Format("2006-01-02"))
			assert.NotEmpty(t, overlapErr.RequestID)
		})
	}
}

func TestOverlapChecker_ExcludesOwnRequest(t *testing.T) {
	t.Parallel()
	existing := blockingRequest("req-1", "2026-03-02", "2026-03-04", leave.HalfDayNone, leave.HalfDayNone, leave.LeaveRequestStatusApproved)
	checker := NewOverlapChecker(newFakeRequestRepo(existing))

	err := checker.Check(
		context.Background(), "emp-1",
		mustDate("2026-03-02"), mustDate("2026-03-04"),
		leave.HalfDayNone, leave.HalfDayNone, "req-1",
	)
	assert.NoError(t, err)

	err = checker.Check(
		context.Background(), "emp-1",
		mustDate("2026-03-02"), mustDate("2026-03-04"),
		leave.HalfDayNone, leave.HalfDayNone, "",
	)
	var overlapErr *leave.OverlapError
	require.True(t, errors.As(err, &overlapErr))
	assert.Equal(t, "req-1", overlapErr.RequestID)
}

func TestOverlapChecker_ConflictNamesRequest(t *testing.T) {
	t.Parallel()
	existing := blockingRequest("req-9", "2026-03-03", "2026-03-03", leave.HalfDayNone, leave.HalfDayNone, leave.LeaveRequestStatusPendingHR)
	checker := NewOverlapChecker(newFakeRequestRepo(existing))

	err := checker.Check(
		context.Background(), "emp-1",
		mustDate("2026-03-01"), mustDate("2026-03-05"),
		leave.HalfDayNone, leave.HalfDayNone, "",
	)

	var overlapErr *leave.OverlapError
	require.ErrorAs(t, err, &overlapErr)
	assert.Equal(t, "req-9", overlapErr.RequestID)
	assert.Contains(t, overlapErr.Error(), "2026-03-03")
}
