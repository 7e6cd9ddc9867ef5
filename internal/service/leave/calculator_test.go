package leave

import (
	"context"
	"testing"

	"github.com/lumenhr/backoffice-go/internal/domain/employee"
	"github.com/lumenhr/backoffice-go/internal/domain/holiday"
	"github.com/lumenhr/backoffice-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-01-05 is a Monday.

func calcEmployee(schedule employee.WorkSchedule) employee.Employee {
	return employee.Employee{
		ID:       "emp-1",
		FullName: "Test Employee",
		Schedule: schedule,
	}
}

func TestDayCalculator_ChargeableDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		schedule  employee.WorkSchedule
		holidays  []holiday.Holiday
		start     string
		end       string
		startHalf leave.HalfDay
		endHalf   leave.HalfDay
		want      float64
	}{
		{
			name:  "two weekdays",
			start: "2026-01-05", end: "2026-01-06",
			want: 2.0,
		},
		{
			name:  "full work week",
			start: "2026-01-05", end: "2026-01-09",
			want: 5.0,
		},
		{
			name:  "weekend days excluded",
			start: "2026-01-05", end: "2026-01-11",
			want: 5.0,
		},
		{
			name:  "weekend only",
			start: "2026-01-10", end: "2026-01-11",
			want: 0,
		},
		{
			name:  "end before start",
			start: "2026-01-06", end: "2026-01-05",
			want: 0,
		},
		{
			name:  "single full day",
			start: "2026-01-05", end: "2026-01-05",
			want: 1.0,
		},
		{
			name:  "single day morning half",
			start: "2026-01-05", end: "2026-01-05",
			startHalf: leave.HalfDayAM,
			want:      0.5,
		},
		{
			name:  "single day afternoon half",
			start: "2026-01-05", end: "2026-01-05",
			endHalf: leave.HalfDayPM,
			want:    0.5,
		},
		{
			name:  "single day am start and pm end is a full day",
			start: "2026-01-05", end: "2026-01-05",
			startHalf: leave.HalfDayAM, endHalf: leave.HalfDayPM,
			want: 1.0,
		},
		{
			name:  "pm start charges half the first day",
			start: "2026-01-05", end: "2026-01-07",
			startHalf: leave.HalfDayPM,
			want:      2.5,
		},
		{
			name:  "am end charges half the last day",
			start: "2026-01-05", end: "2026-01-07",
			endHalf: leave.HalfDayAM,
			want:    2.5,
		},
		{
			name:  "pm start and am end both halve",
			start: "2026-01-05", end: "2026-01-07",
			startHalf: leave.HalfDayPM, endHalf: leave.HalfDayAM,
			want: 2.0,
		},
		{
			name:  "pm start on a non-working first day does not bill",
			start: "2026-01-04", end: "2026-01-06",
			startHalf: leave.HalfDayPM,
			want:      2.0,
		},
		{
			name:  "am end on a non-working last day does not bill",
			start: "2026-01-08", end: "2026-01-10",
			endHalf: leave.HalfDayAM,
			want:    2.0,
		},
		{
			name: "exact holiday excluded",
			holidays: []holiday.Holiday{
				{ID: "h1", Name: "Founders Day", Date: mustDate("2026-01-06")},
			},
			start: "2026-01-05", end: "2026-01-07",
			want: 2.0,
		},
		{
			name: "exact holiday in another year does not apply",
			holidays: []holiday.Holiday{
				{ID: "h1", Name: "Founders Day", Date: mustDate("2025-01-06")},
			},
			start: "2026-01-05", end: "2026-01-07",
			want: 3.0,
		},
		{
			name: "recurring holiday applies every year",
			holidays: []holiday.Holiday{
				{ID: "h1", Name: "New Year", Date: mustDate("2020-01-06"), IsRecurring: true},
			},
			start: "2026-01-05", end: "2026-01-07",
			want: 2.0,
		},
		{
			name: "holiday on entire single day",
			holidays: []holiday.Holiday{
				{ID: "h1", Name: "Founders Day", Date: mustDate("2026-01-05")},
			},
			start: "2026-01-05", end: "2026-01-05",
			startHalf: leave.HalfDayAM,
			want:      0,
		},
		{
			name: "holiday on pm start boundary skips the half charge",
			holidays: []holiday.Holiday{
				{ID: "h1", Name: "Founders Day", Date: mustDate("2026-01-05")},
			},
			start: "2026-01-05", end: "2026-01-07",
			startHalf: leave.HalfDayPM,
			want:      2.0,
		},
		{
			name: "four day week schedule",
			schedule: employee.WorkSchedule{
				"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
			},
			start: "2026-01-05", end: "2026-01-09",
			want: 4.0,
		},
		{
			name: "weekend worker schedule",
			schedule: employee.WorkSchedule{
				"saturday": true, "sunday": true,
			},
			start: "2026-01-05", end: "2026-01-11",
			want: 2.0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			calc := NewDayCalculator(newFakeHolidayRepo(tt.holidays...))

			days, err := calc.ChargeableDays(
				context.Background(),
				calcEmployee(tt.schedule),
				mustDate(tt.start), mustDate(tt.end),
				tt.startHalf, tt.endHalf,
			)

			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(days), "want %v got %s", tt.want, days)
		})
	}
}

func TestDayCalculator_NormalizesClockTimes(t *testing.T) {
	t.Parallel()
	calc := NewDayCalculator(newFakeHolidayRepo())

	start := mustDate("2026-01-05").Add(23 * 3600 * 1e9) // 23:00 on the 5th
	end := mustDate("2026-01-06")

	days, err := calc.ChargeableDays(context.Background(), calcEmployee(nil), start, end, leave.HalfDayNone, leave.HalfDayNone)
	require.NoError(t, err)
	assert.True(t, dec(2.0).Equal(days), "got %s", days)
}

func TestDayCalculator_SoftDeletedHolidayStillListedIsExcluded(t *testing.T) {
	t.Parallel()
	// ListForRange filters soft-deleted rows; a deleted holiday must not
	// reduce the count.
	repo := newFakeHolidayRepo(holiday.Holiday{ID: "h1", Name: "Gone", Date: mustDate("2026-01-06")})
	require.NoError(t, repo.SoftDelete(context.Background(), "h1"))

	calc := NewDayCalculator(repo)
	days, err := calc.ChargeableDays(
		context.Background(), calcEmployee(nil),
		mustDate("2026-01-05"), mustDate("2026-01-07"),
		leave.HalfDayNone, leave.HalfDayNone,
	)
	require.NoError(t, err)
	assert.True(t, dec(3.0).Equal(days), "got %s", days)
}
