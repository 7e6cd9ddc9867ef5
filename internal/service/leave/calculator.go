package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/lumenhr/backoffice-go/internal/domain/employee"
	"github.com/lumenhr/backoffice-go/internal/domain/holiday"
	"github.com/lumenhr/backoffice-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// DayCalculator computes the chargeable day count of a leave request:
// working days per the employee's weekly schedule, minus holidays, with
// half-day boundaries billed as 0.5.
type DayCalculator struct {
	holidays holiday.HolidayRepository
}

func NewDayCalculator(holidays holiday.HolidayRepository) *DayCalculator {
	return &DayCalculator{holidays: holidays}
}

// ChargeableDays returns the number of leave days the inclusive range
// [startDate, endDate] charges for the employee, rounded to 2 decimals.
// The result is frozen on the request at creation and never recomputed.
func (c *DayCalculator) ChargeableDays(
	ctx context.Context,
	emp employee.Employee,
	startDate, endDate time.Time,
	startHalf, endHalf leave.HalfDay,
) (decimal.Decimal, error) {
	startDate = normalizeDate(startDate)
	endDate = normalizeDate(endDate)

	if endDate.Before(startDate) {
		return decimal.Zero, nil
	}

	holidayLookup, err := c.holidayLookup(ctx, startDate, endDate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build holiday lookup: %w", err)
	}

	schedule := emp.Schedule.Normalized()

	var count int64
	var firstQualifies, lastQualifies bool
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		if !schedule.WorksOn(d.Weekday()) {
			continue
		}
		if holidayLookup[dateKey(d)] {
			continue
		}
		count++
		if d.Equal(startDate) {
			firstQualifies = true
		}
		if d.Equal(endDate) {
			lastQualifies = true
		}
	}

	if count == 0 {
		return decimal.Zero, nil
	}

	days := decimal.NewFromInt(count)

	if startDate.Equal(endDate) {
		if singleDaySlots(startHalf, endHalf).isHalf() {
			days = days.Sub(half)
		}
		return days.Round(2), nil
	}

	// Half-day boundaries only bill when the boundary date itself is
	// chargeable.
	if startHalf == leave.HalfDayPM && firstQualifies {
		days = days.Sub(half)
	}
	if endHalf == leave.HalfDayAM && lastQualifies {
		days = days.Sub(half)
	}
	if days.IsNegative() {
		days = decimal.Zero
	}

	return days.Round(2), nil
}

// holidayLookup maps every holiday date inside [start, end] to true.
// Exact-date holidays contribute their own date; recurring holidays
// contribute each range date matching their month/day.
func (c *DayCalculator) holidayLookup(ctx context.Context, start, end time.Time) (map[string]bool, error) {
	holidays, err := c.holidays.ListForRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	lookup := make(map[string]bool)
	for _, h := range holidays {
		if !h.IsRecurring {
			lookup[dateKey(normalizeDate(h.Date))] = true
			continue
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if h.OccursOn(d) {
				lookup[dateKey(d)] = true
			}
		}
	}
	return lookup, nil
}
