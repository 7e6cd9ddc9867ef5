package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/lumenhr/backoffice-go/internal/domain/leave"
)

// OverlapChecker detects half-day slot conflicts between a candidate
// date range and the employee's existing blocking leave requests.
type OverlapChecker struct {
	requests leave.LeaveRequestRepository
}

func NewOverlapChecker(requests leave.LeaveRequestRepository) *OverlapChecker {
	return &OverlapChecker{requests: requests}
}

// Check returns nil when the candidate range is free, or a
// *leave.OverlapError naming the earliest conflicting date and the
// conflicting request. excludeRequestID skips one request (self
// exclusion on update); pass "" to check against all.
func (c *OverlapChecker) Check(
	ctx context.Context,
	employeeID string,
	startDate, endDate time.Time,
	startHalf, endHalf leave.HalfDay,
	excludeRequestID string,
) error {
	startDate = normalizeDate(startDate)
	endDate = normalizeDate(endDate)
	if endDate.Before(startDate) {
		return nil
	}

	blocking, err := c.requests.ListBlockingInRange(ctx, employeeID, startDate, endDate, excludeRequestID)
	if err != nil {
		return fmt.Errorf("failed to load blocking leave requests: %w", err)
	}
	if len(blocking) == 0 {
		return nil
	}

	candidate := expandSlots(startDate, endDate, startHalf, endHalf)

	existing := make([]map[string]daySlots, len(blocking))
	for i, req := range blocking {
		existing[i] = expandSlots(
			normalizeDate(req.StartDate), normalizeDate(req.EndDate),
			req.StartHalfDay, req.EndHalfDay,
		)
	}

	// Walk the candidate dates chronologically so the reported conflict
	// is always the earliest one.
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		key := dateKey(d)
		slots, ok := candidate[key]
		if !ok {
			continue
		}
		for i, req := range blocking {
			if occupied, ok := existing[i][key]; ok && slots.intersects(occupied) {
				return &leave.OverlapError{Date: d, RequestID: req.ID}
			}
		}
	}

	return nil
}
