package holiday

import (
	"context"
	"time"
)

// HolidayRepository - interface for holidays table. Soft-deleted rows
// are excluded from every read.
type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	List(ctx context.Context) ([]Holiday, error)

	// ListForRange returns the exact-date holidays falling inside
	// [start, end] plus every recurring holiday regardless of year.
	ListForRange(ctx context.Context, start, end time.Time) ([]Holiday, error)

	SoftDelete(ctx context.Context, id string) error
}
