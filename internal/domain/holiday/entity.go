package holiday

import "time"

// Holiday is a date that is not a working day. Non-recurring holidays
// apply only in their exact year; recurring holidays apply to the same
// month/day every year regardless of the stored year.
type Holiday struct {
	ID          string
	Name        string
	Date        time.Time
	IsRecurring bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// OccursOn reports whether the holiday falls on the given date.
func (h Holiday) OccursOn(date time.Time) bool {
	if h.IsRecurring {
		return h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
	}
	return h.Date.Year() == date.Year() && h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
}
