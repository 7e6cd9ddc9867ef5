package employee

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Employee struct {
	ID        string
	FullName  string
	Email     string
	ManagerID *string // self-reference, nil for employees without a manager
	Schedule  WorkSchedule

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// WorkSchedule maps lowercase weekday names ("monday".."sunday") to
// whether the employee works that day. An empty schedule means the
// employee has no explicit configuration and falls back to Monday-Friday.
type WorkSchedule map[string]bool

var weekdayKeys = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

// DefaultSchedule returns the Monday-Friday working week.
func DefaultSchedule() WorkSchedule {
	return WorkSchedule{
		"monday":    true,
		"tuesday":   true,
		"wednesday": true,
		"thursday":  true,
		"friday":    true,
		"saturday":  false,
		"sunday":    false,
	}
}

// Normalized fills in the Monday-Friday default when no explicit
// schedule is configured. Repositories apply this at load time so that
// calculation code can treat the schedule as always populated.
func (s WorkSchedule) Normalized() WorkSchedule {
	if len(s) == 0 {
		return DefaultSchedule()
	}
	return s
}

// WorksOn reports whether the schedule enables the given weekday.
// Days missing from a configured schedule count as non-working.
func (s WorkSchedule) WorksOn(day time.Weekday) bool {
	return s[weekdayKeys[day]]
}

// Value implements driver.Valuer for database storage
func (s WorkSchedule) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for database retrieval
func (s *WorkSchedule) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan WorkSchedule: invalid type")
	}

	return json.Unmarshal(bytes, s)
}
