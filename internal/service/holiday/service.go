package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/lumenhr/backoffice-go/internal/domain/holiday"
)

// Service manages the holiday calendar consumed by the working day
// calculator.
type Service struct {
	holidays holiday.HolidayRepository
}

func NewService(holidays holiday.HolidayRepository) *Service {
	return &Service{holidays: holidays}
}

// Create registers a holiday. The stored year of a recurring holiday is
// only the year it was entered; matching ignores it.
func (s *Service) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.Holiday, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to parse holiday date: %w", err)
	}

	created, err := s.holidays.Create(ctx, holiday.Holiday{
		Name:        req.Name,
		Date:        date,
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return created, nil
}

// List returns all holidays.
func (s *Service) List(ctx context.Context) ([]holiday.Holiday, error) {
	return s.holidays.List(ctx)
}

// Delete soft deletes a holiday. Day counts frozen on existing requests
// are unaffected.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.holidays.SoftDelete(ctx, id)
}
