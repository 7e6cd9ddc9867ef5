package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/lumenhr/backoffice-go/internal/domain/holiday"
	"github.com/lumenhr/backoffice-go/internal/pkg/database"
)

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

// Create implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO holidays (id, name, holiday_date, is_recurring, created_at, updated_at)
		VALUES (uuidv7(), $1, $2, $3, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, h.Name, h.Date, h.IsRecurring).Scan(
		&h.ID, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return holiday.Holiday{}, err
	}
	return h, nil
}

// List implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) List(ctx context.Context) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, name, holiday_date, is_recurring, created_at, updated_at, deleted_at
		FROM holidays
		WHERE deleted_at IS NULL
		ORDER BY holiday_date
	`
	return r.scanHolidays(ctx, q, query)
}

// ListForRange implements holiday.HolidayRepository. Recurring holidays
// are returned regardless of their stored year; the caller matches them
// by month and day.
func (r *holidayRepositoryImpl) ListForRange(ctx context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT id, name, holiday_date, is_recurring, created_at, updated_at, deleted_at
		FROM holidays
		WHERE deleted_at IS NULL
		  AND (is_recurring OR (holiday_date >= $1 AND holiday_date <= $2))
		ORDER BY holiday_date
	`
	return r.scanHolidays(ctx, q, query, start, end)
}

// SoftDelete implements holiday.HolidayRepository.
func (r *holidayRepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE holidays
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

func (r *holidayRepositoryImpl) scanHolidays(ctx context.Context, q database.Querier, query string, args ...any) ([]holiday.Holiday, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	holidays := make([]holiday.Holiday, 0)
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(
			&h.ID, &h.Name, &h.Date, &h.IsRecurring,
			&h.CreatedAt, &h.UpdatedAt, &h.DeletedAt,
		); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return holidays, nil
}
