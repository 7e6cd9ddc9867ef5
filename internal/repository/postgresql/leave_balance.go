package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lumenhr/backoffice-go/internal/domain/leave"
	"github.com/lumenhr/backoffice-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

const leaveBalanceColumns = `id, employee_id, leave_type_id, year,
	   allocated_days, used_days, created_at, updated_at`

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// Create implements leave.LeaveBalanceRepository. The unique index on
// (employee_id, leave_type_id, year) rejects duplicate ledger rows.
func (r *leaveBalanceRepositoryImpl) Create(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_balances (
			id, employee_id, leave_type_id, year,
			allocated_days, used_days, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.EmployeeID, balance.LeaveTypeID, balance.Year,
		balance.AllocatedDays, balance.UsedDays,
	).Scan(&balance.ID, &balance.CreatedAt, &balance.UpdatedAt)
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	return balance, nil
}

// GetByEmployeeTypeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`
	return r.scanOne(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
}

// ListByEmployeeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2
		ORDER BY leave_type_id
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		var b leave.LeaveBalance
		if err := rows.Scan(
			&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
			&b.AllocatedDays, &b.UsedDays, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return balances, nil
}

// LockForUpdate implements leave.LeaveBalanceRepository. The row lock
// is held until the surrounding transaction commits or rolls back.
func (r *leaveBalanceRepositoryImpl) LockForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
		FOR UPDATE
	`
	return r.scanOne(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
}

// UpdateUsed implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) UpdateUsed(ctx context.Context, id string, usedDays decimal.Decimal) error {
	return r.updateColumn(ctx, id, "used_days", usedDays)
}

// UpdateAllocated implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) UpdateAllocated(ctx context.Context, id string, allocatedDays decimal.Decimal) error {
	return r.updateColumn(ctx, id, "allocated_days", allocatedDays)
}

func (r *leaveBalanceRepositoryImpl) updateColumn(ctx context.Context, id, column string, value decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)
	query := fmt.Sprintf(`
		UPDATE leave_balances
		SET %s = $1, updated_at = NOW()
		WHERE id = $2
	`, column)

	commandTag, err := q.Exec(ctx, query, value, id)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrBalanceNotFound
	}
	return nil
}

func (r *leaveBalanceRepositoryImpl) scanOne(row pgx.Row) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&b.AllocatedDays, &b.UsedDays, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, err
	}
	return b, nil
}
