package leave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lumenhr/backoffice-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// BalanceService maintains the per (employee, leave type, year) ledger.
// Consume and Refund mutate usedDays and must run inside the caller's
// transaction: both go through withLockedBalance, which holds an
// exclusive row lock on the ledger row until commit or rollback.
type BalanceService struct {
	balances leave.LeaveBalanceRepository
}

func NewBalanceService(balances leave.LeaveBalanceRepository) *BalanceService {
	return &BalanceService{balances: balances}
}

// GetOrCreate returns the ledger row, creating a zero-valued one on
// first access.
func (s *BalanceService) GetOrCreate(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	balance, err := s.balances.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
	if errors.Is(err, leave.ErrBalanceNotFound) {
		return s.balances.Create(ctx, leave.LeaveBalance{
			EmployeeID:    employeeID,
			LeaveTypeID:   leaveTypeID,
			Year:          year,
			AllocatedDays: decimal.Zero,
			UsedDays:      decimal.Zero,
		})
	}
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return balance, nil
}

// AssertSufficient fails with leave.ErrInsufficientBalance when the
// requested days exceed the remaining balance of the start date's year.
// No-op for leave types that do not track a balance.
func (s *BalanceService) AssertSufficient(
	ctx context.Context,
	leaveType leave.LeaveType,
	employeeID string,
	startDate time.Time,
	days decimal.Decimal,
) error {
	if !leaveType.RequiresBalance {
		return nil
	}

	balance, err := s.GetOrCreate(ctx, employeeID, leaveType.ID, startDate.Year())
	if err != nil {
		return err
	}
	if days.GreaterThan(balance.RemainingDays()) {
		return leave.ErrInsufficientBalance
	}
	return nil
}

// Consume adds days to usedDays under an exclusive row lock, creating
// the ledger row first when missing. No-op for balance-free types and
// non-positive amounts.
func (s *BalanceService) Consume(
	ctx context.Context,
	leaveType leave.LeaveType,
	employeeID string,
	startDate time.Time,
	days decimal.Decimal,
) error {
	if !leaveType.RequiresBalance || days.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	return s.withLockedBalance(ctx, employeeID, leaveType.ID, startDate.Year(), func(balance *leave.LeaveBalance) {
		balance.UsedDays = balance.UsedDays.Add(days)
	})
}

// Refund subtracts days from usedDays under an exclusive row lock,
// clamping at zero. A missing ledger row means there is nothing to
// refund; that is not an error.
func (s *BalanceService) Refund(
	ctx context.Context,
	leaveType leave.LeaveType,
	employeeID string,
	startDate time.Time,
	days decimal.Decimal,
) error {
	if !leaveType.RequiresBalance || days.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	balance, err := s.balances.LockForUpdate(ctx, employeeID, leaveType.ID, startDate.Year())
	if errors.Is(err, leave.ErrBalanceNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to lock leave balance: %w", err)
	}

	used := balance.UsedDays.Sub(days)
	if used.IsNegative() {
		used = decimal.Zero
	}
	return s.balances.UpdateUsed(ctx, balance.ID, used)
}

// SetAllocation is the administrative grant: it sets allocatedDays on
// the (employee, type, year) row, creating it when missing. usedDays is
// never touched here, so lowering an allocation below current usage is
// allowed and simply leaves the remaining balance at zero.
func (s *BalanceService) SetAllocation(ctx context.Context, req leave.SetBalanceRequest) (leave.LeaveBalance, error) {
	balance, err := s.GetOrCreate(ctx, req.EmployeeID, req.LeaveTypeID, req.Year)
	if err != nil {
		return leave.LeaveBalance{}, err
	}

	allocated := decimal.NewFromFloat(req.AllocatedDays)
	if err := s.balances.UpdateAllocated(ctx, balance.ID, allocated); err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to update allocated days: %w", err)
	}

	balance.AllocatedDays = allocated
	return balance, nil
}

// ListEmployeeBalances returns every ledger row of an employee for a
// year.
func (s *BalanceService) ListEmployeeBalances(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	return s.balances.ListByEmployeeYear(ctx, employeeID, year)
}

// withLockedBalance loads the ledger row under SELECT ... FOR UPDATE,
// creating it with zero values first when absent, applies fn to it and
// persists usedDays. The row lock is what stops two concurrent
// approvals for the same employee/type/year from both passing a stale
// sufficiency check.
func (s *BalanceService) withLockedBalance(
	ctx context.Context,
	employeeID, leaveTypeID string,
	year int,
	fn func(*leave.LeaveBalance),
) error {
	balance, err := s.balances.LockForUpdate(ctx, employeeID, leaveTypeID, year)
	if errors.Is(err, leave.ErrBalanceNotFound) {
		if _, err := s.balances.Create(ctx, leave.LeaveBalance{
			EmployeeID:    employeeID,
			LeaveTypeID:   leaveTypeID,
			Year:          year,
			AllocatedDays: decimal.Zero,
			UsedDays:      decimal.Zero,
		}); err != nil {
			return fmt.Errorf("failed to create leave balance: %w", err)
		}
		balance, err = s.balances.LockForUpdate(ctx, employeeID, leaveTypeID, year)
	}
	if err != nil {
		return fmt.Errorf("failed to lock leave balance: %w", err)
	}

	fn(&balance)
	return s.balances.UpdateUsed(ctx, balance.ID, balance.UsedDays)
}
