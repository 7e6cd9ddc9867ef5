package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Transactor runs fn inside a single database transaction. Every
// repository call made with the ctx passed to fn joins that
// transaction; if fn returns an error everything rolls back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	GetByCode(ctx context.Context, code string) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
	Update(ctx context.Context, leaveType LeaveType) error
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	Create(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
	GetByEmployeeTypeYear(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)
	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)

	// LockForUpdate loads the row under an exclusive row lock. Must be
	// called inside a transaction; the lock is held until commit or
	// rollback.
	LockForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (LeaveBalance, error)

	UpdateUsed(ctx context.Context, id string, usedDays decimal.Decimal) error
	UpdateAllocated(ctx context.Context, id string, allocatedDays decimal.Decimal) error
}

// LeaveRequestRepository - interface for leave_requests table.
// Soft-deleted rows are excluded from every read.
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// GetByIDForUpdate loads the row under an exclusive row lock so a
	// status guard and the following mutation are atomic. Must be
	// called inside a transaction.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)

	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)

	// ListBlockingInRange returns the employee's requests in a blocking
	// status whose date range intersects [start, end], excluding
	// excludeID when non-empty.
	ListBlockingInRange(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]LeaveRequest, error)

	Update(ctx context.Context, request LeaveRequest) error
	SoftDelete(ctx context.Context, id string, deletedAt time.Time) error

	// LockEmployee takes a transaction-scoped advisory lock serializing
	// request creation per employee.
	LockEmployee(ctx context.Context, employeeID string) error
}

// LeaveActionRepository - append-only interface for the
// leave_request_actions audit table. No update, no delete.
type LeaveActionRepository interface {
	Append(ctx context.Context, action LeaveRequestAction) (LeaveRequestAction, error)
	ListByRequest(ctx context.Context, requestID string) ([]LeaveRequestAction, error)
}
