package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lumenhr/backoffice-go/internal/domain/leave"
	"github.com/lumenhr/backoffice-go/internal/pkg/database"
)

const leaveRequestColumns = `id, employee_id, leave_type_id,
	   start_date, end_date, start_half_day, end_half_day,
	   days_count, status, reason, attachment_key,
	   manager_actor_id, manager_acted_at, hr_actor_id, hr_acted_at,
	   created_by, updated_by, created_at, updated_at, deleted_at`

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id,
			start_date, end_date, start_half_day, end_half_day,
			days_count, status, reason, attachment_key,
			created_by, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, request.LeaveTypeID,
		request.StartDate, request.EndDate, request.StartHalfDay, request.EndHalfDay,
		request.DaysCount, request.Status, request.Reason, request.AttachmentKey,
		request.CreatedBy,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE id = $1 AND deleted_at IS NULL
	`
	return r.scanOne(q.QueryRow(ctx, query, id))
}

// GetByIDForUpdate implements leave.LeaveRequestRepository. The row
// lock makes the status guard and the following update atomic against
// a concurrent transition.
func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`
	return r.scanOne(q.QueryRow(ctx, query, id))
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)
	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`
	return r.scanMany(ctx, q, query, employeeID)
}

// ListBlockingInRange implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListBlockingInRange(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	statuses := make([]string, len(leave.BlockingStatuses))
	for i, s := range leave.BlockingStatuses {
		statuses[i] = string(s)
	}

	query := `
		SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND deleted_at IS NULL
		  AND status = ANY($2)
		  AND start_date <= $3
		  AND end_date >= $4
		  AND ($5 = '' OR id::text <> $5)
		ORDER BY start_date
	`
	return r.scanMany(ctx, q, query, employeeID, statuses, end, start, excludeID)
}

// Update implements leave.LeaveRequestRepository. Only the fields a
// workflow transition touches are written.
func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_requests
		SET status = $1,
			manager_actor_id = $2, manager_acted_at = $3,
			hr_actor_id = $4, hr_acted_at = $5,
			updated_by = $6, updated_at = NOW()
		WHERE id = $7 AND deleted_at IS NULL
	`

	commandTag, err := q.Exec(ctx, query,
		request.Status,
		request.ManagerActorID, request.ManagerActedAt,
		request.HRActorID, request.HRActedAt,
		request.UpdatedBy, request.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// SoftDelete implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	q := GetQuerier(ctx, r.db)
	query := `
		UPDATE leave_requests
		SET deleted_at = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`

	commandTag, err := q.Exec(ctx, query, deletedAt, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave request: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// LockEmployee implements leave.LeaveRequestRepository. The advisory
// lock is transaction scoped and released automatically on commit or
// rollback.
func (r *leaveRequestRepositoryImpl) LockEmployee(ctx context.Context, employeeID string) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, employeeID)
	if err != nil {
		return fmt.Errorf("failed to acquire employee lock: %w", err)
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) scanOne(row pgx.Row) (leave.LeaveRequest, error) {
	var req leave.LeaveRequest
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.LeaveTypeID,
		&req.StartDate, &req.EndDate, &req.StartHalfDay, &req.EndHalfDay,
		&req.DaysCount, &req.Status, &req.Reason, &req.AttachmentKey,
		&req.ManagerActorID, &req.ManagerActedAt, &req.HRActorID, &req.HRActedAt,
		&req.CreatedBy, &req.UpdatedBy, &req.CreatedAt, &req.UpdatedAt, &req.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return req, nil
}

func (r *leaveRequestRepositoryImpl) scanMany(ctx context.Context, q database.Querier, query string, args ...any) ([]leave.LeaveRequest, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]leave.LeaveRequest, 0)
	for rows.Next() {
		var req leave.LeaveRequest
		if err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.LeaveTypeID,
			&req.StartDate, &req.EndDate, &req.StartHalfDay, &req.EndHalfDay,
			&req.DaysCount, &req.Status, &req.Reason, &req.AttachmentKey,
			&req.ManagerActorID, &req.ManagerActedAt, &req.HRActorID, &req.HRActedAt,
			&req.CreatedBy, &req.UpdatedBy, &req.CreatedAt, &req.UpdatedAt, &req.DeletedAt,
		); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}
