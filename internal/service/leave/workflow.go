package leave

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lumenhr/backoffice-go/internal/domain/employee"
	"github.com/lumenhr/backoffice-go/internal/domain/leave"
)

// AttachmentStore is the storage collaborator: best-effort blob
// store/delete outside transactional guarantees.
type AttachmentStore interface {
	UploadLeaveAttachment(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error)
	DeleteFile(ctx context.Context, path string) error
}

// WorkflowService drives the leave request state machine:
//
//	pending_manager -> pending_hr -> approved
//	pending_manager -> rejected
//	pending_hr      -> rejected
//	any non-closed  -> cancelled
//
// Employees without a manager skip straight to pending_hr. Every
// mutating transition runs in one transaction together with exactly one
// audit action and any balance effect.
type WorkflowService struct {
	tx         leave.Transactor
	employees  employee.EmployeeRepository
	types      leave.LeaveTypeRepository
	requests   leave.LeaveRequestRepository
	actions    leave.LeaveActionRepository
	calculator *DayCalculator
	overlap    *OverlapChecker
	balances   *BalanceService
	files      AttachmentStore
}

func NewWorkflowService(
	tx leave.Transactor,
	employees employee.EmployeeRepository,
	types leave.LeaveTypeRepository,
	requests leave.LeaveRequestRepository,
	actions leave.LeaveActionRepository,
	calculator *DayCalculator,
	overlap *OverlapChecker,
	balances *BalanceService,
	files AttachmentStore,
) *WorkflowService {
	return &WorkflowService{
		tx:         tx,
		employees:  employees,
		types:      types,
		requests:   requests,
		actions:    actions,
		calculator: calculator,
		overlap:    overlap,
		balances:   balances,
		files:      files,
	}
}

// Create validates and persists a new leave request. Guards, in order:
// date range, required attachment, chargeable days > 0, no half-day
// overlap, sufficient balance. Validation and the insert run under a
// per-employee advisory lock so two concurrent creates cannot both pass
// the overlap check.
func (s *WorkflowService) Create(ctx context.Context, req leave.CreateLeaveRequestRequest, actorID string) (leave.LeaveRequest, error) {
	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get employee: %w", err)
	}

	leaveType, err := s.types.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	if !leaveType.IsActive {
		return leave.LeaveRequest{}, leave.ErrLeaveTypeInactive
	}

	startDate, err := time.Parse(dateFormat, req.StartDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := time.Parse(dateFormat, req.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to parse end date: %w", err)
	}
	if endDate.Before(startDate) {
		return leave.LeaveRequest{}, leave.ErrInvalidDateRange
	}

	startHalf, endHalf := req.StartHalf(), req.EndHalf()

	if leaveType.RequiresAttachment && (req.File == nil || req.FileHeader == nil) {
		return leave.LeaveRequest{}, leave.ErrAttachmentRequired
	}

	days, err := s.calculator.ChargeableDays(ctx, emp, startDate, endDate, startHalf, endHalf)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to calculate chargeable days: %w", err)
	}
	if !days.IsPositive() {
		return leave.LeaveRequest{}, leave.ErrNoChargeableDays
	}

	var created leave.LeaveRequest
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		// Serialize creates per employee; without this two concurrent
		// requests for overlapping ranges could both pass validation.
		if err := s.requests.LockEmployee(txCtx, emp.ID); err != nil {
			return fmt.Errorf("failed to lock employee: %w", err)
		}

		if err := s.overlap.Check(txCtx, emp.ID, startDate, endDate, startHalf, endHalf, ""); err != nil {
			return err
		}

		if err := s.balances.AssertSufficient(txCtx, leaveType, emp.ID, startDate, days); err != nil {
			return err
		}

		var attachmentKey *string
		if req.File != nil && req.FileHeader != nil {
			key, err := s.files.UploadLeaveAttachment(ctx, emp.ID, req.File, req.FileHeader.Filename)
			if err != nil {
				return fmt.Errorf("failed to upload leave attachment: %w", err)
			}
			attachmentKey = &key
		}

		status := leave.LeaveRequestStatusPendingHR
		if emp.ManagerID != nil {
			status = leave.LeaveRequestStatusPendingManager
		}

		request := leave.LeaveRequest{
			EmployeeID:    emp.ID,
			LeaveTypeID:   leaveType.ID,
			StartDate:     startDate,
			EndDate:       endDate,
			StartHalfDay:  startHalf,
			EndHalfDay:    endHalf,
			DaysCount:     days,
			Status:        status,
			Reason:        req.Reason,
			AttachmentKey: attachmentKey,
			CreatedBy:     actorRef(actorID),
		}

		created, err = s.requests.Create(txCtx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}

		return s.appendAction(txCtx, created.ID, actorID, leave.ActionSubmitted, nil, &leave.ActionMetadata{
			Status:    created.Status,
			DaysCount: created.DaysCount,
		})
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	return created, nil
}

// ApproveManager moves pending_manager to pending_hr.
func (s *WorkflowService) ApproveManager(ctx context.Context, requestID, actorID string, comment *string) (leave.LeaveRequest, error) {
	var request leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.requests.GetByIDForUpdate(txCtx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get leave request: %w", err)
		}
		if req.Status != leave.LeaveRequestStatusPendingManager {
			return &leave.StatusError{RequestID: req.ID, Status: req.Status, Transition: "manager-approve"}
		}

		now := time.Now()
		req.Status = leave.LeaveRequestStatusPendingHR
		req.ManagerActorID = &actorID
		req.ManagerActedAt = &now
		req.UpdatedBy = &actorID

		if err := s.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		request = req
		return s.appendAction(txCtx, req.ID, actorID, leave.ActionApprovedManager, comment, nil)
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

// RejectManager moves pending_manager to rejected. No balance effect:
// nothing was consumed yet.
func (s *WorkflowService) RejectManager(ctx context.Context, requestID, actorID string, comment *string) (leave.LeaveRequest, error) {
	var request leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.requests.GetByIDForUpdate(txCtx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get leave request: %w", err)
		}
		if req.Status != leave.LeaveRequestStatusPendingManager {
			return &leave.StatusError{RequestID: req.ID, Status: req.Status, Transition: "manager-reject"}
		}

		now := time.Now()
		req.Status = leave.LeaveRequestStatusRejected
		req.ManagerActorID = &actorID
		req.ManagerActedAt = &now
		req.UpdatedBy = &actorID

		if err := s.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		request = req
		return s.appendAction(txCtx, req.ID, actorID, leave.ActionRejectedManager, comment, nil)
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

// ApproveHR moves pending_hr to approved and consumes the balance in
// the same transaction.
func (s *WorkflowService) ApproveHR(ctx context.Context, requestID, actorID string, comment *string) (leave.LeaveRequest, error) {
	var request leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.requests.GetByIDForUpdate(txCtx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get leave request: %w", err)
		}
		if req.Status != leave.LeaveRequestStatusPendingHR {
			return &leave.StatusError{RequestID: req.ID, Status: req.Status, Transition: "hr-approve"}
		}

		leaveType, err := s.types.GetByID(txCtx, req.LeaveTypeID)
		if err != nil {
			return fmt.Errorf("failed to get leave type: %w", err)
		}

		now := time.Now()
		req.Status = leave.LeaveRequestStatusApproved
		req.HRActorID = &actorID
		req.HRActedAt = &now
		req.UpdatedBy = &actorID

		if err := s.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		if err := s.appendAction(txCtx, req.ID, actorID, leave.ActionApprovedHR, comment, nil); err != nil {
			return err
		}

		request = req
		return s.balances.Consume(txCtx, leaveType, req.EmployeeID, req.StartDate, req.DaysCount)
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

// RejectHR moves pending_hr to rejected. No balance effect.
func (s *WorkflowService) RejectHR(ctx context.Context, requestID, actorID string, comment *string) (leave.LeaveRequest, error) {
	var request leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.requests.GetByIDForUpdate(txCtx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get leave request: %w", err)
		}
		if req.Status != leave.LeaveRequestStatusPendingHR {
			return &leave.StatusError{RequestID: req.ID, Status: req.Status, Transition: "hr-reject"}
		}

		now := time.Now()
		req.Status = leave.LeaveRequestStatusRejected
		req.HRActorID = &actorID
		req.HRActedAt = &now
		req.UpdatedBy = &actorID

		if err := s.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		request = req
		return s.appendAction(txCtx, req.ID, actorID, leave.ActionRejectedHR, comment, nil)
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

// Cancel closes any request that is not already rejected or cancelled.
// Cancelling an approved request refunds its day count in the same
// transaction.
func (s *WorkflowService) Cancel(ctx context.Context, requestID, actorID string, comment *string) (leave.LeaveRequest, error) {
	var request leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.requests.GetByIDForUpdate(txCtx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get leave request: %w", err)
		}
		if req.Status.IsClosed() {
			return &leave.StatusError{RequestID: req.ID, Status: req.Status, Transition: "cancel"}
		}

		wasApproved := req.Status == leave.LeaveRequestStatusApproved

		req.Status = leave.LeaveRequestStatusCancelled
		req.UpdatedBy = actorRef(actorID)

		if err := s.requests.Update(txCtx, req); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}

		if err := s.appendAction(txCtx, req.ID, actorID, leave.ActionCancelled, comment, nil); err != nil {
			return err
		}

		request = req
		if !wasApproved {
			return nil
		}

		leaveType, err := s.types.GetByID(txCtx, req.LeaveTypeID)
		if err != nil {
			return fmt.Errorf("failed to get leave type: %w", err)
		}
		return s.balances.Refund(txCtx, leaveType, req.EmployeeID, req.StartDate, req.DaysCount)
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

// SoftDelete is the administrative override: it bypasses the status
// guards, records a deleted action snapshotting the prior status and
// day count, refunds an approved request, and marks the row deleted.
// Any stored attachment is removed best-effort after commit.
func (s *WorkflowService) SoftDelete(ctx context.Context, requestID, actorID string) error {
	var attachmentKey *string
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		req, err := s.requests.GetByIDForUpdate(txCtx, requestID)
		if err != nil {
			return fmt.Errorf("failed to get leave request: %w", err)
		}

		if err := s.appendAction(txCtx, req.ID, actorID, leave.ActionDeleted, nil, &leave.ActionMetadata{
			Status:    req.Status,
			DaysCount: req.DaysCount,
		}); err != nil {
			return err
		}

		if req.Status == leave.LeaveRequestStatusApproved {
			leaveType, err := s.types.GetByID(txCtx, req.LeaveTypeID)
			if err != nil {
				return fmt.Errorf("failed to get leave type: %w", err)
			}
			if err := s.balances.Refund(txCtx, leaveType, req.EmployeeID, req.StartDate, req.DaysCount); err != nil {
				return err
			}
		}

		attachmentKey = req.AttachmentKey
		return s.requests.SoftDelete(txCtx, req.ID, time.Now())
	})
	if err != nil {
		return err
	}

	s.deleteAttachmentIfAny(ctx, requestID, attachmentKey)
	return nil
}

// Balance is the read-only balance lookup. The day fields stay nil for
// leave types that do not track a balance.
func (s *WorkflowService) Balance(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.BalanceResponse, error) {
	leaveType, err := s.types.GetByID(ctx, leaveTypeID)
	if err != nil {
		return leave.BalanceResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	response := leave.BalanceResponse{
		EmployeeID:      employeeID,
		LeaveTypeID:     leaveTypeID,
		Year:            year,
		RequiresBalance: leaveType.RequiresBalance,
	}
	if !leaveType.RequiresBalance {
		return response, nil
	}

	balance, err := s.balances.GetOrCreate(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return leave.BalanceResponse{}, err
	}

	allocated := balance.AllocatedDays.InexactFloat64()
	used := balance.UsedDays.InexactFloat64()
	remaining := balance.RemainingDays().InexactFloat64()
	response.AllocatedDays = &allocated
	response.UsedDays = &used
	response.RemainingDays = &remaining
	return response, nil
}

// GetRequest returns a request by id.
func (s *WorkflowService) GetRequest(ctx context.Context, requestID string) (leave.LeaveRequest, error) {
	return s.requests.GetByID(ctx, requestID)
}

// ListEmployeeRequests returns all of an employee's requests, newest
// first.
func (s *WorkflowService) ListEmployeeRequests(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return s.requests.ListByEmployee(ctx, employeeID)
}

// ListActions returns the audit trail of a request, oldest first.
func (s *WorkflowService) ListActions(ctx context.Context, requestID string) ([]leave.LeaveRequestAction, error) {
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		return nil, err
	}
	return s.actions.ListByRequest(ctx, requestID)
}

// appendAction is the single audit entry point: every transition logs
// exactly one action through here, inside its transaction.
func (s *WorkflowService) appendAction(
	ctx context.Context,
	requestID, actorID string,
	name leave.ActionName,
	comment *string,
	metadata *leave.ActionMetadata,
) error {
	_, err := s.actions.Append(ctx, leave.LeaveRequestAction{
		RequestID: requestID,
		ActorID:   actorRef(actorID),
		Action:    name,
		Comment:   comment,
		Metadata:  metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to append %s action: %w", name, err)
	}
	return nil
}

// deleteAttachmentIfAny removes a stored attachment best-effort; the
// request is already gone, so a storage failure only leaves an orphan
// blob behind.
func (s *WorkflowService) deleteAttachmentIfAny(ctx context.Context, requestID string, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := s.files.DeleteFile(ctx, *key); err != nil {
		slog.Warn("failed to delete leave attachment", "request_id", requestID, "key", *key, "error", err)
	}
}

// actorRef converts an actor id to its nullable audit form; system
// actions carry no actor.
func actorRef(actorID string) *string {
	if actorID == "" {
		return nil
	}
	return &actorID
}
