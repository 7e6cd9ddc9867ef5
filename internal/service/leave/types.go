package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumenhr/backoffice-go/internal/domain/leave"
)

// TypeService manages the leave type catalog. Types are never hard
// deleted; retiring one means flipping is_active off so existing
// requests keep their reference.
type TypeService struct {
	types leave.LeaveTypeRepository
}

func NewTypeService(types leave.LeaveTypeRepository) *TypeService {
	return &TypeService{types: types}
}

// Create registers a new leave type. The code must be unique; new types
// start active.
func (s *TypeService) Create(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveType, error) {
	_, err := s.types.GetByCode(ctx, req.Code)
	if err == nil {
		return leave.LeaveType{}, leave.ErrLeaveTypeCodeExists
	}
	if !errors.Is(err, leave.ErrLeaveTypeNotFound) {
		return leave.LeaveType{}, fmt.Errorf("failed to check leave type code: %w", err)
	}

	created, err := s.types.Create(ctx, leave.LeaveType{
		Code:               req.Code,
		Name:               req.Name,
		Description:        req.Description,
		RequiresBalance:    req.RequiresBalance,
		RequiresAttachment: req.RequiresAttachment,
		IsActive:           true,
	})
	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return created, nil
}

// Update applies the non-nil fields of req. The code is immutable.
func (s *TypeService) Update(ctx context.Context, req leave.UpdateLeaveTypeRequest) (leave.LeaveType, error) {
	leaveType, err := s.types.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	if req.Name != nil {
		leaveType.Name = *req.Name
	}
	if req.Description != nil {
		leaveType.Description = req.Description
	}
	if req.RequiresBalance != nil {
		leaveType.RequiresBalance = *req.RequiresBalance
	}
	if req.RequiresAttachment != nil {
		leaveType.RequiresAttachment = *req.RequiresAttachment
	}
	if req.IsActive != nil {
		leaveType.IsActive = *req.IsActive
	}

	if err := s.types.Update(ctx, leaveType); err != nil {
		return leave.LeaveType{}, fmt.Errorf("failed to update leave type: %w", err)
	}
	return leaveType, nil
}

// Get returns a leave type by id.
func (s *TypeService) Get(ctx context.Context, id string) (leave.LeaveType, error) {
	return s.types.GetByID(ctx, id)
}

// List returns all leave types, active and inactive.
func (s *TypeService) List(ctx context.Context) ([]leave.LeaveType, error) {
	return s.types.List(ctx)
}
