package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lumenhr/backoffice-go/internal/domain/leave"
	"github.com/lumenhr/backoffice-go/internal/handler/http/middleware"
	"github.com/lumenhr/backoffice-go/internal/handler/http/response"
	"github.com/lumenhr/backoffice-go/internal/service/file"
	leaveservice "github.com/lumenhr/backoffice-go/internal/service/leave"
)

const attachmentURLExpiry = 15 * time.Minute

type LeaveHandler interface {
	CreateType(w http.ResponseWriter, r *http.Request)
	UpdateType(w http.ResponseWriter, r *http.Request)
	ListTypes(w http.ResponseWriter, r *http.Request)

	SetBalance(w http.ResponseWriter, r *http.Request)
	GetMyBalances(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)

	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	GetRequestActions(w http.ResponseWriter, r *http.Request)

	ManagerApprove(w http.ResponseWriter, r *http.Request)
	ManagerReject(w http.ResponseWriter, r *http.Request)
	HRApprove(w http.ResponseWriter, r *http.Request)
	HRReject(w http.ResponseWriter, r *http.Request)
	CancelRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	workflow    *leaveservice.WorkflowService
	types       *leaveservice.TypeService
	balances    *leaveservice.BalanceService
	fileService file.FileService
}

func NewLeaveHandler(
	workflow *leaveservice.WorkflowService,
	types *leaveservice.TypeService,
	balances *leaveservice.BalanceService,
	fileService file.FileService,
) LeaveHandler {
	return &LeaveHandlerImpl{
		workflow:    workflow,
		types:       types,
		balances:    balances,
		fileService: fileService,
	}
}

// CreateType implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateType(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveTypeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateType decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveType, err := l.types.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave type created successfully", leave.NewLeaveTypeResponse(leaveType))
}

// UpdateType implements LeaveHandler.
func (l *LeaveHandlerImpl) UpdateType(w http.ResponseWriter, r *http.Request) {
	var req leave.UpdateLeaveTypeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateType decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	leaveType, err := l.types.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave type updated successfully", leave.NewLeaveTypeResponse(leaveType))
}

// ListTypes implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	leaveTypes, err := l.types.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(leaveTypes))
	for _, item := range leaveTypes {
		responses = append(responses, leave.NewLeaveTypeResponse(item))
	}
	response.Success(w, responses)
}

// SetBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) SetBalance(w http.ResponseWriter, r *http.Request) {
	var req leave.SetBalanceRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetBalance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	balance, err := l.balances.SetAllocation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave balance updated successfully", leave.NewLeaveBalanceResponse(balance))
}

// GetMyBalances implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalances(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	year := queryYear(r)
	balances, err := l.balances.ListEmployeeBalances(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]leave.LeaveBalanceResponse, 0, len(balances))
	for _, item := range balances {
		responses = append(responses, leave.NewLeaveBalanceResponse(item))
	}
	response.Success(w, responses)
}

// GetBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	leaveTypeID := r.URL.Query().Get("leave_type_id")
	if employeeID == "" || leaveTypeID == "" {
		response.BadRequest(w, "employee_id and leave_type_id are required", nil)
		return
	}

	balance, err := l.workflow.Balance(r.Context(), employeeID, leaveTypeID, queryYear(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, balance)
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Forbidden(w, "Employee ID not found in token")
		return
	}

	var req leave.CreateLeaveRequestRequest

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}

	if err := json.Unmarshal([]byte(dataJSON), &req); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// The token decides who the request is for, never the payload.
	req.EmployeeID = employeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	attachment, fileHeader, err := r.FormFile("attachment")
	if err != nil && err != http.ErrMissingFile {
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	req.File = attachment
	req.FileHeader = fileHeader

	leaveRequest, err := l.workflow.Create(r.Context(), req, employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request created successfully", l.toResponse(r, leaveRequest))
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	requests, err := l.workflow.ListEmployeeRequests(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, l.toResponse(r, req))
	}
	response.Success(w, responses)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	leaveRequest, err := l.workflow.GetRequest(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, l.toResponse(r, leaveRequest))
}

// GetRequestActions implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequestActions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	actions, err := l.workflow.ListActions(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	responses := make([]leave.ActionResponse, 0, len(actions))
	for _, action := range actions {
		responses = append(responses, leave.ActionResponse{
			ID:        action.ID,
			RequestID: action.RequestID,
			ActorID:   action.ActorID,
			Action:    string(action.Action),
			Comment:   action.Comment,
			Metadata:  action.Metadata,
			CreatedAt: action.CreatedAt,
		})
	}
	response.Success(w, responses)
}

// ManagerApprove implements LeaveHandler.
func (l *LeaveHandlerImpl) ManagerApprove(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, "Leave request approved", l.workflow.ApproveManager)
}

// ManagerReject implements LeaveHandler.
func (l *LeaveHandlerImpl) ManagerReject(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, "Leave request rejected", l.workflow.RejectManager)
}

// HRApprove implements LeaveHandler.
func (l *LeaveHandlerImpl) HRApprove(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, "Leave request approved", l.workflow.ApproveHR)
}

// HRReject implements LeaveHandler.
func (l *LeaveHandlerImpl) HRReject(w http.ResponseWriter, r *http.Request) {
	l.decide(w, r, "Leave request rejected", l.workflow.RejectHR)
}

// CancelRequest implements LeaveHandler. Owners cancel their own
// requests; admins can cancel anyone's.
func (l *LeaveHandlerImpl) CancelRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	employeeID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	leaveRequest, err := l.workflow.GetRequest(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if leaveRequest.EmployeeID != employeeID && !isAdmin(r) {
		response.Forbidden(w, "Only the request owner may cancel it")
		return
	}

	comment, ok := decodeComment(w, r)
	if !ok {
		return
	}

	cancelled, err := l.workflow.Cancel(r.Context(), id, employeeID, comment)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request cancelled", l.toResponse(r, cancelled))
}

// DeleteRequest implements LeaveHandler. Admin only; routed as such.
func (l *LeaveHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	employeeID, _ := middleware.EmployeeID(r)
	if err := l.workflow.SoftDelete(r.Context(), id, employeeID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Leave request deleted", nil)
}

type decisionFunc func(ctx context.Context, requestID, actorID string, comment *string) (leave.LeaveRequest, error)

func (l *LeaveHandlerImpl) decide(w http.ResponseWriter, r *http.Request, message string, fn decisionFunc) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Leave request ID is required", nil)
		return
	}

	actorID, ok := middleware.EmployeeID(r)
	if !ok {
		response.Unauthorized(w, "employee_id claim is missing or invalid")
		return
	}

	comment, ok := decodeComment(w, r)
	if !ok {
		return
	}

	updated, err := fn(r.Context(), id, actorID, comment)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, message, l.toResponse(r, updated))
}

// decodeComment reads the optional decision body. An empty body is
// fine; malformed JSON is not.
func decodeComment(w http.ResponseWriter, r *http.Request) (*string, bool) {
	if r.Body == nil || r.ContentLength == 0 {
		return nil, true
	}

	var req leave.DecideLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return nil, false
	}
	return req.Comment, true
}

func (l *LeaveHandlerImpl) toResponse(r *http.Request, req leave.LeaveRequest) leave.LeaveRequestResponse {
	resp := leave.NewLeaveRequestResponse(req)
	if req.AttachmentKey != nil && *req.AttachmentKey != "" {
		url, err := l.fileService.GetFileURL(r.Context(), *req.AttachmentKey, attachmentURLExpiry)
		if err != nil {
			slog.Warn("failed to build attachment URL", "request_id", req.ID, "error", err)
		} else {
			resp.AttachmentURL = &url
		}
	}
	return resp
}

func queryYear(r *http.Request) int {
	if raw := r.URL.Query().Get("year"); raw != "" {
		if year, err := strconv.Atoi(raw); err == nil && year > 0 {
			return year
		}
	}
	return time.Now().Year()
}

func isAdmin(r *http.Request) bool {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return false
	}
	role, _ := claims["role"].(string)
	return role == middleware.RoleAdmin
}
