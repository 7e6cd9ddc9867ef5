package leave

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lumenhr/backoffice-go/internal/domain/employee"
	"github.com/lumenhr/backoffice-go/internal/domain/holiday"
	"github.com/lumenhr/backoffice-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// In-memory repository fakes. They honor the same contracts as the
// postgresql implementations (not-found sentinels, soft delete
// filtering, blocking status filtering) so the services under test see
// the behavior they would see in production.

type fakeTransactor struct {
	calls int
}

func (t *fakeTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newFakeEmployeeRepo(emps ...employee.Employee) *fakeEmployeeRepo {
	repo := &fakeEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, e := range emps {
		repo.employees[e.ID] = e
	}
	return repo
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *fakeEmployeeRepo) List(_ context.Context) ([]employee.Employee, error) {
	out := make([]employee.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, e)
	}
	return out, nil
}

type fakeTypeRepo struct {
	types map[string]leave.LeaveType
}

func newFakeTypeRepo(types ...leave.LeaveType) *fakeTypeRepo {
	repo := &fakeTypeRepo{types: make(map[string]leave.LeaveType)}
	for _, lt := range types {
		repo.types[lt.ID] = lt
	}
	return repo
}

func (r *fakeTypeRepo) Create(_ context.Context, lt leave.LeaveType) (leave.LeaveType, error) {
	lt.ID = uuid.New().String()
	lt.CreatedAt = time.Now()
	lt.UpdatedAt = lt.CreatedAt
	r.types[lt.ID] = lt
	return lt, nil
}

func (r *fakeTypeRepo) GetByID(_ context.Context, id string) (leave.LeaveType, error) {
	lt, ok := r.types[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (r *fakeTypeRepo) GetByCode(_ context.Context, code string) (leave.LeaveType, error) {
	for _, lt := range r.types {
		if lt.Code == code {
			return lt, nil
		}
	}
	return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
}

func (r *fakeTypeRepo) List(_ context.Context) ([]leave.LeaveType, error) {
	out := make([]leave.LeaveType, 0, len(r.types))
	for _, lt := range r.types {
		out = append(out, lt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeTypeRepo) Update(_ context.Context, lt leave.LeaveType) error {
	if _, ok := r.types[lt.ID]; !ok {
		return leave.ErrLeaveTypeNotFound
	}
	lt.UpdatedAt = time.Now()
	r.types[lt.ID] = lt
	return nil
}

type fakeBalanceRepo struct {
	balances map[string]leave.LeaveBalance
	locks    int
}

func newFakeBalanceRepo(balances ...leave.LeaveBalance) *fakeBalanceRepo {
	repo := &fakeBalanceRepo{balances: make(map[string]leave.LeaveBalance)}
	for _, b := range balances {
		repo.balances[b.ID] = b
	}
	return repo
}

func (r *fakeBalanceRepo) find(employeeID, leaveTypeID string, year int) (leave.LeaveBalance, bool) {
	for _, b := range r.balances {
		if b.EmployeeID == employeeID && b.LeaveTypeID == leaveTypeID && b.Year == year {
			return b, true
		}
	}
	return leave.LeaveBalance{}, false
}

func (r *fakeBalanceRepo) Create(_ context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	if _, ok := r.find(b.EmployeeID, b.LeaveTypeID, b.Year); ok {
		return leave.LeaveBalance{}, fmt.Errorf("duplicate balance row")
	}
	b.ID = uuid.New().String()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.balances[b.ID] = b
	return b, nil
}

func (r *fakeBalanceRepo) GetByEmployeeTypeYear(_ context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	b, ok := r.find(employeeID, leaveTypeID, year)
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (r *fakeBalanceRepo) ListByEmployeeYear(_ context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	var out []leave.LeaveBalance
	for _, b := range r.balances {
		if b.EmployeeID == employeeID && b.Year == year {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) LockForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.LeaveBalance, error) {
	r.locks++
	return r.GetByEmployeeTypeYear(ctx, employeeID, leaveTypeID, year)
}

func (r *fakeBalanceRepo) UpdateUsed(_ context.Context, id string, usedDays decimal.Decimal) error {
	b, ok := r.balances[id]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	b.UsedDays = usedDays
	b.UpdatedAt = time.Now()
	r.balances[id] = b
	return nil
}

func (r *fakeBalanceRepo) UpdateAllocated(_ context.Context, id string, allocatedDays decimal.Decimal) error {
	b, ok := r.balances[id]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	b.AllocatedDays = allocatedDays
	b.UpdatedAt = time.Now()
	r.balances[id] = b
	return nil
}

type fakeRequestRepo struct {
	requests      map[string]leave.LeaveRequest
	employeeLocks []string
}

func newFakeRequestRepo(requests ...leave.LeaveRequest) *fakeRequestRepo {
	repo := &fakeRequestRepo{requests: make(map[string]leave.LeaveRequest)}
	for _, req := range requests {
		repo.requests[req.ID] = req
	}
	return repo
}

func (r *fakeRequestRepo) Create(_ context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	req.ID = uuid.New().String()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	r.requests[req.ID] = req
	return req, nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	req, ok := r.requests[id]
	if !ok || req.DeletedAt != nil {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *fakeRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeRequestRepo) ListByEmployee(_ context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID == employeeID && req.DeletedAt == nil {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRequestRepo) ListBlockingInRange(_ context.Context, employeeID string, start, end time.Time, excludeID string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.EmployeeID != employeeID || req.DeletedAt != nil {
			continue
		}
		if excludeID != "" && req.ID == excludeID {
			continue
		}
		if !req.Status.IsBlocking() {
			continue
		}
		if req.EndDate.Before(start) || req.StartDate.After(end) {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (r *fakeRequestRepo) Update(_ context.Context, req leave.LeaveRequest) error {
	stored, ok := r.requests[req.ID]
	if !ok || stored.DeletedAt != nil {
		return leave.ErrLeaveRequestNotFound
	}
	req.UpdatedAt = time.Now()
	r.requests[req.ID] = req
	return nil
}

func (r *fakeRequestRepo) SoftDelete(_ context.Context, id string, deletedAt time.Time) error {
	req, ok := r.requests[id]
	if !ok || req.DeletedAt != nil {
		return leave.ErrLeaveRequestNotFound
	}
	req.DeletedAt = &deletedAt
	r.requests[id] = req
	return nil
}

func (r *fakeRequestRepo) LockEmployee(_ context.Context, employeeID string) error {
	r.employeeLocks = append(r.employeeLocks, employeeID)
	return nil
}

type fakeActionRepo struct {
	actions []leave.LeaveRequestAction
}

func (r *fakeActionRepo) Append(_ context.Context, action leave.LeaveRequestAction) (leave.LeaveRequestAction, error) {
	action.ID = uuid.New().String()
	action.CreatedAt = time.Now()
	r.actions = append(r.actions, action)
	return action, nil
}

func (r *fakeActionRepo) ListByRequest(_ context.Context, requestID string) ([]leave.LeaveRequestAction, error) {
	var out []leave.LeaveRequestAction
	for _, a := range r.actions {
		if a.RequestID == requestID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeActionRepo) byRequest(requestID string) []leave.LeaveRequestAction {
	out, _ := r.ListByRequest(context.Background(), requestID)
	return out
}

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
}

func newFakeHolidayRepo(holidays ...holiday.Holiday) *fakeHolidayRepo {
	return &fakeHolidayRepo{holidays: holidays}
}

func (r *fakeHolidayRepo) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	h.ID = uuid.New().String()
	h.CreatedAt = time.Now()
	h.UpdatedAt = h.CreatedAt
	r.holidays = append(r.holidays, h)
	return h, nil
}

func (r *fakeHolidayRepo) List(_ context.Context) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range r.holidays {
		if h.DeletedAt == nil {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHolidayRepo) ListForRange(_ context.Context, start, end time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range r.holidays {
		if h.DeletedAt != nil {
			continue
		}
		if h.IsRecurring {
			out = append(out, h)
			continue
		}
		if !h.Date.Before(start) && !h.Date.After(end) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHolidayRepo) SoftDelete(_ context.Context, id string) error {
	now := time.Now()
	for i := range r.holidays {
		if r.holidays[i].ID == id && r.holidays[i].DeletedAt == nil {
			r.holidays[i].DeletedAt = &now
			return nil
		}
	}
	return holiday.ErrHolidayNotFound
}

type fakeFileStore struct {
	uploads []string
	deletes []string
	failUp  error
}

func (f *fakeFileStore) UploadLeaveAttachment(_ context.Context, employeeID string, _ io.Reader, filename string) (string, error) {
	if f.failUp != nil {
		return "", f.failUp
	}
	key := fmt.Sprintf("leave/%s/%s", employeeID, filename)
	f.uploads = append(f.uploads, key)
	return key, nil
}

func (f *fakeFileStore) DeleteFile(_ context.Context, path string) error {
	f.deletes = append(f.deletes, path)
	return nil
}

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
