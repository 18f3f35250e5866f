package timeoff

import (
	"context"
	"sync"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

// memoryStore 用一把锁模拟数据库里对员工记录加行锁的行为
type memoryStore struct {
	mu        sync.Mutex
	users     map[int64]*domain.User
	companies map[int64]*domain.Company
	holidays  map[int64][]domain.CompanyHoliday
	requests  map[int64]*domain.TimeOffRequest
	nextID    int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:     map[int64]*domain.User{},
		companies: map[int64]*domain.Company{},
		holidays:  map[int64][]domain.CompanyHoliday{},
		requests:  map[int64]*domain.TimeOffRequest{},
	}
}

func (m *memoryStore) GetEmployee(ctx context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memoryStore) GetCompany(ctx context.Context, id int64) (*domain.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[id]
	if !ok {
		return nil, domain.ErrCompanyNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memoryStore) GetCompanyHolidays(ctx context.Context, companyID int64) ([]domain.CompanyHoliday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.CompanyHoliday(nil), m.holidays[companyID]...), nil
}

func (m *memoryStore) blockingLocked(userID int64) []*domain.TimeOffRequest {
	result := []*domain.TimeOffRequest{}
	for _, r := range m.requests {
		if r.UserID == userID && r.Status.Blocking() {
			cp := *r
			result = append(result, &cp)
		}
	}
	return result
}

func (m *memoryStore) GetBlockingRequestsByUser(ctx context.Context, userID int64) ([]*domain.TimeOffRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blockingLocked(userID), nil
}

func (m *memoryStore) GetTimeOffRequest(ctx context.Context, id int64) (*domain.TimeOffRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memoryStore) CreateTimeOffRequest(ctx context.Context, req *domain.TimeOffRequest, check CheckFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[req.UserID]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	cp := *u
	if err := check(&cp, m.blockingLocked(req.UserID)); err != nil {
		return err
	}

	m.nextID++
	req.ID = m.nextID
	stored := *req
	m.requests[req.ID] = &stored
	return nil
}

func (m *memoryStore) ReviewTimeOffRequest(ctx context.Context, review Review) (*domain.TimeOffRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[review.RequestID]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}
	if r.Status != domain.RequestStatusPending {
		return nil, domain.ErrRequestNotPending
	}

	if review.DebitDays {
		u := m.users[r.UserID]
		if !review.AllowNegative && u.AvailableDays < r.WorkingDaysCount {
			return nil, domain.ErrInsufficientAllowance
		}
		u.AvailableDays -= r.WorkingDaysCount
		u.Version++
	}

	r.Status = review.Status
	managerID := review.ManagerID
	r.ManagerID = &managerID
	r.Notes = review.Notes
	r.UpdatedAt = review.ReviewedAt

	cp := *r
	return &cp, nil
}

func (m *memoryStore) AdjustAvailableDays(ctx context.Context, userID int64, delta int, allowNegative bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return 0, domain.ErrEmployeeNotFound
	}
	if !allowNegative && u.AvailableDays+delta < 0 {
		return 0, domain.ErrNegativeAllowance
	}
	u.AvailableDays += delta
	u.Version++
	return u.AvailableDays, nil
}

func (m *memoryStore) SetAvailableDays(ctx context.Context, userID int64, days int, version int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	if u.Version != version {
		return domain.ErrAllowanceConflict
	}
	u.AvailableDays = days
	u.Version++
	return nil
}

type recordingHook struct {
	mu       sync.Mutex
	created  []int64
	reviewed []int64
	err      error
}

func (h *recordingHook) RequestCreated(ctx context.Context, req *domain.TimeOffRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.created = append(h.created, req.ID)
	return h.err
}

func (h *recordingHook) RequestReviewed(ctx context.Context, req *domain.TimeOffRequest) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reviewed = append(h.reviewed, req.ID)
	return h.err
}
