package timeoff

import (
	"context"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

type RequestInput struct {
	EmployeeID int64
	CompanyID  int64
	StartDate  time.Time
	EndDate    time.Time
	Type       domain.TimeOffType
	Reason     string
}

// Validated 是通过校验的申请，只能由 ValidateRequest 生成，再交给 CreateRequest
type Validated struct {
	RequestInput
	WorkingDaysCount int
	Status           domain.RequestStatus

	validated bool
}

// Check 是申请在落库前必须满足的条件，创建时会在员工记录加锁后再执行一次
func Check(candidate *domain.TimeOffRequest, employee *domain.User, existing []*domain.TimeOffRequest) error {
	for _, other := range existing {
		if other.ID == candidate.ID && candidate.ID != 0 {
			continue
		}
		if !other.Status.Blocking() {
			continue
		}
		if calendar.Overlaps(candidate.StartDate, candidate.EndDate, other.StartDate, other.EndDate) {
			return domain.ErrOverlappingRequest
		}
	}

	if candidate.WorkingDaysCount > employee.AvailableDays {
		return domain.ErrInsufficientAllowance
	}

	return nil
}

func (s *Service) ValidateRequest(ctx context.Context, p Principal, in RequestInput) (*Validated, error) {
	if err := Authorize(p, ActionSubmitRequest, Resource{CompanyID: in.CompanyID, OwnerID: in.EmployeeID}); err != nil {
		return nil, err
	}

	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, domain.ErrMissingDates
	}
	in.StartDate, in.EndDate = calendar.Date(in.StartDate), calendar.Date(in.EndDate)
	if in.StartDate.After(in.EndDate) {
		return nil, domain.ErrMissingDates
	}
	if limit := s.cfg.Allowance.MaxRequestDays; limit > 0 && calendar.Days(in.StartDate, in.EndDate) > limit {
		return nil, domain.ErrRangeTooLong
	}
	if !in.Type.Valid() {
		return nil, domain.ErrInvalidRequestType
	}
	in.Reason = strings.TrimSpace(in.Reason)

	employee, err := s.store.GetEmployee(ctx, in.EmployeeID)
	if err != nil {
		return nil, wrapStorage("get employee", err)
	}
	if !employee.BelongsTo(in.CompanyID) {
		return nil, domain.ErrForbidden
	}

	company, err := s.store.GetCompany(ctx, in.CompanyID)
	if err != nil {
		return nil, wrapStorage("get company", err)
	}
	holidays, err := s.store.GetCompanyHolidays(ctx, in.CompanyID)
	if err != nil {
		return nil, wrapStorage("get company holidays", err)
	}

	count := calendar.WorkingDays(in.StartDate, in.EndDate, company.WorkingDays, holidays)

	existing, err := s.store.GetBlockingRequestsByUser(ctx, in.EmployeeID)
	if err != nil {
		return nil, wrapStorage("get requests of employee", err)
	}

	candidate := &domain.TimeOffRequest{StartDate: in.StartDate, EndDate: in.EndDate, WorkingDaysCount: count}
	if err := Check(candidate, employee, existing); err != nil {
		return nil, err
	}

	return &Validated{
		RequestInput:     in,
		WorkingDaysCount: count,
		Status:           domain.RequestStatusPending,
		validated:        true,
	}, nil
}
