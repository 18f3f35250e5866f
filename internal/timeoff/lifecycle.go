package timeoff

import (
	"context"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

func (s *Service) CreateRequest(ctx context.Context, p Principal, v *Validated) (*domain.TimeOffRequest, error) {
	if v == nil || !v.validated {
		return nil, domain.ErrNotValidated
	}
	if err := Authorize(p, ActionSubmitRequest, Resource{CompanyID: v.CompanyID, OwnerID: v.EmployeeID}); err != nil {
		return nil, err
	}

	now := s.now()
	req := &domain.TimeOffRequest{
		UserID:           v.EmployeeID,
		CompanyID:        v.CompanyID,
		Type:             v.Type,
		StartDate:        v.StartDate,
		EndDate:          v.EndDate,
		Reason:           v.Reason,
		Status:           domain.RequestStatusPending,
		WorkingDaysCount: v.WorkingDaysCount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	check := func(employee *domain.User, existing []*domain.TimeOffRequest) error {
		if !employee.BelongsTo(req.CompanyID) {
			return domain.ErrForbidden
		}
		if req.StartDate.After(req.EndDate) || req.WorkingDaysCount < 0 {
			return domain.ErrMissingDates
		}
		return Check(req, employee, existing)
	}
	if err := s.store.CreateTimeOffRequest(ctx, req, check); err != nil {
		return nil, wrapStorage("create time-off request", err)
	}

	s.notifyCreated(ctx, req)

	return req, nil
}

// SubmitRequest 先校验再创建
func (s *Service) SubmitRequest(ctx context.Context, p Principal, in RequestInput) (*domain.TimeOffRequest, error) {
	v, err := s.ValidateRequest(ctx, p, in)
	if err != nil {
		return nil, err
	}
	return s.CreateRequest(ctx, p, v)
}

func (s *Service) ReviewRequest(ctx context.Context, p Principal, requestID int64, decision domain.RequestStatus, notes *string) (*domain.TimeOffRequest, error) {
	if decision != domain.RequestStatusApproved && decision != domain.RequestStatusRejected {
		return nil, domain.ErrInvalidDecision
	}

	req, err := s.store.GetTimeOffRequest(ctx, requestID)
	if err != nil {
		return nil, wrapStorage("get time-off request", err)
	}

	if err := AuthorizeTarget(p, ActionReviewRequest, Resource{CompanyID: req.CompanyID, OwnerID: req.UserID}, domain.ErrRequestNotFound); err != nil {
		return nil, err
	}

	if req.Status != domain.RequestStatusPending {
		return nil, domain.ErrRequestNotPending
	}

	review := Review{
		RequestID:     req.ID,
		Status:        decision,
		ManagerID:     p.UserID,
		Notes:         notes,
		ReviewedAt:    s.now(),
		DebitDays:     decision == domain.RequestStatusApproved && s.cfg.Allowance.DebitOnApproval,
		AllowNegative: s.cfg.Allowance.AllowNegative,
	}
	updated, err := s.store.ReviewTimeOffRequest(ctx, review)
	if err != nil {
		return nil, wrapStorage("review time-off request", err)
	}

	s.notifyReviewed(ctx, updated)

	return updated, nil
}
