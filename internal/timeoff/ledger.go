package timeoff

import (
	"context"
	"log/slog"
	"math"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

func (s *Service) authorizeAllowance(ctx context.Context, p Principal, employeeID int64) (*domain.User, error) {
	employee, err := s.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, wrapStorage("get employee", err)
	}
	if employee.CompanyID == nil {
		return nil, domain.ErrEmployeeNotFound
	}
	res := Resource{CompanyID: *employee.CompanyID, OwnerID: employee.ID}
	if err := AuthorizeTarget(p, ActionManageAllowance, res, domain.ErrEmployeeNotFound); err != nil {
		return nil, err
	}
	return employee, nil
}

// AdjustAllowance 在当前余额上增减 delta 天，返回调整后的余额
func (s *Service) AdjustAllowance(ctx context.Context, p Principal, employeeID int64, delta int) (int, error) {
	if limit := s.cfg.Allowance.MaxAdjustment; limit > 0 && (delta > limit || delta < -limit) {
		return 0, domain.ErrAllowanceOutOfRange
	}

	if _, err := s.authorizeAllowance(ctx, p, employeeID); err != nil {
		return 0, err
	}

	balance, err := s.store.AdjustAvailableDays(ctx, employeeID, delta, s.cfg.Allowance.AllowNegative)
	if err != nil {
		return 0, wrapStorage("adjust available days", err)
	}

	if balance < 0 {
		slog.Warn("员工假期余额为负", "employee_id", employeeID, "available_days", balance, "operator", p.UserID)
	}

	return balance, nil
}

// SetAllowance 直接覆盖余额，只接受非负整数
func (s *Service) SetAllowance(ctx context.Context, p Principal, employeeID int64, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 || value != math.Trunc(value) || value > math.MaxInt32 {
		return domain.ErrInvalidAllowance
	}

	employee, err := s.authorizeAllowance(ctx, p, employeeID)
	if err != nil {
		return err
	}

	if err := s.store.SetAvailableDays(ctx, employeeID, int(value), employee.Version); err != nil {
		return wrapStorage("set available days", err)
	}

	return nil
}
