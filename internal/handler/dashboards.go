package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

func (h *Handler) GetAdminDashboard(w http.ResponseWriter, r *http.Request) {
	companyID := principalFrom(r).CompanyID
	dashboard := domain.AdminDashboard{}

	// 各项统计互不依赖，并发查询
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		company, err := h.repository.GetCompany(ctx, companyID)
		if err != nil {
			return err
		}
		dashboard.CompanyName = company.Name
		return nil
	})
	g.Go(func() (err error) {
		dashboard.PendingRequests, err = h.repository.CountCompanyRequestsByStatus(ctx, companyID, domain.RequestStatusPending)
		return err
	})
	g.Go(func() (err error) {
		dashboard.ApprovedRequests, err = h.repository.CountCompanyRequestsByStatus(ctx, companyID, domain.RequestStatusApproved)
		return err
	})
	g.Go(func() (err error) {
		dashboard.EmployeeCount, err = h.repository.CountCompanyEmployees(ctx, companyID)
		return err
	})
	g.Go(func() (err error) {
		dashboard.ActiveInvitationCodes, err = h.repository.CountUnusedInvitationCodes(ctx, companyID)
		return err
	})

	if err := g.Wait(); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取管理员面板成功", dashboard)
}

func (h *Handler) GetEmployeeDashboard(w http.ResponseWriter, r *http.Request) {
	userID := principalFrom(r).UserID
	dashboard := domain.EmployeeDashboard{}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		employee, err := h.repository.GetEmployee(ctx, userID)
		if err != nil {
			return err
		}
		dashboard.AvailableDays = employee.AvailableDays
		return nil
	})
	g.Go(func() (err error) {
		dashboard.TotalRequests, err = h.repository.CountUserRequests(ctx, userID)
		return err
	})
	g.Go(func() (err error) {
		dashboard.ApprovedRequests, err = h.repository.CountUserRequestsByStatus(ctx, userID, domain.RequestStatusApproved)
		return err
	})
	g.Go(func() (err error) {
		dashboard.PendingRequests, err = h.repository.CountUserRequestsByStatus(ctx, userID, domain.RequestStatusPending)
		return err
	})

	if err := g.Wait(); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工面板成功", dashboard)
}
