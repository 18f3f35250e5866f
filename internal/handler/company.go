package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

func (h *Handler) loadCompany(w http.ResponseWriter, r *http.Request) (*domain.Company, bool) {
	company, err := h.repository.GetCompanyByID(r.Context(), principalFrom(r).CompanyID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.domainError(w, r, domain.ErrCompanyNotFound)
		default:
			h.internalServerError(w, r, err)
		}
		return nil, false
	}
	return company, true
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	company, ok := h.loadCompany(w, r)
	if !ok {
		return
	}

	h.successResponse(w, r, "获取公司信息成功", company)
}

func (h *Handler) saveCompany(w http.ResponseWriter, r *http.Request, company *domain.Company) bool {
	if err := h.repository.UpdateCompany(r.Context(), company); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusConflict, "公司信息已被修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return false
	}
	return true
}

func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
		Website *string `json:"website" validate:"omitempty,url"`
		Logo    *string `json:"logo" validate:"omitempty,url"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	company, ok := h.loadCompany(w, r)
	if !ok {
		return
	}

	if req.Name != nil {
		company.Name = strings.TrimSpace(*req.Name)
	}
	if req.Website != nil {
		company.Website = optionalString(req.Website)
	}
	if req.Logo != nil {
		company.Logo = optionalString(req.Logo)
	}

	if !h.saveCompany(w, r, company) {
		return
	}

	h.successResponse(w, r, "更新公司信息成功", company)
}

func (h *Handler) UpdateWorkingDays(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkingDays []int `json:"workingDays" validate:"required,min=1,dive,weekday"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	workingDays, ok := calendar.NormalizeWeekdays(req.WorkingDays)
	if !ok {
		h.errorResponse(w, r, http.StatusBadRequest, "工作日只能是 0 到 6 之间的整数")
		return
	}

	company, ok := h.loadCompany(w, r)
	if !ok {
		return
	}

	company.WorkingDays = workingDays
	if !h.saveCompany(w, r, company) {
		return
	}

	h.successResponse(w, r, "更新工作日成功", company)
}
