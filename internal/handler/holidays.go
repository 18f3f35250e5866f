package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

func (h *Handler) GetHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.repository.GetHolidaysByCompany(r.Context(), principalFrom(r).CompanyID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取节假日列表成功", holidays)
}

func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required,max=200"`
		Date        string `json:"date" validate:"required,datetime=2006-01-02"`
		IsRecurring bool   `json:"isRecurring"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	holiday := &domain.CompanyHoliday{
		CompanyID:   principalFrom(r).CompanyID,
		Name:        strings.TrimSpace(req.Name),
		Date:        date,
		IsRecurring: req.IsRecurring,
	}

	if err := h.repository.CreateHoliday(r.Context(), holiday); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建节假日成功", holiday)
}

func (h *Handler) UpdateHoliday(w http.ResponseWriter, r *http.Request) {
	holiday := r.Context().Value(HolidayCtx).(*domain.CompanyHoliday)

	var req struct {
		Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
		Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
		IsRecurring *bool   `json:"isRecurring"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		holiday.Name = strings.TrimSpace(*req.Name)
	}
	if req.Date != nil {
		date, err := calendar.ParseDate(*req.Date)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		holiday.Date = date
	}
	if req.IsRecurring != nil {
		holiday.IsRecurring = *req.IsRecurring
	}

	if err := h.repository.UpdateHoliday(r.Context(), holiday); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusNotFound, "节假日不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新节假日成功", holiday)
}

func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	holiday := r.Context().Value(HolidayCtx).(*domain.CompanyHoliday)

	if err := h.repository.DeleteHoliday(r.Context(), holiday.ID, holiday.CompanyID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除节假日成功", nil)
}
