package handler

import "net/http"

func (h *Handler) GetEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetUsersByCompany(r.Context(), principalFrom(r).CompanyID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", employees)
}

func (h *Handler) respondEmployee(w http.ResponseWriter, r *http.Request, employeeID int64, msg string) {
	employee, err := h.repository.GetEmployee(r.Context(), employeeID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, msg, employee)
}

func (h *Handler) SetEmployeeAllowance(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.idParam(w, r, "员工ID无效")
	if !ok {
		return
	}

	// 用 float64 接收是为了能拒绝小数而不是在解码时报错
	var req struct {
		AvailableDays *float64 `json:"availableDays" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.service.SetAllowance(r.Context(), principalFrom(r), employeeID, *req.AvailableDays); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.respondEmployee(w, r, employeeID, "设置假期余额成功")
}

func (h *Handler) AdjustEmployeeAllowance(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := h.idParam(w, r, "员工ID无效")
	if !ok {
		return
	}

	var req struct {
		Delta *int `json:"delta" validate:"required,min=-3650,max=3650"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if _, err := h.service.AdjustAllowance(r.Context(), principalFrom(r), employeeID, *req.Delta); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.respondEmployee(w, r, employeeID, "调整假期余额成功")
}
