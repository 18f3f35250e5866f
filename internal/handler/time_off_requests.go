package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/timeoff"
)

// 日期和类型交给 timeoff 校验，这样错误信息保持一致
type timeOffRequestBody struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Type      string `json:"type"`
	Reason    string `json:"reason" validate:"max=1000"`
}

func (b timeOffRequestBody) input(p timeoff.Principal) timeoff.RequestInput {
	// 解析失败时得到零值，由 timeoff 统一报告日期错误
	start, _ := calendar.ParseDate(b.StartDate)
	end, _ := calendar.ParseDate(b.EndDate)

	return timeoff.RequestInput{
		EmployeeID: p.UserID,
		CompanyID:  p.CompanyID,
		StartDate:  start,
		EndDate:    end,
		Type:       domain.TimeOffType(b.Type),
		Reason:     b.Reason,
	}
}

func (h *Handler) readTimeOffRequestBody(w http.ResponseWriter, r *http.Request) (timeOffRequestBody, bool) {
	var req timeOffRequestBody

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return req, false
	}

	return req, true
}

// PreviewTimeOffRequest 只做校验，返回将会占用的工作日数
func (h *Handler) PreviewTimeOffRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readTimeOffRequestBody(w, r)
	if !ok {
		return
	}

	p := principalFrom(r)
	v, err := h.service.ValidateRequest(r.Context(), p, req.input(p))
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "申请校验通过", map[string]any{
		"workingDaysCount": v.WorkingDaysCount,
		"status":           v.Status,
	})
}

func (h *Handler) CreateTimeOffRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.readTimeOffRequestBody(w, r)
	if !ok {
		return
	}

	p := principalFrom(r)
	created, err := h.service.SubmitRequest(r.Context(), p, req.input(p))
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "提交申请成功", created)
}

func (h *Handler) GetMyTimeOffRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.repository.GetTimeOffRequestsByUser(r.Context(), principalFrom(r).UserID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取我的申请成功", requests)
}

func (h *Handler) GetCompanyTimeOffRequests(w http.ResponseWriter, r *http.Request) {
	var status *domain.RequestStatus
	if s := r.URL.Query().Get("status"); s != "" {
		rs := domain.RequestStatus(s)
		if rs != domain.RequestStatusPending && rs != domain.RequestStatusApproved && rs != domain.RequestStatusRejected {
			h.errorResponse(w, r, http.StatusBadRequest, "无效的申请状态")
			return
		}
		status = &rs
	}

	requests, err := h.repository.GetTimeOffRequestDetailsByCompany(r.Context(), principalFrom(r).CompanyID, status)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取申请列表成功", requests)
}

func (h *Handler) GetTimeOffRequest(w http.ResponseWriter, r *http.Request) {
	detail := r.Context().Value(TimeOffRequestCtx).(*domain.TimeOffRequestDetail)
	h.successResponse(w, r, "获取申请详情成功", detail)
}

func (h *Handler) ReviewTimeOffRequest(w http.ResponseWriter, r *http.Request) {
	requestID, ok := h.idParam(w, r, "申请ID无效")
	if !ok {
		return
	}

	var req struct {
		Status string  `json:"status" validate:"required,oneof=approved rejected"`
		Notes  *string `json:"notes" validate:"omitempty,max=1000"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	updated, err := h.service.ReviewRequest(r.Context(), principalFrom(r), requestID, domain.RequestStatus(req.Status), optionalString(req.Notes))
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "审批成功", updated)
}
