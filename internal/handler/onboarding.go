package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/utils"
)

func optionalString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// OnboardAdmin 创建公司，调用者成为该公司的管理员
func (h *Handler) OnboardAdmin(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		CompanyName string  `json:"companyName" validate:"required,max=200"`
		Website     *string `json:"website" validate:"omitempty,url"`
		Logo        *string `json:"logo" validate:"omitempty,url"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	company := &domain.Company{
		Name:        strings.TrimSpace(req.CompanyName),
		Website:     optionalString(req.Website),
		Logo:        optionalString(req.Logo),
		WorkingDays: domain.DefaultWorkingDays(),
	}

	if err := h.repository.CreateCompanyWithAdmin(r.Context(), company, myInfo); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusConflict, "创建公司失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.setTokenCookie(w, myInfo); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建公司成功", map[string]any{
		"company": company,
		"user":    myInfo,
	})
}

// OnboardEmployee 使用邀请码加入公司
func (h *Handler) OnboardEmployee(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		InvitationCode string  `json:"invitationCode" validate:"required"`
		Department     *string `json:"department" validate:"omitempty,max=100"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	code := utils.NormalizeInvitationCode(req.InvitationCode)
	if !utils.ValidateInvitationCode(code, h.config.InvitationCode.Length) {
		h.errorResponse(w, r, http.StatusBadRequest, "邀请码格式错误")
		return
	}

	if err := h.repository.JoinCompanyWithCode(r.Context(), myInfo, code, optionalString(req.Department)); err != nil {
		switch {
		case errors.Is(err, repository.ErrInvitationCodeInvalid):
			h.errorResponse(w, r, http.StatusBadRequest, "邀请码无效或已被使用")
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, http.StatusConflict, "加入公司失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.setTokenCookie(w, myInfo); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "加入公司成功", myInfo)
}
