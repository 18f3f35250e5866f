package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/utils"
)

func (h *Handler) CreateInvitationCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email *string `json:"email" validate:"omitempty,email"`
	}

	// 请求体可以为空
	if r.ContentLength != 0 {
		if err := h.readJSON(r, &req); err != nil {
			h.badRequest(w, r, err)
			return
		}
		if err := h.validate.Struct(req); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	p := principalFrom(r)
	ic := &domain.InvitationCode{CompanyID: p.CompanyID}

	// 随机码冲突时重新生成
	created := false
	for attempt := 0; attempt < h.config.InvitationCode.MaxAttempts && !created; attempt++ {
		code, err := utils.GenerateInvitationCode(h.config.InvitationCode.Length)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		ic.Code = code

		err = h.repository.CreateInvitationCode(r.Context(), ic)
		var pgErr *pgconn.PgError
		switch {
		case err == nil:
			created = true
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "invitation_codes_code_key":
			slog.Warn("邀请码冲突，重新生成", "code", code, "attempt", attempt+1)
		default:
			h.internalServerError(w, r, err)
			return
		}
	}

	if !created {
		h.internalServerError(w, r, errors.New("无法生成唯一的邀请码"))
		return
	}

	if req.Email != nil {
		company, ok := h.loadCompany(w, r)
		if !ok {
			return
		}

		mailMessage := domain.MailMessage{
			Type: domain.MailTypeInvitationCode,
			To:   *req.Email,
			Data: domain.InvitationCodeMailData{
				CompanyName: company.Name,
				Code:        ic.Code,
			},
		}
		if err := h.publisher.Publish(r.Context(), mailMessage); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "生成邀请码成功", ic)
}

func (h *Handler) GetInvitationCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.repository.GetInvitationCodesByCompany(r.Context(), principalFrom(r).CompanyID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取邀请码列表成功", codes)
}
