package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/timeoff"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(RequestIDCtxKey).(string)
	return id
}

func principalFrom(r *http.Request) timeoff.Principal {
	p, _ := r.Context().Value(PrincipalCtxKey).(timeoff.Principal)
	return p
}

func (h *Handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(r.Context(), RequestIDCtxKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("已处理请求", "request_id", requestIDFrom(r), "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // 这里如果用 slog 的话会很乱
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 从 cookie 中获取 token
		cookie, err := r.Cookie(h.config.JWT.CookieName)
		if err != nil {
			switch {
			case errors.Is(err, http.ErrNoCookie):
				h.errorResponse(w, r, http.StatusUnauthorized, "用户未登录")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		// 验证 token
		claims := &AuthClaims{}
		_, err = jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			h.errorResponse(w, r, http.StatusUnauthorized, "无效的令牌")
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			h.errorResponse(w, r, http.StatusUnauthorized, "无效的令牌")
			return
		}

		// 将 claims 中的身份信息附在 context 中
		principal := timeoff.Principal{
			UserID:    userID,
			CompanyID: claims.CompanyID,
			Role:      domain.Role(claims.Role),
		}
		ctx := context.WithValue(r.Context(), PrincipalCtxKey, principal)

		// 执行下一个 handler
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) myInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := principalFrom(r)

		myInfo, err := h.repository.GetUserByID(r.Context(), p.UserID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusNotFound, "个人信息不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), MyInfoCtx, myInfo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) onboarded(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principalFrom(r).CompanyID == 0 {
			h.errorResponse(w, r, http.StatusForbidden, "请先创建或加入公司")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) preventOnboardedUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
		if myInfo.OnboardingCompleted() {
			h.errorResponse(w, r, http.StatusConflict, "您已加入公司")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow 针对调用者自己所在的公司做权限检查
func (h *Handler) allow(action timeoff.Action) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := principalFrom(r)
			if err := timeoff.Authorize(p, action, timeoff.Resource{CompanyID: p.CompanyID}); err != nil {
				h.errorResponse(w, r, http.StatusForbidden, "权限不足")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request, msg string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.errorResponse(w, r, http.StatusBadRequest, msg)
		return 0, false
	}
	return id, true
}

func (h *Handler) holiday(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.idParam(w, r, "节假日ID无效")
		if !ok {
			return
		}

		holiday, err := h.repository.GetHolidayByID(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, http.StatusNotFound, "节假日不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		// 其他公司的节假日视为不存在
		if holiday.CompanyID != principalFrom(r).CompanyID {
			h.errorResponse(w, r, http.StatusNotFound, "节假日不存在")
			return
		}

		ctx := context.WithValue(r.Context(), HolidayCtx, holiday)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) timeOffRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.idParam(w, r, "申请ID无效")
		if !ok {
			return
		}

		detail, err := h.repository.GetTimeOffRequestDetail(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.domainError(w, r, domain.ErrRequestNotFound)
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		// 其他公司的申请视为不存在
		res := timeoff.Resource{CompanyID: detail.CompanyID, OwnerID: detail.UserID}
		if err := timeoff.AuthorizeTarget(principalFrom(r), timeoff.ActionViewRequest, res, domain.ErrRequestNotFound); err != nil {
			h.domainError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), TimeOffRequestCtx, detail)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
