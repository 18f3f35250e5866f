// Package timeoff 实现请假申请的校验、审批流转以及员工假期余额的管理。
package timeoff

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

type ServiceDeps struct {
	Config *config.Config
	Store  Store
	Hooks  []Hook
	Clock  Clock
}

type Service struct {
	cfg   *config.Config
	store Store
	hooks []Hook
	now   Clock
}

func NewService(deps ServiceDeps) *Service {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}

	return &Service{
		cfg:   deps.Config,
		store: deps.Store,
		hooks: deps.Hooks,
		now:   now,
	}
}

// 领域错误直接返回给调用方，其余错误统一包装成 StorageError
func wrapStorage(op string, err error) error {
	var (
		validationErr    domain.ValidationError
		notFoundErr      domain.NotFoundError
		authorizationErr domain.AuthorizationError
		invalidStateErr  domain.InvalidStateError
		storageErr       *domain.StorageError
	)

	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &notFoundErr),
		errors.As(err, &authorizationErr),
		errors.As(err, &invalidStateErr),
		errors.As(err, &storageErr):
		return err
	default:
		return &domain.StorageError{Op: op, Err: err}
	}
}

func (s *Service) notifyCreated(ctx context.Context, req *domain.TimeOffRequest) {
	for _, hook := range s.hooks {
		if err := hook.RequestCreated(ctx, req); err != nil {
			slog.Error("请假申请创建通知失败", "request_id", req.ID, "error", err)
		}
	}
}

func (s *Service) notifyReviewed(ctx context.Context, req *domain.TimeOffRequest) {
	for _, hook := range s.hooks {
		if err := hook.RequestReviewed(ctx, req); err != nil {
			slog.Error("请假申请审批通知失败", "request_id", req.ID, "error", err)
		}
	}
}
