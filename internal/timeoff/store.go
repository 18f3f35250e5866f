package timeoff

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
)

// CheckFunc 在存储层锁住员工记录之后执行，返回错误时整个创建操作回滚
type CheckFunc func(employee *domain.User, existing []*domain.TimeOffRequest) error

type Review struct {
	RequestID     int64
	Status        domain.RequestStatus
	ManagerID     int64
	Notes         *string
	ReviewedAt    time.Time
	DebitDays     bool
	AllowNegative bool
}

// Store 中找不到记录时返回 domain.NotFoundError，状态冲突时返回 domain.InvalidStateError
type Store interface {
	GetEmployee(ctx context.Context, id int64) (*domain.User, error)
	GetCompany(ctx context.Context, id int64) (*domain.Company, error)
	GetCompanyHolidays(ctx context.Context, companyID int64) ([]domain.CompanyHoliday, error)
	GetBlockingRequestsByUser(ctx context.Context, userID int64) ([]*domain.TimeOffRequest, error)
	GetTimeOffRequest(ctx context.Context, id int64) (*domain.TimeOffRequest, error)
	CreateTimeOffRequest(ctx context.Context, req *domain.TimeOffRequest, check CheckFunc) error
	ReviewTimeOffRequest(ctx context.Context, review Review) (*domain.TimeOffRequest, error)
	AdjustAvailableDays(ctx context.Context, userID int64, delta int, allowNegative bool) (int, error)
	SetAvailableDays(ctx context.Context, userID int64, days int, version int32) error
}

// Hook 在事务提交后被调用，返回的错误只记录日志
type Hook interface {
	RequestCreated(ctx context.Context, req *domain.TimeOffRequest) error
	RequestReviewed(ctx context.Context, req *domain.TimeOffRequest) error
}

type Clock func() time.Time
