package timeoff

import "github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"

// Principal 是发起操作的用户，来自登录令牌
type Principal struct {
	UserID    int64
	CompanyID int64
	Role      domain.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == domain.RoleAdmin
}

type Action string

const (
	ActionSubmitRequest   Action = "request:submit"
	ActionViewRequest     Action = "request:view"
	ActionListRequests    Action = "request:list"
	ActionReviewRequest   Action = "request:review"
	ActionManageAllowance Action = "allowance:manage"
	ActionManageCompany   Action = "company:manage"
	ActionViewCompany     Action = "company:view"
)

// Resource 描述被操作对象的归属，OwnerID 为 0 表示对象不属于某个员工
type Resource struct {
	CompanyID int64
	OwnerID   int64
}

// Authorize 是所有状态变更前唯一的权限检查入口
func Authorize(p Principal, action Action, res Resource) error {
	if p.UserID == 0 || p.CompanyID == 0 || p.CompanyID != res.CompanyID {
		return domain.ErrForbidden
	}

	switch action {
	case ActionSubmitRequest:
		if res.OwnerID != p.UserID {
			return domain.ErrForbidden
		}
	case ActionViewRequest:
		if !p.IsAdmin() && res.OwnerID != p.UserID {
			return domain.ErrForbidden
		}
	case ActionViewCompany:
	case ActionListRequests, ActionReviewRequest, ActionManageAllowance, ActionManageCompany:
		if !p.IsAdmin() {
			return domain.ErrForbidden
		}
	default:
		return domain.ErrForbidden
	}

	return nil
}

// AuthorizeTarget 用于按 ID 查到的对象：对象属于其他公司时返回 notFound，
// 与对象不存在时的结果一致，只有同一公司内角色不符才返回 ErrForbidden
func AuthorizeTarget(p Principal, action Action, res Resource, notFound error) error {
	if p.CompanyID == 0 || p.CompanyID != res.CompanyID {
		return notFound
	}
	return Authorize(p, action, res)
}
