// Package seed 向数据库写入演示用的公司、员工和节假日，只用于开发环境。
package seed

import (
	"context"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/leave-manager/backend/internal/utils"
)

type Store interface {
	CreateUser(ctx context.Context, user *domain.User) error
	CreateCompanyWithAdmin(ctx context.Context, company *domain.Company, user *domain.User) error
	CreateInvitationCode(ctx context.Context, ic *domain.InvitationCode) error
	JoinCompanyWithCode(ctx context.Context, user *domain.User, code string, department *string) error
	CreateHoliday(ctx context.Context, h *domain.CompanyHoliday) error
}

type holiday struct {
	name  string
	month time.Month
	day   int
}

// 每年固定日期的节假日，农历节日每年日期不同，需要管理员手动添加
var defaultHolidays = []holiday{
	{"元旦", time.January, 1},
	{"劳动节", time.May, 1},
	{"国庆节", time.October, 1},
	{"国庆节", time.October, 2},
	{"国庆节", time.October, 3},
}

// SeedCompany 创建一个演示公司以及它的管理员
func SeedCompany(ctx context.Context, s Store, cfg *config.Config, name string) (*domain.Company, *domain.User, error) {
	admin, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain, cfg.Allowance.DefaultDays)
	if err != nil {
		return nil, nil, err
	}
	admin.Department = nil

	if err := s.CreateUser(ctx, admin); err != nil {
		return nil, nil, err
	}

	company := &domain.Company{
		Name:        name,
		WorkingDays: domain.DefaultWorkingDays(),
	}
	if err := s.CreateCompanyWithAdmin(ctx, company, admin); err != nil {
		return nil, nil, err
	}

	slog.Info("已创建演示公司", "company_id", company.ID, "admin_email", admin.Email)
	return company, admin, nil
}

// SeedEmployees 创建 n 个随机员工并通过邀请码加入公司，返回成功的数量
func SeedEmployees(ctx context.Context, s Store, cfg *config.Config, companyID int64, n int) int {
	cnt := 0
	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain, cfg.Allowance.DefaultDays)
		if err != nil {
			slog.Error("无法生成随机用户", "error", err)
			continue
		}
		if err := s.CreateUser(ctx, user); err != nil {
			slog.Error("无法插入用户", "error", err)
			continue
		}

		code, err := utils.GenerateInvitationCode(cfg.InvitationCode.Length)
		if err != nil {
			slog.Error("无法生成邀请码", "error", err)
			continue
		}
		ic := &domain.InvitationCode{Code: code, CompanyID: companyID}
		if err := s.CreateInvitationCode(ctx, ic); err != nil {
			slog.Error("无法插入邀请码", "error", err)
			continue
		}

		if err := s.JoinCompanyWithCode(ctx, user, ic.Code, user.Department); err != nil {
			slog.Error("无法加入公司", "error", err, "email", user.Email)
			continue
		}

		cnt++
	}
	return cnt
}

// SeedHolidays 为公司插入默认的固定日期节假日，返回成功的数量
func SeedHolidays(ctx context.Context, s Store, companyID int64, year int) int {
	cnt := 0
	for _, h := range defaultHolidays {
		ch := &domain.CompanyHoliday{
			CompanyID:   companyID,
			Name:        h.name,
			Date:        time.Date(year, h.month, h.day, 0, 0, 0, 0, time.UTC),
			IsRecurring: true,
		}
		if err := s.CreateHoliday(ctx, ch); err != nil {
			slog.Error("无法插入节假日", "error", err, "name", h.name)
			continue
		}
		cnt++
	}
	return cnt
}
