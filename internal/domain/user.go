package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Role          Role      `json:"role"`
	CompanyID     *int64    `json:"companyId"`
	AvailableDays int       `json:"availableDays"`
	Department    *string   `json:"department"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Version       int32     `json:"-"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// 只有加入或创建了公司的用户才算完成了引导流程
func (u *User) OnboardingCompleted() bool {
	return u.CompanyID != nil
}

func (u *User) BelongsTo(companyID int64) bool {
	return u.CompanyID != nil && *u.CompanyID == companyID
}
