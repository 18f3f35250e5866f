package domain

import (
	"slices"
	"time"
)

type TimeOffType string

const (
	TimeOffTypeVacation TimeOffType = "vacation"
	TimeOffTypeSick     TimeOffType = "sick"
	TimeOffTypePersonal TimeOffType = "personal"
	TimeOffTypeOther    TimeOffType = "other"
)

var timeOffTypes = []TimeOffType{TimeOffTypeVacation, TimeOffTypeSick, TimeOffTypePersonal, TimeOffTypeOther}

func (t TimeOffType) Valid() bool {
	return slices.Contains(timeOffTypes, t)
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// 已驳回的申请不再占用日期
func (s RequestStatus) Blocking() bool {
	return s == RequestStatusPending || s == RequestStatusApproved
}

type TimeOffRequest struct {
	ID               int64         `json:"id"`
	UserID           int64         `json:"userId"`
	CompanyID        int64         `json:"companyId"`
	Type             TimeOffType   `json:"type"`
	StartDate        time.Time     `json:"startDate"`
	EndDate          time.Time     `json:"endDate"`
	Reason           string        `json:"reason"`
	Status           RequestStatus `json:"status"`
	WorkingDaysCount int           `json:"workingDaysCount"`
	ManagerID        *int64        `json:"managerId"`
	Notes            *string       `json:"notes"`
	CreatedAt        time.Time     `json:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// 管理员查看公司申请列表时附带申请人与审批人的信息
type TimeOffRequestDetail struct {
	TimeOffRequest
	EmployeeName  string  `json:"employeeName"`
	EmployeeEmail string  `json:"employeeEmail"`
	Department    *string `json:"department"`
	ManagerName   *string `json:"managerName"`
}
