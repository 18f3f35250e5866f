package domain

import "time"

type Company struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Website     *string        `json:"website"`
	Logo        *string        `json:"logo"`
	WorkingDays []time.Weekday `json:"workingDays"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Version     int32          `json:"-"`
}

// 新公司默认周一到周五上班
func DefaultWorkingDays() []time.Weekday {
	return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
}

type CompanyHoliday struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"companyId"`
	Name        string    `json:"name"`
	Date        time.Time `json:"date"`
	IsRecurring bool      `json:"isRecurring"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type InvitationCode struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	CompanyID int64     `json:"companyId"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
