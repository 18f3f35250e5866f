package domain

const (
	MailTypeResetPassword   = "reset_password"
	MailTypeRequestCreated  = "request_created"
	MailTypeRequestReviewed = "request_reviewed"
	MailTypeInvitationCode  = "invitation_code"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type RequestCreatedMailData struct {
	AdminName        string `json:"adminName"`
	EmployeeName     string `json:"employeeName"`
	Type             string `json:"type"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	WorkingDaysCount int    `json:"workingDaysCount"`
	Reason           string `json:"reason"`
}

type RequestReviewedMailData struct {
	EmployeeName string `json:"employeeName"`
	Status       string `json:"status"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Notes        string `json:"notes"`
}

type InvitationCodeMailData struct {
	CompanyName string `json:"companyName"`
	Code        string `json:"code"`
}
