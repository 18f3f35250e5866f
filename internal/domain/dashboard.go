package domain

type AdminDashboard struct {
	CompanyName           string `json:"companyName"`
	PendingRequests       int    `json:"pendingRequests"`
	ApprovedRequests      int    `json:"approvedRequests"`
	EmployeeCount         int    `json:"employeeCount"`
	ActiveInvitationCodes int    `json:"activeInvitationCodes"`
}

type EmployeeDashboard struct {
	TotalRequests    int `json:"totalRequests"`
	ApprovedRequests int `json:"approvedRequests"`
	PendingRequests  int `json:"pendingRequests"`
	AvailableDays    int `json:"availableDays"`
}
