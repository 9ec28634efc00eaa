package leave

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=annual sick personal maternity paternity emergency"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Reason    string `json:"reason" binding:"max=1000"`
}

type ReviewLeaveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Comments string `json:"comments" binding:"max=1000"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	RequestNumber   string  `json:"request_number"`
	EmployeeID      string  `json:"employee_id"`
	ManagerID       *string `json:"manager_id,omitempty"`
	LeaveType       string  `json:"leave_type"`
	Status          string  `json:"status"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	DaysRequested   int     `json:"days_requested"`
	Reason          *string `json:"reason,omitempty"`
	ManagerComments *string `json:"manager_comments,omitempty"`
	ReviewedBy      *string `json:"reviewed_by,omitempty"`
	RequestedAt     string  `json:"requested_at"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
}

type PendingApprovalResponse struct {
	LeaveResponse
	EmployeeName  string `json:"employee_name"`
	EmployeeEmail string `json:"employee_email"`
}
