package leavecalendar

type EntryResponse struct {
	LeaveID      string `json:"leave_id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	LeaveType    string `json:"leave_type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

type CalendarResponse struct {
	From    string          `json:"from"`
	To      string          `json:"to"`
	Entries []EntryResponse `json:"entries"`
}
