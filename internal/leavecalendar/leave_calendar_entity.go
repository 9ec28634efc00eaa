package leavecalendar

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one approved absence as shown on the team calendar.
type Entry struct {
	LeaveID      uuid.UUID
	EmployeeID   uuid.UUID
	EmployeeName string
	LeaveType    string
	StartDate    time.Time
	EndDate      time.Time
}
