package leave

import (
	"time"

	"github.com/google/uuid"
)

type LeaveType string

const (
	TypeAnnual    LeaveType = "annual"
	TypeSick      LeaveType = "sick"
	TypePersonal  LeaveType = "personal"
	TypeMaternity LeaveType = "maternity"
	TypePaternity LeaveType = "paternity"
	TypeEmergency LeaveType = "emergency"
)

func (t LeaveType) Valid() bool {
	switch t {
	case TypeAnnual, TypeSick, TypePersonal, TypeMaternity, TypePaternity, TypeEmergency:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s != StatusPending
}

type LeaveRequest struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestNumber string     `gorm:"type:varchar(20);not null;uniqueIndex:uq_leave_requests_number"`
	EmployeeID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_requests_employee_dates"`
	ManagerID     *uuid.UUID `gorm:"type:uuid;index:idx_leave_requests_manager_status"`

	LeaveType     LeaveType `gorm:"type:varchar(20);not null"`
	Status        Status    `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_manager_status;index:idx_leave_requests_status_dates"`
	StartDate     time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates;index:idx_leave_requests_status_dates;check:chk_leave_requests_dates,start_date <= end_date"`
	EndDate       time.Time `gorm:"type:date;not null;index:idx_leave_requests_employee_dates;index:idx_leave_requests_status_dates"`
	DaysRequested int       `gorm:"not null;check:chk_leave_requests_days,days_requested > 0"`
	Reason        *string   `gorm:"type:text"`

	ManagerComments *string    `gorm:"type:text"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid"`

	RequestedAt time.Time `gorm:"not null"`
	ReviewedAt  *time.Time
	UpdatedAt   time.Time
}

// PendingApproval is a pending request joined with the requester's name.
type PendingApproval struct {
	LeaveRequest
	EmployeeName  string
	EmployeeEmail string
}
