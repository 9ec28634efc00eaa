package leavebalance

import (
	"time"

	"github.com/google/uuid"
)

// LeaveBalance is the ledger row for one employee, leave type and year.
// Rows are provisioned by HR; only approvals change UsedDays.
type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	LeaveType  string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	Year       int       `gorm:"not null;uniqueIndex:uq_leave_balances_employee_type_year"`
	TotalDays  int       `gorm:"not null;default:0;check:chk_leave_balances_used,used_days >= 0 AND used_days <= total_days"`
	UsedDays   int       `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (b LeaveBalance) RemainingDays() int {
	return b.TotalDays - b.UsedDays
}
