package app

import (
	"hr-dashboard/internal/auth"
	"hr-dashboard/internal/employee"
	"hr-dashboard/internal/leave"
	"hr-dashboard/internal/leavebalance"
	"hr-dashboard/internal/messaging/kafka"
	"hr-dashboard/internal/shared/counter"

	"gorm.io/gorm"
)

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&auth.Profile{},
		&employee.Employee{},
		&leave.LeaveRequest{},
		&leavebalance.LeaveBalance{},
		&counter.Counter{},
		&kafka.OutboxRecord{},
	)
}
