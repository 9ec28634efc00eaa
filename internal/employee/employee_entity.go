package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee is the directory record. ManagerID points at another employee
// and decides who reviews this employee's leave requests.
type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	FullName  string     `gorm:"type:varchar(255);not null"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	ManagerID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
