package auth

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the login identity. Employees link to it through employees.user_id.
type Profile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName     string    `gorm:"type:varchar(255);not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'employee'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
