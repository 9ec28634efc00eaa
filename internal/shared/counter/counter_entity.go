package counter

import "time"

// Counter backs per-year sequences such as leave request numbers.
type Counter struct {
	CounterType string `gorm:"type:varchar(100);primaryKey"`
	LastValue   int64  `gorm:"not null;default:0"`
	UpdatedAt   time.Time
}
