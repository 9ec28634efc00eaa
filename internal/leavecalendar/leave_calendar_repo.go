package leavecalendar

import (
	"context"
	"iter"
	"time"

	"hr-dashboard/internal/leave"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_calendar_repo.go -destination=mock/leave_calendar_repo_mock.go -package=mock
type Repository interface {
	StreamApproved(ctx context.Context, from, to time.Time) iter.Seq2[Entry, error]
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// StreamApproved yields approved requests intersecting [from, to]. The query
// runs when the sequence is ranged over, once per range.
func (r *repository) StreamApproved(ctx context.Context, from, to time.Time) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		db := r.db.WithContext(ctx)
		rows, err := db.
			Table("leave_requests lr").
			Select("lr.id AS leave_id, lr.employee_id, e.full_name AS employee_name, lr.leave_type, lr.start_date, lr.end_date").
			Joins("JOIN employees e ON e.id = lr.employee_id").
			Where("lr.status = ?", leave.StatusApproved).
			Where("lr.start_date <= ? AND lr.end_date >= ?", to, from).
			Order("lr.start_date ASC, e.full_name ASC").
			Rows()
		if err != nil {
			yield(Entry{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var e Entry
			if err := db.ScanRows(rows, &e); err != nil {
				yield(Entry{}, err)
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Entry{}, err)
		}
	}
}
