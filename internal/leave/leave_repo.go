package leave

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Transition is the patch applied when a request leaves pending.
type Transition struct {
	To              Status
	ManagerComments *string
	ReviewedBy      *uuid.UUID
	ReviewedAt      time.Time
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	TransitionFromPending(ctx context.Context, id string, t Transition) (bool, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindPendingForManager(ctx context.Context, managerID *string) ([]PendingApproval, error)
	HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

// FindByIDForUpdate row-locks the request until the surrounding transaction ends.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&l, "id = ?", id).Error
	return &l, err
}

// TransitionFromPending applies t only while the row is still pending. The
// bool is false when another writer got there first.
func (r *repository) TransitionFromPending(ctx context.Context, id string, t Transition) (bool, error) {
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Updates(map[string]any{
			"status":           t.To,
			"manager_comments": t.ManagerComments,
			"reviewed_by":      t.ReviewedBy,
			"reviewed_at":      t.ReviewedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Order("requested_at DESC").
		Find(&leaves).Error
	return leaves, err
}

// FindPendingForManager lists pending requests routed to managerID, or every
// pending request when managerID is nil.
func (r *repository) FindPendingForManager(ctx context.Context, managerID *string) ([]PendingApproval, error) {
	var rows []PendingApproval
	db := r.conn(ctx).
		Table("leave_requests lr").
		Select("lr.*, e.full_name AS employee_name, e.email AS employee_email").
		Joins("JOIN employees e ON e.id = lr.employee_id").
		Where("lr.status = ?", StatusPending)
	if managerID != nil {
		db = db.Where("lr.manager_id = ?", *managerID)
	}
	err := db.Order("lr.requested_at ASC").Scan(&rows).Error
	return rows, err
}

// HasOverlappingPeriod checks pending and approved requests only; rejected
// and cancelled ones never block new dates.
func (r *repository) HasOverlappingPeriod(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []Status{StatusPending, StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate).
		Count(&count).Error
	return count > 0, err
}
