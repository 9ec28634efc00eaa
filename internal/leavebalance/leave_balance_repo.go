package leavebalance

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_balance_repo.go -destination=mock/leave_balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)
	FindOne(ctx context.Context, employeeID, leaveType string, year int) (*LeaveBalance, error)
	IncrementUsed(ctx context.Context, employeeID, leaveType string, year, days int) (*LeaveBalance, bool, error)
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

func (r *repository) FindByEmployeeAndYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error) {
	var balances []LeaveBalance
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Order("leave_type ASC").
		Find(&balances).Error
	return balances, err
}

func (r *repository) FindOne(ctx context.Context, employeeID, leaveType string, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.conn(ctx).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

// IncrementUsed adds days to used_days in one conditional statement. The
// bool is false when no row matched, either because the balance does not
// exist or because the deduction would exceed total_days.
func (r *repository) IncrementUsed(ctx context.Context, employeeID, leaveType string, year, days int) (*LeaveBalance, bool, error) {
	var b LeaveBalance
	res := r.conn(ctx).Raw(`
		UPDATE leave_balances
		SET used_days = used_days + ?, updated_at = now()
		WHERE employee_id = ?
			AND leave_type = ?
			AND year = ?
			AND used_days + ? <= total_days
		RETURNING id, employee_id, leave_type, year, total_days, used_days, created_at, updated_at
	`, days, employeeID, leaveType, year, days).Scan(&b)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, false, nil
	}
	return &b, true, nil
}
