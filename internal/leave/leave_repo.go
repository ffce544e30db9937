package leave

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/database"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, leave *Leave) error
	FindAllByOrg(ctx context.Context, orgID string) ([]Leave, error)
	FindByIDAndOrg(ctx context.Context, orgID string, id string) (*Leave, error)
	Update(ctx context.Context, leave *Leave) error
	HasOverlappingPeriod(ctx context.Context, orgID string, employeeID string, startDate time.Time, endDate time.Time, excludeLeaveID *string) (bool, error)
	// FindApprovedUnpaidInPeriod returns approved unpaid leaves whose range
	// touches [periodStart, periodEnd].
	FindApprovedUnpaidInPeriod(ctx context.Context, orgID string, employeeID string, periodStart, periodEnd time.Time) ([]Leave, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: database.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, leave *Leave) error {
	return r.db.WithContext(ctx).Create(leave).Error
}

func (r *repository) FindAllByOrg(ctx context.Context, orgID string) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDAndOrg(ctx context.Context, orgID string, id string) (*Leave, error) {
	var leave Leave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		First(&leave, "id = ?", id).Error
	return &leave, err
}

func (r *repository) Update(ctx context.Context, leave *Leave) error {
	return r.db.WithContext(ctx).Save(leave).Error
}

func (r *repository) HasOverlappingPeriod(
	ctx context.Context,
	orgID string,
	employeeID string,
	startDate time.Time,
	endDate time.Time,
	excludeLeaveID *string,
) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Leave{}).
		Scopes(tenant.Scope(orgID)).
		Where("employee_id = ?", employeeID).
		Where("status NOT IN ?", []string{StatusRejected, StatusCanceled}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeLeaveID != nil && *excludeLeaveID != "" {
		db = db.Where("id <> ?", *excludeLeaveID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) FindApprovedUnpaidInPeriod(
	ctx context.Context,
	orgID string,
	employeeID string,
	periodStart, periodEnd time.Time,
) ([]Leave, error) {
	var leaves []Leave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", TypeUnpaid).
		Where("status = ?", StatusApproved).
		Where("NOT (end_date < ? OR start_date > ?)", periodStart, periodEnd).
		Order("start_date ASC").
		Find(&leaves).Error
	return leaves, err
}
