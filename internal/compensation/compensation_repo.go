package compensation

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/database"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=compensation_repo.go -destination=mock/compensation_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, structure *Structure) error
	FindAllByOrg(ctx context.Context, orgID string) ([]Structure, error)
	FindByIDAndOrg(ctx context.Context, orgID string, id string) (*Structure, error)
	FindActiveByEmployee(ctx context.Context, orgID string, employeeID string, asOf time.Time) (*Structure, error)
	ListActiveEmployeeIDs(ctx context.Context, orgID string, asOf time.Time) ([]string, error)
	CloseStructure(ctx context.Context, orgID string, id string, effectiveTo time.Time) error
	HasOverlappingRange(ctx context.Context, orgID string, employeeID string, from time.Time, to *time.Time, excludeID *string) (bool, error)
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

func (r *repository) Create(ctx context.Context, structure *Structure) error {
	return r.db.WithContext(ctx).Create(structure).Error
}

func (r *repository) FindAllByOrg(ctx context.Context, orgID string) ([]Structure, error) {
	var structures []Structure
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, created_at ASC")
		}).
		Order("effective_from DESC").
		Find(&structures).Error
	return structures, err
}

func (r *repository) FindByIDAndOrg(ctx context.Context, orgID string, id string) (*Structure, error) {
	var structure Structure
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, created_at ASC")
		}).
		First(&structure, "id = ?", id).Error
	return &structure, err
}

// FindActiveByEmployee returns the single structure covering asOf.
// Components come back in display order; ties fall back to insertion order
// so prorated amounts are reproducible between runs.
func (r *repository) FindActiveByEmployee(ctx context.Context, orgID string, employeeID string, asOf time.Time) (*Structure, error) {
	var structure Structure
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, created_at ASC")
		}).
		Where("employee_id = ?", employeeID).
		Where("active = ?", true).
		Where("effective_from <= ?", asOf).
		Where("effective_to IS NULL OR effective_to >= ?", asOf).
		First(&structure).Error
	return &structure, err
}

func (r *repository) ListActiveEmployeeIDs(ctx context.Context, orgID string, asOf time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&Structure{}).
		Scopes(tenant.Scope(orgID)).
		Where("active = ?", true).
		Where("effective_from <= ?", asOf).
		Where("effective_to IS NULL OR effective_to >= ?", asOf).
		Distinct().
		Order("employee_id ASC").
		Pluck("employee_id", &ids).Error
	return ids, err
}

func (r *repository) CloseStructure(ctx context.Context, orgID string, id string, effectiveTo time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Structure{}).
		Scopes(tenant.Scope(orgID)).
		Where("id = ?", id).
		Updates(map[string]any{
			"active":       false,
			"effective_to": effectiveTo,
		}).Error
}

func (r *repository) HasOverlappingRange(
	ctx context.Context,
	orgID string,
	employeeID string,
	from time.Time,
	to *time.Time,
	excludeID *string,
) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Structure{}).
		Scopes(tenant.Scope(orgID)).
		Where("employee_id = ?", employeeID).
		Where("active = ?", true)

	if to != nil {
		db = db.Where("effective_from <= ? AND (effective_to IS NULL OR effective_to >= ?)", *to, from)
	} else {
		db = db.Where("effective_to IS NULL OR effective_to >= ?", from)
	}

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}
