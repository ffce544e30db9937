package dispute

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/database"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=dispute_repo.go -destination=mock/dispute_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, dispute *PayslipDispute) error
	FindByIDAndOrg(ctx context.Context, orgID string, id string) (*PayslipDispute, error)
	FindAllByOrg(ctx context.Context, orgID string) ([]PayslipDispute, error)
	Update(ctx context.Context, dispute *PayslipDispute) error
	// HasOpenDisputeForEntry reports whether a dispute for the entry is
	// still in flight (not APPROVED or REJECTED).
	HasOpenDisputeForEntry(ctx context.Context, orgID string, entryID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, dispute *PayslipDispute) error {
	return r.db.WithContext(ctx).Create(dispute).Error
}

func (r *repository) FindByIDAndOrg(ctx context.Context, orgID string, id string) (*PayslipDispute, error) {
	var dispute PayslipDispute
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		First(&dispute, "id = ?", id).Error
	return &dispute, err
}

func (r *repository) FindAllByOrg(ctx context.Context, orgID string) ([]PayslipDispute, error) {
	var disputes []PayslipDispute
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Order("created_at DESC").
		Find(&disputes).Error
	return disputes, err
}

func (r *repository) Update(ctx context.Context, dispute *PayslipDispute) error {
	return r.db.WithContext(ctx).Save(dispute).Error
}

func (r *repository) HasOpenDisputeForEntry(ctx context.Context, orgID string, entryID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PayslipDispute{}).
		Scopes(tenant.Scope(orgID)).
		Where("entry_id = ?", entryID).
		Where("stage NOT IN ?", []string{StageApproved, StageRejected}).
		Count(&count).Error
	return count > 0, err
}
