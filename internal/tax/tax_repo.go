package tax

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/database"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=tax_repo.go -destination=mock/tax_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateRegime(ctx context.Context, regime *TaxRegime) error
	FindRegimeByCode(ctx context.Context, code string) (*TaxRegime, error)
	FindAllRegimes(ctx context.Context) ([]TaxRegime, error)

	UpsertSettings(ctx context.Context, settings *EmployeeTaxSettings) error
	FindSettings(ctx context.Context, orgID, employeeID, fiscalYear string) (*EmployeeTaxSettings, error)

	CreateDeclaration(ctx context.Context, declaration *InvestmentDeclaration) error
	FindDeclarationByIDAndOrg(ctx context.Context, orgID, id string) (*InvestmentDeclaration, error)
	FindDeclarationsByEmployee(ctx context.Context, orgID, employeeID, fiscalYear string) ([]InvestmentDeclaration, error)
	FindApprovedDeclarations(ctx context.Context, orgID, employeeID, fiscalYear string) ([]InvestmentDeclaration, error)
	UpdateDeclaration(ctx context.Context, declaration *InvestmentDeclaration) error
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

func (r *repository) CreateRegime(ctx context.Context, regime *TaxRegime) error {
	return r.db.WithContext(ctx).Create(regime).Error
}

func (r *repository) FindRegimeByCode(ctx context.Context, code string) (*TaxRegime, error) {
	var regime TaxRegime
	err := r.db.WithContext(ctx).
		Preload("Slabs", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&regime, "code = ?", code).Error
	return &regime, err
}

func (r *repository) FindAllRegimes(ctx context.Context) ([]TaxRegime, error) {
	var regimes []TaxRegime
	err := r.db.WithContext(ctx).
		Preload("Slabs", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("code ASC").
		Find(&regimes).Error
	return regimes, err
}

func (r *repository) UpsertSettings(ctx context.Context, settings *EmployeeTaxSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

func (r *repository) FindSettings(ctx context.Context, orgID, employeeID, fiscalYear string) (*EmployeeTaxSettings, error) {
	var settings EmployeeTaxSettings
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("employee_id = ?", employeeID).
		Where("fiscal_year = ?", fiscalYear).
		First(&settings).Error
	return &settings, err
}

func (r *repository) CreateDeclaration(ctx context.Context, declaration *InvestmentDeclaration) error {
	return r.db.WithContext(ctx).Create(declaration).Error
}

func (r *repository) FindDeclarationByIDAndOrg(ctx context.Context, orgID, id string) (*InvestmentDeclaration, error) {
	var declaration InvestmentDeclaration
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		First(&declaration, "id = ?", id).Error
	return &declaration, err
}

func (r *repository) FindDeclarationsByEmployee(ctx context.Context, orgID, employeeID, fiscalYear string) ([]InvestmentDeclaration, error) {
	var declarations []InvestmentDeclaration
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("employee_id = ?", employeeID).
		Where("fiscal_year = ?", fiscalYear).
		Order("created_at ASC").
		Find(&declarations).Error
	return declarations, err
}

func (r *repository) FindApprovedDeclarations(ctx context.Context, orgID, employeeID, fiscalYear string) ([]InvestmentDeclaration, error) {
	var declarations []InvestmentDeclaration
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("employee_id = ?", employeeID).
		Where("fiscal_year = ?", fiscalYear).
		Where("status = ?", DeclarationApproved).
		Order("section ASC").
		Find(&declarations).Error
	return declarations, err
}

func (r *repository) UpdateDeclaration(ctx context.Context, declaration *InvestmentDeclaration) error {
	return r.db.WithContext(ctx).Save(declaration).Error
}
