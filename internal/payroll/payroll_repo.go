package payroll

import (
	"context"
	"database/sql"

	"go-payroll/internal/shared/database"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateRun(ctx context.Context, run *PayrollRun) error
	UpdateRun(ctx context.Context, run *PayrollRun) error
	FindRunByIDAndOrg(ctx context.Context, orgID string, id string) (*PayrollRun, error)
	FindRunByPeriod(ctx context.Context, orgID string, period string) (*PayrollRun, error)
	FindAllRunsByOrg(ctx context.Context, orgID string) ([]PayrollRun, error)

	CreateAnomalies(ctx context.Context, anomalies []RunAnomaly) error
	CreateEntries(ctx context.Context, entries []PayrollEntry) error
	CreateEntry(ctx context.Context, entry *PayrollEntry) error
	UpdateEntry(ctx context.Context, entry *PayrollEntry) error
	FindEntryByIDAndOrg(ctx context.Context, orgID string, id string) (*PayrollEntry, error)
	// FindEntriesByRun returns the run's entries with components,
	// superseded rows included so audits can walk the revision chain.
	FindEntriesByRun(ctx context.Context, orgID string, runID string) ([]PayrollEntry, error)
	// FindActiveEntriesByRun excludes superseded rows; run totals are
	// computed over this set.
	FindActiveEntriesByRun(ctx context.Context, orgID string, runID string) ([]PayrollEntry, error)
	// UpdateEntryStatusCAS transitions one entry only when its current
	// status still matches fromStatus. Returns false when another caller
	// got there first.
	UpdateEntryStatusCAS(ctx context.Context, orgID string, id string, fromStatus, toStatus string) (bool, error)
	UpdateEntryStatusesByRun(ctx context.Context, orgID string, runID string, toStatus string) error
	SumWithheldTaxForEmployee(ctx context.Context, orgID string, employeeID string, fiscalYearPeriods []string) (int64, error)
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

func (r *repository) CreateRun(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *repository) UpdateRun(ctx context.Context, run *PayrollRun) error {
	return r.db.WithContext(ctx).
		Omit("Entries", "Anomalies").
		Save(run).Error
}

func (r *repository) FindRunByIDAndOrg(ctx context.Context, orgID string, id string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Preload("Anomalies").
		First(&run, "id = ?", id).Error
	return &run, err
}

func (r *repository) FindRunByPeriod(ctx context.Context, orgID string, period string) (*PayrollRun, error) {
	var run PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		First(&run, "period = ?", period).Error
	return &run, err
}

func (r *repository) FindAllRunsByOrg(ctx context.Context, orgID string) ([]PayrollRun, error) {
	var runs []PayrollRun
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Order("period DESC").
		Find(&runs).Error
	return runs, err
}

func (r *repository) CreateAnomalies(ctx context.Context, anomalies []RunAnomaly) error {
	if len(anomalies) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&anomalies).Error
}

func (r *repository) CreateEntries(ctx context.Context, entries []PayrollEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *repository) CreateEntry(ctx context.Context, entry *PayrollEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) UpdateEntry(ctx context.Context, entry *PayrollEntry) error {
	return r.db.WithContext(ctx).
		Omit("Components").
		Save(entry).Error
}

func (r *repository) FindEntryByIDAndOrg(ctx context.Context, orgID string, id string) (*PayrollEntry, error) {
	var entry PayrollEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, created_at ASC")
		}).
		First(&entry, "id = ?", id).Error
	return &entry, err
}

func (r *repository) FindEntriesByRun(ctx context.Context, orgID string, runID string) ([]PayrollEntry, error) {
	var entries []PayrollEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("run_id = ?", runID).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, created_at ASC")
		}).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) FindActiveEntriesByRun(ctx context.Context, orgID string, runID string) ([]PayrollEntry, error) {
	var entries []PayrollEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("run_id = ?", runID).
		Where("superseded_by_id IS NULL").
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, created_at ASC")
		}).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) UpdateEntryStatusCAS(ctx context.Context, orgID string, id string, fromStatus, toStatus string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&PayrollEntry{}).
		Scopes(tenant.Scope(orgID)).
		Where("id = ?", id).
		Where("status = ?", fromStatus).
		Update("status", toStatus)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) UpdateEntryStatusesByRun(ctx context.Context, orgID string, runID string, toStatus string) error {
	return r.db.WithContext(ctx).
		Model(&PayrollEntry{}).
		Scopes(tenant.Scope(orgID)).
		Where("run_id = ?", runID).
		Where("superseded_by_id IS NULL").
		Update("status", toStatus).Error
}

func (r *repository) SumWithheldTaxForEmployee(ctx context.Context, orgID string, employeeID string, fiscalYearPeriods []string) (int64, error) {
	if len(fiscalYearPeriods) == 0 {
		return 0, nil
	}
	var total sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&PayrollEntry{}).
		Select("COALESCE(SUM(payroll_entries.tax_withheld), 0)").
		Joins("JOIN payroll_runs ON payroll_runs.id = payroll_entries.run_id").
		Where("payroll_entries.org_id = ?", orgID).
		Where("payroll_entries.employee_id = ?", employeeID).
		Where("payroll_entries.superseded_by_id IS NULL").
		Where("payroll_runs.period IN ?", fiscalYearPeriods).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}
