package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-payroll/internal/shared/database"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, attendance *Attendance) error
	FindByEmployeeAndPeriod(ctx context.Context, orgID string, employeeID string, from, to time.Time) ([]Attendance, error)
	// FindAbsentDatesInPeriod returns the dates marked ABSENT for the
	// employee within [from, to], ascending.
	FindAbsentDatesInPeriod(ctx context.Context, orgID string, employeeID string, from, to time.Time) ([]time.Time, error)
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

func (r *repository) Upsert(ctx context.Context, attendance *Attendance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "org_id"}, {Name: "employee_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "note", "recorded_by", "updated_at"}),
		}).
		Create(attendance).Error
}

func (r *repository) FindByEmployeeAndPeriod(
	ctx context.Context,
	orgID string,
	employeeID string,
	from, to time.Time,
) ([]Attendance, error) {
	var rows []Attendance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("employee_id = ?", employeeID).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAbsentDatesInPeriod(
	ctx context.Context,
	orgID string,
	employeeID string,
	from, to time.Time,
) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Scopes(tenant.Scope(orgID)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusAbsent).
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC").
		Pluck("date", &dates).Error
	return dates, err
}
