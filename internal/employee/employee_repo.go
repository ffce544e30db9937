package employee

import (
	"context"

	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	FindByIDAndOrg(ctx context.Context, orgID string, id string) (*Employee, error)
	// FindByIDs returns the directory rows for the given ids keyed by id.
	// Missing ids are simply absent from the map.
	FindByIDs(ctx context.Context, orgID string, ids []string) (map[string]Employee, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByIDAndOrg(ctx context.Context, orgID string, id string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		First(&emp, "id = ?", id).Error
	return &emp, err
}

func (r *repository) FindByIDs(ctx context.Context, orgID string, ids []string) (map[string]Employee, error) {
	if len(ids) == 0 {
		return map[string]Employee{}, nil
	}

	var rows []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Employee, len(rows))
	for _, row := range rows {
		byID[row.ID.String()] = row
	}
	return byID, nil
}
