package rbac

import "gorm.io/gorm"

//go:generate mockgen -source=rbac_repo.go -destination=mock/rbac_repo_mock.go -package=mock
type Repository interface {
	GetActorRoles(orgID string) ([]ActorRoleRow, error)
	GetRolePermissions(orgID string) ([]RolePermissionRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type ActorRoleRow struct {
	ActorID string
	RoleID  string
}

type RolePermissionRow struct {
	RoleID   string
	Resource string
	Action   string
}

func (r *repository) GetActorRoles(orgID string) ([]ActorRoleRow, error) {
	var result []ActorRoleRow

	err := r.db.
		Table("actor_roles").
		Select("actor_roles.actor_id, actor_roles.role_id").
		Joins("JOIN roles ON roles.id = actor_roles.role_id").
		Where("roles.org_id = ?", orgID).
		Scan(&result).Error

	return result, err
}

func (r *repository) GetRolePermissions(orgID string) ([]RolePermissionRow, error) {
	var result []RolePermissionRow

	err := r.db.
		Table("role_permissions").
		Select("role_permissions.role_id, permissions.resource, permissions.action").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("roles.org_id = ?", orgID).
		Scan(&result).Error

	return result, err
}
