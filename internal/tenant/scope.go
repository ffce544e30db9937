package tenant

import "gorm.io/gorm"

// Scope restricts a query to one organization. The organization id is
// always passed explicitly by the caller, never read from ambient state.
func Scope(orgID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("org_id = ?", orgID)
	}
}
