package compensation

import (
	"time"

	"github.com/google/uuid"
)

const (
	ComponentKindEarning   = "EARNING"
	ComponentKindDeduction = "DEDUCTION"
)

// Structure is the salary contract for one employee. All money fields are
// annual amounts in minor currency units. At most one structure is active
// for an employee on any date; effective ranges never overlap.
type Structure struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrgID         uuid.UUID  `gorm:"type:uuid;not null;index:idx_comp_org_employee"`
	EmployeeID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_comp_org_employee"`
	AnnualCTC     int64      `gorm:"type:bigint;not null"`
	EffectiveFrom time.Time  `gorm:"type:date;not null"`
	EffectiveTo   *time.Time `gorm:"type:date"`
	Active        bool       `gorm:"not null;default:true"`
	Revision      int        `gorm:"not null;default:1"`
	CreatedBy     uuid.UUID  `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Components []Component `gorm:"foreignKey:StructureID"`
}

type Component struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StructureID  uuid.UUID `gorm:"type:uuid;not null;index"`
	OrgID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:varchar(120);not null"`
	Kind         string    `gorm:"type:varchar(20);not null"`
	AnnualAmount int64     `gorm:"type:bigint;not null"`
	PctOfBasic   *int64    `gorm:"type:bigint"` // basis points, optional
	Taxable      bool      `gorm:"not null;default:true"`
	DisplayOrder int       `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
