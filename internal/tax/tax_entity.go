package tax

import (
	"time"

	"github.com/google/uuid"
)

const (
	DeclarationPending  = "PENDING"
	DeclarationApproved = "APPROVED"
	DeclarationRejected = "REJECTED"
)

// Statutory ceilings per declaration section, in minor currency units.
// Sections absent here are capped only by their approved amount.
var sectionCeilings = map[string]int64{
	"80C": 150000_00,
	"80D": 25000_00,
}

// TaxRegime is a named rule set. StandardDeduction and slab bounds are in
// minor currency units; CessPctBp and slab rates are in basis points
// (400 = 4%).
type TaxRegime struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code              string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	Name              string    `gorm:"type:varchar(100);not null"`
	AllowsItemized    bool      `gorm:"not null"`
	StandardDeduction int64     `gorm:"not null"`
	CessPctBp         int64     `gorm:"not null"`
	Slabs             []TaxSlab `gorm:"foreignKey:RegimeID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (TaxRegime) TableName() string {
	return "tax_regimes"
}

// TaxSlab is one income band. To == 0 means the band is unbounded above.
// Bands must not overlap; Position orders them ascending by From.
type TaxSlab struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RegimeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	From      int64     `gorm:"column:from_amount;not null"`
	To        int64     `gorm:"column:to_amount;not null"`
	RatePctBp int64     `gorm:"not null"`
	Position  int       `gorm:"not null"`
	CreatedAt time.Time
}

func (TaxSlab) TableName() string {
	return "tax_slabs"
}

// EmployeeTaxSettings pins an employee to a regime for one fiscal year and
// carries declared prior-employer figures.
type EmployeeTaxSettings struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrgID               uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_tax_settings_org_employee_fy"`
	EmployeeID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_tax_settings_org_employee_fy"`
	FiscalYear          string    `gorm:"type:varchar(10);not null;uniqueIndex:uq_tax_settings_org_employee_fy"`
	RegimeCode          string    `gorm:"type:varchar(30);not null"`
	PriorEmployerIncome int64     `gorm:"not null;default:0"`
	PriorEmployerTax    int64     `gorm:"not null;default:0"`
	CreatedBy           uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (EmployeeTaxSettings) TableName() string {
	return "employee_tax_settings"
}

// InvestmentDeclaration is a claimed deduction under one statutory section.
// Only APPROVED rows, at their approved amount, feed withholding.
type InvestmentDeclaration struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrgID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	EmployeeID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	FiscalYear     string     `gorm:"type:varchar(10);not null;index"`
	Section        string     `gorm:"type:varchar(20);not null"`
	DeclaredAmount int64      `gorm:"not null"`
	ApprovedAmount int64      `gorm:"not null;default:0"`
	Status         string     `gorm:"type:varchar(20);not null;default:'PENDING'"`
	ReviewNote     string     `gorm:"type:text"`
	ReviewedBy     *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt     *time.Time
	CreatedBy      uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (InvestmentDeclaration) TableName() string {
	return "investment_declarations"
}

// SectionCeiling returns the statutory cap for a section, or the given
// amount when the section has no fixed ceiling.
func SectionCeiling(section string, amount int64) int64 {
	if ceiling, ok := sectionCeilings[section]; ok && amount > ceiling {
		return ceiling
	}
	return amount
}
