package employee

import (
	"time"

	"github.com/google/uuid"
)

// Employee is the directory row payroll reads for display fields on
// exports and payslips. Directory maintenance happens upstream.
type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrgID      uuid.UUID `gorm:"type:uuid;not null;index"`
	FullName   string    `gorm:"type:varchar(150);not null"`
	Department string    `gorm:"type:varchar(100)"`
	Title      string    `gorm:"type:varchar(100)"`
	Email      string    `gorm:"type:varchar(150)"`
	Active     bool      `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Employee) TableName() string {
	return "employees"
}
