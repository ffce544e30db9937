package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeUnpaid = "UNPAID"
	TypePaid   = "PAID"
)

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrgID      uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_org_employee"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_org_employee"`
	LeaveType  string    `gorm:"type:varchar(20);not null"`
	StartDate  time.Time `gorm:"type:date;not null"`
	EndDate    time.Time `gorm:"type:date;not null"`
	TotalDays  int       `gorm:"not null"`
	Reason     string    `gorm:"type:text"`
	Status     string    `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedBy  uuid.UUID `gorm:"type:uuid;not null"`

	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
