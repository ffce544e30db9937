package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
	StatusHalfDay = "HALF_DAY"
)

// Attendance is one day row per employee. (org_id, employee_id, date) is
// unique; re-marking a day overwrites the previous status.
type Attendance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrgID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_attendance_org_employee_date"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uq_attendance_org_employee_date"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_org_employee_date"`
	Status     string    `gorm:"type:varchar(20);not null"`
	Note       string    `gorm:"type:text"`
	RecordedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Attendance) TableName() string {
	return "attendances"
}
