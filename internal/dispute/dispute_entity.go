package dispute

import (
	"time"

	"github.com/google/uuid"
)

// Review stages, in order. The chain is an explicit state enum; which
// reviewer acted is never inferred from which timestamps happen to be set.
const (
	StageOpen          = "OPEN"
	StageManagerReview = "MANAGER_REVIEW"
	StageHRReview      = "HR_REVIEW"
	StageFinanceReview = "FINANCE_REVIEW"
	StageApproved      = "APPROVED"
	StageRejected      = "REJECTED"
)

const (
	CategoryIncorrectAmount  = "INCORRECT_AMOUNT"
	CategoryMissingComponent = "MISSING_COMPONENT"
	CategoryWrongAbsenceDays = "WRONG_ABSENCE_DAYS"
	CategoryTaxDiscrepancy   = "TAX_DISCREPANCY"
	CategoryOther            = "OTHER"
)

// PayslipDispute challenges one LOCKED payroll entry. Only finance
// approval authorizes a correction; the disputed entry itself is never
// mutated.
type PayslipDispute struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrgID       uuid.UUID `gorm:"type:uuid;not null;index"`
	EntryID     uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null"`
	Category    string    `gorm:"type:varchar(30);not null"`
	Description string    `gorm:"type:text;not null"`
	Stage       string    `gorm:"type:varchar(20);not null"`
	RaisedBy    uuid.UUID `gorm:"type:uuid;not null"`

	ManagerReviewedBy *uuid.UUID `gorm:"type:uuid"`
	ManagerReviewedAt *time.Time
	ManagerNotes      string `gorm:"type:text"`

	HRReviewedBy *uuid.UUID `gorm:"type:uuid"`
	HRReviewedAt *time.Time
	HRNotes      string `gorm:"type:text"`

	FinanceReviewedBy *uuid.UUID `gorm:"type:uuid"`
	FinanceReviewedAt *time.Time
	FinanceNotes      string `gorm:"type:text"`

	// RejectedAtStage records which stage terminated a REJECTED dispute.
	RejectedAtStage string `gorm:"type:varchar(20)"`
	// CorrectionEntryID is set once on finance approval.
	CorrectionEntryID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PayslipDispute) TableName() string {
	return "payslip_disputes"
}

func isValidCategory(category string) bool {
	switch category {
	case CategoryIncorrectAmount, CategoryMissingComponent, CategoryWrongAbsenceDays, CategoryTaxDiscrepancy, CategoryOther:
		return true
	default:
		return false
	}
}
