package payroll

import (
	"time"

	"github.com/google/uuid"
)

const (
	RunStatusProcessing  = "PROCESSING"
	RunStatusCompleted   = "COMPLETED"
	RunStatusUnderReview = "UNDER_REVIEW"
	RunStatusApproved    = "APPROVED"
	RunStatusLocked      = "LOCKED"
	RunStatusRejected    = "REJECTED"
	RunStatusFailed      = "FAILED"
)

// PayrollRun is one computation cycle for an org and period. Period is a
// year-month like 2026-01; (org_id, period) is unique, regeneration is
// rejected rather than merged.
type PayrollRun struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrgID           uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_payroll_runs_org_period"`
	Period          string     `gorm:"type:varchar(7);not null;uniqueIndex:uq_payroll_runs_org_period"`
	Status          string     `gorm:"type:varchar(20);not null"`
	TotalGross      int64      `gorm:"not null;default:0"`
	TotalDeductions int64      `gorm:"not null;default:0"`
	TotalNet        int64      `gorm:"not null;default:0"`
	EmployeeCount   int        `gorm:"not null;default:0"`
	GeneratedBy     uuid.UUID  `gorm:"type:uuid;not null"`
	FailureReason   string     `gorm:"type:text"`
	RejectionReason string     `gorm:"type:text"`
	LockedBy        *uuid.UUID `gorm:"type:uuid"`
	LockedAt        *time.Time
	Anomalies       []RunAnomaly   `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
	Entries         []PayrollEntry `gorm:"foreignKey:RunID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PayrollRun) TableName() string {
	return "payroll_runs"
}

// RunAnomaly flags an employee excluded from a run, e.g. a period with
// zero working days. The run still completes for everyone else.
type RunAnomaly struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RunID      uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null"`
	Reason     string    `gorm:"type:text;not null"`
	CreatedAt  time.Time
}

func (RunAnomaly) TableName() string {
	return "payroll_run_anomalies"
}

// PayrollEntry is one employee's pay for a run.
// Invariants: PaidDays + LwpDays == WorkingDays; GrossEarnings is the sum
// of earning lines; NetPay == GrossEarnings − TotalDeductions, where
// TotalDeductions includes TaxWithheld.
type PayrollEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RunID       uuid.UUID `gorm:"type:uuid;not null;index"`
	OrgID       uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	StructureID uuid.UUID `gorm:"type:uuid;not null"`
	// AnnualCTC snapshots the structure's contractual total at generation
	// time; register exports report it, not the sum of component lines.
	AnnualCTC        int64  `gorm:"not null;default:0"`
	WorkingDays      int    `gorm:"not null"`
	LwpDays          int    `gorm:"not null"`
	PaidDays         int    `gorm:"not null"`
	GrossEarnings    int64  `gorm:"not null"`
	BaseDeductions   int64  `gorm:"not null"`
	TaxWithheld      int64  `gorm:"not null"`
	TotalDeductions  int64  `gorm:"not null"`
	AbsenceDeduction int64  `gorm:"not null"`
	NetPay           int64  `gorm:"not null"`
	Status           string `gorm:"type:varchar(20);not null"`
	// SupersededByID points at the correction entry that replaced this
	// one through a dispute; the row itself stays LOCKED for audit.
	SupersededByID *uuid.UUID `gorm:"type:uuid"`
	// RevisesEntryID points back at the original on a correction entry.
	RevisesEntryID *uuid.UUID       `gorm:"type:uuid"`
	Components     []EntryComponent `gorm:"foreignKey:EntryID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PayrollEntry) TableName() string {
	return "payroll_entries"
}

// EntryComponent is one prorated breakdown line, ordered by DisplayOrder.
type EntryComponent struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntryID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Name          string    `gorm:"type:varchar(100);not null"`
	Kind          string    `gorm:"type:varchar(20);not null"`
	AnnualAmount  int64     `gorm:"not null"`
	MonthlyAmount int64     `gorm:"not null"`
	Taxable       bool      `gorm:"not null"`
	DisplayOrder  int       `gorm:"not null"`
	CreatedAt     time.Time
}

func (EntryComponent) TableName() string {
	return "payroll_entry_components"
}
