package payroll

type GenerateRunRequest struct {
	Period string `json:"period" binding:"required"`
}

type RejectRunRequest struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type RunResponse struct {
	ID              string            `json:"id"`
	OrgID           string            `json:"org_id"`
	Period          string            `json:"period"`
	Status          string            `json:"status"`
	TotalGross      int64             `json:"total_gross"`
	TotalDeductions int64             `json:"total_deductions"`
	TotalNet        int64             `json:"total_net"`
	EmployeeCount   int               `json:"employee_count"`
	GeneratedBy     string            `json:"generated_by"`
	FailureReason   string            `json:"failure_reason,omitempty"`
	RejectionReason string            `json:"rejection_reason,omitempty"`
	LockedBy        *string           `json:"locked_by,omitempty"`
	LockedAt        *string           `json:"locked_at,omitempty"`
	Anomalies       []AnomalyResponse `json:"anomalies,omitempty"`
}

type AnomalyResponse struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type EntryResponse struct {
	ID               string              `json:"id"`
	RunID            string              `json:"run_id"`
	EmployeeID       string              `json:"employee_id"`
	StructureID      string              `json:"structure_id"`
	WorkingDays      int                 `json:"working_days"`
	LwpDays          int                 `json:"lwp_days"`
	PaidDays         int                 `json:"paid_days"`
	GrossEarnings    int64               `json:"gross_earnings"`
	BaseDeductions   int64               `json:"base_deductions"`
	TaxWithheld      int64               `json:"tax_withheld"`
	TotalDeductions  int64               `json:"total_deductions"`
	AbsenceDeduction int64               `json:"absence_deduction"`
	NetPay           int64               `json:"net_pay"`
	Status           string              `json:"status"`
	SupersededByID   *string             `json:"superseded_by_id,omitempty"`
	RevisesEntryID   *string             `json:"revises_entry_id,omitempty"`
	Components       []ComponentResponse `json:"components"`
}

type ComponentResponse struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	AnnualAmount  int64  `json:"annual_amount"`
	MonthlyAmount int64  `json:"monthly_amount"`
	Taxable       bool   `json:"taxable"`
	DisplayOrder  int    `json:"display_order"`
}

type BulkTransitionRequest struct {
	IDs          []string `json:"ids" binding:"required,min=1"`
	TargetStatus string   `json:"target_status" binding:"required"`
}

// BulkTransitionResult reports each id separately; partial success across
// a batch is expected, not an error.
type BulkTransitionResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
