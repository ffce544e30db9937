package dispute

type CreateDisputeRequest struct {
	EntryID     string `json:"entry_id" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type ReviewDisputeRequest struct {
	Notes string `json:"notes"`
}

// CorrectionInput carries finance's corrected figures; nil fields keep
// the original entry's values.
type CorrectionInput struct {
	GrossEarnings  *int64 `json:"gross_earnings"`
	BaseDeductions *int64 `json:"base_deductions"`
	TaxWithheld    *int64 `json:"tax_withheld"`
}

type FinanceApproveRequest struct {
	Notes      string          `json:"notes"`
	Correction CorrectionInput `json:"correction"`
}

type StageReviewResponse struct {
	ReviewedBy *string `json:"reviewed_by,omitempty"`
	ReviewedAt *string `json:"reviewed_at,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

type DisputeResponse struct {
	ID                string              `json:"id"`
	OrgID             string              `json:"org_id"`
	EntryID           string              `json:"entry_id"`
	EmployeeID        string              `json:"employee_id"`
	Category          string              `json:"category"`
	Description       string              `json:"description"`
	Stage             string              `json:"stage"`
	RaisedBy          string              `json:"raised_by"`
	ManagerReview     StageReviewResponse `json:"manager_review"`
	HRReview          StageReviewResponse `json:"hr_review"`
	FinanceReview     StageReviewResponse `json:"finance_review"`
	RejectedAtStage   string              `json:"rejected_at_stage,omitempty"`
	CorrectionEntryID *string             `json:"correction_entry_id,omitempty"`
}
