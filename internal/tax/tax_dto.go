package tax

type SlabInput struct {
	From      int64 `json:"from" binding:"min=0"`
	To        int64 `json:"to" binding:"min=0"`
	RatePctBp int64 `json:"rate_pct_bp" binding:"min=0"`
}

type CreateRegimeRequest struct {
	Code              string      `json:"code" binding:"required"`
	Name              string      `json:"name" binding:"required"`
	AllowsItemized    bool        `json:"allows_itemized"`
	StandardDeduction int64       `json:"standard_deduction" binding:"min=0"`
	CessPctBp         int64       `json:"cess_pct_bp" binding:"min=0"`
	Slabs             []SlabInput `json:"slabs" binding:"required,min=1,dive"`
}

type RegimeResponse struct {
	ID                string         `json:"id"`
	Code              string         `json:"code"`
	Name              string         `json:"name"`
	AllowsItemized    bool           `json:"allows_itemized"`
	StandardDeduction int64          `json:"standard_deduction"`
	CessPctBp         int64          `json:"cess_pct_bp"`
	Slabs             []SlabResponse `json:"slabs"`
}

type SlabResponse struct {
	From      int64 `json:"from"`
	To        int64 `json:"to"`
	RatePctBp int64 `json:"rate_pct_bp"`
}

type UpsertSettingsRequest struct {
	EmployeeID          string `json:"employee_id" binding:"required"`
	FiscalYear          string `json:"fiscal_year" binding:"required"`
	RegimeCode          string `json:"regime_code" binding:"required"`
	PriorEmployerIncome int64  `json:"prior_employer_income" binding:"min=0"`
	PriorEmployerTax    int64  `json:"prior_employer_tax" binding:"min=0"`
}

type SettingsResponse struct {
	ID                  string `json:"id"`
	EmployeeID          string `json:"employee_id"`
	FiscalYear          string `json:"fiscal_year"`
	RegimeCode          string `json:"regime_code"`
	PriorEmployerIncome int64  `json:"prior_employer_income"`
	PriorEmployerTax    int64  `json:"prior_employer_tax"`
}

type SubmitDeclarationRequest struct {
	EmployeeID     string `json:"employee_id" binding:"required"`
	FiscalYear     string `json:"fiscal_year" binding:"required"`
	Section        string `json:"section" binding:"required"`
	DeclaredAmount int64  `json:"declared_amount" binding:"required,min=1"`
}

type ReviewDeclarationRequest struct {
	ApprovedAmount int64  `json:"approved_amount" binding:"min=0"`
	ReviewNote     string `json:"review_note"`
}

type DeclarationResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	FiscalYear     string  `json:"fiscal_year"`
	Section        string  `json:"section"`
	DeclaredAmount int64   `json:"declared_amount"`
	ApprovedAmount int64   `json:"approved_amount"`
	Status         string  `json:"status"`
	ReviewNote     string  `json:"review_note,omitempty"`
	ReviewedBy     *string `json:"reviewed_by,omitempty"`
	ReviewedAt     *string `json:"reviewed_at,omitempty"`
}
