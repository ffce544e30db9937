package compensation

type ComponentInput struct {
	Name         string `json:"name" binding:"required"`
	Kind         string `json:"kind" binding:"required"`
	AnnualAmount int64  `json:"annual_amount" binding:"required"`
	PctOfBasic   *int64 `json:"pct_of_basic"`
	Taxable      bool   `json:"taxable"`
	DisplayOrder int    `json:"display_order"`
}

type CreateStructureRequest struct {
	EmployeeID    string           `json:"employee_id" binding:"required"`
	AnnualCTC     int64            `json:"annual_ctc" binding:"required"`
	EffectiveFrom string           `json:"effective_from" binding:"required"`
	EffectiveTo   *string          `json:"effective_to"`
	Components    []ComponentInput `json:"components" binding:"required,dive"`
}

type ComponentResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	AnnualAmount int64  `json:"annual_amount"`
	PctOfBasic   *int64 `json:"pct_of_basic,omitempty"`
	Taxable      bool   `json:"taxable"`
	DisplayOrder int    `json:"display_order"`
}

type StructureResponse struct {
	ID            string              `json:"id"`
	OrgID         string              `json:"org_id"`
	EmployeeID    string              `json:"employee_id"`
	AnnualCTC     int64               `json:"annual_ctc"`
	EffectiveFrom string              `json:"effective_from"`
	EffectiveTo   *string             `json:"effective_to,omitempty"`
	Active        bool                `json:"active"`
	Revision      int                 `json:"revision"`
	Components    []ComponentResponse `json:"components"`
}
