package attendance

type MarkAttendanceRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Status     string `json:"status" binding:"required"`
	Note       string `json:"note"`
}

type AttendanceResponse struct {
	ID         string `json:"id"`
	OrgID      string `json:"org_id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
	RecordedBy string `json:"recorded_by"`
}
