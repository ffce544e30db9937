package payroll

import (
	"fmt"
	"net/http"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GenerateRun(c *gin.Context) {
	var req GenerateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.GenerateRun(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetRuns(c *gin.Context) {
	resp, err := h.service.GetRuns(c.Request.Context(), c.GetString("org_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRunById(c *gin.Context) {
	resp, err := h.service.GetRunByID(c.Request.Context(), c.GetString("org_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRunEntries(c *gin.Context) {
	resp, err := h.service.GetRunEntries(c.Request.Context(), c.GetString("org_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetEntryById(c *gin.Context) {
	resp, err := h.service.GetEntryByID(c.Request.Context(), c.GetString("org_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SubmitRun(c *gin.Context) {
	resp, err := h.service.SubmitRun(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ApproveRun(c *gin.Context) {
	resp, err := h.service.ApproveRun(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RejectRun(c *gin.Context) {
	var req RejectRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.RejectRun(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ResubmitRun(c *gin.Context) {
	resp, err := h.service.ResubmitRun(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) LockRun(c *gin.Context) {
	resp, err := h.service.LockRun(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BulkTransitionEntries(c *gin.Context) {
	var req BulkTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.BulkTransitionEntries(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ExportRun(c *gin.Context) {
	orgID := c.GetString("org_id")
	runID := c.Param("id")

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		data, err := h.service.ExportRunXLSX(c.Request.Context(), orgID, runID)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=payroll-register-%s.xlsx", runID))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	case "csv":
		data, err := h.service.ExportRunCSV(c.Request.Context(), orgID, runID)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=payroll-register-%s.csv", runID))
		c.Data(http.StatusOK, "text/csv", data)
	default:
		h.writeServiceError(c, apperror.InvalidField("format"))
	}
}
