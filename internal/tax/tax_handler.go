package tax

import (
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

func (h *Handler) CreateRegime(c *gin.Context) {
	var req CreateRegimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.CreateRegime(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetRegimes(c *gin.Context) {
	resp, err := h.service.GetRegimes(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpsertSettings(c *gin.Context) {
	var req UpsertSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.UpsertSettings(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetSettings(c *gin.Context) {
	resp, err := h.service.GetSettings(
		c.Request.Context(),
		c.GetString("org_id"),
		c.Param("employeeId"),
		c.Query("fiscal_year"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) SubmitDeclaration(c *gin.Context) {
	var req SubmitDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.SubmitDeclaration(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetDeclarations(c *gin.Context) {
	resp, err := h.service.GetDeclarations(
		c.Request.Context(),
		c.GetString("org_id"),
		c.Param("employeeId"),
		c.Query("fiscal_year"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ApproveDeclaration(c *gin.Context) {
	var req ReviewDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ApproveDeclaration(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RejectDeclaration(c *gin.Context) {
	var req ReviewDeclarationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.RejectDeclaration(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
