package dispute

import (
	"context"
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

func (h *Handler) Create(c *gin.Context) {
	var req CreateDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context(), c.GetString("org_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("org_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BeginReview(c *gin.Context) {
	resp, err := h.service.BeginReview(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ManagerApprove(c *gin.Context) {
	h.review(c, h.service.ManagerApprove)
}

func (h *Handler) ManagerReject(c *gin.Context) {
	h.review(c, h.service.ManagerReject)
}

func (h *Handler) HRApprove(c *gin.Context) {
	h.review(c, h.service.HRApprove)
}

func (h *Handler) HRReject(c *gin.Context) {
	h.review(c, h.service.HRReject)
}

func (h *Handler) FinanceReject(c *gin.Context) {
	h.review(c, h.service.FinanceReject)
}

func (h *Handler) FinanceApprove(c *gin.Context) {
	var req FinanceApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.FinanceApprove(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) review(c *gin.Context, fn func(ctx context.Context, orgID, actorID, id string, req ReviewDisputeRequest) (DisputeResponse, error)) {
	var req ReviewDisputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := fn(c.Request.Context(), c.GetString("org_id"), c.GetString("actor_id"), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
