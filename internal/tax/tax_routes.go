package tax

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	taxes := r.Group("/tax")
	taxes.Use(middleware.AuthMiddleware())
	{
		taxes.POST("/regimes", middleware.RBACAuthorize(rbacService, "tax_regime", "create"), handler.CreateRegime)
		taxes.GET("/regimes", middleware.RBACAuthorize(rbacService, "tax_regime", "read"), handler.GetRegimes)

		taxes.PUT("/settings", middleware.RBACAuthorize(rbacService, "tax_settings", "create"), handler.UpsertSettings)
		taxes.GET("/settings/employees/:employeeId", middleware.RBACAuthorize(rbacService, "tax_settings", "read"), handler.GetSettings)

		taxes.POST("/declarations", middleware.RBACAuthorize(rbacService, "tax_declaration", "create"), handler.SubmitDeclaration)
		taxes.GET("/declarations/employees/:employeeId", middleware.RBACAuthorize(rbacService, "tax_declaration", "read"), handler.GetDeclarations)
		taxes.POST("/declarations/:id/approve", middleware.RBACAuthorize(rbacService, "tax_declaration", "approve"), handler.ApproveDeclaration)
		taxes.POST("/declarations/:id/reject", middleware.RBACAuthorize(rbacService, "tax_declaration", "approve"), handler.RejectDeclaration)
	}
}
