package attendance

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
	attendances := r.Group("/attendances")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.PUT("", middleware.RBACAuthorize(rbacService, "attendance", "create"), handler.Mark)
		attendances.GET("/employees/:employeeId", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetForEmployee)
	}
}
