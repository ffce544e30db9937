package compensation

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
	structures := r.Group("/compensation-structures")
	structures.Use(middleware.AuthMiddleware())
	{
		structures.GET("",
			middleware.RateLimitByActor(1, 5),
			middleware.RBACAuthorize(rbacService, "compensation", "read"),
			handler.GetAll,
		)
		structures.GET("/:id",
			middleware.RateLimitByActor(2, 5),
			middleware.RBACAuthorize(rbacService, "compensation", "read"),
			handler.GetById,
		)
		structures.POST("",
			middleware.RateLimitByActor(0.1, 1),
			middleware.RBACAuthorize(rbacService, "compensation", "update"),
			handler.Create,
		)
	}
}
