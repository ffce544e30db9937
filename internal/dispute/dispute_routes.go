package dispute

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	redisClient *redis.Client,
) {
	disputes := r.Group("/disputes")
	disputes.Use(middleware.AuthMiddleware())
	{
		disputes.POST("",
			middleware.RateLimitByActor(0.5, 2),
			middleware.Idempotency(redisClient),
			middleware.RBACAuthorize(rbacService, "dispute", "create"),
			handler.Create,
		)
		disputes.GET("",
			middleware.RateLimitByActor(1, 5),
			middleware.RBACAuthorize(rbacService, "dispute", "read"),
			handler.GetAll,
		)
		disputes.GET("/:id",
			middleware.RateLimitByActor(2, 5),
			middleware.RBACAuthorize(rbacService, "dispute", "read"),
			handler.GetById,
		)

		disputes.POST("/:id/begin-review", middleware.RBACAuthorize(rbacService, "dispute", "review"), handler.BeginReview)
		disputes.POST("/:id/manager/approve", middleware.RBACAuthorize(rbacService, "dispute", "review"), handler.ManagerApprove)
		disputes.POST("/:id/manager/reject", middleware.RBACAuthorize(rbacService, "dispute", "review"), handler.ManagerReject)
		disputes.POST("/:id/hr/approve", middleware.RBACAuthorize(rbacService, "dispute", "review"), handler.HRApprove)
		disputes.POST("/:id/hr/reject", middleware.RBACAuthorize(rbacService, "dispute", "review"), handler.HRReject)
		disputes.POST("/:id/finance/approve",
			middleware.Idempotency(redisClient),
			middleware.RBACAuthorize(rbacService, "dispute", "approve"),
			handler.FinanceApprove,
		)
		disputes.POST("/:id/finance/reject", middleware.RBACAuthorize(rbacService, "dispute", "approve"), handler.FinanceReject)
	}
}
