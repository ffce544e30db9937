package payroll

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
	runs := r.Group("/payroll-runs")
	runs.Use(middleware.AuthMiddleware())
	{
		runs.POST("",
			middleware.RateLimitByActor(0.1, 1),
			middleware.Idempotency(redisClient),
			middleware.RBACAuthorize(rbacService, "payroll_run", "create"),
			handler.GenerateRun,
		)
		runs.GET("",
			middleware.RateLimitByActor(1, 5),
			middleware.RBACAuthorize(rbacService, "payroll_run", "read"),
			handler.GetRuns,
		)
		runs.GET("/:id",
			middleware.RateLimitByActor(2, 5),
			middleware.RBACAuthorize(rbacService, "payroll_run", "read"),
			handler.GetRunById,
		)
		runs.GET("/:id/entries",
			middleware.RateLimitByActor(1, 5),
			middleware.RBACAuthorize(rbacService, "payroll_run", "read"),
			handler.GetRunEntries,
		)
		runs.GET("/:id/export",
			middleware.RateLimitByActor(0.5, 2),
			middleware.RBACAuthorize(rbacService, "payroll_run", "read"),
			handler.ExportRun,
		)

		runs.POST("/:id/submit", middleware.RBACAuthorize(rbacService, "payroll_run", "update"), handler.SubmitRun)
		runs.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "payroll_run", "approve"), handler.ApproveRun)
		runs.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "payroll_run", "approve"), handler.RejectRun)
		runs.POST("/:id/resubmit", middleware.RBACAuthorize(rbacService, "payroll_run", "update"), handler.ResubmitRun)
		runs.POST("/:id/lock", middleware.RBACAuthorize(rbacService, "payroll_run", "lock"), handler.LockRun)
	}

	entries := r.Group("/payroll-entries")
	entries.Use(middleware.AuthMiddleware())
	{
		entries.GET("/:id",
			middleware.RateLimitByActor(2, 5),
			middleware.RBACAuthorize(rbacService, "payroll_entry", "read"),
			handler.GetEntryById,
		)
		entries.POST("/bulk-transition",
			middleware.RateLimitByActor(0.5, 1),
			middleware.Idempotency(redisClient),
			middleware.RBACAuthorize(rbacService, "payroll_entry", "approve"),
			handler.BulkTransitionEntries,
		)
	}
}
