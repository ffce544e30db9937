package app

import (
	"database/sql"
	"path/filepath"

	"go-payroll/internal/absence"
	"go-payroll/internal/attendance"
	"go-payroll/internal/compensation"
	"go-payroll/internal/dispute"
	"go-payroll/internal/employee"
	"go-payroll/internal/leave"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"
	"go-payroll/internal/tax"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	compensationRepo := compensation.NewRepository(gormDB)
	disputeRepo := dispute.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	taxRepo := tax.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	attendanceService := attendance.NewService(db, attendanceRepo)
	compensationService := compensation.NewService(db, compensationRepo)
	leaveService := leave.NewService(db, leaveRepo)
	taxService := tax.NewService(db, taxRepo)
	absenceResolver := absence.NewResolver(leaveRepo, attendanceRepo)
	entryLocker := payroll.NewRedisEntryLocker(rdb)
	payrollService := payroll.NewService(
		db, payrollRepo, compensationService, absenceResolver,
		taxService, employeeRepo, outboxRepo, entryLocker,
	)
	disputeService := dispute.NewService(db, disputeRepo, payrollRepo, outboxRepo)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService)
	compensationHandler := compensation.NewHandler(compensationService)
	disputeHandler := dispute.NewHandler(disputeService)
	leaveHandler := leave.NewHandler(leaveService)
	payrollHandler := payroll.NewHandler(payrollService)
	taxHandler := tax.NewHandler(taxService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		compensation.RegisterRoutes(api, compensationHandler, rbacService)
		dispute.RegisterRoutes(api, disputeHandler, rbacService, rdb)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, rdb)
		tax.RegisterRoutes(api, taxHandler, rbacService)
	}

	return nil
}
