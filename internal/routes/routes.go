package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/certtrack/exam-center/internal/audit"
	"github.com/certtrack/exam-center/internal/config"
	"github.com/certtrack/exam-center/internal/handlers"
	infraRepo "github.com/certtrack/exam-center/internal/infra/repository"
	"github.com/certtrack/exam-center/internal/middleware"
	"github.com/certtrack/exam-center/internal/models"
	"github.com/certtrack/exam-center/internal/session"
	ucExam "github.com/certtrack/exam-center/internal/usecase/exam"
	ucFranchise "github.com/certtrack/exam-center/internal/usecase/franchise"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	log *zap.Logger,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	examRepo := infraRepo.NewExamGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	revoked := session.NewRevocationStore(cfg)

	// ======================================================
	// USE CASES — EXAM DATA
	// ======================================================
	addExamRecordsUC := ucExam.NewAddExamRecords(
		examRepo,
		auditDispatcher,
	)

	updateExamRecordUC := ucExam.NewUpdateExamRecord(
		examRepo,
		auditDispatcher,
	)

	deleteExamRecordUC := ucExam.NewDeleteExamRecord(
		examRepo,
		auditDispatcher,
	)

	listExamDataUC := ucExam.NewListExamData(
		examRepo,
	)

	countExamsUC := ucExam.NewCountExams(
		examRepo,
	)

	// ======================================================
	// USE CASES — FRANCHISE ADMINISTRATION
	// ======================================================
	createAdminUC := ucFranchise.NewCreateAdmin(
		examRepo,
		auditDispatcher,
	)

	deleteFranchiseUC := ucFranchise.NewDeleteFranchise(
		examRepo,
		auditDispatcher,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, revoked, log)
	userHandler := handlers.NewUserHandler(db, createAdminUC, auditDispatcher, log)
	franchiseHandler := handlers.NewFranchiseHandler(db, deleteFranchiseUC, auditDispatcher, log)

	examDataHandler := handlers.NewExamDataHandler(
		addExamRecordsUC,
		updateExamRecordUC,
		deleteExamRecordUC,
		listExamDataUC,
		countExamsUC,
		log,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// PUBLIC
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/api/login", authHandler.Login)
	r.GET("/api/durationOptions", examDataHandler.DurationOptions)

	// ======================================================
	// AUTHENTICATED
	// ======================================================
	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware(cfg, revoked))

	anyRole := middleware.RequireRoles(models.RoleSuperadmin, models.RoleAdmin, models.RoleUser)
	adminUp := middleware.RequireRoles(models.RoleSuperadmin, models.RoleAdmin)
	superOnly := middleware.RequireRoles(models.RoleSuperadmin)

	// ------------------------------
	// SESSION
	// ------------------------------
	authed.POST("/api/logout", anyRole, authHandler.Logout)

	// ------------------------------
	// USERS
	// ------------------------------
	authed.POST("/admins", superOnly, userHandler.CreateAdmin)
	authed.POST("/users", adminUp, userHandler.Create)
	authed.PUT("/users/:id", adminUp, userHandler.Update)
	authed.DELETE("/users/:id", adminUp, userHandler.Delete)
	authed.GET("/users", adminUp, userHandler.List)

	// ------------------------------
	// FRANCHISES
	// ------------------------------
	authed.POST("/franchises", adminUp, franchiseHandler.Create)
	authed.PUT("/franchises/:franchiseId", adminUp, franchiseHandler.Update)
	authed.DELETE("/franchises/:franchiseId", adminUp, franchiseHandler.Delete)
	authed.GET("/franchises", adminUp, franchiseHandler.List)
	authed.GET("/franchises/associated", anyRole, franchiseHandler.Associated)

	// ------------------------------
	// EXAM DATA
	// ------------------------------
	authed.POST("/api/franchises/:franchiseId/exam-data", anyRole, examDataHandler.Add)
	authed.PUT("/franchises/:franchiseId/exam-data/:examDataId", anyRole, examDataHandler.Update)
	authed.DELETE("/franchises/:franchiseId/exam-data/:examDataId", anyRole, examDataHandler.Delete)
	authed.GET("/api/exam-data", anyRole, examDataHandler.List)
	authed.GET("/api/exam/count", anyRole, examDataHandler.Count)

	// ------------------------------
	// AUDIT
	// ------------------------------
	authed.GET("/api/audit-logs", adminUp, auditLogsHandler.List)
}
