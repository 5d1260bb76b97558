package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/niyateshaukh/mehfil-backend/config"
	"github.com/niyateshaukh/mehfil-backend/database"
	"github.com/niyateshaukh/mehfil-backend/internal/auditlog"
	"github.com/niyateshaukh/mehfil-backend/internal/auth"
	"github.com/niyateshaukh/mehfil-backend/internal/event"
	"github.com/niyateshaukh/mehfil-backend/internal/notification"
	"github.com/niyateshaukh/mehfil-backend/internal/registration"
	"github.com/niyateshaukh/mehfil-backend/internal/reports"
	"github.com/niyateshaukh/mehfil-backend/internal/scanentry"
	"github.com/niyateshaukh/mehfil-backend/middleware"
	"github.com/niyateshaukh/mehfil-backend/utils"
)

// Setup wires repositories, services and handlers, then mounts every
// route group. Returns the notification service so main can hand it to
// the Kafka consumer loop.
func Setup(r *gin.Engine, cfg *config.Config) notification.Service {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())

	// ========== Audit Log Module ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", middleware.AuthMiddleware(cfg, authSvc), authHandler.Me)
	}

	// ========== Events ==========
	eventRepo := event.NewRepository(database.DB)
	eventSvc := event.NewService(eventRepo, auditSvc, utils.RedisClient)
	eventHandler := event.NewHandler(eventSvc)

	// ========== Registrations ==========
	regRepo := registration.NewRepository(database.DB)
	regSvc := registration.NewService(regRepo, eventRepo, auditSvc, notification.NewKafkaQueue())
	regHandler := registration.NewHandler(regSvc)

	// ========== Scan Entries ==========
	scanRepo := scanentry.NewRepository(database.DB)
	scanSvc := scanentry.NewService(scanRepo, regRepo, eventRepo, auditSvc)
	scanHandler := scanentry.NewHandler(scanSvc)

	// ========== Notifications ==========
	notifSvc := notification.NewService(regRepo, eventRepo, notification.NewEmailSender(cfg))
	notifHandler := notification.NewHandler(notifSvc)

	// ========== Reports ==========
	reportSvc := reports.NewService(regRepo, scanRepo, eventRepo, scanSvc, auditSvc)
	reportHandler := reports.NewHandler(reportSvc)

	// ========== Public Routes ==========
	// The registration form and ticket retrieval page hit these without
	// any auth; rate limiting is the only guard
	api.GET("/events", eventHandler.GetActiveEvent)
	api.POST("/registrations", regHandler.Register)
	api.GET("/registrations", regHandler.Retrieve)
	api.POST("/send-ticket", notifHandler.SendTicket)

	// ========== Protected Routes (admin + scanner) ==========
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))
	{
		protected.GET("/events/:id", eventHandler.GetEvent)

		// Scanner app endpoints
		protected.POST("/scan-entries", scanHandler.RecordScan)
		protected.GET("/scan-entries", scanHandler.ListEntries)
		protected.GET("/scan-entries/not-attended", scanHandler.ListNotAttended)
	}

	// ========== Super Admin Routes ==========
	admin := protected.Group("/")
	admin.Use(middleware.RequireSuperAdmin())
	{
		admin.POST("/events", eventHandler.CreateEvent)
		admin.PATCH("/events/:id", eventHandler.UpdateEvent)
		admin.DELETE("/events/:id", eventHandler.DeleteEvent)

		admin.DELETE("/scan-entries", scanHandler.DeleteEntries)

		admin.GET("/reports/registrations", reportHandler.GetRegistrationsReport)
		admin.GET("/reports/attendance", reportHandler.GetAttendanceReport)
		admin.GET("/reports/not-attended", reportHandler.GetNotAttendedReport)

		admin.GET("/auditlogs", auditHandler.GetAuditLogs)
	}

	return notifSvc
}
