package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/niyateshaukh/mehfil-backend/config"
	"github.com/niyateshaukh/mehfil-backend/database"
	"github.com/niyateshaukh/mehfil-backend/internal/auditlog"
	"github.com/niyateshaukh/mehfil-backend/internal/auth"
	"github.com/niyateshaukh/mehfil-backend/internal/event"
	"github.com/niyateshaukh/mehfil-backend/internal/notification"
	"github.com/niyateshaukh/mehfil-backend/internal/registration"
	"github.com/niyateshaukh/mehfil-backend/internal/scanentry"
	"github.com/niyateshaukh/mehfil-backend/routes"
	"github.com/niyateshaukh/mehfil-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis. The active-event cache degrades to straight DB reads
	// without it, so a failure is a warning, not fatal
	if err := utils.InitRedis(cfg); err != nil {
		log.Printf("⚠️ Redis init failed, active event cache disabled: %v", err)
		utils.RedisClient = nil
	}

	// Init Kafka (optional async ticket emails)
	utils.InitializeKafka(cfg)

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auditlog.AuditLog{},
		&auth.Admin{},
		&event.Event{},
		&registration.Registration{},
		&scanentry.ScanEntry{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Seed bootstrap super admin
	if err := auth.SeedSuperAdmin(db); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed super admin: %v", err))
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL, "http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	notifSvc := routes.Setup(router, cfg)

	// Consume ticket-email jobs published by the registration flow
	notification.StartKafkaConsumer(context.Background(), cfg, notifSvc)

	log.Printf("🚀 Mehfil backend listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
