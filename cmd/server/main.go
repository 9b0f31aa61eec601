package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"workpay-backend/internal/adapters/http/middleware"
	"workpay-backend/internal/adapters/http/routes"
	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/adapters/persistence/repositories"
	"workpay-backend/internal/config"
	"workpay-backend/internal/core/scoring"
	"workpay-backend/internal/core/services"
	"workpay-backend/internal/pkg/logging"

	"github.com/gofiber/fiber/v2"

	_ "workpay-backend/docs" // Swagger docs
)

// @title WorkPay API
// @version 1.0
// @description Task verification, payments, fraud scoring and gamification for gig workers.

// @contact.name API Support

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	slog.SetDefault(logging.New(cfg.Log.Level, cfg.Log.Format))

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed bootstrap admin
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Scoring gateway: provider wrapped by retries and metrics
	gateway := scoring.New(scoring.Options{
		Provider: cfg.Scoring.Provider,
		LLM: scoring.LLMConfig{
			BaseURL: cfg.Scoring.BaseURL,
			APIKey:  cfg.Scoring.APIKey,
			Model:   cfg.Scoring.Model,
			Timeout: cfg.Scoring.Timeout,
		},
		MaxAttempts: cfg.Scoring.MaxAttempts,
		BaseDelay:   500 * time.Millisecond,
	})

	// Refresh token housekeeping
	cronService := services.NewCronService(repositories.NewRefreshTokenRepository(db), cfg.Cron.TokenCleanupSpec)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "WorkPay API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db, cfg and gateway for dependency injection)
	routes.Setup(app, db, cfg, gateway)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
