package routes

import (
	"time"

	"workpay-backend/internal/adapters/http/handlers"
	"workpay-backend/internal/adapters/http/middleware"
	"workpay-backend/internal/adapters/persistence/repositories"
	"workpay-backend/internal/config"
	"workpay-backend/internal/core/scoring"
	"workpay-backend/internal/core/services"
	"workpay-backend/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Handlers groups every HTTP handler mounted by Setup
type Handlers struct {
	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Task         *handlers.TaskHandler
	Payment      *handlers.PaymentHandler
	Fraud        *handlers.FraudHandler
	Gamification *handlers.GamificationHandler
	Insight      *handlers.InsightHandler
	Analytics    *handlers.AnalyticsHandler
	Security     *handlers.SecurityHandler
}

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, gateway scoring.Gateway) {
	h := NewHandlers(db, cfg, gateway)

	// Health check & root routes
	app.Get("/", middleware.PublicCache(5*time.Minute), h.Health.Root)
	app.Get("/health", h.Health.HealthCheck)
	app.Get("/metrics", metrics.Handler())

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	setupAPIV1Routes(app.Group("/api/v1"), h, cfg)
}

// NewHandlers wires repositories, services and handlers over one database
func NewHandlers(db *gorm.DB, cfg *config.Config, gateway scoring.Gateway) *Handlers {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	fraudRepo := repositories.NewFraudLogRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)
	achievementRepo := repositories.NewAchievementRepository(db)
	insightRepo := repositories.NewInsightRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(db, userRepo, auditRepo)
	taskService := services.NewTaskService(db, userRepo, taskRepo, paymentRepo, fraudRepo, auditRepo, gateway)
	paymentService := services.NewPaymentService(db, taskRepo, paymentRepo, auditRepo)
	fraudService := services.NewFraudService(db, userRepo, paymentRepo, fraudRepo, gateway)
	achievementService := services.NewAchievementService(db, userRepo, taskRepo, achievementRepo)
	insightService := services.NewInsightService(userRepo, taskRepo, insightRepo, gateway)
	analyticsService := services.NewAnalyticsService(userRepo, taskRepo, paymentRepo, reportRepo)
	auditService := services.NewAuditService(userRepo, auditRepo)

	return &Handlers{
		Health:       handlers.NewHealthHandler(db, cfg),
		Auth:         handlers.NewAuthHandler(authService, cfg),
		User:         handlers.NewUserHandler(userService),
		Task:         handlers.NewTaskHandler(taskService),
		Payment:      handlers.NewPaymentHandler(paymentService),
		Fraud:        handlers.NewFraudHandler(fraudService),
		Gamification: handlers.NewGamificationHandler(achievementService),
		Insight:      handlers.NewInsightHandler(insightService),
		Analytics:    handlers.NewAnalyticsHandler(analyticsService),
		Security:     handlers.NewSecurityHandler(auditService),
	}
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(router fiber.Router, h *Handlers, cfg *config.Config) {
	// API Info
	router.Get("/", middleware.PublicCache(5*time.Minute), h.Health.APIInfo)

	// Auth routes (public + protected)
	setupAuthRoutes(router.Group("/auth", middleware.NoStore()), h, cfg)

	// Everything below requires a valid access token
	auth := middleware.AuthMiddleware(cfg)

	setupUserRoutes(router.Group("/users", auth), h)
	setupTaskRoutes(router.Group("/tasks", auth), h)
	setupPaymentRoutes(router.Group("/payments", auth), h)
	setupFraudRoutes(router.Group("/fraud", auth), h)
	setupGamificationRoutes(router.Group("/gamification", auth), h)
	setupInsightRoutes(router.Group("/ai", auth), h)
	setupAnalyticsRoutes(router.Group("/analytics", auth), h)
	setupSecurityRoutes(router.Group("/security", auth, middleware.NoStore()), h)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, h *Handlers, cfg *config.Config) {
	// Public routes with rate limiting
	router.Post("/register", middleware.AuthRateLimiter(), h.Auth.Register)
	router.Post("/login", middleware.AuthRateLimiter(), h.Auth.Login)
	router.Post("/refresh", h.Auth.RefreshToken)
	router.Post("/logout", h.Auth.Logout)

	// Protected routes
	auth := middleware.AuthMiddleware(cfg)
	router.Get("/me", auth, h.Auth.Me)
	router.Post("/logout-all", auth, h.Auth.LogoutAll)
	router.Post("/2fa/setup", auth, middleware.StrictRateLimiter(), h.User.SetupTwoFactor)
}

// setupUserRoutes configures user profile routes
func setupUserRoutes(router fiber.Router, h *Handlers) {
	router.Get("/", middleware.AdminOnly(), h.User.ListUsers)
	router.Get("/:id", middleware.SelfOrStaff("id"), middleware.PrivateCache(30*time.Second), h.User.GetUser)
	router.Get("/:id/credit-score", middleware.SelfOrStaff("id"), h.User.CreditScore)
}

// setupTaskRoutes configures task lifecycle routes
func setupTaskRoutes(router fiber.Router, h *Handlers) {
	router.Post("/submit", h.Task.Submit)
	router.Post("/verify/:task_id", h.Task.Verify)
	router.Get("/user/:user_id", middleware.SelfOrStaff("user_id"), h.Task.ListByUser)
	router.Get("/:task_id", h.Task.Get)
	router.Post("/:task_id/reject", middleware.StaffOnly(), h.Task.Reject)
}

// setupPaymentRoutes configures payment settlement routes
func setupPaymentRoutes(router fiber.Router, h *Handlers) {
	router.Post("/process", middleware.StaffOnly(), h.Payment.Process)
	router.Get("/user/:user_id", middleware.SelfOrStaff("user_id"), h.Payment.ListByUser)
	router.Post("/:payment_id/fail", middleware.StaffOnly(), h.Payment.Fail)
	router.Post("/:payment_id/refund", middleware.StaffOnly(), h.Payment.Refund)
}

// setupFraudRoutes configures fraud scanning routes
func setupFraudRoutes(router fiber.Router, h *Handlers) {
	router.Post("/detect/:user_id", middleware.SelfOrStaff("user_id"), h.Fraud.Detect)
	router.Get("/logs/:user_id", middleware.SelfOrStaff("user_id"), h.Fraud.Logs)
}

// setupGamificationRoutes configures badge and leaderboard routes
func setupGamificationRoutes(router fiber.Router, h *Handlers) {
	router.Post("/check-achievements/:user_id", middleware.SelfOrStaff("user_id"), h.Gamification.CheckAchievements)
	router.Get("/leaderboard", middleware.PrivateCache(time.Minute), h.Gamification.Leaderboard)
	router.Get("/achievements/:user_id", middleware.SelfOrStaff("user_id"), h.Gamification.Achievements)
	router.Get("/stats/:user_id", middleware.SelfOrStaff("user_id"), h.Gamification.Stats)
}

// setupInsightRoutes configures AI insight routes
func setupInsightRoutes(router fiber.Router, h *Handlers) {
	router.Post("/predict/:user_id", middleware.SelfOrStaff("user_id"), h.Insight.Predict)
	router.Post("/anomalies/:user_id", middleware.SelfOrStaff("user_id"), h.Insight.Anomalies)
	router.Post("/sentiment/:user_id", middleware.SelfOrStaff("user_id"), h.Insight.Sentiment)
	router.Get("/insights/:user_id", middleware.SelfOrStaff("user_id"), h.Insight.List)
}

// setupAnalyticsRoutes configures metrics, report and ROI routes
func setupAnalyticsRoutes(router fiber.Router, h *Handlers) {
	router.Get("/metrics/:user_id", middleware.SelfOrStaff("user_id"), middleware.PrivateCache(30*time.Second), h.Analytics.Metrics)
	router.Post("/report/generate", h.Analytics.GenerateReport)
	router.Get("/reports/:report_id", h.Analytics.GetReport)
	router.Post("/roi-calculator", h.Analytics.ROI)
}

// setupSecurityRoutes configures audit and RBAC routes
func setupSecurityRoutes(router fiber.Router, h *Handlers) {
	router.Post("/audit-log", h.Security.RecordAudit)
	router.Get("/audit-logs/:user_id", middleware.SelfOrStaff("user_id"), h.Security.ListAudit)
	router.Post("/rbac/assign-role", middleware.AdminOnly(), middleware.StrictRateLimiter(), h.User.AssignRole)
}
