package services

import (
	"testing"

	"workpay-backend/internal/adapters/persistence/repositories"
	"workpay-backend/internal/config"
	"workpay-backend/internal/core/scoring"
	"workpay-backend/internal/pkg/testutil"

	"gorm.io/gorm"
)

type harness struct {
	db       *gorm.DB
	gateway  *scoring.Stub
	users    repositories.UserRepository
	tasks    repositories.TaskRepository
	payments repositories.PaymentRepository
	fraud    repositories.FraudLogRepository
	audit    repositories.AuditLogRepository

	auth         *AuthService
	user         *UserService
	task         *TaskService
	payment      *PaymentService
	fraudSvc     *FraudService
	achievement  *AchievementService
	insight      *InsightService
	analytics    *AnalyticsService
	auditSvc     *AuditService
	refreshToken repositories.RefreshTokenRepository
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testutil.NewDB(t)
	h := &harness{
		db:           db,
		gateway:      scoring.NewStub(),
		users:        repositories.NewUserRepository(db),
		tasks:        repositories.NewTaskRepository(db),
		payments:     repositories.NewPaymentRepository(db),
		fraud:        repositories.NewFraudLogRepository(db),
		audit:        repositories.NewAuditLogRepository(db),
		refreshToken: repositories.NewRefreshTokenRepository(db),
	}
	achievements := repositories.NewAchievementRepository(db)
	insights := repositories.NewInsightRepository(db)
	reports := repositories.NewReportRepository(db)

	cfg := &config.Config{
		AppMode: "development",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}

	h.auth = NewAuthService(h.users, h.refreshToken, cfg)
	h.user = NewUserService(db, h.users, h.audit)
	h.task = NewTaskService(db, h.users, h.tasks, h.payments, h.fraud, h.audit, h.gateway)
	h.payment = NewPaymentService(db, h.tasks, h.payments, h.audit)
	h.fraudSvc = NewFraudService(db, h.users, h.payments, h.fraud, h.gateway)
	h.achievement = NewAchievementService(db, h.users, h.tasks, achievements)
	h.insight = NewInsightService(h.users, h.tasks, insights, h.gateway)
	h.analytics = NewAnalyticsService(h.users, h.tasks, h.payments, reports)
	h.auditSvc = NewAuditService(h.users, h.audit)
	return h
}
