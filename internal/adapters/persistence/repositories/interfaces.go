package repositories

import (
	"context"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Every repository can be rebound to an open transaction with WithTx.
// Inside a db.Transaction callback only the tx-bound copies may be used.

// UserRepository defines user repository interface
type UserRepository interface {
	WithTx(tx *gorm.DB) UserRepository
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	AddPoints(ctx context.Context, id uint, delta int) error
	UpdateRole(ctx context.Context, id uint, role string) error
	SetTwoFactor(ctx context.Context, id uint, enabled bool, backupCodes datatypes.JSON) error
	TopByPoints(ctx context.Context, limit int) ([]*models.User, error)
	CountWithMorePoints(ctx context.Context, points int) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	GetByUserID(ctx context.Context, userID uint) ([]*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
	CountActiveByUserID(ctx context.Context, userID uint) (int64, error)
}

// TaskStats aggregates a user's tasks
type TaskStats struct {
	Total        int64
	Verified     int64
	ReviewNeeded int64
	Rejected     int64
	Paid         int64
	AvgScore     float64
}

// TaskRepository defines task repository interface
type TaskRepository interface {
	WithTx(tx *gorm.DB) TaskRepository
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uint) (*models.Task, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Task, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Task, int64, error)
	RecentByUser(ctx context.Context, userID uint, limit int) ([]*models.Task, error)
	ApplyVerification(ctx context.Context, id uint, score float64, status domain.VerificationStatus) error
	TransitionVerification(ctx context.Context, id uint, from, to domain.VerificationStatus) (bool, error)
	TransitionPayment(ctx context.Context, id uint, from, to domain.TaskPaymentStatus) (bool, error)
	CountVerified(ctx context.Context, userID uint) (int64, error)
	CountWithScoreAtLeast(ctx context.Context, userID uint, threshold float64) (int64, error)
	Stats(ctx context.Context, userID uint) (*TaskStats, error)
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	WithTx(tx *gorm.DB) PaymentRepository
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*models.Payment, error)
	GetByTaskIDForUpdate(ctx context.Context, taskID uint) (*models.Payment, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Payment, int64, error)
	RecentByUser(ctx context.Context, userID uint, limit int) ([]*models.Payment, error)
	Transition(ctx context.Context, id uint, from, to domain.PaymentStatus, extra map[string]interface{}) (bool, error)
	SetRiskScore(ctx context.Context, ids []uint, risk float64) (int64, error)
	AmountsByStatus(ctx context.Context, userID uint, status domain.PaymentStatus) ([]float64, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// FraudLogRepository defines fraud log repository interface. Append-only.
type FraudLogRepository interface {
	WithTx(tx *gorm.DB) FraudLogRepository
	Create(ctx context.Context, log *models.FraudLog) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]*models.FraudLog, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// AuditLogRepository defines audit log repository interface. Append-only.
type AuditLogRepository interface {
	WithTx(tx *gorm.DB) AuditLogRepository
	Create(ctx context.Context, log *models.AuditLog) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]*models.AuditLog, error)
}

// AchievementRepository defines achievement repository interface
type AchievementRepository interface {
	WithTx(tx *gorm.DB) AchievementRepository
	CreateIfAbsent(ctx context.Context, a *models.Achievement) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Achievement, error)
	BadgeSet(ctx context.Context, userID uint) (map[string]bool, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// InsightRepository defines AI insight repository interface. Write-once.
type InsightRepository interface {
	Create(ctx context.Context, insight *models.AIInsight) error
	ListByUser(ctx context.Context, userID uint, insightType domain.InsightType, limit int) ([]*models.AIInsight, error)
}

// ReportRepository defines report repository interface
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]*models.Report, error)
}
