package models

import (
	"time"

	"workpay-backend/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Accounts
// ============================================================

// User represents users table.
// Owned rows are removed only through the cascade on user delete.
type User struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"size:100;not null" json:"name"`
	Email            string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password         string         `gorm:"size:255;not null" json:"-"`
	WalletID         string         `gorm:"uniqueIndex;size:64;not null" json:"wallet_id"`
	CreditScore      float64        `gorm:"default:500" json:"credit_score"`
	Points           int            `gorm:"default:0;index" json:"points"`
	TwoFactorEnabled bool           `gorm:"default:false" json:"two_factor_enabled"`
	BackupCodes      datatypes.JSON `json:"-"`
	Role             string         `gorm:"size:20;default:'user'" json:"role"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	Tasks         []Task         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Payments      []Payment      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FraudLogs     []FraudLog     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Achievements  []Achievement  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	AuditLogs     []AuditLog     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reports       []Report       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	WalletID         string    `json:"wallet_id"`
	CreditScore      float64   `json:"credit_score"`
	Points           int       `json:"points"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	Role             string    `json:"role"`
	CreatedAt        time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		WalletID:         u.WalletID,
		CreditScore:      u.CreditScore,
		Points:           u.Points,
		TwoFactorEnabled: u.TwoFactorEnabled,
		Role:             u.Role,
		CreatedAt:        u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Task lifecycle & ledger
// ============================================================

// Task represents tasks table
type Task struct {
	ID                 uint                     `gorm:"primaryKey" json:"id"`
	UserID             uint                     `gorm:"not null;index" json:"user_id"`
	Description        string                   `gorm:"type:text;not null" json:"description"`
	Category           string                   `gorm:"size:50;default:'general'" json:"category"`
	AIScore            float64                  `gorm:"column:ai_score;default:0" json:"ai_score"`
	VerificationStatus domain.VerificationStatus `gorm:"size:20;not null;default:'pending';index" json:"verification_status"`
	PaymentStatus      domain.TaskPaymentStatus  `gorm:"size:20;not null;default:'unpaid'" json:"payment_status"`
	Amount             float64                  `gorm:"type:decimal(15,2);not null;default:50" json:"amount"`
	CreatedAt          time.Time                `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt          time.Time                `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User    *User    `gorm:"foreignKey:UserID" json:"-"`
	Payment *Payment `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"payment,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

// Payment represents payments table (1:1 with tasks)
type Payment struct {
	ID        uint                 `gorm:"primaryKey" json:"id"`
	UserID    uint                 `gorm:"not null;index" json:"user_id"`
	TaskID    uint                 `gorm:"not null;uniqueIndex" json:"task_id"`
	Amount    float64              `gorm:"type:decimal(15,2);not null" json:"amount"`
	Method    domain.PaymentMethod `gorm:"size:20;not null;default:'bKash'" json:"method"`
	Status    domain.PaymentStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RiskScore float64              `gorm:"default:0" json:"risk_score"`
	CreatedAt time.Time            `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time            `gorm:"autoUpdateTime" json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"-"`
	Task *Task `gorm:"foreignKey:TaskID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

// ============================================================
// Logs
// ============================================================

// FraudLog represents fraud_logs table. Append-only.
type FraudLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	EventType  string         `gorm:"size:50;not null" json:"event_type"`
	Confidence float64        `gorm:"not null" json:"confidence"`
	Details    datatypes.JSON `json:"details"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (FraudLog) TableName() string {
	return "fraud_logs"
}

// AuditLog represents audit_logs table. Append-only.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Action    string         `gorm:"size:50;not null" json:"action"`
	Resource  string         `gorm:"size:100;not null" json:"resource"`
	Details   datatypes.JSON `json:"details"`
	IPAddress string         `gorm:"size:50" json:"ip_address"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// ============================================================
// Gamification & insights
// ============================================================

// Achievement represents achievements table.
// A badge can be held at most once per user.
type Achievement struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_achievement_user_badge" json:"user_id"`
	BadgeName    string    `gorm:"size:50;not null;uniqueIndex:idx_achievement_user_badge" json:"badge_name"`
	PointsEarned int       `gorm:"default:0" json:"points_earned"`
	UnlockedAt   time.Time `gorm:"autoCreateTime" json:"unlocked_at"`
}

func (Achievement) TableName() string {
	return "achievements"
}

// AIInsight represents ai_insights table. Write-once.
type AIInsight struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	UserID      *uint              `gorm:"index" json:"user_id"`
	InsightType domain.InsightType `gorm:"size:20;not null" json:"insight_type"`
	Data        datatypes.JSON     `gorm:"not null" json:"data"`
	Confidence  float64            `gorm:"default:0.5" json:"confidence"`
	CreatedAt   time.Time          `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AIInsight) TableName() string {
	return "ai_insights"
}

// Report represents reports table
type Report struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	UserID     uint              `gorm:"not null;index" json:"user_id"`
	Title      string            `gorm:"size:200;not null" json:"title"`
	ReportType domain.ReportType `gorm:"size:20;not null" json:"report_type"`
	Data       datatypes.JSON    `gorm:"not null" json:"data"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

func (Report) TableName() string {
	return "reports"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Accounts
		&User{},
		&RefreshToken{},
		// Lifecycle & ledger
		&Task{},
		&Payment{},
		// Logs
		&FraudLog{},
		&AuditLog{},
		// Gamification & insights
		&Achievement{},
		&AIInsight{},
		&Report{},
	)
}
