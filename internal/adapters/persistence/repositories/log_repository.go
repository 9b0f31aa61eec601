package repositories

import (
	"context"

	"workpay-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// fraudLogRepository implements FraudLogRepository interface
type fraudLogRepository struct {
	db *gorm.DB
}

// NewFraudLogRepository creates a new fraud log repository
func NewFraudLogRepository(db *gorm.DB) FraudLogRepository {
	return &fraudLogRepository{db: db}
}

func (r *fraudLogRepository) WithTx(tx *gorm.DB) FraudLogRepository {
	return &fraudLogRepository{db: tx}
}

// Create appends a fraud log entry
func (r *fraudLogRepository) Create(ctx context.Context, log *models.FraudLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByUser lists a user's fraud log newest first
func (r *fraudLogRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]*models.FraudLog, error) {
	var logs []*models.FraudLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// CountByUser counts a user's fraud log entries
func (r *fraudLogRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.FraudLog{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// auditLogRepository implements AuditLogRepository interface
type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) WithTx(tx *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: tx}
}

// Create appends an audit entry
func (r *auditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByUser lists a user's audit trail newest first
func (r *auditLogRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]*models.AuditLog, error) {
	var logs []*models.AuditLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
