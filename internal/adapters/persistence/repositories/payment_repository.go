package repositories

import (
	"context"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) WithTx(tx *gorm.DB) PaymentRepository {
	return &paymentRepository{db: tx}
}

// Create creates a new payment
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// GetByID gets a payment by ID
func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByIDForUpdate gets a payment by ID holding a row lock
func (r *paymentRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByTaskIDForUpdate gets the payment of a task holding a row lock
func (r *paymentRepository) GetByTaskIDForUpdate(ctx context.Context, taskID uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("task_id = ?", taskID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByUser lists a user's payments newest first
func (r *paymentRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Payment, int64, error) {
	var payments []*models.Payment
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Payment{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

// RecentByUser returns up to limit payments, newest first
func (r *paymentRepository) RecentByUser(ctx context.Context, userID uint, limit int) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}

// Transition moves a payment from one status to another, writing any extra
// columns in the same statement. It reports false when the row was no longer
// in from, which is how a lost settle race surfaces.
func (r *paymentRepository) Transition(ctx context.Context, id uint, from, to domain.PaymentStatus, extra map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	return res.RowsAffected == 1, res.Error
}

// SetRiskScore stamps risk on the given payments that are still pending
func (r *paymentRepository) SetRiskScore(ctx context.Context, ids []uint, risk float64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id IN ? AND status = ?", ids, domain.PaymentPending).
		Update("risk_score", risk)
	return res.RowsAffected, res.Error
}

// AmountsByStatus returns the amounts of a user's payments in status
func (r *paymentRepository) AmountsByStatus(ctx context.Context, userID uint, status domain.PaymentStatus) ([]float64, error) {
	var amounts []float64
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("user_id = ? AND status = ?", userID, status).
		Pluck("amount", &amounts).Error
	return amounts, err
}

// CountByUser counts a user's payments
func (r *paymentRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
