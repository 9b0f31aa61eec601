package repositories

import (
	"context"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/core/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// taskRepository implements TaskRepository interface
type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) WithTx(tx *gorm.DB) TaskRepository {
	return &taskRepository{db: tx}
}

// Create creates a new task
func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID gets a task by ID with its payment
func (r *taskRepository) GetByID(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Preload("Payment").Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// GetByIDForUpdate gets a task by ID holding a row lock
func (r *taskRepository) GetByIDForUpdate(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByUser lists a user's tasks newest first
func (r *taskRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Task, int64, error) {
	var tasks []*models.Task
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// RecentByUser returns up to limit tasks, newest first
func (r *taskRepository) RecentByUser(ctx context.Context, userID uint, limit int) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

// ApplyVerification writes the score and resulting status
func (r *taskRepository) ApplyVerification(ctx context.Context, id uint, score float64, status domain.VerificationStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"ai_score":            score,
			"verification_status": status,
		}).Error
}

// TransitionVerification moves a task from one verification status to
// another. It reports false when the task was no longer in from.
func (r *taskRepository) TransitionVerification(ctx context.Context, id uint, from, to domain.VerificationStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND verification_status = ?", id, from).
		Update("verification_status", to)
	return res.RowsAffected == 1, res.Error
}

// TransitionPayment moves a task's payment_status guarded on from
func (r *taskRepository) TransitionPayment(ctx context.Context, id uint, from, to domain.TaskPaymentStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND payment_status = ?", id, from).
		Update("payment_status", to)
	return res.RowsAffected == 1, res.Error
}

// CountVerified counts a user's verified tasks
func (r *taskRepository) CountVerified(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("user_id = ? AND verification_status = ?", userID, domain.VerificationVerified).
		Count(&count).Error
	return count, err
}

// CountWithScoreAtLeast counts a user's tasks scored at or above threshold
func (r *taskRepository) CountWithScoreAtLeast(ctx context.Context, userID uint, threshold float64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("user_id = ? AND ai_score >= ?", userID, threshold).
		Count(&count).Error
	return count, err
}

// Stats aggregates a user's tasks in one query
func (r *taskRepository) Stats(ctx context.Context, userID uint) (*TaskStats, error) {
	var stats TaskStats
	err := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN verification_status = ? THEN 1 ELSE 0 END), 0) AS verified,
			COALESCE(SUM(CASE WHEN verification_status = ? THEN 1 ELSE 0 END), 0) AS review_needed,
			COALESCE(SUM(CASE WHEN verification_status = ? THEN 1 ELSE 0 END), 0) AS rejected,
			COALESCE(SUM(CASE WHEN payment_status = ? THEN 1 ELSE 0 END), 0) AS paid,
			COALESCE(AVG(ai_score), 0) AS avg_score`,
			domain.VerificationVerified, domain.VerificationReviewNeeded, domain.VerificationRejected, domain.TaskPaid).
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
