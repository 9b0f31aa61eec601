package repositories

import (
	"context"

	"workpay-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// achievementRepository implements AchievementRepository interface
type achievementRepository struct {
	db *gorm.DB
}

// NewAchievementRepository creates a new achievement repository
func NewAchievementRepository(db *gorm.DB) AchievementRepository {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) WithTx(tx *gorm.DB) AchievementRepository {
	return &achievementRepository{db: tx}
}

// CreateIfAbsent inserts a badge unless the user already holds it.
// It reports whether a row was written; the (user_id, badge_name) unique
// index decides, so concurrent evaluations cannot double-grant.
func (r *achievementRepository) CreateIfAbsent(ctx context.Context, a *models.Achievement) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(a)
	return res.RowsAffected == 1, res.Error
}

// ListByUser lists a user's badges in unlock order
func (r *achievementRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Achievement, error) {
	var achievements []*models.Achievement
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Order("id ASC").
		Find(&achievements).Error
	return achievements, err
}

// BadgeSet returns the names of badges a user holds
func (r *achievementRepository) BadgeSet(ctx context.Context, userID uint) (map[string]bool, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.Achievement{}).
		Where("user_id = ?", userID).
		Pluck("badge_name", &names).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set, nil
}

// CountByUser counts a user's badges
func (r *achievementRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Achievement{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
