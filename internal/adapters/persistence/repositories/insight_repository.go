package repositories

import (
	"context"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/core/domain"

	"gorm.io/gorm"
)

// insightRepository implements InsightRepository interface
type insightRepository struct {
	db *gorm.DB
}

// NewInsightRepository creates a new AI insight repository
func NewInsightRepository(db *gorm.DB) InsightRepository {
	return &insightRepository{db: db}
}

// Create stores an insight
func (r *insightRepository) Create(ctx context.Context, insight *models.AIInsight) error {
	return r.db.WithContext(ctx).Create(insight).Error
}

// ListByUser lists a user's insights newest first, optionally of one type
func (r *insightRepository) ListByUser(ctx context.Context, userID uint, insightType domain.InsightType, limit int) ([]*models.AIInsight, error) {
	var insights []*models.AIInsight
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if insightType != "" {
		query = query.Where("insight_type = ?", insightType)
	}
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&insights).Error
	return insights, err
}

// reportRepository implements ReportRepository interface
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create stores a report
func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// GetByID gets a report by ID
func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListByUser lists a user's reports newest first
func (r *reportRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]*models.Report, error) {
	var reports []*models.Report
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&reports).Error
	return reports, err
}
