package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/adapters/persistence/repositories"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/pkg/logging"
	"workpay-backend/internal/pkg/validator"

	"github.com/shopspring/decimal"
)

// AnalyticsService aggregates a user's tasks and earnings.
// Earnings count completed payments only.
type AnalyticsService struct {
	userRepo    repositories.UserRepository
	taskRepo    repositories.TaskRepository
	paymentRepo repositories.PaymentRepository
	reportRepo  repositories.ReportRepository
	now         func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	userRepo repositories.UserRepository,
	taskRepo repositories.TaskRepository,
	paymentRepo repositories.PaymentRepository,
	reportRepo repositories.ReportRepository,
) *AnalyticsService {
	return &AnalyticsService{
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		paymentRepo: paymentRepo,
		reportRepo:  reportRepo,
		now:         time.Now,
	}
}

// MetricsOutput is the analytics dashboard for one user
type MetricsOutput struct {
	UserID           uint    `json:"user_id"`
	CreditScore      float64 `json:"credit_score"`
	Points           int     `json:"points"`
	TotalTasks       int64   `json:"total_tasks"`
	VerifiedTasks    int64   `json:"verified_tasks"`
	PaidTasks        int64   `json:"paid_tasks"`
	TotalEarnings    float64 `json:"total_earnings"`
	AverageTaskScore float64 `json:"average_task_score"`
	CompletionRate   float64 `json:"completion_rate"`
}

// GenerateReportInput represents a report request
type GenerateReportInput struct {
	UserID     uint   `json:"user_id" validate:"required"`
	ReportType string `json:"report_type" validate:"required,report_type"`
}

// ReportData is the persisted body of a report
type ReportData struct {
	TotalTasks    int64   `json:"total_tasks"`
	VerifiedTasks int64   `json:"verified_tasks"`
	TotalEarnings float64 `json:"total_earnings"`
	AvgTaskScore  float64 `json:"avg_task_score"`
}

// ROIInput represents an ROI calculation request
type ROIInput struct {
	UserID            uint    `json:"user_id" validate:"required"`
	InitialInvestment float64 `json:"initial_investment" validate:"gt=0"`
}

// ROIOutput is the ROI calculation
type ROIOutput struct {
	InitialInvestment float64 `json:"initial_investment"`
	TotalEarnings     float64 `json:"total_earnings"`
	ROIPercentage     float64 `json:"roi_percentage"`
	Profit            float64 `json:"profit"`
	ProjectedMonthly  float64 `json:"projected_monthly"`
}

// Metrics returns the user's task and earnings dashboard
func (s *AnalyticsService) Metrics(ctx context.Context, userID uint) (*MetricsOutput, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}

	stats, err := s.taskRepo.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	earnings, _, err := s.earnings(ctx, userID)
	if err != nil {
		return nil, err
	}

	rate := decimal.Zero
	if stats.Total > 0 {
		rate = decimal.NewFromInt(stats.Verified).
			Div(decimal.NewFromInt(stats.Total)).
			Mul(decimal.NewFromInt(100))
	}

	return &MetricsOutput{
		UserID:           user.ID,
		CreditScore:      user.CreditScore,
		Points:           user.Points,
		TotalTasks:       stats.Total,
		VerifiedTasks:    stats.Verified,
		PaidTasks:        stats.Paid,
		TotalEarnings:    earnings.Round(2).InexactFloat64(),
		AverageTaskScore: decimal.NewFromFloat(stats.AvgScore).Round(4).InexactFloat64(),
		CompletionRate:   rate.Round(2).InexactFloat64(),
	}, nil
}

// GenerateReport snapshots the user's figures into a stored Report
func (s *AnalyticsService) GenerateReport(ctx context.Context, input *GenerateReportInput) (*models.Report, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.Exists(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	stats, err := s.taskRepo.Stats(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	earnings, _, err := s.earnings(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	data, err := toJSON(ReportData{
		TotalTasks:    stats.Total,
		VerifiedTasks: stats.Verified,
		TotalEarnings: earnings.Round(2).InexactFloat64(),
		AvgTaskScore:  decimal.NewFromFloat(stats.AvgScore).Round(4).InexactFloat64(),
	})
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		UserID:     input.UserID,
		Title:      fmt.Sprintf("%s Report - %s", capitalize(input.ReportType), s.now().Format("2006-01-02")),
		ReportType: domain.ReportType(input.ReportType),
		Data:       data,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("store report: %w", err)
	}

	logging.L(ctx).Info("report generated", "report_id", report.ID, "user_id", input.UserID, "type", input.ReportType)
	return report, nil
}

// GetReport returns a stored report
func (s *AnalyticsService) GetReport(ctx context.Context, reportID uint) (*models.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, notFound(err, domain.ErrReportNotFound)
	}
	return report, nil
}

// ROI compares completed earnings against an initial investment. The
// monthly projection divides by the number of whole 30-payment blocks, at
// least one.
func (s *AnalyticsService) ROI(ctx context.Context, input *ROIInput) (*ROIOutput, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.Exists(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	earnings, count, err := s.earnings(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	investment := decimal.NewFromFloat(input.InitialInvestment)
	profit := earnings.Sub(investment)
	roi := profit.Div(investment).Mul(decimal.NewFromInt(100))

	blocks := int64(count / 30)
	if blocks < 1 {
		blocks = 1
	}
	monthly := earnings.Div(decimal.NewFromInt(blocks))

	return &ROIOutput{
		InitialInvestment: investment.InexactFloat64(),
		TotalEarnings:     earnings.Round(2).InexactFloat64(),
		ROIPercentage:     roi.Round(2).InexactFloat64(),
		Profit:            profit.Round(2).InexactFloat64(),
		ProjectedMonthly:  monthly.Round(2).InexactFloat64(),
	}, nil
}

// earnings sums completed payment amounts exactly
func (s *AnalyticsService) earnings(ctx context.Context, userID uint) (decimal.Decimal, int, error) {
	amounts, err := s.paymentRepo.AmountsByStatus(ctx, userID, domain.PaymentCompleted)
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total, len(amounts), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
