package services

import (
	"context"
	"fmt"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/adapters/persistence/repositories"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/pkg/logging"
	"workpay-backend/internal/pkg/metrics"
	"workpay-backend/internal/pkg/pagination"

	"gorm.io/gorm"
)

const (
	DefaultLeaderboardLimit = 50
	MaxLeaderboardLimit     = 100
)

// Badge names
const (
	BadgeTaskMaster   = "Task Master"
	BadgePerfectScore = "Perfect Score"
	BadgeLeadership   = "Leadership"
)

// progress is what badge rules are judged against
type progress struct {
	Verified int64
	Perfect  int64
	Points   int
}

// BadgeRule awards Points once when Qualifies holds
type BadgeRule struct {
	Name      string
	Points    int
	Qualifies func(p progress) bool
}

// badgeRules are evaluated in order; Leadership sees points already awarded
// earlier in the same pass.
var badgeRules = []BadgeRule{
	{Name: BadgeTaskMaster, Points: 100, Qualifies: func(p progress) bool { return p.Verified >= 50 }},
	{Name: BadgePerfectScore, Points: 50, Qualifies: func(p progress) bool { return p.Perfect >= 10 }},
	{Name: BadgeLeadership, Points: 0, Qualifies: func(p progress) bool { return p.Points >= 500 }},
}

// AchievementService evaluates badges and serves the leaderboard
type AchievementService struct {
	db              *gorm.DB
	userRepo        repositories.UserRepository
	taskRepo        repositories.TaskRepository
	achievementRepo repositories.AchievementRepository
}

// NewAchievementService creates a new achievement service
func NewAchievementService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	taskRepo repositories.TaskRepository,
	achievementRepo repositories.AchievementRepository,
) *AchievementService {
	return &AchievementService{
		db:              db,
		userRepo:        userRepo,
		taskRepo:        taskRepo,
		achievementRepo: achievementRepo,
	}
}

// EvaluateOutput lists badges unlocked by one evaluation
type EvaluateOutput struct {
	NewAchievements []string `json:"new_achievements"`
	TotalPoints     int      `json:"total_points"`
}

// LeaderboardEntry is one ranked user
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	UserID      uint    `json:"user_id"`
	Name        string  `json:"name"`
	Points      int     `json:"points"`
	CreditScore float64 `json:"credit_score"`
}

// StatsOutput summarizes a user's standing
type StatsOutput struct {
	UserID            uint    `json:"user_id"`
	Points            int     `json:"points"`
	CreditScore       float64 `json:"credit_score"`
	AchievementsCount int64   `json:"achievements_count"`
	Rank              int64   `json:"rank"`
}

// Evaluate awards every badge the user newly qualifies for. The user row is
// locked for the whole pass so concurrent evaluations serialize, and the
// unique (user, badge) index backs the at-most-once guarantee.
func (s *AchievementService) Evaluate(ctx context.Context, userID uint) (*EvaluateOutput, error) {
	out := &EvaluateOutput{NewAchievements: []string{}}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		tasks := s.taskRepo.WithTx(tx)
		achievements := s.achievementRepo.WithTx(tx)

		user, err := users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return notFound(err, domain.ErrUserNotFound)
		}

		verified, err := tasks.CountVerified(ctx, userID)
		if err != nil {
			return err
		}
		perfect, err := tasks.CountWithScoreAtLeast(ctx, userID, domain.PerfectScoreThreshold)
		if err != nil {
			return err
		}
		held, err := achievements.BadgeSet(ctx, userID)
		if err != nil {
			return err
		}

		p := progress{Verified: verified, Perfect: perfect, Points: user.Points}
		for _, rule := range badgeRules {
			if held[rule.Name] || !rule.Qualifies(p) {
				continue
			}

			created, err := achievements.CreateIfAbsent(ctx, &models.Achievement{
				UserID:       userID,
				BadgeName:    rule.Name,
				PointsEarned: rule.Points,
			})
			if err != nil {
				return fmt.Errorf("award %s: %w", rule.Name, err)
			}
			if !created {
				continue
			}

			if rule.Points > 0 {
				if err := users.AddPoints(ctx, userID, rule.Points); err != nil {
					return err
				}
				p.Points += rule.Points
			}
			out.NewAchievements = append(out.NewAchievements, rule.Name)
		}

		out.TotalPoints = p.Points
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, badge := range out.NewAchievements {
		metrics.BadgesAwardedTotal.WithLabelValues(badge).Inc()
	}
	if len(out.NewAchievements) > 0 {
		logging.L(ctx).Info("achievements unlocked", "user_id", userID, "badges", out.NewAchievements, "points", out.TotalPoints)
	}
	return out, nil
}

// List returns the user's badges
func (s *AchievementService) List(ctx context.Context, userID uint) ([]*models.Achievement, error) {
	return s.achievementRepo.ListByUser(ctx, userID)
}

// Leaderboard ranks users by points
func (s *AchievementService) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	limit = pagination.ClampLimit(limit, DefaultLeaderboardLimit, MaxLeaderboardLimit)

	users, err := s.userRepo.TopByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Rank:        i + 1,
			UserID:      u.ID,
			Name:        u.Name,
			Points:      u.Points,
			CreditScore: u.CreditScore,
		}
	}
	return entries, nil
}

// Stats returns points, badge count and rank for a user
func (s *AchievementService) Stats(ctx context.Context, userID uint) (*StatsOutput, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}

	count, err := s.achievementRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ahead, err := s.userRepo.CountWithMorePoints(ctx, user.Points)
	if err != nil {
		return nil, err
	}

	return &StatsOutput{
		UserID:            user.ID,
		Points:            user.Points,
		CreditScore:       user.CreditScore,
		AchievementsCount: count,
		Rank:              ahead + 1,
	}, nil
}
