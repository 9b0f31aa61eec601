package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/adapters/persistence/repositories"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/core/scoring"
	"workpay-backend/internal/pkg/logging"
	"workpay-backend/internal/pkg/pagination"
	"workpay-backend/internal/pkg/validator"
)

const (
	predictionWindow = 10
	anomalyWindow    = 20

	DefaultInsightLimit = 20
	MaxInsightLimit     = 100
)

// InsightService runs the advisory scoring kinds and stores each reply as a
// write-once AIInsight. Nothing here changes task or payment state.
type InsightService struct {
	userRepo    repositories.UserRepository
	taskRepo    repositories.TaskRepository
	insightRepo repositories.InsightRepository
	gateway     scoring.Gateway
}

// NewInsightService creates a new insight service
func NewInsightService(
	userRepo repositories.UserRepository,
	taskRepo repositories.TaskRepository,
	insightRepo repositories.InsightRepository,
	gateway scoring.Gateway,
) *InsightService {
	return &InsightService{
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		insightRepo: insightRepo,
		gateway:     gateway,
	}
}

// ChatMessage is one line of conversation submitted for sentiment scoring
type ChatMessage struct {
	Sender  string `json:"sender" validate:"max=50"`
	Content string `json:"content" validate:"required,max=2000"`
}

// SentimentInput carries the messages to score
type SentimentInput struct {
	Messages []ChatMessage `json:"messages" validate:"required,min=1,max=50,dive"`
}

// InsightOutput is a stored insight as returned to callers
type InsightOutput struct {
	InsightID uint               `json:"insight_id"`
	Type      domain.InsightType `json:"insight_type"`
	Score     float64            `json:"score"`
	Result    json.RawMessage    `json:"result"`
}

// Predict forecasts completion from the user's last ten tasks
func (s *InsightService) Predict(ctx context.Context, userID uint) (*InsightOutput, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.RecentByUser(ctx, userID, predictionWindow)
	if err != nil {
		return nil, err
	}

	history := make([]map[string]interface{}, 0, len(tasks))
	for i := len(tasks) - 1; i >= 0; i-- {
		history = append(history, map[string]interface{}{
			"status": tasks[i].VerificationStatus,
			"score":  tasks[i].AIScore,
		})
	}
	return s.score(ctx, userID, domain.InsightPrediction, scoring.KindCompletionPrediction, history)
}

// Anomalies scores the chronological timeline of the last twenty tasks
func (s *InsightService) Anomalies(ctx context.Context, userID uint) (*InsightOutput, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.RecentByUser(ctx, userID, anomalyWindow)
	if err != nil {
		return nil, err
	}

	timeline := make([]map[string]interface{}, 0, len(tasks))
	for i := len(tasks) - 1; i >= 0; i-- {
		timeline = append(timeline, map[string]interface{}{
			"created_at": tasks[i].CreatedAt.UTC().Format(time.RFC3339),
			"score":      tasks[i].AIScore,
			"status":     tasks[i].VerificationStatus,
		})
	}
	return s.score(ctx, userID, domain.InsightAnomaly, scoring.KindAnomaly, timeline)
}

// Sentiment scores the morale of the given messages
func (s *InsightService) Sentiment(ctx context.Context, userID uint, input *SentimentInput) (*InsightOutput, error) {
	for i := range input.Messages {
		input.Messages[i].Content = strings.TrimSpace(input.Messages[i].Content)
		if input.Messages[i].Sender == "" {
			input.Messages[i].Sender = "user"
		}
	}
	if err := validator.Struct(input); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.score(ctx, userID, domain.InsightSentiment, scoring.KindSentiment, input.Messages)
}

// List returns stored insights, optionally filtered by type
func (s *InsightService) List(ctx context.Context, userID uint, insightType domain.InsightType, limit int) ([]*models.AIInsight, error) {
	limit = pagination.ClampLimit(limit, DefaultInsightLimit, MaxInsightLimit)
	return s.insightRepo.ListByUser(ctx, userID, insightType, limit)
}

func (s *InsightService) requireUser(ctx context.Context, userID uint) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	return nil
}

// score calls the gateway and stores the reply with the primary score as
// confidence
func (s *InsightService) score(ctx context.Context, userID uint, insightType domain.InsightType, kind scoring.Kind, input interface{}) (*InsightOutput, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", kind, err)
	}

	result, err := s.gateway.Score(ctx, kind, string(payload))
	if err != nil {
		return nil, err
	}

	data, err := toJSON(result.Detail)
	if err != nil {
		return nil, err
	}
	owner := userID
	insight := &models.AIInsight{
		UserID:      &owner,
		InsightType: insightType,
		Data:        data,
		Confidence:  result.Score,
	}
	if err := s.insightRepo.Create(ctx, insight); err != nil {
		return nil, fmt.Errorf("store insight: %w", err)
	}

	logging.L(ctx).Info("insight stored", "user_id", userID, "type", insightType, "score", result.Score)
	return &InsightOutput{
		InsightID: insight.ID,
		Type:      insightType,
		Score:     result.Score,
		Result:    result.Detail,
	}, nil
}
