package handlers

import (
	"context"

	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/core/services"
	"workpay-backend/internal/pkg/pagination"
	"workpay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// InsightHandler handles AI insight endpoints
type InsightHandler struct {
	insightService *services.InsightService
}

// NewInsightHandler creates a new insight handler
func NewInsightHandler(insightService *services.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// Predict scores the user's likelihood of completing upcoming tasks
// @Summary Predict task completion
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /ai/predict/{user_id} [post]
func (h *InsightHandler) Predict(c *fiber.Ctx) error {
	return h.run(c, "Prediction generated", h.insightService.Predict)
}

// Anomalies scores the user's recent task history for anomalies
// @Summary Detect anomalies
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /ai/anomalies/{user_id} [post]
func (h *InsightHandler) Anomalies(c *fiber.Ctx) error {
	return h.run(c, "Anomaly detection completed", h.insightService.Anomalies)
}

func (h *InsightHandler) run(c *fiber.Ctx, message string, fn func(context.Context, uint) (*services.InsightOutput, error)) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	result, err := fn(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err, "Failed to generate insight")
	}

	return response.Success(c, message, result)
}

// Sentiment scores the submitted conversation
// @Summary Analyze sentiment
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param body body services.SentimentInput true "Messages"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /ai/sentiment/{user_id} [post]
func (h *InsightHandler) Sentiment(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req services.SentimentInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.insightService.Sentiment(c.UserContext(), userID, &req)
	if err != nil {
		return handleError(c, err, "Failed to analyze sentiment")
	}

	return response.Success(c, "Sentiment analyzed", result)
}

// List returns stored insights, optionally filtered by type
// @Summary List insights
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param type query string false "prediction, anomaly or sentiment"
// @Param limit query int false "Max entries" default(20)
// @Success 200 {object} response.Response
// @Router /ai/insights/{user_id} [get]
func (h *InsightHandler) List(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	insightType := domain.InsightType(c.Query("type"))
	switch insightType {
	case "", domain.InsightPrediction, domain.InsightAnomaly, domain.InsightSentiment:
	default:
		return response.BadRequest(c, "Invalid insight type")
	}

	insights, err := h.insightService.List(c.UserContext(), userID, insightType, pagination.GetLimit(c, services.DefaultInsightLimit, services.MaxInsightLimit))
	if err != nil {
		return handleError(c, err, "Failed to list insights")
	}

	return response.Success(c, "Insights retrieved successfully", insights)
}
