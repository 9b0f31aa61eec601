package handlers

import (
	"workpay-backend/internal/core/services"
	"workpay-backend/internal/pkg/pagination"
	"workpay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FraudHandler handles fraud scanning endpoints
type FraudHandler struct {
	fraudService *services.FraudService
}

// NewFraudHandler creates a new fraud handler
func NewFraudHandler(fraudService *services.FraudService) *FraudHandler {
	return &FraudHandler{fraudService: fraudService}
}

// Detect scans a user's recent payments for fraud risk
// @Summary Detect fraud
// @Description Score the last 20 payments and store the user's risk score
// @Tags Fraud
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /fraud/detect/{user_id} [post]
func (h *FraudHandler) Detect(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	result, err := h.fraudService.Scan(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err, "Failed to run fraud scan")
	}

	return response.Success(c, "Fraud scan completed", result)
}

// Logs lists a user's fraud log entries, newest first
// @Summary List fraud logs
// @Tags Fraud
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param limit query int false "Max entries" default(50)
// @Success 200 {object} response.Response
// @Router /fraud/logs/{user_id} [get]
func (h *FraudHandler) Logs(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	logs, err := h.fraudService.Logs(c.UserContext(), userID, pagination.GetLimit(c, services.DefaultFraudLogLimit, services.MaxFraudLogLimit))
	if err != nil {
		return handleError(c, err, "Failed to list fraud logs")
	}

	return response.Success(c, "Fraud logs retrieved successfully", logs)
}
