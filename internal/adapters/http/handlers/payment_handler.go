package handlers

import (
	"context"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/core/services"
	"workpay-backend/internal/pkg/pagination"
	"workpay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment settlement endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Process settles a task's pending payment (Manager/Admin)
// @Summary Process payment
// @Description Complete the pending payment of a task and mark the task paid
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SettleInput true "Settlement request"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/process [post]
func (h *PaymentHandler) Process(c *fiber.Ctx) error {
	var req services.SettleInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.paymentService.Settle(c.UserContext(), &req)
	if err != nil {
		return handleError(c, err, "Failed to process payment")
	}

	return response.Success(c, "Payment processed", result)
}

// Fail marks a pending payment failed (Manager/Admin)
// @Summary Fail payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payment_id path int true "Payment ID"
// @Param body body services.PaymentActionInput true "Reason"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/{payment_id}/fail [post]
func (h *PaymentHandler) Fail(c *fiber.Ctx) error {
	return h.act(c, "Payment marked failed", h.paymentService.Fail)
}

// Refund reverses a completed payment (Manager/Admin)
// @Summary Refund payment
// @Description Move a completed payment to refunded and its task to refunded
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payment_id path int true "Payment ID"
// @Param body body services.PaymentActionInput true "Reason"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/{payment_id}/refund [post]
func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	return h.act(c, "Payment refunded", h.paymentService.Refund)
}

type paymentAction func(ctx context.Context, actor services.Actor, paymentID uint, input *services.PaymentActionInput) (*models.Payment, error)

func (h *PaymentHandler) act(c *fiber.Ctx, message string, fn paymentAction) error {
	paymentID, ok := paramID(c, "payment_id")
	if !ok {
		return response.BadRequest(c, "Invalid payment ID")
	}

	var req services.PaymentActionInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	payment, err := fn(c.UserContext(), actor(c), paymentID, &req)
	if err != nil {
		return handleError(c, err, "Failed to update payment")
	}

	return response.Success(c, message, payment)
}

// ListByUser pages through a user's payments, newest first
// @Summary List user payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /payments/user/{user_id} [get]
func (h *PaymentHandler) ListByUser(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}
	params := pagination.GetParams(c)

	payments, total, err := h.paymentService.ListByUser(c.UserContext(), userID, params.Offset, params.Limit)
	if err != nil {
		return handleError(c, err, "Failed to list payments")
	}

	return response.Success(c, "Payments retrieved successfully", pagination.NewResponse(payments, params, total))
}
