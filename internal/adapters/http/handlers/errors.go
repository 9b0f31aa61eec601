package handlers

import (
	"errors"
	"strconv"

	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/core/services"
	"workpay-backend/internal/pkg/logging"
	"workpay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// handleError maps service errors onto the response envelope. Anything
// unclassified is logged and reported with the fallback message.
func handleError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrScoringUnavailable):
		logging.L(c.UserContext()).Warn("scoring unavailable", "path", c.Path(), "error", err)
		return response.ServiceUnavailable(c, "Scoring service unavailable, retry later")
	case errors.Is(err, services.ErrUserAlreadyExists):
		return response.Conflict(c, "Email already registered")
	case errors.Is(err, services.ErrCannotChangeOwnRole):
		return response.BadRequest(c, "Cannot change your own role")
	default:
		logging.L(c.UserContext()).Error(fallback, "path", c.Path(), "error", err)
		return response.InternalServerError(c, fallback)
	}
}

// paramID parses a positive numeric route parameter
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// actor identifies the caller for audit rows
func actor(c *fiber.Ctx) services.Actor {
	userID, _ := c.Locals("userID").(uint)
	return services.Actor{UserID: userID, IP: c.IP()}
}
