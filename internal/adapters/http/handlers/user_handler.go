package handlers

import (
	"workpay-backend/internal/core/services"
	"workpay-backend/internal/pkg/pagination"
	"workpay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user management endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// ListUsers handles listing all users (Admin only)
// @Summary List all users
// @Description Get a paginated list of all users (Admin only)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /users [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	users, total, err := h.userService.ListUsers(c.UserContext(), params.Offset, params.Limit)
	if err != nil {
		return handleError(c, err, "Failed to list users")
	}

	return response.Success(c, "Users retrieved successfully", pagination.NewResponse(users, params, total))
}

// GetUser handles getting a user by ID
// @Summary Get user by ID
// @Description Get a user profile (self or staff)
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return handleError(c, err, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", user)
}

// CreditScore returns a user's credit score
// @Summary Get credit score
// @Description Current credit score of a user (self or staff)
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id}/credit-score [get]
func (h *UserHandler) CreditScore(c *fiber.Ctx) error {
	userID, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	result, err := h.userService.CreditScore(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err, "Failed to get credit score")
	}

	return response.Success(c, "Credit score retrieved successfully", result)
}

// SetupTwoFactor enables 2FA for the caller and returns backup codes once
// @Summary Set up two-factor authentication
// @Description Enable 2FA for the current user and issue 10 backup codes
// @Tags Security
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/2fa/setup [post]
func (h *UserHandler) SetupTwoFactor(c *fiber.Ctx) error {
	result, err := h.userService.SetupTwoFactor(c.UserContext(), actor(c))
	if err != nil {
		return handleError(c, err, "Failed to set up two-factor authentication")
	}

	return response.Success(c, "Two-factor authentication enabled", result)
}

// AssignRole changes another user's role (Admin only)
// @Summary Assign role
// @Description Assign user, manager or admin role to a user (Admin only)
// @Tags Security
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AssignRoleInput true "Role assignment"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /security/rbac/assign-role [post]
func (h *UserHandler) AssignRole(c *fiber.Ctx) error {
	var req services.AssignRoleInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.userService.AssignRole(c.UserContext(), actor(c), &req)
	if err != nil {
		return handleError(c, err, "Failed to assign role")
	}

	return response.Success(c, "Role assigned successfully", user)
}
