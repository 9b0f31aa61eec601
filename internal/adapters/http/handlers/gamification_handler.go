package handlers

import (
	"workpay-backend/internal/core/services"
	"workpay-backend/internal/pkg/pagination"
	"workpay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// GamificationHandler handles badge and leaderboard endpoints
type GamificationHandler struct {
	achievementService *services.AchievementService
}

// NewGamificationHandler creates a new gamification handler
func NewGamificationHandler(achievementService *services.AchievementService) *GamificationHandler {
	return &GamificationHandler{achievementService: achievementService}
}

// CheckAchievements awards every badge the user newly qualifies for
// @Summary Check achievements
// @Description Evaluate badge rules; badges already held are never re-awarded
// @Tags Gamification
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /gamification/check-achievements/{user_id} [post]
func (h *GamificationHandler) CheckAchievements(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	result, err := h.achievementService.Evaluate(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err, "Failed to check achievements")
	}

	return response.Success(c, "Achievements checked", result)
}

// Leaderboard ranks users by points
// @Summary Leaderboard
// @Tags Gamification
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries" default(50)
// @Success 200 {object} response.Response
// @Router /gamification/leaderboard [get]
func (h *GamificationHandler) Leaderboard(c *fiber.Ctx) error {
	entries, err := h.achievementService.Leaderboard(c.UserContext(), pagination.GetLimit(c, services.DefaultLeaderboardLimit, services.MaxLeaderboardLimit))
	if err != nil {
		return handleError(c, err, "Failed to get leaderboard")
	}

	return response.Success(c, "Leaderboard retrieved successfully", entries)
}

// Achievements lists the badges a user holds
// @Summary List achievements
// @Tags Gamification
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Response
// @Router /gamification/achievements/{user_id} [get]
func (h *GamificationHandler) Achievements(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	achievements, err := h.achievementService.List(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err, "Failed to list achievements")
	}

	return response.Success(c, "Achievements retrieved successfully", achievements)
}

// Stats summarizes a user's points, badges and rank
// @Summary Gamification stats
// @Tags Gamification
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /gamification/stats/{user_id} [get]
func (h *GamificationHandler) Stats(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	stats, err := h.achievementService.Stats(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err, "Failed to get stats")
	}

	return response.Success(c, "Stats retrieved successfully", stats)
}
