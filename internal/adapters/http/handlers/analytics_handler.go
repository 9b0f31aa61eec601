package handlers

import (
	"workpay-backend/internal/adapters/http/middleware"
	"workpay-backend/internal/core/services"
	"workpay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AnalyticsHandler handles metrics, report and ROI endpoints
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Metrics returns the user's task and earnings dashboard
// @Summary User metrics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /analytics/metrics/{user_id} [get]
func (h *AnalyticsHandler) Metrics(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	result, err := h.analyticsService.Metrics(c.UserContext(), userID)
	if err != nil {
		return handleError(c, err, "Failed to get metrics")
	}

	return response.Success(c, "Metrics retrieved successfully", result)
}

// GenerateReport builds and stores a report
// @Summary Generate report
// @Tags Analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.GenerateReportInput true "Report request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /analytics/report/generate [post]
func (h *AnalyticsHandler) GenerateReport(c *fiber.Ctx) error {
	var req services.GenerateReportInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.UserID != 0 && !middleware.CanActFor(c, req.UserID) {
		return response.Forbidden(c, "You can only access your own resources")
	}

	report, err := h.analyticsService.GenerateReport(c.UserContext(), &req)
	if err != nil {
		return handleError(c, err, "Failed to generate report")
	}

	return response.Created(c, "Report generated", report)
}

// GetReport returns a stored report
// @Summary Get report
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param report_id path int true "Report ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /analytics/reports/{report_id} [get]
func (h *AnalyticsHandler) GetReport(c *fiber.Ctx) error {
	reportID, ok := paramID(c, "report_id")
	if !ok {
		return response.BadRequest(c, "Invalid report ID")
	}

	report, err := h.analyticsService.GetReport(c.UserContext(), reportID)
	if err != nil {
		return handleError(c, err, "Failed to get report")
	}
	if !middleware.CanActFor(c, report.UserID) {
		return response.Forbidden(c, "You can only access your own resources")
	}

	return response.Success(c, "Report retrieved successfully", report)
}

// ROI computes return on an initial investment from completed earnings
// @Summary ROI calculator
// @Tags Analytics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ROIInput true "ROI request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /analytics/roi-calculator [post]
func (h *AnalyticsHandler) ROI(c *fiber.Ctx) error {
	var req services.ROIInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.UserID != 0 && !middleware.CanActFor(c, req.UserID) {
		return response.Forbidden(c, "You can only access your own resources")
	}

	result, err := h.analyticsService.ROI(c.UserContext(), &req)
	if err != nil {
		return handleError(c, err, "Failed to calculate ROI")
	}

	return response.Success(c, "ROI calculated", result)
}
