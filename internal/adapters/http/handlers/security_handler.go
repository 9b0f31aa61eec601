package handlers

import (
	"workpay-backend/internal/adapters/http/middleware"
	"workpay-backend/internal/core/services"
	"workpay-backend/internal/pkg/pagination"
	"workpay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SecurityHandler handles audit log endpoints
type SecurityHandler struct {
	auditService *services.AuditService
}

// NewSecurityHandler creates a new security handler
func NewSecurityHandler(auditService *services.AuditService) *SecurityHandler {
	return &SecurityHandler{auditService: auditService}
}

// RecordAudit appends an audit event
// @Summary Record audit event
// @Tags Security
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.RecordAuditInput true "Audit event"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /security/audit-log [post]
func (h *SecurityHandler) RecordAudit(c *fiber.Ctx) error {
	var req services.RecordAuditInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.UserID != 0 && !middleware.CanActFor(c, req.UserID) {
		return response.Forbidden(c, "You can only access your own resources")
	}
	if req.IPAddress == "" {
		req.IPAddress = c.IP()
	}

	entry, err := h.auditService.Record(c.UserContext(), &req)
	if err != nil {
		return handleError(c, err, "Failed to record audit event")
	}

	return response.Created(c, "Audit event recorded", entry)
}

// ListAudit returns a user's audit trail, newest first
// @Summary List audit logs
// @Tags Security
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param limit query int false "Max entries" default(50)
// @Success 200 {object} response.Response
// @Router /security/audit-logs/{user_id} [get]
func (h *SecurityHandler) ListAudit(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}

	logs, err := h.auditService.List(c.UserContext(), userID, pagination.GetLimit(c, services.DefaultAuditLimit, services.MaxAuditLimit))
	if err != nil {
		return handleError(c, err, "Failed to list audit logs")
	}

	return response.Success(c, "Audit logs retrieved successfully", logs)
}
