package handlers

import (
	"workpay-backend/internal/adapters/http/middleware"
	"workpay-backend/internal/core/services"
	"workpay-backend/internal/pkg/pagination"
	"workpay-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TaskHandler handles task submission and verification endpoints
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Submit records a task together with its pending payment
// @Summary Submit task
// @Description Create a pending task and its pending payment (default amount 50.0, method bKash)
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitTaskInput true "Task submission"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /tasks/submit [post]
func (h *TaskHandler) Submit(c *fiber.Ctx) error {
	var req services.SubmitTaskInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.UserID != 0 && !middleware.CanActFor(c, req.UserID) {
		return response.Forbidden(c, "You can only submit tasks for yourself")
	}

	result, err := h.taskService.Submit(c.UserContext(), &req)
	if err != nil {
		return handleError(c, err, "Failed to submit task")
	}

	return response.Created(c, "Task submitted successfully", result)
}

// Verify scores a pending task with the AI gateway
// @Summary Verify task
// @Description Score task authenticity; above 0.7 verifies, otherwise the task goes to review
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param task_id path int true "Task ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /tasks/verify/{task_id} [post]
func (h *TaskHandler) Verify(c *fiber.Ctx) error {
	taskID, ok := paramID(c, "task_id")
	if !ok {
		return response.BadRequest(c, "Invalid task ID")
	}

	task, err := h.taskService.Get(c.UserContext(), taskID)
	if err != nil {
		return handleError(c, err, "Failed to verify task")
	}
	if !middleware.CanActFor(c, task.UserID) {
		return response.Forbidden(c, "You can only verify your own tasks")
	}

	result, err := h.taskService.Verify(c.UserContext(), taskID)
	if err != nil {
		return handleError(c, err, "Failed to verify task")
	}

	return response.Success(c, "Task verified", result)
}

// Reject closes a task held for review (Manager/Admin)
// @Summary Reject task
// @Description Move a review_needed task to rejected and fail its pending payment
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param task_id path int true "Task ID"
// @Param body body services.RejectTaskInput true "Rejection reason"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /tasks/{task_id}/reject [post]
func (h *TaskHandler) Reject(c *fiber.Ctx) error {
	taskID, ok := paramID(c, "task_id")
	if !ok {
		return response.BadRequest(c, "Invalid task ID")
	}

	var req services.RejectTaskInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	task, err := h.taskService.Reject(c.UserContext(), actor(c), taskID, &req)
	if err != nil {
		return handleError(c, err, "Failed to reject task")
	}

	return response.Success(c, "Task rejected", task)
}

// Get returns a single task
// @Summary Get task
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param task_id path int true "Task ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /tasks/{task_id} [get]
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	taskID, ok := paramID(c, "task_id")
	if !ok {
		return response.BadRequest(c, "Invalid task ID")
	}

	task, err := h.taskService.Get(c.UserContext(), taskID)
	if err != nil {
		return handleError(c, err, "Failed to get task")
	}
	if !middleware.CanActFor(c, task.UserID) {
		return response.Forbidden(c, "You can only access your own resources")
	}

	return response.Success(c, "Task retrieved successfully", task)
}

// ListByUser pages through a user's tasks, newest first
// @Summary List user tasks
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param user_id path int true "User ID"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /tasks/user/{user_id} [get]
func (h *TaskHandler) ListByUser(c *fiber.Ctx) error {
	userID, ok := paramID(c, "user_id")
	if !ok {
		return response.BadRequest(c, "Invalid user ID")
	}
	params := pagination.GetParams(c)

	tasks, total, err := h.taskService.ListByUser(c.UserContext(), userID, params.Offset, params.Limit)
	if err != nil {
		return handleError(c, err, "Failed to list tasks")
	}

	return response.Success(c, "Tasks retrieved successfully", pagination.NewResponse(tasks, params, total))
}
