package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/adapters/persistence/repositories"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/core/scoring"
	"workpay-backend/internal/pkg/logging"
	"workpay-backend/internal/pkg/metrics"
	"workpay-backend/internal/pkg/validator"

	"gorm.io/gorm"
)

// TaskService owns the task lifecycle: submission, AI verification and
// manual rejection
type TaskService struct {
	db          *gorm.DB
	userRepo    repositories.UserRepository
	taskRepo    repositories.TaskRepository
	paymentRepo repositories.PaymentRepository
	fraudRepo   repositories.FraudLogRepository
	auditRepo   repositories.AuditLogRepository
	gateway     scoring.Gateway
}

// NewTaskService creates a new task service
func NewTaskService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	taskRepo repositories.TaskRepository,
	paymentRepo repositories.PaymentRepository,
	fraudRepo repositories.FraudLogRepository,
	auditRepo repositories.AuditLogRepository,
	gateway scoring.Gateway,
) *TaskService {
	return &TaskService{
		db:          db,
		userRepo:    userRepo,
		taskRepo:    taskRepo,
		paymentRepo: paymentRepo,
		fraudRepo:   fraudRepo,
		auditRepo:   auditRepo,
		gateway:     gateway,
	}
}

// SubmitTaskInput represents a task submission
type SubmitTaskInput struct {
	UserID      uint     `json:"user_id" validate:"required"`
	Description string   `json:"description" validate:"required,max=5000"`
	Category    string   `json:"category" validate:"max=50"`
	Amount      *float64 `json:"amount" validate:"omitempty,gt=0"`
	Method      string   `json:"method" validate:"omitempty,payment_method"`
}

// SubmitTaskOutput represents a submission result
type SubmitTaskOutput struct {
	TaskID    uint   `json:"task_id"`
	PaymentID uint   `json:"payment_id"`
	Status    string `json:"status"`
}

// VerifyTaskOutput represents a verification result
type VerifyTaskOutput struct {
	TaskID             uint                      `json:"task_id"`
	AIScore            float64                   `json:"ai_score"`
	VerificationResult json.RawMessage           `json:"verification_result"`
	Status             domain.VerificationStatus `json:"status"`
}

// RejectTaskInput represents a manual rejection
type RejectTaskInput struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// Submit creates a pending task and its pending payment atomically
func (s *TaskService) Submit(ctx context.Context, input *SubmitTaskInput) (*SubmitTaskOutput, error) {
	input.Description = strings.TrimSpace(input.Description)
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = domain.DefaultTaskCategory
	}
	amount := domain.DefaultTaskAmount
	if input.Amount != nil {
		amount = *input.Amount
	}
	method := domain.DefaultPaymentMethod
	if input.Method != "" {
		method = domain.PaymentMethod(input.Method)
	}

	var out SubmitTaskOutput
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.userRepo.WithTx(tx).Exists(ctx, input.UserID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrUserNotFound
		}

		task := &models.Task{
			UserID:             input.UserID,
			Description:        input.Description,
			Category:           category,
			VerificationStatus: domain.VerificationPending,
			PaymentStatus:      domain.TaskUnpaid,
			Amount:             amount,
		}
		if err := s.taskRepo.WithTx(tx).Create(ctx, task); err != nil {
			return fmt.Errorf("create task: %w", err)
		}

		payment := &models.Payment{
			UserID: input.UserID,
			TaskID: task.ID,
			Amount: task.Amount,
			Method: method,
			Status: domain.PaymentPending,
		}
		if err := s.paymentRepo.WithTx(tx).Create(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		out = SubmitTaskOutput{TaskID: task.ID, PaymentID: payment.ID, Status: "submitted"}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.L(ctx).Info("task submitted", "task_id", out.TaskID, "user_id", input.UserID, "amount", amount)
	return &out, nil
}

// Verify scores a task's authenticity and applies the resulting status.
// The gateway is called outside any transaction; a failure leaves the task
// untouched.
func (s *TaskService) Verify(ctx context.Context, taskID uint) (*VerifyTaskOutput, error) {
	snapshot, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, notFound(err, domain.ErrTaskNotFound)
	}
	if snapshot.VerificationStatus == domain.VerificationRejected {
		return nil, domain.ErrTaskRejected
	}

	result, err := s.gateway.Score(ctx, scoring.KindTaskAuthenticity, snapshot.Description)
	if err != nil {
		return nil, err
	}
	status := domain.VerificationFromScore(result.Score)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := s.taskRepo.WithTx(tx)

		task, err := tasks.GetByIDForUpdate(ctx, taskID)
		if err != nil {
			return notFound(err, domain.ErrTaskNotFound)
		}
		if !task.VerificationStatus.CanTransitionTo(status) {
			return domain.InvalidTransition("task", task.VerificationStatus, status)
		}

		if err := tasks.ApplyVerification(ctx, taskID, result.Score, status); err != nil {
			return fmt.Errorf("apply verification: %w", err)
		}

		details, err := toJSON(map[string]interface{}{
			"task_id": taskID,
			"status":  status,
			"result":  result.Detail,
		})
		if err != nil {
			return err
		}
		return s.fraudRepo.WithTx(tx).Create(ctx, &models.FraudLog{
			UserID:     task.UserID,
			EventType:  domain.EventTaskVerification,
			Confidence: result.Score,
			Details:    details,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.TaskVerificationsTotal.WithLabelValues(string(status)).Inc()
	logging.L(ctx).Info("task verified", "task_id", taskID, "score", result.Score, "status", status)

	return &VerifyTaskOutput{
		TaskID:             taskID,
		AIScore:            result.Score,
		VerificationResult: result.Detail,
		Status:             status,
	}, nil
}

// Reject closes a task that needs review. Its payment, if still pending,
// fails in the same transaction.
func (s *TaskService) Reject(ctx context.Context, actor Actor, taskID uint, input *RejectTaskInput) (*models.Task, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	var rejected *models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks := s.taskRepo.WithTx(tx)
		payments := s.paymentRepo.WithTx(tx)

		task, err := tasks.GetByIDForUpdate(ctx, taskID)
		if err != nil {
			return notFound(err, domain.ErrTaskNotFound)
		}
		if !task.VerificationStatus.CanTransitionTo(domain.VerificationRejected) {
			return domain.InvalidTransition("task", task.VerificationStatus, domain.VerificationRejected)
		}

		ok, err := tasks.TransitionVerification(ctx, taskID, task.VerificationStatus, domain.VerificationRejected)
		if err != nil {
			return err
		}
		if !ok {
			return domain.InvalidTransition("task", task.VerificationStatus, domain.VerificationRejected)
		}

		payment, err := payments.GetByTaskIDForUpdate(ctx, taskID)
		if err != nil {
			return notFound(err, domain.ErrPaymentNotFound)
		}
		if payment.Status == domain.PaymentPending {
			if _, err := payments.Transition(ctx, payment.ID, domain.PaymentPending, domain.PaymentFailed, nil); err != nil {
				return err
			}
		}

		entry, err := auditEntry(actor, domain.AuditTaskReject, fmt.Sprintf("task:%d", taskID), map[string]interface{}{
			"reason":         input.Reason,
			"from":           task.VerificationStatus,
			"payment_status": payment.Status,
		})
		if err != nil {
			return err
		}
		if err := s.auditRepo.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}

		task.VerificationStatus = domain.VerificationRejected
		rejected = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.L(ctx).Info("task rejected", "task_id", taskID, "actor_id", actor.UserID)
	return rejected, nil
}

// Get returns a task with its payment
func (s *TaskService) Get(ctx context.Context, taskID uint) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, notFound(err, domain.ErrTaskNotFound)
	}
	return task, nil
}

// ListByUser lists a user's tasks newest first
func (s *TaskService) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Task, int64, error) {
	return s.taskRepo.ListByUser(ctx, userID, offset, limit)
}
