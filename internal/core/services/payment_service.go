package services

import (
	"context"
	"fmt"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/adapters/persistence/repositories"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/pkg/logging"
	"workpay-backend/internal/pkg/metrics"
	"workpay-backend/internal/pkg/validator"

	"gorm.io/gorm"
)

// PaymentService is the payment ledger: settlement, failure and refund
type PaymentService struct {
	db          *gorm.DB
	taskRepo    repositories.TaskRepository
	paymentRepo repositories.PaymentRepository
	auditRepo   repositories.AuditLogRepository
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	db *gorm.DB,
	taskRepo repositories.TaskRepository,
	paymentRepo repositories.PaymentRepository,
	auditRepo repositories.AuditLogRepository,
) *PaymentService {
	return &PaymentService{
		db:          db,
		taskRepo:    taskRepo,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
	}
}

// SettleInput represents a settlement request
type SettleInput struct {
	TaskID uint   `json:"task_id" validate:"required"`
	Method string `json:"method" validate:"omitempty,payment_method"`
}

// SettleOutput represents a settlement result
type SettleOutput struct {
	PaymentID uint                 `json:"payment_id"`
	Status    domain.PaymentStatus `json:"status"`
	Amount    float64              `json:"amount"`
	Method    domain.PaymentMethod `json:"method"`
}

// PaymentActionInput carries the reason for a manual transition
type PaymentActionInput struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// Settle completes a task's pending payment and marks the task paid in one
// transaction. A concurrent loser observes a non-pending row and fails with
// InvalidState.
func (s *PaymentService) Settle(ctx context.Context, input *SettleInput) (*SettleOutput, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	var out SettleOutput
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := s.paymentRepo.WithTx(tx)

		payment, err := payments.GetByTaskIDForUpdate(ctx, input.TaskID)
		if err != nil {
			return notFound(err, domain.ErrPaymentNotFound)
		}
		if payment.Status != domain.PaymentPending {
			return fmt.Errorf("payment %d is %s: %w", payment.ID, payment.Status, domain.ErrPaymentNotPending)
		}

		method := payment.Method
		extra := map[string]interface{}{}
		if input.Method != "" {
			method = domain.PaymentMethod(input.Method)
			extra["method"] = method
		}

		ok, err := payments.Transition(ctx, payment.ID, domain.PaymentPending, domain.PaymentCompleted, extra)
		if err != nil {
			return fmt.Errorf("complete payment: %w", err)
		}
		if !ok {
			return fmt.Errorf("payment %d: %w", payment.ID, domain.ErrPaymentNotPending)
		}

		ok, err = s.taskRepo.WithTx(tx).TransitionPayment(ctx, payment.TaskID, domain.TaskUnpaid, domain.TaskPaid)
		if err != nil {
			return fmt.Errorf("mark task paid: %w", err)
		}
		if !ok {
			return domain.InvalidTransition("task payment", "non-unpaid", domain.TaskPaid)
		}

		out = SettleOutput{
			PaymentID: payment.ID,
			Status:    domain.PaymentCompleted,
			Amount:    payment.Amount,
			Method:    method,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentTransitionsTotal.WithLabelValues(string(domain.PaymentCompleted)).Inc()
	logging.L(ctx).Info("payment settled", "payment_id", out.PaymentID, "task_id", input.TaskID, "amount", out.Amount)
	return &out, nil
}

// Fail records an external decline of a pending payment
func (s *PaymentService) Fail(ctx context.Context, actor Actor, paymentID uint, input *PaymentActionInput) (*models.Payment, error) {
	return s.transition(ctx, actor, paymentID, input, domain.PaymentPending, domain.PaymentFailed, domain.AuditPaymentFail, "")
}

// Refund reverses a completed payment; the task moves from paid to refunded
func (s *PaymentService) Refund(ctx context.Context, actor Actor, paymentID uint, input *PaymentActionInput) (*models.Payment, error) {
	return s.transition(ctx, actor, paymentID, input, domain.PaymentCompleted, domain.PaymentRefunded, domain.AuditPaymentRefund, domain.TaskRefunded)
}

func (s *PaymentService) transition(
	ctx context.Context,
	actor Actor,
	paymentID uint,
	input *PaymentActionInput,
	from, to domain.PaymentStatus,
	action string,
	taskTo domain.TaskPaymentStatus,
) (*models.Payment, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	var updated *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := s.paymentRepo.WithTx(tx)

		payment, err := payments.GetByIDForUpdate(ctx, paymentID)
		if err != nil {
			return notFound(err, domain.ErrPaymentNotFound)
		}
		if payment.Status != from || !from.CanTransitionTo(to) {
			return domain.InvalidTransition("payment", payment.Status, to)
		}

		ok, err := payments.Transition(ctx, payment.ID, from, to, nil)
		if err != nil {
			return err
		}
		if !ok {
			return domain.InvalidTransition("payment", payment.Status, to)
		}

		if taskTo != "" {
			ok, err := s.taskRepo.WithTx(tx).TransitionPayment(ctx, payment.TaskID, domain.TaskPaid, taskTo)
			if err != nil {
				return err
			}
			if !ok {
				return domain.InvalidTransition("task payment", "non-paid", taskTo)
			}
		}

		entry, err := auditEntry(actor, action, fmt.Sprintf("payment:%d", payment.ID), map[string]interface{}{
			"reason": input.Reason,
			"from":   from,
			"to":     to,
			"amount": payment.Amount,
		})
		if err != nil {
			return err
		}
		if err := s.auditRepo.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}

		payment.Status = to
		updated = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentTransitionsTotal.WithLabelValues(string(to)).Inc()
	logging.L(ctx).Info("payment transitioned", "payment_id", paymentID, "to", to, "actor_id", actor.UserID)
	return updated, nil
}

// ListByUser lists a user's payments newest first
func (s *PaymentService) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]*models.Payment, int64, error) {
	return s.paymentRepo.ListByUser(ctx, userID, offset, limit)
}
