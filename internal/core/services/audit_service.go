package services

import (
	"context"
	"fmt"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/adapters/persistence/repositories"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/pkg/pagination"
	"workpay-backend/internal/pkg/validator"
)

const (
	DefaultAuditLimit = 100
	MaxAuditLimit     = 500
)

// AuditService records and lists the append-only audit trail
type AuditService struct {
	userRepo  repositories.UserRepository
	auditRepo repositories.AuditLogRepository
}

// NewAuditService creates a new audit service
func NewAuditService(
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditLogRepository,
) *AuditService {
	return &AuditService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
	}
}

// RecordAuditInput represents an externally reported audit event
type RecordAuditInput struct {
	UserID    uint                   `json:"user_id" validate:"required"`
	Action    string                 `json:"action" validate:"required,max=50"`
	Resource  string                 `json:"resource" validate:"required,max=100"`
	Details   map[string]interface{} `json:"details"`
	IPAddress string                 `json:"ip_address" validate:"max=50"`
}

// Record appends an audit event for an existing user
func (s *AuditService) Record(ctx context.Context, input *RecordAuditInput) (*models.AuditLog, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.Exists(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	entry, err := auditEntry(Actor{UserID: input.UserID, IP: input.IPAddress}, input.Action, input.Resource, input.Details)
	if err != nil {
		return nil, err
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("record audit: %w", err)
	}
	return entry, nil
}

// List returns a user's audit trail newest first
func (s *AuditService) List(ctx context.Context, userID uint, limit int) ([]*models.AuditLog, error) {
	limit = pagination.ClampLimit(limit, DefaultAuditLimit, MaxAuditLimit)
	return s.auditRepo.ListByUser(ctx, userID, limit)
}
