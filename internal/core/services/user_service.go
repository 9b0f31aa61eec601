package services

import (
	"context"
	"errors"
	"fmt"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/adapters/persistence/repositories"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/pkg/logging"
	"workpay-backend/internal/pkg/password"
	"workpay-backend/internal/pkg/validator"

	"gorm.io/gorm"
)

// User service errors
var (
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
)

// UserService handles account reads, role assignment and 2FA setup
type UserService struct {
	db        *gorm.DB
	userRepo  repositories.UserRepository
	auditRepo repositories.AuditLogRepository
}

// NewUserService creates a new user service
func NewUserService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	auditRepo repositories.AuditLogRepository,
) *UserService {
	return &UserService{
		db:        db,
		userRepo:  userRepo,
		auditRepo: auditRepo,
	}
}

// AssignRoleInput represents a role assignment
type AssignRoleInput struct {
	UserID uint   `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,role"`
}

// CreditScoreOutput is the credit score read model
type CreditScoreOutput struct {
	UserID      uint    `json:"user_id"`
	CreditScore float64 `json:"credit_score"`
}

// TwoFactorOutput carries the one-time display of backup codes
type TwoFactorOutput struct {
	Enabled     bool     `json:"enabled"`
	BackupCodes []string `json:"backup_codes"`
}

// ListUsers lists users with pagination
func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]*models.UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*models.UserResponse, len(users))
	for i, user := range users {
		out[i] = user.ToResponse()
	}
	return out, total, nil
}

// GetUserByID gets a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return user.ToResponse(), nil
}

// CreditScore reads a user's credit score
func (s *UserService) CreditScore(ctx context.Context, userID uint) (*CreditScoreOutput, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return &CreditScoreOutput{UserID: user.ID, CreditScore: user.CreditScore}, nil
}

// AssignRole sets a user's role and audits the change under the actor
func (s *UserService) AssignRole(ctx context.Context, actor Actor, input *AssignRoleInput) (*models.UserResponse, error) {
	if err := validator.Struct(input); err != nil {
		return nil, err
	}
	if input.UserID == actor.UserID {
		return nil, ErrCannotChangeOwnRole
	}

	var updated *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)

		user, err := users.GetByIDForUpdate(ctx, input.UserID)
		if err != nil {
			return notFound(err, domain.ErrUserNotFound)
		}
		previous := user.Role

		if err := users.UpdateRole(ctx, user.ID, input.Role); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		user.Role = input.Role

		entry, err := auditEntry(actor, domain.AuditRoleAssign, fmt.Sprintf("user:%d", user.ID),
			map[string]interface{}{"from": previous, "to": input.Role})
		if err != nil {
			return err
		}
		if err := s.auditRepo.WithTx(tx).Create(ctx, entry); err != nil {
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.L(ctx).Info("role assigned", "user_id", updated.ID, "role", updated.Role, "actor_id", actor.UserID)
	return updated.ToResponse(), nil
}

// SetupTwoFactor enables 2FA for the actor and returns fresh backup codes.
// Only hashes are stored; the plain codes are shown once.
func (s *UserService) SetupTwoFactor(ctx context.Context, actor Actor) (*TwoFactorOutput, error) {
	codes, hashes, err := password.GenerateBackupCodes(password.BackupCodeCount)
	if err != nil {
		return nil, fmt.Errorf("generate backup codes: %w", err)
	}
	stored, err := toJSON(hashes)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		if _, err := users.GetByIDForUpdate(ctx, actor.UserID); err != nil {
			return notFound(err, domain.ErrUserNotFound)
		}
		if err := users.SetTwoFactor(ctx, actor.UserID, true, stored); err != nil {
			return err
		}

		entry, err := auditEntry(actor, domain.AuditTwoFactorOn, fmt.Sprintf("user:%d", actor.UserID), nil)
		if err != nil {
			return err
		}
		return s.auditRepo.WithTx(tx).Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	return &TwoFactorOutput{Enabled: true, BackupCodes: codes}, nil
}
