package services

import (
	"context"
	"fmt"
	"time"

	"workpay-backend/internal/adapters/persistence/repositories"
	"workpay-backend/internal/config"
	"workpay-backend/internal/pkg/logging"

	"github.com/robfig/cron/v3"
)

// CronService runs housekeeping jobs. It never touches tasks or payments.
type CronService struct {
	refreshTokenRepo repositories.RefreshTokenRepository
	cron             *cron.Cron
	spec             string
	timeout          time.Duration
}

// NewCronService creates a cron service; an empty spec falls back to
// config.DefaultTokenCleanupSpec
func NewCronService(refreshTokenRepo repositories.RefreshTokenRepository, spec string) *CronService {
	if spec == "" {
		spec = config.DefaultTokenCleanupSpec
	}
	return &CronService{
		refreshTokenRepo: refreshTokenRepo,
		cron:             cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		spec:             spec,
		timeout:          time.Minute,
	}
}

// Start schedules the jobs and starts the scheduler
func (s *CronService) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.CleanupTokens(ctx); err != nil {
			logging.L(ctx).Error("token cleanup failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("schedule token cleanup %q: %w", s.spec, err)
	}

	s.cron.Start()
	logging.L(context.Background()).Info("cron started", "token_cleanup", s.spec)
	return nil
}

// Stop waits for running jobs to finish
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	logging.L(context.Background()).Info("cron stopped")
}

// CleanupTokens deletes expired refresh tokens
func (s *CronService) CleanupTokens(ctx context.Context) (int64, error) {
	deleted, err := s.refreshTokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		logging.L(ctx).Info("expired refresh tokens deleted", "count", deleted)
	}
	return deleted, nil
}
