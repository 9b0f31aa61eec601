package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/adapters/persistence/repositories"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/core/scoring"
	"workpay-backend/internal/pkg/logging"
	"workpay-backend/internal/pkg/metrics"
	"workpay-backend/internal/pkg/pagination"

	"gorm.io/gorm"
)

const (
	// FraudScanWindow is how many recent payments a scan looks at
	FraudScanWindow = 20

	DefaultFraudLogLimit = 50
	MaxFraudLogLimit     = 100
)

var emptyList = json.RawMessage("[]")

// FraudService scans a user's recent payments for fraud risk
type FraudService struct {
	db          *gorm.DB
	userRepo    repositories.UserRepository
	paymentRepo repositories.PaymentRepository
	fraudRepo   repositories.FraudLogRepository
	gateway     scoring.Gateway
}

// NewFraudService creates a new fraud service
func NewFraudService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRepository,
	fraudRepo repositories.FraudLogRepository,
	gateway scoring.Gateway,
) *FraudService {
	return &FraudService{
		db:          db,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		fraudRepo:   fraudRepo,
		gateway:     gateway,
	}
}

// FraudScanOutput is the result of a scan
type FraudScanOutput struct {
	UserID    uint            `json:"user_id"`
	FraudRisk float64         `json:"fraud_risk"`
	RedFlags  json.RawMessage `json:"red_flags"`
	Anomalies json.RawMessage `json:"anomalies"`
	Scanned   int             `json:"scanned"`
}

type scanTransaction struct {
	Amount    float64              `json:"amount"`
	Method    domain.PaymentMethod `json:"method"`
	Status    domain.PaymentStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

// Scan scores the user's latest payments. With no payments it returns a zero
// result without calling the gateway or writing a log. Otherwise it appends
// a fraud_scan log and stamps the risk on the scanned payments that are
// still pending.
func (s *FraudService) Scan(ctx context.Context, userID uint) (*FraudScanOutput, error) {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	payments, err := s.paymentRepo.RecentByUser(ctx, userID, FraudScanWindow)
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		metrics.FraudScansTotal.WithLabelValues("empty").Inc()
		return &FraudScanOutput{UserID: userID, RedFlags: emptyList, Anomalies: emptyList}, nil
	}

	txs := make([]scanTransaction, len(payments))
	ids := make([]uint, len(payments))
	for i, p := range payments {
		txs[i] = scanTransaction{Amount: p.Amount, Method: p.Method, Status: p.Status, CreatedAt: p.CreatedAt}
		ids[i] = p.ID
	}
	payload, err := json.Marshal(txs)
	if err != nil {
		return nil, fmt.Errorf("marshal transactions: %w", err)
	}

	result, err := s.gateway.Score(ctx, scoring.KindFraudRisk, string(payload))
	if err != nil {
		return nil, err
	}

	var detail struct {
		RedFlags  json.RawMessage `json:"red_flags"`
		Anomalies json.RawMessage `json:"anomalies"`
	}
	if err := json.Unmarshal(result.Detail, &detail); err != nil {
		return nil, fmt.Errorf("%w: decode fraud detail: %v", domain.ErrScoringUnavailable, err)
	}

	out := &FraudScanOutput{
		UserID:    userID,
		FraudRisk: result.Score,
		RedFlags:  listOrEmpty(detail.RedFlags),
		Anomalies: listOrEmpty(detail.Anomalies),
		Scanned:   len(payments),
	}

	var stamped int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		details, err := toJSON(result.Detail)
		if err != nil {
			return err
		}
		if err := s.fraudRepo.WithTx(tx).Create(ctx, &models.FraudLog{
			UserID:     userID,
			EventType:  domain.EventFraudScan,
			Confidence: result.Score,
			Details:    details,
		}); err != nil {
			return fmt.Errorf("append fraud log: %w", err)
		}

		stamped, err = s.paymentRepo.WithTx(tx).SetRiskScore(ctx, ids, result.Score)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.FraudScansTotal.WithLabelValues("scored").Inc()
	logging.L(ctx).Info("fraud scan", "user_id", userID, "risk", result.Score, "scanned", len(payments), "stamped", stamped)
	return out, nil
}

// Logs returns the user's fraud log newest first
func (s *FraudService) Logs(ctx context.Context, userID uint, limit int) ([]*models.FraudLog, error) {
	limit = pagination.ClampLimit(limit, DefaultFraudLogLimit, MaxFraudLogLimit)
	return s.fraudRepo.ListByUser(ctx, userID, limit)
}

// listOrEmpty keeps raw only when it is a JSON array
func listOrEmpty(raw json.RawMessage) json.RawMessage {
	var probe []json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &probe) != nil {
		return emptyList
	}
	return raw
}
