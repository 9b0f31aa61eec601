// Package testutil provides an isolated, migrated database for tests.
package testutil

import (
	"fmt"
	"testing"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database migrated with the
// production models. One connection is allowed, so transactions serialize;
// code inside a transaction must only use the tx handle.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with registration defaults
func CreateUser(t testing.TB, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:        name,
		Email:       fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Password:    "not-a-real-hash",
		WalletID:    "wallet_" + uuid.NewString(),
		CreditScore: domain.DefaultCreditScore,
		Points:      domain.DefaultPoints,
		Role:        string(domain.RoleUser),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// CreateTask inserts a task and its pending payment directly
func CreateTask(t testing.TB, db *gorm.DB, userID uint, status domain.VerificationStatus, score float64) *models.Task {
	t.Helper()
	task := &models.Task{
		UserID:             userID,
		Description:        "seeded task",
		Category:           domain.DefaultTaskCategory,
		AIScore:            score,
		VerificationStatus: status,
		PaymentStatus:      domain.TaskUnpaid,
		Amount:             domain.DefaultTaskAmount,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}
	payment := &models.Payment{
		UserID: userID,
		TaskID: task.ID,
		Amount: task.Amount,
		Method: domain.DefaultPaymentMethod,
		Status: domain.PaymentPending,
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("create payment: %v", err)
	}
	return task
}
