package config

import (
	"fmt"
	"log"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		return fmt.Errorf("admin seeder: %w", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds a default admin user.
// This is for development/testing only; rotate the password after first login.
func (s *Seeder) seedAdminUser() error {
	// Check if admin already exists
	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(getEnv("SEED_ADMIN_PASSWORD", "admin123456"))
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:        "Administrator",
		Email:       getEnv("SEED_ADMIN_EMAIL", "admin@workpay.local"),
		Password:    hashedPassword,
		WalletID:    "wallet_" + uuid.NewString(),
		CreditScore: domain.DefaultCreditScore,
		Points:      domain.DefaultPoints,
		Role:        string(domain.RoleAdmin),
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}
