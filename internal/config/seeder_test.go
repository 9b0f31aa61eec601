package config

import (
	"testing"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_Idempotent(t *testing.T) {
	db := testutil.NewDB(t)
	seeder := NewSeeder(db)

	require.NoError(t, seeder.Run())
	require.NoError(t, seeder.Run())

	var admins []models.User
	require.NoError(t, db.Where("role = ?", "admin").Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, 500.0, admins[0].CreditScore)
	assert.NotEmpty(t, admins[0].WalletID)
}
