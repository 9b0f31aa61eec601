package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")
	t.Setenv("SCORING_PROVIDER", "stub")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "workpay", cfg.Database.DBName)
	assert.Equal(t, "stub", cfg.Scoring.Provider)
	assert.Equal(t, 30*time.Second, cfg.Scoring.Timeout)
	assert.Equal(t, 3, cfg.Scoring.MaxAttempts)
	assert.Equal(t, DefaultTokenCleanupSpec, cfg.Cron.TokenCleanupSpec)
	assert.Equal(t, "@daily", DefaultTokenCleanupSpec)
	assert.Equal(t, "*", cfg.GetAllowedOrigins())
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("APP_MODE", "staging")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProdPrefixes(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("SCORING_PROVIDER", "stub")
	t.Setenv("PROD_DB_NAME", "workpay_live")
	t.Setenv("PROD_JWT_SECRET", "prod-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, "workpay_live", cfg.Database.DBName)
	assert.Equal(t, "prod-secret", cfg.JWT.Secret)
}

func TestLoadScoringConfig(t *testing.T) {
	t.Setenv("SCORING_PROVIDER", "llm")
	t.Setenv("GROQ_API_KEY", "")

	_, err := loadScoringConfig("prod")
	assert.Error(t, err, "prod requires a key for llm scoring")

	cfg, err := loadScoringConfig("dev")
	require.NoError(t, err)
	assert.Equal(t, "stub", cfg.Provider)

	t.Setenv("GROQ_API_KEY", "k")
	cfg, err = loadScoringConfig("prod")
	require.NoError(t, err)
	assert.Equal(t, "llm", cfg.Provider)

	t.Setenv("SCORING_PROVIDER", "oracle")
	_, err = loadScoringConfig("dev")
	assert.Error(t, err)
}
