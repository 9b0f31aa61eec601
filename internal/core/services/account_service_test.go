package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/config"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/pkg/password"
	"workpay-backend/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginRefresh(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	reg, err := h.auth.Register(ctx, &RegisterInput{Name: "Lina", Email: " Lina@Example.com ", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "lina@example.com", reg.User.Email)
	assert.Equal(t, domain.DefaultCreditScore, reg.User.CreditScore)
	assert.Zero(t, reg.User.Points)
	assert.Equal(t, string(domain.RoleUser), reg.User.Role)
	assert.NotEmpty(t, reg.User.WalletID)

	_, err = h.auth.Register(ctx, &RegisterInput{Name: "Lina", Email: "lina@example.com", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = h.auth.Login(ctx, &LoginInput{Email: "lina@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := h.auth.Login(ctx, &LoginInput{Email: "LINA@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	claims, err := h.auth.ValidateAccessToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)

	rotated, err := h.auth.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	_, err = h.auth.RefreshToken(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	require.NoError(t, h.auth.LogoutAll(ctx, reg.User.ID))
	_, err = h.auth.RefreshToken(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRegister_Validation(t *testing.T) {
	h := newHarness(t)
	_, err := h.auth.Register(context.Background(), &RegisterInput{Name: "M", Email: "not-an-email", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegister_PasswordBounds(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.auth.Register(ctx, &RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.auth.Register(ctx, &RegisterInput{Name: "Ana", Email: "ana@example.com", Password: strings.Repeat("x", password.MaxLength+1)})
	assert.ErrorIs(t, err, domain.ErrValidation)

	exists, err := h.users.ExistsByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLogin_CapsActiveSessions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "kai")

	var issued []*AuthResponse
	for i := 0; i < MaxActiveSessions+1; i++ {
		resp, err := h.auth.issue(ctx, user)
		require.NoError(t, err)
		issued = append(issued, resp)
	}

	active, err := h.refreshToken.CountActiveByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, MaxActiveSessions, active)

	_, err = h.auth.RefreshToken(ctx, issued[0].RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = h.auth.RefreshToken(ctx, issued[len(issued)-1].RefreshToken)
	assert.NoError(t, err)
}

func TestAssignRole(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := testutil.CreateUser(t, h.db, "admin")
	target := testutil.CreateUser(t, h.db, "nia")
	actor := Actor{UserID: admin.ID, IP: "127.0.0.1"}

	updated, err := h.user.AssignRole(ctx, actor, &AssignRoleInput{UserID: target.ID, Role: "manager"})
	require.NoError(t, err)
	assert.Equal(t, "manager", updated.Role)

	entries, err := h.auditSvc.List(ctx, admin.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditRoleAssign, entries[0].Action)

	_, err = h.user.AssignRole(ctx, actor, &AssignRoleInput{UserID: target.ID, Role: "superuser"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.user.AssignRole(ctx, actor, &AssignRoleInput{UserID: admin.ID, Role: "user"})
	assert.ErrorIs(t, err, ErrCannotChangeOwnRole)

	_, err = h.user.AssignRole(ctx, actor, &AssignRoleInput{UserID: 999, Role: "user"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetupTwoFactor_StoresHashesOnly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "odin")

	out, err := h.user.SetupTwoFactor(ctx, Actor{UserID: user.ID})
	require.NoError(t, err)
	assert.True(t, out.Enabled)
	require.Len(t, out.BackupCodes, password.BackupCodeCount)

	stored, err := h.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.TwoFactorEnabled)

	var hashes []string
	require.NoError(t, json.Unmarshal(stored.BackupCodes, &hashes))
	require.Len(t, hashes, password.BackupCodeCount)
	assert.NotContains(t, hashes, out.BackupCodes[0])
	assert.True(t, password.Verify(out.BackupCodes[0], hashes[0]))
}

func TestCreditScore(t *testing.T) {
	h := newHarness(t)
	user := testutil.CreateUser(t, h.db, "pia")

	out, err := h.user.CreditScore(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCreditScore, out.CreditScore)

	_, err = h.user.CreditScore(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuditRecord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "rui")

	entry, err := h.auditSvc.Record(ctx, &RecordAuditInput{
		UserID:    user.ID,
		Action:    "EXPORT",
		Resource:  "report:7",
		Details:   map[string]interface{}{"format": "pdf"},
		IPAddress: "192.168.1.4",
	})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
	assert.JSONEq(t, `{"format":"pdf"}`, string(entry.Details))

	_, err = h.auditSvc.Record(ctx, &RecordAuditInput{UserID: 999, Action: "X", Resource: "y"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.auditSvc.Record(ctx, &RecordAuditInput{UserID: user.ID})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCronCleanupTokens(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "sol")
	require.NoError(t, h.refreshToken.Create(ctx, &models.RefreshToken{
		UserID: user.ID, TokenHash: "expired", ExpiresAt: time.Now().Add(-time.Hour),
	}))
	require.NoError(t, h.refreshToken.Create(ctx, &models.RefreshToken{
		UserID: user.ID, TokenHash: "live", ExpiresAt: time.Now().Add(time.Hour),
	}))

	cron := NewCronService(h.refreshToken, "")
	assert.Equal(t, config.DefaultTokenCleanupSpec, cron.spec)
	deleted, err := cron.CleanupTokens(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	require.NoError(t, cron.Start())
	cron.Stop()

	bad := NewCronService(h.refreshToken, "not a spec")
	assert.Error(t, bad.Start())
}
