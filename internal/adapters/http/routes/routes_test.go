package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"workpay-backend/internal/adapters/http/middleware"
	"workpay-backend/internal/adapters/http/routes"
	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/config"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/core/scoring"
	"workpay-backend/internal/pkg/jwt"
	"workpay-backend/internal/pkg/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Retryable bool            `json:"retryable"`
}

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	gateway *scoring.Stub
	cfg     *config.Config
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Cookie: config.CookieConfig{SameSite: "lax"},
	}
	db := testutil.NewDB(t)
	gateway := scoring.NewStub()

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	app.Use(middleware.RequestID())
	routes.Setup(app, db, cfg, gateway)

	return &testEnv{app: app, db: db, gateway: gateway, cfg: cfg}
}

func (e *testEnv) token(t *testing.T, user *models.User, role domain.Role) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(user.ID, user.Email, string(role), e.cfg.JWT.Secret, 15)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func TestHealth(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-123", resp.Header.Get(middleware.RequestIDHeader))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRegisterLoginMe(t *testing.T) {
	e := newEnv(t)

	status, env := e.do(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name": "Rafi", "email": "Rafi@Example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	var registered struct {
		User struct {
			ID          uint    `json:"id"`
			Email       string  `json:"email"`
			CreditScore float64 `json:"credit_score"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &registered))
	assert.Equal(t, "rafi@example.com", registered.User.Email)
	assert.Equal(t, domain.DefaultCreditScore, registered.User.CreditScore)

	status, _ = e.do(t, http.MethodPost, "/api/v1/auth/register", "", fiber.Map{
		"name": "Rafi", "email": "rafi@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = e.do(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "rafi@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = e.do(t, http.MethodPost, "/api/v1/auth/login", "", fiber.Map{
		"email": "rafi@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, status, env.Error)
	var loggedIn struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &loggedIn))

	status, _ = e.do(t, http.MethodGet, "/api/v1/auth/me", loggedIn.AccessToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = e.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	e := newEnv(t)
	worker := testutil.CreateUser(t, e.db, "worker")
	manager := testutil.CreateUser(t, e.db, "manager")
	workerToken := e.token(t, worker, domain.RoleUser)
	managerToken := e.token(t, manager, domain.RoleManager)

	status, env := e.do(t, http.MethodPost, "/api/v1/tasks/submit", workerToken, fiber.Map{
		"user_id": worker.ID, "description": "Label 200 images",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)
	var submitted struct {
		TaskID    uint   `json:"task_id"`
		PaymentID uint   `json:"payment_id"`
		Status    string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	assert.Equal(t, "submitted", submitted.Status)

	status, env = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/tasks/verify/%d", submitted.TaskID), workerToken, nil)
	require.Equal(t, http.StatusOK, status, env.Error)
	var verified struct {
		AIScore float64 `json:"ai_score"`
		Status  string  `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &verified))
	assert.Equal(t, string(domain.VerificationVerified), verified.Status)

	settle := fiber.Map{"task_id": submitted.TaskID}
	status, _ = e.do(t, http.MethodPost, "/api/v1/payments/process", workerToken, settle)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = e.do(t, http.MethodPost, "/api/v1/payments/process", managerToken, settle)
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = e.do(t, http.MethodPost, "/api/v1/payments/process", managerToken, settle)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, env.Success)

	var task models.Task
	require.NoError(t, e.db.First(&task, submitted.TaskID).Error)
	assert.Equal(t, domain.TaskPaid, task.PaymentStatus)
}

func TestSubmitForAnotherUserIsForbidden(t *testing.T) {
	e := newEnv(t)
	alice := testutil.CreateUser(t, e.db, "alice")
	bob := testutil.CreateUser(t, e.db, "bob")

	status, _ := e.do(t, http.MethodPost, "/api/v1/tasks/submit", e.token(t, alice, domain.RoleUser), fiber.Map{
		"user_id": bob.ID, "description": "not mine",
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestSelfOrStaffGuards(t *testing.T) {
	e := newEnv(t)
	alice := testutil.CreateUser(t, e.db, "alice")
	bob := testutil.CreateUser(t, e.db, "bob")
	admin := testutil.CreateUser(t, e.db, "admin")
	testutil.CreateTask(t, e.db, bob.ID, domain.VerificationPending, 0)

	aliceToken := e.token(t, alice, domain.RoleUser)

	status, _ := e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/tasks/user/%d", bob.ID), aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = e.do(t, http.MethodGet, "/api/v1/tasks/user/abc", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env := e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/tasks/user/%d", bob.ID), e.token(t, admin, domain.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, status, env.Error)

	var page struct {
		Data []models.Task `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Data, 1)
	assert.EqualValues(t, 1, page.Meta.Total)
}

func TestScoringOutageIsRetryable(t *testing.T) {
	e := newEnv(t)
	worker := testutil.CreateUser(t, e.db, "worker")
	task := testutil.CreateTask(t, e.db, worker.ID, domain.VerificationPending, 0)
	e.gateway.Fail(fmt.Errorf("upstream down: %w", domain.ErrScoringUnavailable))

	status, env := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/tasks/verify/%d", task.ID), e.token(t, worker, domain.RoleUser), nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.True(t, env.Retryable)

	var reloaded models.Task
	require.NoError(t, e.db.First(&reloaded, task.ID).Error)
	assert.Equal(t, domain.VerificationPending, reloaded.VerificationStatus)
}

func TestFraudDetectWithoutPayments(t *testing.T) {
	e := newEnv(t)
	worker := testutil.CreateUser(t, e.db, "worker")

	status, env := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/fraud/detect/%d", worker.ID), e.token(t, worker, domain.RoleUser), nil)
	require.Equal(t, http.StatusOK, status, env.Error)

	var scan struct {
		FraudRisk float64  `json:"fraud_risk"`
		RedFlags  []string `json:"red_flags"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &scan))
	assert.Zero(t, scan.FraudRisk)
	assert.Empty(t, scan.RedFlags)
	assert.Zero(t, e.gateway.Calls(scoring.KindFraudRisk))
}

func TestCheckAchievementsNotFound(t *testing.T) {
	e := newEnv(t)
	admin := testutil.CreateUser(t, e.db, "admin")

	status, env := e.do(t, http.MethodPost, "/api/v1/gamification/check-achievements/9999", e.token(t, admin, domain.RoleAdmin), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestAssignRoleRequiresAdmin(t *testing.T) {
	e := newEnv(t)
	manager := testutil.CreateUser(t, e.db, "manager")
	admin := testutil.CreateUser(t, e.db, "admin")
	target := testutil.CreateUser(t, e.db, "target")
	body := fiber.Map{"user_id": target.ID, "role": "manager"}

	status, _ := e.do(t, http.MethodPost, "/api/v1/security/rbac/assign-role", e.token(t, manager, domain.RoleManager), body)
	assert.Equal(t, http.StatusForbidden, status)

	status, env := e.do(t, http.MethodPost, "/api/v1/security/rbac/assign-role", e.token(t, admin, domain.RoleAdmin), body)
	require.Equal(t, http.StatusOK, status, env.Error)

	var reloaded models.User
	require.NoError(t, e.db.First(&reloaded, target.ID).Error)
	assert.Equal(t, string(domain.RoleManager), reloaded.Role)

	status, _ = e.do(t, http.MethodPost, "/api/v1/security/rbac/assign-role", e.token(t, admin, domain.RoleAdmin), fiber.Map{
		"user_id": target.ID, "role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestSecurityResponsesAreNotCached(t *testing.T) {
	e := newEnv(t)
	worker := testutil.CreateUser(t, e.db, "worker")

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/security/audit-logs/%d", worker.ID), nil)
	req.Header.Set("Authorization", "Bearer "+e.token(t, worker, domain.RoleUser))
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "no-store")
}

func TestInfoRoutesArePubliclyCached(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/", "/api/v1/"} {
		resp, err := e.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "public, max-age=300", resp.Header.Get("Cache-Control"), path)
	}
}

func TestLeaderboardHonoursLimit(t *testing.T) {
	e := newEnv(t)
	viewer := testutil.CreateUser(t, e.db, "viewer")
	testutil.CreateUser(t, e.db, "second")
	testutil.CreateUser(t, e.db, "third")

	status, env := e.do(t, http.MethodGet, "/api/v1/gamification/leaderboard?limit=2", e.token(t, viewer, domain.RoleUser), nil)
	require.Equal(t, http.StatusOK, status)

	var entries []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	assert.Len(t, entries, 2)
}
