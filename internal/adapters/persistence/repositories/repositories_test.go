package repositories

import (
	"context"
	"testing"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentTransition_Guarded(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "rina")
	task := testutil.CreateTask(t, db, user.ID, domain.VerificationVerified, 0.8)

	repo := NewPaymentRepository(db)
	payment, err := repo.GetByTaskIDForUpdate(ctx, task.ID)
	require.NoError(t, err)

	ok, err := repo.Transition(ctx, payment.ID, domain.PaymentPending, domain.PaymentCompleted,
		map[string]interface{}{"method": domain.MethodNagad})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Transition(ctx, payment.ID, domain.PaymentPending, domain.PaymentCompleted, nil)
	require.NoError(t, err)
	assert.False(t, ok, "second transition from pending must not apply")

	got, err := repo.GetByID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, got.Status)
	assert.Equal(t, domain.MethodNagad, got.Method)
}

func TestAchievementCreateIfAbsent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "tariq")
	repo := NewAchievementRepository(db)

	created, err := repo.CreateIfAbsent(ctx, &models.Achievement{UserID: user.ID, BadgeName: "Task Master", PointsEarned: 100})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, &models.Achievement{UserID: user.ID, BadgeName: "Task Master", PointsEarned: 100})
	require.NoError(t, err)
	assert.False(t, created)

	set, err := repo.BadgeSet(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"Task Master": true}, set)
}

func TestTaskStats(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "mila")
	other := testutil.CreateUser(t, db, "omar")

	testutil.CreateTask(t, db, user.ID, domain.VerificationVerified, 0.9)
	testutil.CreateTask(t, db, user.ID, domain.VerificationVerified, 0.8)
	testutil.CreateTask(t, db, user.ID, domain.VerificationReviewNeeded, 0.4)
	testutil.CreateTask(t, db, other.ID, domain.VerificationVerified, 1)

	repo := NewTaskRepository(db)
	stats, err := repo.Stats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Verified)
	assert.Equal(t, int64(1), stats.ReviewNeeded)
	assert.InDelta(t, 0.7, stats.AvgScore, 1e-9)

	perfect, err := repo.CountWithScoreAtLeast(ctx, user.ID, domain.PerfectScoreThreshold)
	require.NoError(t, err)
	assert.Equal(t, int64(1), perfect)

	empty, err := repo.Stats(ctx, 9999)
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.Total)
}

func TestUserDeleteRemovesOwnedRows(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "nadia")
	testutil.CreateTask(t, db, user.ID, domain.VerificationPending, 0)
	require.NoError(t, NewFraudLogRepository(db).Create(ctx, &models.FraudLog{UserID: user.ID, EventType: domain.EventFraudScan, Confidence: 0.1}))

	require.NoError(t, NewUserRepository(db).Delete(ctx, user.ID))

	var tasks, payments, logs int64
	db.Model(&models.Task{}).Where("user_id = ?", user.ID).Count(&tasks)
	db.Model(&models.Payment{}).Where("user_id = ?", user.ID).Count(&payments)
	db.Model(&models.FraudLog{}).Where("user_id = ?", user.ID).Count(&logs)
	assert.Zero(t, tasks)
	assert.Zero(t, payments)
	assert.Zero(t, logs)
}

func TestUserRanking(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")
	require.NoError(t, repo.AddPoints(ctx, a.ID, 150))
	require.NoError(t, repo.AddPoints(ctx, b.ID, 50))

	top, err := repo.TopByPoints(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, a.ID, top[0].ID)
	assert.Equal(t, 150, top[0].Points)

	ahead, err := repo.CountWithMorePoints(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1), ahead)
}
