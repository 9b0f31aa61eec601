package services

import (
	"context"
	"sync"
	"testing"

	"workpay-backend/internal/adapters/persistence/models"
	"workpay-backend/internal/core/domain"
	"workpay-backend/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTasks(t *testing.T, h *harness, userID uint, n int, status domain.VerificationStatus, score float64) {
	t.Helper()
	for i := 0; i < n; i++ {
		testutil.CreateTask(t, h.db, userID, status, score)
	}
}

func TestEvaluate_TaskMasterOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "yara")
	seedTasks(t, h, user.ID, 50, domain.VerificationVerified, 0.8)

	out, err := h.achievement.Evaluate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{BadgeTaskMaster}, out.NewAchievements)
	assert.Equal(t, 100, out.TotalPoints)

	seedTasks(t, h, user.ID, 1, domain.VerificationVerified, 0.8)

	out, err = h.achievement.Evaluate(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, out.NewAchievements)
	assert.NotNil(t, out.NewAchievements)
	assert.Equal(t, 100, out.TotalPoints)

	badges, err := h.achievement.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, 100, badges[0].PointsEarned)
}

func TestEvaluate_ConcurrentAwardsOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "noor")
	seedTasks(t, h, user.ID, 50, domain.VerificationVerified, 0.95)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		awarded = map[string]int{}
		errs    []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := h.achievement.Evaluate(ctx, user.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			for _, badge := range out.NewAchievements {
				awarded[badge]++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, map[string]int{BadgeTaskMaster: 1, BadgePerfectScore: 1}, awarded)

	stored, err := h.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, stored.Points)

	badges, err := h.achievement.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, badges, 2)
}

func TestEvaluate_BelowThresholds(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "zane")
	seedTasks(t, h, user.ID, 49, domain.VerificationVerified, 0.8)
	seedTasks(t, h, user.ID, 9, domain.VerificationReviewNeeded, 0.95)

	out, err := h.achievement.Evaluate(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, out.NewAchievements)
	assert.Zero(t, out.TotalPoints)
}

func TestEvaluate_PerfectScoreCountsAnyStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "aziz")
	seedTasks(t, h, user.ID, 5, domain.VerificationVerified, 0.9)
	seedTasks(t, h, user.ID, 5, domain.VerificationReviewNeeded, 0.95)

	out, err := h.achievement.Evaluate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{BadgePerfectScore}, out.NewAchievements)
	assert.Equal(t, 50, out.TotalPoints)
}

func TestEvaluate_LeadershipSeesPointsFromSamePass(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, h.db, "bea")
	require.NoError(t, h.db.Model(&models.User{}).Where("id = ?", user.ID).Update("points", 400).Error)
	seedTasks(t, h, user.ID, 50, domain.VerificationVerified, 0.95)

	out, err := h.achievement.Evaluate(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{BadgeTaskMaster, BadgePerfectScore, BadgeLeadership}, out.NewAchievements)
	assert.Equal(t, 550, out.TotalPoints)

	stored, err := h.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 550, stored.Points)

	out, err = h.achievement.Evaluate(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, out.NewAchievements)
	assert.Equal(t, 550, out.TotalPoints)
}

func TestEvaluate_UnknownUser(t *testing.T) {
	h := newHarness(t)
	_, err := h.achievement.Evaluate(context.Background(), 123)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLeaderboardAndStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	low := testutil.CreateUser(t, h.db, "cato")
	high := testutil.CreateUser(t, h.db, "dina")
	require.NoError(t, h.db.Model(&models.User{}).Where("id = ?", high.ID).Update("points", 300).Error)
	require.NoError(t, h.db.Model(&models.User{}).Where("id = ?", low.ID).Update("points", 20).Error)

	board, err := h.achievement.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, high.ID, board[0].UserID)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 2, board[1].Rank)

	stats, err := h.achievement.Stats(ctx, low.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Rank)
	assert.Equal(t, 20, stats.Points)
	assert.Zero(t, stats.AchievementsCount)

	_, err = h.achievement.Stats(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
