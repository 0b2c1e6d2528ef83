package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/migrate"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/models"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/repository"
	"github.com/Milan-Bhingradiya/sweet-shop-management-system/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCounters struct {
	before time.Time
	err    error
}

func (s *stubCounters) Next(ctx context.Context, day time.Time) (int, error) { return 0, nil }

func (s *stubCounters) DeleteBefore(ctx context.Context, day time.Time) (int64, error) {
	s.before = day
	return 3, s.err
}

func TestPruneTokenCounters_Cutoff(t *testing.T) {
	stub := &stubCounters{}
	c := NewCleanupService(stub, 30, zap.NewNop())
	c.now = func() time.Time { return time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC) }

	n, err := c.PruneTokenCounters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), stub.before)
}

func TestRunFullCleanup_PropagatesError(t *testing.T) {
	boom := errors.New("db down")
	c := NewCleanupService(&stubCounters{err: boom}, 7, zap.NewNop())
	assert.ErrorIs(t, c.RunFullCleanup(context.Background()), boom)
}

func TestNewScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler(NewCleanupService(&stubCounters{}, 7, zap.NewNop()), "every tuesday", zap.NewNop())
	assert.Error(t, err)

	s, err := NewScheduler(NewCleanupService(&stubCounters{}, 7, zap.NewNop()), "@daily", zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Run(ctx))
}

func TestPruneTokenCounters_Postgres(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	require.NoError(t, migrate.MigrateShopDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()))

	now := time.Now()
	for _, d := range []int{0, 1, 10, 40} {
		day := repository.DayOf(now.AddDate(0, 0, -d))
		require.NoError(t, db.Create(&models.DailyTokenCounter{Day: day, LastToken: 5}).Error)
	}

	c := NewCleanupService(repository.NewTokenCounterRepo(db), 7, zap.NewNop())
	n, err := c.PruneTokenCounters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var left int64
	db.Model(&models.DailyTokenCounter{}).Count(&left)
	assert.Equal(t, int64(2), left)
}
