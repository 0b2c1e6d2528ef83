package cleanup

import (
	"context"
	"time"

	"github.com/Milan-Bhingradiya/sweet-shop-management-system/internal/repository"

	"go.uber.org/zap"
)

type CleanupService struct {
	counters   repository.TokenCounterRepo
	retainDays int
	now        func() time.Time
	log        *zap.Logger
}

func NewCleanupService(counters repository.TokenCounterRepo, retainDays int, log *zap.Logger) *CleanupService {
	if retainDays < 1 {
		retainDays = 1
	}
	return &CleanupService{
		counters:   counters,
		retainDays: retainDays,
		now:        time.Now,
		log:        log,
	}
}

// PruneTokenCounters удаляет счётчики номеров старше retainDays дней.
// Счётчик текущего дня не трогается никогда.
func (c *CleanupService) PruneTokenCounters(ctx context.Context) (int64, error) {
	cutoff := c.now().AddDate(0, 0, -c.retainDays)
	n, err := c.counters.DeleteBefore(ctx, cutoff)
	if err != nil {
		c.log.Error("failed to prune token counters", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		c.log.Info("pruned token counters", zap.Int64("count", n), zap.Time("before", repository.DayOf(cutoff)))
	}
	return n, nil
}

// RunFullCleanup выполняет все задачи очистки
func (c *CleanupService) RunFullCleanup(ctx context.Context) error {
	c.log.Info("starting full cleanup")
	if _, err := c.PruneTokenCounters(ctx); err != nil {
		return err
	}
	c.log.Info("full cleanup completed")
	return nil
}
