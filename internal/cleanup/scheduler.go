package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type Scheduler struct {
	cleanup *CleanupService
	sched   *cron.Cron
	log     *zap.Logger
}

// NewScheduler регистрирует полную очистку по cron-выражению spec
// (например "@daily" или "0 30 3 * * *").
func NewScheduler(cleanup *CleanupService, spec string, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cleanup: cleanup,
		sched:   cron.New(cron.WithLocation(time.Local), cron.WithParser(cronParser)),
		log:     log,
	}
	if _, err := s.sched.AddFunc(spec, s.runJob); err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) runJob() {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("cleanup job panicked", zap.Any("panic", r))
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := s.cleanup.RunFullCleanup(ctx); err != nil {
		s.log.Error("scheduled cleanup failed", zap.Error(err))
	}
}

// Run запускает планировщик и блокируется до отмены ctx,
// после чего ждёт завершения текущего задания.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("starting cleanup scheduler")
	s.sched.Start()
	<-ctx.Done()
	s.log.Info("stopping cleanup scheduler")
	<-s.sched.Stop().Done()
	return nil
}

// RunOnceNow выполняет полную очистку немедленно
func (s *Scheduler) RunOnceNow(ctx context.Context) error {
	return s.cleanup.RunFullCleanup(ctx)
}
