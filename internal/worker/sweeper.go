package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Expirer moves overdue open tasks to EXPIRED and reports how many changed.
type Expirer interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type Recorder interface {
	TasksExpired(n int64)
}

// Sweeper periodically expires tasks whose end date has passed.
type Sweeper struct {
	tasks    Expirer
	recorder Recorder
	logger   *zap.Logger
	interval time.Duration
	now      func() time.Time

	wg   sync.WaitGroup
	stop chan struct{}
	once sync.Once
}

func NewSweeper(tasks Expirer, recorder Recorder, logger *zap.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		tasks:    tasks,
		recorder: recorder,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting expiry sweeper", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop is safe to call more than once.
func (s *Sweeper) Stop() {
	s.once.Do(func() {
		s.logger.Info("Stopping expiry sweeper...")
		close(s.stop)
		s.wg.Wait()
		s.logger.Info("Expiry sweeper stopped")
	})
}

func (s *Sweeper) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C: // Очередной проход
			if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("expiry sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep runs one pass.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	n, err := s.tasks.ExpireOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Expired overdue tasks", zap.Int64("count", n))
	}
	s.recorder.TasksExpired(n)
	return n, nil
}
