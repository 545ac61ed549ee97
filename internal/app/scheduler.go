package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Resyncer перечитывает хранилище целиком
type Resyncer interface {
	Resync(ctx context.Context) error
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	store    Resyncer
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler создаёт планировщик периодической пересинхронизации
func NewScheduler(store Resyncer, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновые задачи. interval <= 0 отключает пересинхронизацию.
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Periodic resync disabled")
		return
	}

	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go s.runResyncTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт их завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	s.wg.Wait()
}

// runResyncTask страхует от пропущенных уведомлений
func (s *Scheduler) runResyncTask(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.resync(ctx)
		case <-s.stopChan:
			s.logger.Info("Resync task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Resync task cancelled")
			return
		}
	}
}

func (s *Scheduler) resync(ctx context.Context) {
	if err := s.store.Resync(ctx); err != nil {
		s.logger.Error("Failed to resync bookings", zap.Error(err))
		return
	}
	s.logger.Debug("Bookings resynced")
}
