package memory

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper периодически очищает устаревшие счётчики RateLimitStore
type Sweeper struct {
	store     *RateLimitStore
	maxWindow time.Duration
	cron      *cron.Cron
	logger    *zap.Logger
	now       func() time.Time
}

// NewSweeper создаёт планировщик очистки; записи старше maxWindow удаляются
func NewSweeper(store *RateLimitStore, maxWindow time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		store:     store,
		maxWindow: maxWindow,
		cron:      cron.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// Start запускает очистку по расписанию (cron spec или "@every 1m")
func (s *Sweeper) Start(schedule string) error {
	if schedule == "" {
		schedule = "@every 1m"
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		s.sweep()
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Rate limit sweeper started",
		zap.String("schedule", schedule),
		zap.Duration("max_window", s.maxWindow))

	return nil
}

// Stop останавливает планировщик и ждёт завершения текущей очистки
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Rate limit sweeper stopped")
}

func (s *Sweeper) sweep() int {
	removed := s.store.Sweep(s.now().Add(-s.maxWindow))
	if removed > 0 {
		s.logger.Debug("Rate limit entries swept",
			zap.Int("removed", removed),
			zap.Int("remaining", s.store.Len()))
	}
	return removed
}
