package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/restaurant-roulette/internal/domain"
	"github.com/restaurant-roulette/internal/domain/repository"
	"github.com/restaurant-roulette/internal/usecase"
	"github.com/restaurant-roulette/internal/worker"
)

const (
	defaultBatchSize = 20
	emptyQueueSleep  = 200 * time.Millisecond // пауза, если очередь пуста
	errorSleep       = time.Second
)

// SearchStatsWorker переносит события поиска из стрима в счётчики статистики
type SearchStatsWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	statsUC      *usecase.StatsUseCase
	consumerName string
	batchSize    int
}

func NewSearchStatsWorker(
	streamRepo repository.StreamRepository,
	statsUC *usecase.StatsUseCase,
	consumerGroup string,
	batchSize int,
	logger *zap.Logger,
) *SearchStatsWorker {
	hostname, _ := os.Hostname()
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &SearchStatsWorker{
		BaseWorker:   worker.NewBaseWorker("search-stats", consumerGroup, logger),
		streamRepo:   streamRepo,
		statsUC:      statsUC,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		batchSize:    batchSize,
	}
}

// Start создаёт consumer group и обрабатывает пачки до Stop или отмены ctx
func (w *SearchStatsWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SearchStatsWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamRestaurantsSearched, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		if w.IsStopped() {
			logger.Info("Worker stopped")
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		processed, err := w.processBatch(ctx)
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			w.Sleep(ctx, errorSleep)
			continue
		}
		if processed == 0 {
			w.Sleep(ctx, emptyQueueSleep)
		}
	}
}

// processBatch читает пачку событий, учитывает их и подтверждает.
// Возвращает количество прочитанных сообщений.
func (w *SearchStatsWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamRestaurantsSearched,
		w.ConsumerGroup(),
		w.consumerName,
		w.batchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	acked := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			// битое сообщение подтверждаем, чтобы оно не застревало в pending
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			acked = append(acked, msg.ID)
			continue
		}

		if err := w.statsUC.RecordSearch(ctx, event); err != nil {
			// без ack: сообщение останется в pending для повторной обработки
			logger.Error("Failed to record search",
				zap.String("message_id", msg.ID),
				zap.String("event_id", event.ID.String()),
				zap.Error(err))
			continue
		}
		acked = append(acked, msg.ID)
	}

	if len(acked) > 0 {
		if err := w.streamRepo.AckMessages(ctx, domain.StreamRestaurantsSearched, w.ConsumerGroup(), acked); err != nil {
			logger.Error("Failed to ack messages", zap.Error(err))
		}
	}

	logger.Debug("Batch processed",
		zap.Int("read", len(messages)),
		zap.Int("acked", len(acked)))

	return len(messages), nil
}

func parseMessage(msg domain.StreamMessage) (*domain.SearchEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing 'data' field")
	}

	var event domain.SearchEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return &event, nil
}
