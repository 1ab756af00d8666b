// Package winner выбирает случайный ресторан-победитель с анимацией "рулетки":
// серия промежуточных подсветок с фиксированным интервалом, затем итоговый выбор.
package winner

import (
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/restaurant-roulette/internal/domain"
)

const (
	DefaultTickInterval = 85 * time.Millisecond
	DefaultDuration     = 2900 * time.Millisecond
)

// Picker возвращает индекс в [0, n); n всегда > 0
type Picker func(n int) int

// NewPicker - равномерный генератор на math/rand/v2, безопасен для конкурентного использования
func NewPicker() Picker {
	return rand.IntN
}

// PickRandom выбирает элемент пула равномерно. false только для пустого пула.
func PickRandom(pool []domain.RestaurantCard, pick Picker) (domain.RestaurantCard, bool) {
	if len(pool) == 0 {
		return domain.RestaurantCard{}, false
	}
	return pool[pick(len(pool))], true
}

// Config - тайминги выбора
type Config struct {
	TickInterval time.Duration
	Duration     time.Duration
}

func DefaultConfig() Config {
	return Config{
		TickInterval: DefaultTickInterval,
		Duration:     DefaultDuration,
	}
}

// Selection - выполняющийся выбор победителя.
// Cancel останавливает и тик, и дедлайн; после отмены onCommit не вызывается.
type Selection struct {
	cancel     chan struct{}
	cancelOnce sync.Once
	done       chan struct{}
}

// Start снимает копию пула и запускает выбор в отдельной горутине.
// onTick вызывается на каждом тике, onCommit один раз по истечении Duration.
// Пустой пул: nil, ничего не запускается.
func Start(
	pool []domain.RestaurantCard,
	cfg Config,
	pick Picker,
	onTick func(domain.RestaurantCard),
	onCommit func(domain.RestaurantCard),
) *Selection {
	if len(pool) == 0 {
		return nil
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.Duration <= 0 {
		cfg.Duration = DefaultDuration
	}
	if pick == nil {
		pick = NewPicker()
	}

	s := &Selection{
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.run(slices.Clone(pool), cfg, pick, onTick, onCommit)
	return s
}

func (s *Selection) run(
	pool []domain.RestaurantCard,
	cfg Config,
	pick Picker,
	onTick func(domain.RestaurantCard),
	onCommit func(domain.RestaurantCard),
) {
	defer close(s.done)

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(cfg.Duration)
	defer deadline.Stop()

	for {
		select {
		case <-s.cancel:
			return
		case <-ticker.C:
			if s.cancelled() {
				return
			}
			if candidate, ok := PickRandom(pool, pick); ok && onTick != nil {
				onTick(candidate)
			}
		case <-deadline.C:
			ticker.Stop()
			if s.cancelled() {
				return
			}
			if final, ok := PickRandom(pool, pick); ok && onCommit != nil {
				onCommit(final)
			}
			return
		}
	}
}

func (s *Selection) cancelled() bool {
	select {
	case <-s.cancel:
		return true
	default:
		return false
	}
}

// Cancel не блокируется и безопасна для повторного вызова.
// Колбэк, уже начавший выполняться, досрочно не прерывается; дождаться выхода можно через Wait.
func (s *Selection) Cancel() {
	if s == nil {
		return
	}
	s.cancelOnce.Do(func() {
		close(s.cancel)
	})
}

// Done закрывается, когда горутина выбора завершилась (коммит или отмена)
func (s *Selection) Done() <-chan struct{} {
	return s.done
}

// Wait блокируется до завершения выбора
func (s *Selection) Wait() {
	if s == nil {
		return
	}
	<-s.done
}
