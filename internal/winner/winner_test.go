package winner

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restaurant-roulette/internal/domain"
)

func cards(ids ...string) []domain.RestaurantCard {
	out := make([]domain.RestaurantCard, len(ids))
	for i, id := range ids {
		out[i] = domain.RestaurantCard{ID: id, Name: id}
	}
	return out
}

func TestPickRandom(t *testing.T) {
	t.Run("empty pool", func(t *testing.T) {
		_, ok := PickRandom(nil, NewPicker())
		assert.False(t, ok)
	})

	t.Run("single element always wins", func(t *testing.T) {
		pool := cards("only")
		for i := 0; i < 100; i++ {
			got, ok := PickRandom(pool, NewPicker())
			require.True(t, ok)
			assert.Equal(t, "only", got.ID)
		}
	})

	t.Run("uses picker index", func(t *testing.T) {
		got, ok := PickRandom(cards("a", "b", "c"), func(n int) int { return n - 1 })
		require.True(t, ok)
		assert.Equal(t, "c", got.ID)
	})
}

func TestPickRandom_Uniform(t *testing.T) {
	const (
		trials = 60000
		n      = 6
	)
	pool := cards("a", "b", "c", "d", "e", "f")
	counts := make(map[string]int, n)
	pick := NewPicker()

	for i := 0; i < trials; i++ {
		got, _ := PickRandom(pool, pick)
		counts[got.ID]++
	}

	// chi-square с 5 степенями свободы; 20.5 соответствует p ~ 0.001
	expected := float64(trials) / n
	var chi2 float64
	for _, c := range pool {
		diff := float64(counts[c.ID]) - expected
		chi2 += diff * diff / expected
	}
	assert.Less(t, chi2, 20.5, "counts: %v", counts)

	for _, c := range pool {
		share := float64(counts[c.ID]) / trials
		assert.InDelta(t, 1.0/n, share, 0.02, c.ID)
	}
}

type recorder struct {
	mu      sync.Mutex
	ticks   []string
	commits []string
}

func (r *recorder) tick(c domain.RestaurantCard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, c.ID)
}

func (r *recorder) commit(c domain.RestaurantCard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits = append(r.commits, c.ID)
}

func (r *recorder) snapshot() ([]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ticks...), append([]string(nil), r.commits...)
}

func TestStart_EmptyPoolIsNoop(t *testing.T) {
	rec := &recorder{}
	sel := Start(nil, DefaultConfig(), NewPicker(), rec.tick, rec.commit)
	assert.Nil(t, sel)

	// методы nil-выбора безопасны
	sel.Cancel()
	sel.Wait()
}

func TestStart_TicksThenCommitsOnce(t *testing.T) {
	rec := &recorder{}
	cfg := Config{TickInterval: 5 * time.Millisecond, Duration: 60 * time.Millisecond}

	sel := Start(cards("a", "b", "c"), cfg, NewPicker(), rec.tick, rec.commit)
	require.NotNil(t, sel)

	select {
	case <-sel.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("selection did not finish")
	}

	ticks, commits := rec.snapshot()
	assert.NotEmpty(t, ticks)
	require.Len(t, commits, 1)
	assert.Contains(t, []string{"a", "b", "c"}, commits[0])
}

func TestStart_SnapshotsPool(t *testing.T) {
	rec := &recorder{}
	pool := cards("a")
	cfg := Config{TickInterval: 5 * time.Millisecond, Duration: 30 * time.Millisecond}

	sel := Start(pool, cfg, NewPicker(), rec.tick, rec.commit)
	pool[0].ID = "mutated"
	sel.Wait()

	_, commits := rec.snapshot()
	assert.Equal(t, []string{"a"}, commits)
}

func TestSelection_CancelPreventsCommit(t *testing.T) {
	rec := &recorder{}
	cfg := Config{TickInterval: 5 * time.Millisecond, Duration: 80 * time.Millisecond}

	sel := Start(cards("a", "b"), cfg, NewPicker(), rec.tick, rec.commit)
	time.Sleep(20 * time.Millisecond)
	sel.Cancel()
	sel.Cancel()
	sel.Wait()

	ticksAtCancel, commits := rec.snapshot()
	assert.Empty(t, commits)

	// после завершения горутины новых тиков нет
	time.Sleep(40 * time.Millisecond)
	ticksLater, commits := rec.snapshot()
	assert.Equal(t, len(ticksAtCancel), len(ticksLater))
	assert.Empty(t, commits)
}

func TestStart_DefaultsApplied(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 85*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, 2900*time.Millisecond, cfg.Duration)
}
