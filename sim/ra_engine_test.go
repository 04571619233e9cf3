package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestRAEngine(initial, max, blockRange int64) *raEngine {
	cfg := DefaultConfig()
	cfg.RAInitialWindowBlocks = initial
	cfg.RAMaxWindowBlocks = max
	cfg.BlockRange = blockRange
	return newRAEngine(cfg)
}

func TestRAEngine_FirstAccess_IsMiss(t *testing.T) {
	e := newTestRAEngine(4, 64, 10000)
	cache := NewCache(4096)
	assert.False(t, e.Access(10, cache))
}

func TestRAEngine_RandomAccesses_NeverPrefetch(t *testing.T) {
	e := newTestRAEngine(4, 64, 10000)
	cache := NewCache(4096)
	e.Access(10, cache)
	e.Access(500, cache)
	e.Access(9000, cache)
	assert.Equal(t, int64(0), cache.PrefetchIssued())
}

func TestRAEngine_ThirdConsecutiveAccess_TriggersPrefetch(t *testing.T) {
	e := newTestRAEngine(4, 64, 10000)
	cache := NewCache(4096)
	e.Access(100, cache)
	e.Access(101, cache)
	// the streak reaches 2 on this third, still-consecutive access,
	// doubling the window to 8 and issuing a prefetch for the next
	// 8 blocks.
	e.Access(102, cache)
	assert.Greater(t, cache.PrefetchIssued(), int64(0))
	assert.True(t, cache.Contains(103))
}

func TestRAEngine_WindowNeverExceedsMax(t *testing.T) {
	e := newTestRAEngine(4, 16, 1000000)
	cache := NewCache(4096)
	cur := int64(0)
	for i := 0; i < 20; i++ {
		e.Access(cur, cache)
		cur++
	}
	assert.LessOrEqual(t, e.window, int64(16))
}

func TestRAEngine_NonSequentialAccess_ResetsStreak(t *testing.T) {
	e := newTestRAEngine(4, 64, 10000)
	cache := NewCache(4096)
	e.Access(100, cache)
	e.Access(101, cache)
	e.Access(102, cache)
	assert.Positive(t, e.sequentialStreak)

	e.Access(5000, cache)
	assert.Equal(t, int64(0), e.sequentialStreak)
	assert.Equal(t, int64(4), e.window)
}

func TestRAEngine_PrefetchTruncatedAtBlockRange(t *testing.T) {
	e := newTestRAEngine(4, 64, 110)
	cache := NewCache(4096)
	e.Access(100, cache)
	e.Access(101, cache)
	e.Access(102, cache)

	for b := int64(110); b < 165; b++ {
		assert.False(t, cache.Contains(b))
	}
}
