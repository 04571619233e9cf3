package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestCMCEngine(chunkSize, clusterSize, window, blockRange int64) *cmcEngine {
	cfg := DefaultConfig()
	cfg.ChunkSizeBlocks = chunkSize
	cfg.ClusterSizeChunks = clusterSize
	cfg.PrefetchWindowBlocks = window
	cfg.BlockRange = blockRange
	return newCMCEngine(cfg)
}

func TestCMCEngine_FirstAccess_IsMiss(t *testing.T) {
	e := newTestCMCEngine(16, 64, 16, 10000)
	cache := NewCache(4096)
	assert.False(t, e.Access(100, cache))
}

func TestCMCEngine_RepeatedSingleBlock_AfterFirstIsHit(t *testing.T) {
	e := newTestCMCEngine(16, 64, 16, 10000)
	cache := NewCache(4096)
	assert.False(t, e.Access(32, cache))
	for i := 0; i < 5; i++ {
		assert.True(t, e.Access(32, cache))
	}
	// chunk 32/16=2 never transitions to a different chunk, so the chain
	// never records a successor.
	assert.Equal(t, int64(1), e.RowsAllocated())
}

func TestCMCEngine_SelfTransition_IsNotObserved(t *testing.T) {
	e := newTestCMCEngine(16, 64, 16, 10000)
	cache := NewCache(4096)
	e.Access(0, cache)
	e.Access(1, cache) // same chunk (0), no transition recorded
	_, ok := e.chain.predict(0)
	assert.False(t, ok)
}

func TestCMCEngine_LearnsTransitionAndPrefetchesImmediately(t *testing.T) {
	e := newTestCMCEngine(16, 64, 16, 10000)
	cache := NewCache(4096)

	e.Access(0, cache)
	// The 0->1 transition is observed on this very access, and the
	// prediction that follows reads chunk 0's row right after that
	// observe — so the chunk-1 window prefetches immediately, without
	// needing a second pass through chunk 0.
	e.Access(16, cache)

	assert.True(t, cache.Contains(17))
	assert.True(t, cache.Contains(31))
}

func TestCMCEngine_PrefetchWindowZero_IssuesNothing(t *testing.T) {
	e := newTestCMCEngine(16, 64, 0, 10000)
	cache := NewCache(4096)
	e.Access(0, cache)
	e.Access(16, cache)
	e.Access(1, cache)
	issuedBefore := cache.PrefetchIssued()
	e.Access(2, cache)
	assert.Equal(t, issuedBefore, cache.PrefetchIssued())
}

func TestCMCEngine_PrefetchTruncatedAtBlockRange(t *testing.T) {
	e := newTestCMCEngine(16, 64, 64, 100)
	cache := NewCache(4096)
	// chunk 0 (blocks 0-15) -> chunk 6 (blocks 96-111, but the window
	// would run past block_range=100 without truncation).
	e.Access(0, cache)
	e.Access(96, cache)
	e.Access(1, cache)
	e.Access(2, cache)

	for b := int64(100); b < 160; b++ {
		assert.False(t, cache.Contains(b), "block %d is beyond block_range and must never be prefetched", b)
	}
}
