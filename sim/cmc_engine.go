package sim

// cmcEngine is the eight-step clustered-Markov-chain policy engine. It
// owns the chain and the single-slot "previous chunk" state a
// trace's linear access order carries between calls to Access.
type cmcEngine struct {
	chunkSizeBlocks      int64
	prefetchWindowBlocks int64
	blockRange           int64

	chain *chain

	havePrev  bool
	prevChunk int64
}

// newCMCEngine constructs a CMC engine with its own, freshly-allocated
// chain — no state persists across runs.
func newCMCEngine(cfg Config) *cmcEngine {
	return &cmcEngine{
		chunkSizeBlocks:      cfg.ChunkSizeBlocks,
		prefetchWindowBlocks: cfg.PrefetchWindowBlocks,
		blockRange:           cfg.BlockRange,
		chain:                newChain(cfg.ClusterSizeChunks),
	}
}

// Access runs the eight-step handler for one block access.
func (e *cmcEngine) Access(blockID int64, cache *Cache) bool {
	// Step 1: compute the current chunk.
	curChunk := blockID / e.chunkSizeBlocks

	// Step 2: cache probe.
	hit := cache.Contains(blockID)
	if hit {
		cache.Touch(blockID)
	} else {
		cache.Admit(blockID, originDemand)
	}

	// Step 3: chain transition, skipping self-transitions.
	if e.havePrev && e.prevChunk != curChunk {
		e.chain.observe(e.prevChunk, curChunk)
	}

	// Step 4: ensure a row exists for the current chunk.
	e.chain.ensureChunk(curChunk)

	// Step 5: predict from the previous chunk's row (the row step 3 just
	// updated when the chunk changed), not from the chunk we just arrived
	// at, whose row is still empty on a first visit and gains entries only
	// once that chunk is left behind.
	var predChunk int64
	var ok bool
	if e.havePrev {
		predChunk, ok = e.chain.predict(e.prevChunk)
	}

	// Step 6: issue the prefetch window, truncated at the block range.
	if ok {
		start := predChunk * e.chunkSizeBlocks
		end := start + e.prefetchWindowBlocks
		if end > e.blockRange {
			end = e.blockRange
		}
		for b := start; b < end; b++ {
			if b < 0 {
				continue
			}
			cache.IssuePrefetch(b)
		}
	}

	// Step 7: advance.
	e.prevChunk = curChunk
	e.havePrev = true

	// Step 8: counters updated in steps 2 and 6 are already committed.
	return hit
}

// RowsAllocated and ClustersAllocated expose the chain's bookkeeping
// counters for the statistics record.
func (e *cmcEngine) RowsAllocated() int64     { return e.chain.rowsAllocated }
func (e *cmcEngine) ClustersAllocated() int64 { return e.chain.clustersAllocated }
