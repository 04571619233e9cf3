package sim

// raEngine is the sequential read-ahead baseline: a simple
// adaptive-window detector sharing the same Cache (and therefore the
// same accounting rules) as cmcEngine, so the two are directly
// comparable.
type raEngine struct {
	blockRange    int64
	initialWindow int64
	maxWindow     int64

	window           int64
	sequentialStreak int64
	haveLast         bool
	lastBlock        int64
}

func newRAEngine(cfg Config) *raEngine {
	return &raEngine{
		blockRange:    cfg.BlockRange,
		initialWindow: cfg.RAInitialWindowBlocks,
		maxWindow:     cfg.RAMaxWindowBlocks,
		window:        cfg.RAInitialWindowBlocks,
	}
}

// Access runs the four-step handler for one block access.
func (e *raEngine) Access(blockID int64, cache *Cache) bool {
	// Step 1: cache probe, same rule as the CMC engine's probe step.
	hit := cache.Contains(blockID)
	if hit {
		cache.Touch(blockID)
	} else {
		cache.Admit(blockID, originDemand)
	}

	// Steps 2-3: sequential detection and adaptive window.
	if e.haveLast && blockID == e.lastBlock+1 {
		e.sequentialStreak++
		if e.sequentialStreak >= 2 {
			e.window *= 2
			if e.window > e.maxWindow {
				e.window = e.maxWindow
			}
			end := blockID + e.window
			if end >= e.blockRange {
				end = e.blockRange - 1
			}
			for b := blockID + 1; b <= end; b++ {
				cache.IssuePrefetch(b)
			}
		}
	} else {
		e.sequentialStreak = 0
		e.window = e.initialWindow
	}

	// Step 4: advance.
	e.lastBlock = blockID
	e.haveLast = true

	return hit
}
