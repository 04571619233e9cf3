package sim

import "sort"

// mcRow is the six-field Markov row: up to three ranked successor chunks
// and their transition counts. Slots are always kept sorted descending by
// count, with ties broken toward whichever slot was most recently written
// — see observe for how that tie-break is achieved without a persisted
// timestamp field.
type mcRow struct {
	slot [3]mcSlot
}

type mcSlot struct {
	chunk   int64
	count   uint64
	present bool
}

// predict returns CN1 and whether it is populated.
func (r *mcRow) predict() (int64, bool) {
	if !r.slot[0].present {
		return 0, false
	}
	return r.slot[0].chunk, true
}

// observe applies the update algorithm for one observed successor
// chunk. CN1..CN3 stay pairwise distinct by construction: the new-chunk
// branch only fires when successor did not match any populated slot.
func (r *mcRow) observe(successor int64) {
	matched := -1
	for i := range r.slot {
		if r.slot[i].present && r.slot[i].chunk == successor {
			matched = i
			break
		}
	}

	modified := 2
	if matched >= 0 {
		r.slot[matched].count++
		modified = matched
	} else {
		r.slot[2] = mcSlot{chunk: successor, count: 1, present: true}
	}

	r.resort(modified)
}

// resort stably sorts the three slots descending by count, with the
// just-modified slot placed ahead of its equal-count peers beforehand so
// the stable sort preserves it in the lead — this is the "buffer-then-sort
// with recency tie-break, no timestamp field" technique from Design
// technique.
func (r *mcRow) resort(modified int) {
	order := make([]int, 0, 3)
	order = append(order, modified)
	for i := range r.slot {
		if i != modified {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return r.slot[order[i]].count > r.slot[order[j]].count
	})

	var next [3]mcSlot
	for i, idx := range order {
		next[i] = r.slot[idx]
	}
	r.slot = next
}

// chain is the sparse chunk_id -> mcRow mapping, materialized cluster by
// cluster (flat arrays with indirection). A cluster's
// backing array is allocated the first time any chunk in it is ensured —
// see DESIGN.md's Open Question resolution for why this counts as
// allocation even for a chunk whose row never receives a transition.
type chain struct {
	clusterSizeChunks int64
	clusters          map[int64][]mcRow
	known             map[int64]bool

	rowsAllocated     int64
	clustersAllocated int64
}

func newChain(clusterSizeChunks int64) *chain {
	return &chain{
		clusterSizeChunks: clusterSizeChunks,
		clusters:          make(map[int64][]mcRow),
		known:             make(map[int64]bool),
	}
}

// ensureChunk guarantees a row exists for chunkID, creating one (and its
// backing cluster, if not already materialized) the first time chunkID is
// seen. Idempotent: re-ensuring an already-known chunk is a no-op.
func (c *chain) ensureChunk(chunkID int64) {
	if c.known[chunkID] {
		return
	}
	clusterID := chunkID / c.clusterSizeChunks
	if _, ok := c.clusters[clusterID]; !ok {
		c.clusters[clusterID] = make([]mcRow, c.clusterSizeChunks)
		c.clustersAllocated++
	}
	c.known[chunkID] = true
	c.rowsAllocated++
}

// row returns a pointer to chunkID's row. The chunk must already be
// known (via ensureChunk) — this is an internal invariant, not a
// caller-facing error path, so row panics rather than returning ok=false.
func (c *chain) row(chunkID int64) *mcRow {
	clusterID := chunkID / c.clusterSizeChunks
	offset := chunkID % c.clusterSizeChunks
	block, ok := c.clusters[clusterID]
	if !ok {
		panic("sim: chain.row called for an unallocated cluster")
	}
	return &block[offset]
}

// predict returns the predicted next chunk for chunkID, or false if
// chunkID is unknown or its row has no populated slot.
func (c *chain) predict(chunkID int64) (int64, bool) {
	if !c.known[chunkID] {
		return 0, false
	}
	return c.row(chunkID).predict()
}

// observe records a prevChunk -> curChunk transition.
// Callers only invoke this when prevChunk != curChunk (self-transitions
// are suppressed one level up, in the policy engine).
func (c *chain) observe(prevChunk, curChunk int64) {
	c.ensureChunk(prevChunk)
	c.row(prevChunk).observe(curChunk)
}
