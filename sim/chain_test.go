package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain_EnsureChunk_IsIdempotent(t *testing.T) {
	c := newChain(4)
	c.ensureChunk(10)
	assert.Equal(t, int64(1), c.rowsAllocated)
	c.ensureChunk(10)
	assert.Equal(t, int64(1), c.rowsAllocated)
}

func TestChain_EnsureChunk_AllocatesEnclosingClusterOnce(t *testing.T) {
	c := newChain(4)
	c.ensureChunk(0)
	c.ensureChunk(1)
	c.ensureChunk(2)
	assert.Equal(t, int64(1), c.clustersAllocated)
	assert.Equal(t, int64(3), c.rowsAllocated)

	c.ensureChunk(4) // crosses into the next cluster
	assert.Equal(t, int64(2), c.clustersAllocated)
}

func TestChain_Predict_UnknownChunk_ReturnsFalse(t *testing.T) {
	c := newChain(8)
	_, ok := c.predict(42)
	assert.False(t, ok)
}

func TestChain_Predict_EnsuredButNeverObserved_ReturnsFalse(t *testing.T) {
	c := newChain(8)
	c.ensureChunk(1)
	_, ok := c.predict(1)
	assert.False(t, ok)
}

func TestChain_Observe_SingleTransition_PredictsIt(t *testing.T) {
	c := newChain(8)
	c.observe(1, 2)
	next, ok := c.predict(1)
	assert.True(t, ok)
	assert.Equal(t, int64(2), next)
}

func TestChain_Observe_RanksByCount(t *testing.T) {
	c := newChain(8)
	c.observe(1, 2)
	c.observe(1, 3)
	c.observe(1, 3)

	next, ok := c.predict(1)
	assert.True(t, ok)
	assert.Equal(t, int64(3), next, "chunk 3 has count 2 vs chunk 2's count 1, so it must rank first")
}

func TestChain_Observe_TieBreaksTowardMostRecentlyWritten(t *testing.T) {
	c := newChain(8)
	c.observe(1, 2)
	c.observe(1, 3)
	// both at count 1; 3 was written more recently so it must lead.
	next, ok := c.predict(1)
	assert.True(t, ok)
	assert.Equal(t, int64(3), next)
}

func TestChain_Observe_FourthDistinctSuccessor_EvictsLowestRankedSlot(t *testing.T) {
	c := newChain(8)
	c.observe(1, 2)
	c.observe(1, 2)
	c.observe(1, 3)
	c.observe(1, 3)
	c.observe(1, 4)
	// slots are now {2:2, 3:2, 4:1}; a brand new successor overwrites
	// the third (lowest-ranked) slot, chunk 4.
	c.observe(1, 5)

	row := c.row(1)
	seen := map[int64]bool{}
	for _, s := range row.slot {
		if s.present {
			seen[s.chunk] = true
		}
	}
	assert.True(t, seen[2])
	assert.True(t, seen[3])
	assert.False(t, seen[4])
	assert.True(t, seen[5])
}

func TestChain_Row_UnallocatedCluster_Panics(t *testing.T) {
	c := newChain(8)
	assert.Panics(t, func() {
		c.row(100)
	})
}

func TestMCRow_SlotsStayPairwiseDistinct(t *testing.T) {
	r := &mcRow{}
	r.observe(1)
	r.observe(2)
	r.observe(1)
	r.observe(3)

	seenChunks := map[int64]int{}
	for _, s := range r.slot {
		if s.present {
			seenChunks[s.chunk]++
		}
	}
	for chunk, n := range seenChunks {
		assert.Equal(t, 1, n, "chunk %d appeared in more than one slot", chunk)
	}
}
