package sim

import "math/rand"

// Trace is a deterministic, lazily-pulled sequence of block ids. Identical
// (kind, seed, nEvents, blockRange, sequentialProb) always yields an
// identical sequence — the simulator is single-threaded and synchronous
// so Trace is a plain pull-based generator rather than a
// goroutine-fed channel: there is no suspension point to hide.
type Trace struct {
	kind           WorkloadKind
	nEvents        int64
	blockRange     int64
	sequentialProb float64
	rng            *rand.Rand

	produced int64
	cur      int64
	hasCur   bool

	// fixed, when non-nil, replays this exact sequence instead of
	// generating one — used by tests that need precise control over the
	// access pattern.
	fixed []int64
}

// NewTrace constructs a Trace generator. It does not produce any events
// until Next is called.
func NewTrace(kind WorkloadKind, seed, nEvents, blockRange int64, sequentialProb float64) *Trace {
	return &Trace{
		kind:           kind,
		nEvents:        nEvents,
		blockRange:     blockRange,
		sequentialProb: sequentialProb,
		rng:            rand.New(rand.NewSource(seed)),
	}
}

// Next returns the next block id in the trace, and false once nEvents
// have been produced.
func (t *Trace) Next() (int64, bool) {
	if t.produced >= t.nEvents {
		return 0, false
	}
	var block int64
	if t.fixed != nil {
		block = t.fixed[t.produced]
	} else {
		block = t.nextBlock()
	}
	t.produced++
	t.cur = block
	t.hasCur = true
	return block, true
}

// weights returns the (sequential, short-jump, long-jump) selection
// probabilities for the next event. Mixed draws a fresh kvm-or-kernel
// coin flip per event, interleaving the two kinds' compositions.
func (t *Trace) weights() (seq, short, long float64) {
	switch t.kind {
	case WorkloadKVM:
		return 0.40, 0.35, 0.25
	case WorkloadKernel:
		return 0.30, 0.20, 0.50
	case WorkloadSynthetic:
		rem := 1 - t.sequentialProb
		return t.sequentialProb, rem / 2, rem / 2
	case WorkloadMixed:
		if t.rng.Float64() < 0.5 {
			return 0.40, 0.35, 0.25
		}
		return 0.30, 0.20, 0.50
	default:
		return 1, 0, 0
	}
}

func (t *Trace) nextBlock() int64 {
	if !t.hasCur {
		return t.rng.Int63n(t.blockRange)
	}

	seqP, shortP, _ := t.weights()
	r := t.rng.Float64()

	switch {
	case r < seqP:
		return clampBlock(t.cur+1, t.blockRange)
	case r < seqP+shortP:
		delta := t.rng.Int63n(129) - 64 // uniform in [-64, +64]
		return clampBlock(t.cur+delta, t.blockRange)
	default:
		return t.rng.Int63n(t.blockRange)
	}
}

func clampBlock(b, blockRange int64) int64 {
	if b < 0 {
		return 0
	}
	if b >= blockRange {
		return blockRange - 1
	}
	return b
}
