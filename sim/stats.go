package sim

// EpochPoint is one sample of the hit-rate trajectory: the cumulative
// hit rate as observed after a given number of accesses.
type EpochPoint struct {
	AccessesSoFar int64
	HitRate       float64
}

// Stats is the statistics record returned by Run/RunWithTrace: flat
// monotonic counters plus rates derived once at report time, rather than
// tracked incrementally as floats during the run.
type Stats struct {
	// RunID uniquely identifies this simulation run, so two runs driven
	// back to back from the same process (e.g. cmd's `compare`
	// subcommand) are distinguishable in logs.
	RunID string

	Accesses              int64
	Hits                  int64
	Misses                int64
	PrefetchIssued        int64
	PrefetchUsed          int64
	PrefetchEvictedUnused int64
	MCRowsAllocated       int64
	ClustersAllocated     int64

	HitRate            float64
	PrefetchEfficiency float64
	MemoryBytes        int64

	HitRateTrajectory []EpochPoint
}

// bytesPerMCRow is the six-field x 4-byte memory model used to report
// memory_bytes:
// memory_bytes is a formula-based figure, not a measured one, even though
// a real mcRow's in-memory layout (three int64 chunk ids, three uint64
// counts, three bools) is larger than this.
const bytesPerMCRow = 24
