package sim

import (
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// Run constructs a trace from cfg and drives it through the engine cfg
// selects, returning the accumulated statistics record. This is the
// default entry point; RunWithTrace exists for callers
// that want to inject their own trace.
func Run(cfg Config) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	trace := NewTrace(cfg.WorkloadKind, cfg.Seed, cfg.NEvents, cfg.BlockRange, cfg.SequentialProb)
	return RunWithTrace(cfg, trace)
}

// RunWithTrace drives an already-constructed trace through the engine
// cfg selects. Every value referenced by an access — cache, chain,
// counters — is created fresh here and discarded at return; no state
// persists across runs.
func RunWithTrace(cfg Config, trace *Trace) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}

	runID := xid.New().String()
	log := logrus.WithFields(logrus.Fields{
		"run_id": runID,
		"engine": cfg.Engine,
	})
	log.Debug("simulation run starting")

	cache := NewCache(cfg.CacheSizeBlocks)

	var cmc *cmcEngine
	var ra *raEngine
	switch cfg.Engine {
	case EngineCMC:
		cmc = newCMCEngine(cfg)
	case EngineRA:
		ra = newRAEngine(cfg)
	}

	stats := Stats{RunID: runID}
	var trajectory []EpochPoint

	for {
		blockID, ok := trace.Next()
		if !ok {
			break
		}

		var hit bool
		if cmc != nil {
			hit = cmc.Access(blockID, cache)
		} else {
			hit = ra.Access(blockID, cache)
		}

		stats.Accesses++
		if hit {
			stats.Hits++
		} else {
			stats.Misses++
		}

		if stats.Accesses%cfg.EpochSize == 0 {
			trajectory = append(trajectory, EpochPoint{
				AccessesSoFar: stats.Accesses,
				HitRate:       float64(stats.Hits) / float64(stats.Accesses),
			})
		}

		if cache.Len() > cfg.CacheSizeBlocks {
			panicInvariant("cache-capacity", "cache holds %d blocks, capacity is %d", cache.Len(), cfg.CacheSizeBlocks)
		}
	}

	stats.PrefetchIssued = cache.PrefetchIssued()
	stats.PrefetchUsed = cache.PrefetchUsed()
	stats.PrefetchEvictedUnused = cache.PrefetchEvictedUnused()
	if cmc != nil {
		stats.MCRowsAllocated = cmc.RowsAllocated()
		stats.ClustersAllocated = cmc.ClustersAllocated()
	}

	if stats.Hits+stats.Misses != stats.Accesses {
		panicInvariant("accounting", "hits(%d) + misses(%d) != accesses(%d)", stats.Hits, stats.Misses, stats.Accesses)
	}
	if stats.PrefetchUsed > stats.PrefetchIssued {
		panicInvariant("accounting", "prefetch_used(%d) > prefetch_issued(%d)", stats.PrefetchUsed, stats.PrefetchIssued)
	}
	if stats.PrefetchEvictedUnused > stats.PrefetchIssued {
		panicInvariant("accounting", "prefetch_evicted_unused(%d) > prefetch_issued(%d)", stats.PrefetchEvictedUnused, stats.PrefetchIssued)
	}
	residentUnused := cache.residentUnusedPrefetches()
	if stats.PrefetchEvictedUnused+residentUnused+stats.PrefetchUsed != stats.PrefetchIssued {
		panicInvariant("accounting", "evicted_unused(%d) + resident_unused(%d) + used(%d) != issued(%d)",
			stats.PrefetchEvictedUnused, residentUnused, stats.PrefetchUsed, stats.PrefetchIssued)
	}

	if stats.Accesses > 0 {
		stats.HitRate = float64(stats.Hits) / float64(stats.Accesses)
	}
	denom := stats.PrefetchIssued
	if denom < 1 {
		denom = 1
	}
	stats.PrefetchEfficiency = float64(stats.PrefetchUsed) / float64(denom)
	stats.MemoryBytes = stats.MCRowsAllocated * bytesPerMCRow
	stats.HitRateTrajectory = trajectory

	log.WithFields(logrus.Fields{
		"accesses": stats.Accesses,
		"hit_rate": stats.HitRate,
	}).Debug("simulation run finished")

	return stats, nil
}
