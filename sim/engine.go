package sim

// Engine is the per-access policy handler shared by the CMC and RA
// implementations: one method, two concrete strategies, selected by
// Config.Engine instead of a string-keyed registry since there are only
// ever two.
type Engine interface {
	// Access handles one trace event against cache, returning whether it
	// was a cache hit. Implementations must call exactly one of
	// cache.Touch or cache.Admit(demand) before returning.
	Access(blockID int64, cache *Cache) (hit bool)
}
