package mobility

import (
	"sync"

	"github.com/jgoulah/simbev/internal/season"
)

type cacheKey struct {
	region string
	season season.Season
}

// CachedSource memoizes tables from another source. Tables are immutable, so
// one loaded copy can be shared by every segment and every goroutine.
type CachedSource struct {
	source TableSource

	mu     sync.Mutex
	tables map[cacheKey]*WeeklyTable
}

// NewCachedSource wraps source with a table cache
func NewCachedSource(source TableSource) *CachedSource {
	return &CachedSource{
		source: source,
		tables: make(map[cacheKey]*WeeklyTable),
	}
}

// Load returns the cached table or loads it from the wrapped source.
// Failed lookups are not cached.
func (c *CachedSource) Load(region string, s season.Season) (*WeeklyTable, error) {
	key := cacheKey{region: region, season: s}

	c.mu.Lock()
	t, ok := c.tables[key]
	c.mu.Unlock()
	if ok {
		return t, nil
	}

	t, err := c.source.Load(region, s)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.tables[key] = t
	c.mu.Unlock()
	return t, nil
}

// Len returns the number of cached tables
func (c *CachedSource) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tables)
}
