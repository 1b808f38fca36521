package enrich

import (
	"context"
	"sync"
	"time"

	"github.com/komsit37/dcf/pkg/dcf/types"
)

// CacheService decorates a PriceService with TTL+LRU cache. Errors are not cached.
type CacheService struct {
	next PriceService
	ttl  time.Duration
	size int
	now  func() time.Time

	mu    sync.Mutex
	items map[string]cacheEntry
	order []string // simple LRU order, oldest at index 0
}

type cacheEntry struct {
	at time.Time
	q  types.Quote
}

func NewCacheService(next PriceService, ttl time.Duration, size int) *CacheService {
	return &CacheService{next: next, ttl: ttl, size: size, now: time.Now, items: make(map[string]cacheEntry)}
}

func (c *CacheService) Get(ctx context.Context, ticker string) (types.Quote, error) {
	if ticker == "" {
		return types.Quote{}, nil
	}
	now := c.now()
	c.mu.Lock()
	if ent, ok := c.items[ticker]; ok {
		if now.Sub(ent.at) <= c.ttl {
			c.touchLocked(ticker)
			q := ent.q
			c.mu.Unlock()
			return q, nil
		}
		// expired; drop and refetch
		delete(c.items, ticker)
		c.removeFromOrderLocked(ticker)
	}
	c.mu.Unlock()

	q, err := c.next.Get(ctx, ticker)
	if err != nil {
		return q, err
	}
	c.mu.Lock()
	if _, ok := c.items[ticker]; ok {
		c.removeFromOrderLocked(ticker)
	}
	c.items[ticker] = cacheEntry{at: now, q: q}
	c.order = append(c.order, ticker)
	for len(c.items) > c.size && len(c.order) > 0 {
		old := c.order[0]
		c.order = c.order[1:]
		delete(c.items, old)
	}
	c.mu.Unlock()
	return q, nil
}

// Len reports the number of cached tickers.
func (c *CacheService) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *CacheService) touchLocked(k string) {
	c.removeFromOrderLocked(k)
	c.order = append(c.order, k)
}

func (c *CacheService) removeFromOrderLocked(k string) {
	for i, v := range c.order {
		if v == k {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
