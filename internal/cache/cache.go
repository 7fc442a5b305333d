package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/vire-tracker/internal/models"
)

// entry wraps a quote with insertion order tracking.
type entry struct {
	quote     models.Quote
	insertIdx int64
}

// QuoteCache holds the latest quote per symbol, keyed by uppercased symbol.
// A single lastUpdated timestamp covers the whole cache. Entries never expire;
// a stale quote is preferred over none.
// Thread-safe with sync.RWMutex.
type QuoteCache struct {
	mu          sync.RWMutex
	items       map[string]entry
	maxEntries  int
	nextIdx     int64
	lastUpdated time.Time
}

// New creates a QuoteCache bounded to maxEntries symbols (0 means unbounded).
func New(maxEntries int) *QuoteCache {
	return &QuoteCache{
		items:      make(map[string]entry),
		maxEntries: maxEntries,
	}
}

// Key normalises a symbol for lookup.
func Key(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Get returns the cached quote for symbol, case-insensitively.
func (c *QuoteCache) Get(symbol string) (models.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[Key(symbol)]
	return e.quote, ok
}

// Merge stores quotes (last write wins) and stamps lastUpdated with at.
// Symbols absent from quotes keep their previous entry.
func (c *QuoteCache) Merge(quotes map[string]models.Quote, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for sym, q := range quotes {
		key := Key(sym)
		if q.Symbol == "" {
			q.Symbol = key
		}
		e := entry{quote: q, insertIdx: c.nextIdx}
		c.nextIdx++

		// If key already exists, update in place (no capacity change)
		if _, exists := c.items[key]; exists {
			c.items[key] = e
			continue
		}
		if c.maxEntries > 0 && len(c.items) >= c.maxEntries {
			c.evictOldest()
		}
		c.items[key] = e
	}
	c.lastUpdated = at
}

// Snapshot returns a copy of every cached quote.
func (c *QuoteCache) Snapshot() map[string]models.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]models.Quote, len(c.items))
	for k, e := range c.items {
		out[k] = e.quote
	}
	return out
}

// LastUpdated returns when the cache was last merged into.
func (c *QuoteCache) LastUpdated() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdated
}

// Len returns the number of cached symbols.
func (c *QuoteCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// evictOldest removes the entry with the lowest insertIdx. Must be called with mu held.
func (c *QuoteCache) evictOldest() {
	var oldestKey string
	var oldestIdx int64 = -1

	for key, e := range c.items {
		if oldestIdx == -1 || e.insertIdx < oldestIdx {
			oldestIdx = e.insertIdx
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(c.items, oldestKey)
	}
}
