// Package fx resolves currency conversion factors through a time-bounded
// cache. Rate lookups never fail: any fetch problem degrades to the
// identity factor so balance math keeps working through a pricing outage.
package fx

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a cached rate stays fresh.
const DefaultTTL = time.Hour

// Fetcher retrieves the full rate table for a base currency.
type Fetcher interface {
	// Fetch returns rates keyed by target currency code, such that
	// rate * amount_in_base == amount_in_target.
	Fetch(ctx context.Context, base string) (map[string]decimal.Decimal, error)
}

type entry struct {
	rate        decimal.Decimal
	lastUpdated time.Time
}

// Cache is a concurrency-safe rate cache with lazy refresh. Stale reads
// for the same base currency coalesce into a single upstream fetch.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	mu    sync.RWMutex
	rates map[string]entry // keyed by "FROM/TO"

	group singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the default one-hour freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithClock injects the time source, for TTL testing.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a Cache backed by the given fetcher.
func New(fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher: fetcher,
		ttl:     DefaultTTL,
		now:     time.Now,
		rates:   make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Rate returns the factor converting from one currency to another:
// factor * amount_in_from == amount_in_to. Identical or unknown currency
// codes and failed fetches all resolve to 1.
func (c *Cache) Rate(ctx context.Context, from, to string) decimal.Decimal {
	if from == to {
		return decimal.NewFromInt(1)
	}
	if money.GetCurrency(from) == nil || money.GetCurrency(to) == nil {
		slog.Warn("fx: unknown currency code, using identity rate", "from", from, "to", to)
		return decimal.NewFromInt(1)
	}

	key := from + "/" + to
	if rate, ok := c.lookup(key); ok {
		cacheHits.Inc()
		return rate
	}
	cacheMisses.Inc()

	// One refresh per base currency no matter how many callers observe
	// the same stale entry.
	_, err, _ := c.group.Do(from, func() (any, error) {
		// Re-check inside the flight: a concurrent caller may have
		// refreshed the table while this one waited.
		if _, ok := c.lookup(key); ok {
			return nil, nil
		}
		return nil, c.refresh(ctx, from)
	})
	if err != nil {
		fetchFailures.Inc()
		slog.Warn("fx: rate fetch failed, using identity rate", "base", from, "error", err)
		return decimal.NewFromInt(1)
	}

	rate, ok := c.lookup(key)
	if !ok {
		slog.Warn("fx: rate table missing target, using identity rate", "from", from, "to", to)
		return decimal.NewFromInt(1)
	}
	return rate
}

// Convert applies Rate to an amount.
func (c *Cache) Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	if from == to {
		return amount
	}
	return amount.Mul(c.Rate(ctx, from, to))
}

func (c *Cache) lookup(key string) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.rates[key]
	if !ok || c.now().Sub(e.lastUpdated) >= c.ttl {
		return decimal.Decimal{}, false
	}
	return e.rate, true
}

// refresh fetches the full table for a base currency and upserts every
// (base, target) pair. Stale entries are replaced, never removed.
func (c *Cache) refresh(ctx context.Context, base string) error {
	table, err := c.fetcher.Fetch(ctx, base)
	if err != nil {
		return err
	}

	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for target, rate := range table {
		c.rates[base+"/"+target] = entry{rate: rate, lastUpdated: now}
	}
	return nil
}
