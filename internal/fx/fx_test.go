package fx

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu     sync.Mutex
	tables map[string]map[string]decimal.Decimal
	err    error
	delay  time.Duration
	calls  atomic.Int64
}

func (f *fakeFetcher) Fetch(_ context.Context, base string) (map[string]decimal.Decimal, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	table, ok := f.tables[base]
	if !ok {
		return nil, errors.New("no table for " + base)
	}
	return table, nil
}

func usdTable() map[string]map[string]decimal.Decimal {
	return map[string]map[string]decimal.Decimal{
		"USD": {
			"EUR": decimal.RequireFromString("0.92"),
			"GBP": decimal.RequireFromString("0.79"),
		},
	}
}

func TestRate_SameCurrencySkipsLookup(t *testing.T) {
	fetcher := &fakeFetcher{tables: usdTable()}
	cache := New(fetcher)

	rate := cache.Rate(context.Background(), "USD", "USD")

	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, int64(0), fetcher.calls.Load())
}

func TestRate_FetchesAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{tables: usdTable()}
	cache := New(fetcher)
	ctx := context.Background()

	rate := cache.Rate(ctx, "USD", "EUR")
	require.True(t, rate.Equal(decimal.RequireFromString("0.92")))

	// Second pair from the same table must not refetch: the whole base
	// table was upserted on the first miss.
	rate = cache.Rate(ctx, "USD", "GBP")
	assert.True(t, rate.Equal(decimal.RequireFromString("0.79")))
	assert.Equal(t, int64(1), fetcher.calls.Load())
}

func TestRate_TTLExpiryTriggersRefresh(t *testing.T) {
	fetcher := &fakeFetcher{tables: usdTable()}
	now := time.Now()
	clock := func() time.Time { return now }
	cache := New(fetcher, WithTTL(time.Hour), WithClock(func() time.Time { return clock() }))
	ctx := context.Background()

	cache.Rate(ctx, "USD", "EUR")
	require.Equal(t, int64(1), fetcher.calls.Load())

	// Still fresh just under the TTL.
	clock = func() time.Time { return now.Add(59 * time.Minute) }
	cache.Rate(ctx, "USD", "EUR")
	assert.Equal(t, int64(1), fetcher.calls.Load())

	// Stale at the TTL boundary.
	clock = func() time.Time { return now.Add(61 * time.Minute) }
	cache.Rate(ctx, "USD", "EUR")
	assert.Equal(t, int64(2), fetcher.calls.Load())
}

func TestRate_FetchFailureFallsBackToIdentity(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("provider down")}
	cache := New(fetcher)

	rate := cache.Rate(context.Background(), "USD", "EUR")

	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestRate_MissingTargetFallsBackToIdentity(t *testing.T) {
	fetcher := &fakeFetcher{tables: usdTable()}
	cache := New(fetcher)

	rate := cache.Rate(context.Background(), "USD", "JPY")

	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestRate_UnknownCurrencyFallsBackToIdentity(t *testing.T) {
	fetcher := &fakeFetcher{tables: usdTable()}
	cache := New(fetcher)

	rate := cache.Rate(context.Background(), "USD", "ZZZ")

	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, int64(0), fetcher.calls.Load())
}

// TestRate_CoalescesConcurrentRefreshes drives many concurrent misses for
// the same base and expects a single upstream fetch.
func TestRate_CoalescesConcurrentRefreshes(t *testing.T) {
	fetcher := &fakeFetcher{tables: usdTable(), delay: 50 * time.Millisecond}
	cache := New(fetcher)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rate := cache.Rate(ctx, "USD", "EUR")
			assert.True(t, rate.Equal(decimal.RequireFromString("0.92")))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), fetcher.calls.Load())
}

func TestConvert(t *testing.T) {
	fetcher := &fakeFetcher{tables: usdTable()}
	cache := New(fetcher)

	got := cache.Convert(context.Background(), decimal.RequireFromString("100"), "USD", "EUR")

	assert.True(t, got.Equal(decimal.RequireFromString("92")))
}
