package fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fx_cache_hits_total",
		Help: "Rate lookups served from the cache.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fx_cache_misses_total",
		Help: "Rate lookups that found no fresh entry.",
	})
	fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fx_fetch_failures_total",
		Help: "Rate table fetches that failed and degraded to the identity rate.",
	})
)
