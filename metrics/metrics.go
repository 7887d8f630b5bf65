package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProviderRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vinylx",
		Name:      "provider_requests_total",
		Help:      "Total requests to external providers by provider name and result status.",
	}, []string{"provider", "status"})

	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vinylx",
		Name:      "provider_request_duration_seconds",
		Help:      "External provider request duration in seconds, excluding rate-limiter wait.",
		Buckets:   []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10},
	}, []string{"provider"})

	RateLimitWaitSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vinylx",
		Name:      "rate_limit_wait_seconds",
		Help:      "Time spent waiting for a rate-limiter slot per host.",
		Buckets:   []float64{0, 0.1, 0.5, 1, 1.1, 2, 5, 10, 20},
	}, []string{"host"})

	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vinylx",
		Name:      "response_cache_hits_total",
		Help:      "Transport cache hits by provider.",
	}, []string{"provider"})

	CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vinylx",
		Name:      "response_cache_misses_total",
		Help:      "Transport cache misses by provider.",
	}, []string{"provider"})

	SearchRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vinylx",
		Name:      "search_requests_total",
		Help:      "Album searches by ranking mode (popularity, fallback, rejected).",
	}, []string{"mode"})

	SearchHitsResolved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vinylx",
		Name:      "search_hits_total",
		Help:      "Popularity hits by resolution path (lookup, targeted, unresolved, duplicate).",
	}, []string{"outcome"})

	AlbumResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vinylx",
		Name:      "album_resolutions_total",
		Help:      "Album resolutions by outcome (hit, created, not_found, error).",
	}, []string{"outcome"})

	HydrationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vinylx",
		Name:      "streaming_hydrations_total",
		Help:      "Streaming link hydration jobs by outcome.",
	}, []string{"outcome"})
)

// Register 把所有指标注册到给定的 registerer
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		ProviderRequestsTotal,
		ProviderRequestDuration,
		RateLimitWaitSeconds,
		CacheHitsTotal,
		CacheMissesTotal,
		SearchRequestsTotal,
		SearchHitsResolved,
		AlbumResolutionsTotal,
		HydrationsTotal,
	)
}
