package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hypeindex/pkg/errors"
)

var (
	// Feed metrics
	FeedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypeindex_feed_requests_total",
			Help: "Total number of upstream feed requests",
		},
		[]string{"feed", "status"}, // status: success|empty|unavailable|malformed|rate_limited
	)

	FeedLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hypeindex_feed_latency_seconds",
			Help:    "Upstream feed latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"feed"},
	)

	FeedStatusCodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypeindex_feed_status_codes_total",
			Help: "Non-2xx HTTP status codes returned by feeds",
		},
		[]string{"feed", "code"},
	)

	// Cache metrics
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypeindex_cache_lookups_total",
			Help: "Price cache lookups by outcome",
		},
		[]string{"result"}, // result: hit|miss|error
	)

	CacheInvalidations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "hypeindex_cache_invalidations_total",
			Help: "Manual refreshes that dropped cached price data",
		},
	)

	// Dashboard metrics
	DashboardRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hypeindex_dashboard_renders_total",
			Help: "Dashboard renders by sentiment feed outcome",
		},
		[]string{"status"}, // status: ok|no_data|upstream_unavailable
	)

	DashboardRenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hypeindex_dashboard_render_duration_seconds",
			Help:    "Time to build one dashboard view (both feeds, sequential)",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	HypeIndex = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hypeindex_hype_index",
			Help: "Last computed hype index per curated ticker (0-100)",
		},
		[]string{"ticker"},
	)
)

var registerOnce sync.Once

// Init registers all metrics with Prometheus
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(FeedRequests)
		prometheus.MustRegister(FeedLatency)
		prometheus.MustRegister(FeedStatusCodes)

		prometheus.MustRegister(CacheLookups)
		prometheus.MustRegister(CacheInvalidations)

		prometheus.MustRegister(DashboardRenders)
		prometheus.MustRegister(DashboardRenderDuration)
		prometheus.MustRegister(HypeIndex)
	})
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// FeedStatus classifies a feed call result for the status label
func FeedStatus(err error, empty bool) string {
	switch {
	case err == nil && empty:
		return "empty"
	case err == nil:
		return "success"
	case errors.Is(err, errors.ErrUpstreamUnavailable):
		return "unavailable"
	case errors.Is(err, errors.ErrRateLimitExceeded):
		return "rate_limited"
	default:
		return "malformed"
	}
}

// RecordFeedCall records one upstream request
func RecordFeedCall(feed string, latency time.Duration, err error, empty bool) {
	FeedRequests.WithLabelValues(feed, FeedStatus(err, empty)).Inc()
	FeedLatency.WithLabelValues(feed).Observe(latency.Seconds())

	var upstream *errors.UpstreamUnavailableError
	if errors.As(err, &upstream) {
		FeedStatusCodes.WithLabelValues(feed, strconv.Itoa(upstream.StatusCode)).Inc()
	}
}

// RecordCacheLookup records a price cache lookup outcome
func RecordCacheLookup(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}

// RecordDashboardRender records a finished dashboard render
func RecordDashboardRender(status string, duration time.Duration) {
	DashboardRenders.WithLabelValues(status).Inc()
	DashboardRenderDuration.Observe(duration.Seconds())
}

// RecordHypeIndex sets the hype gauge. Callers only pass curated tickers
// with a signal so the label set stays bounded.
func RecordHypeIndex(ticker string, hypeIndex int) {
	HypeIndex.WithLabelValues(ticker).Set(float64(hypeIndex))
}
