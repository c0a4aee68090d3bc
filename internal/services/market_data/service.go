package market_data

import (
	"context"
	"strings"
	"time"

	"hypeindex/internal/cache"
	"hypeindex/internal/domain/market_data"
	"hypeindex/internal/metrics"
	"hypeindex/pkg/clock"
	"hypeindex/pkg/logger"
)

const cachePrefix = "price:"

// Service serves daily price history through the short-lived per-ticker cache.
// Every feed failure degrades to an empty series; nothing is returned as an error.
type Service struct {
	source   market_data.BarSource
	cache    cache.Store
	clock    clock.Clock
	ttl      time.Duration
	lookback time.Duration
	log      *logger.Logger
}

// NewService creates a new market data service
func NewService(
	source market_data.BarSource,
	store cache.Store,
	clk clock.Clock,
	ttl time.Duration,
	lookback time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		source:   source,
		cache:    store,
		clock:    clk,
		ttl:      ttl,
		lookback: lookback,
		log:      log.With("component", "market_data"),
	}
}

// DailyBars returns the normalized bars for ticker over the lookback window
// ending now. Empty results are not cached so a later render can pick up data.
func (s *Service) DailyBars(ctx context.Context, ticker string) market_data.Series {
	series, outcome, err := cache.GetOrLoad(ctx, s.cache, cacheKey(ticker), s.ttl,
		func(ctx context.Context) (market_data.Series, error) {
			return s.fetch(ctx, ticker)
		},
		func(series market_data.Series) bool { return !series.Empty() },
	)
	metrics.RecordCacheLookup(string(outcome))

	if err != nil {
		s.log.Warnw("Price feed failed, showing no data",
			"ticker", ticker,
			"source", s.source.Name(),
			"error", err,
		)
		return market_data.Series{}
	}
	if outcome == cache.OutcomeError {
		s.log.Warnw("Price cache backend unavailable, served uncached", "ticker", ticker)
	}
	return series
}

func (s *Service) fetch(ctx context.Context, ticker string) (market_data.Series, error) {
	now := s.clock.Now().UTC()
	from := now.Add(-s.lookback)

	start := time.Now()
	points, err := s.source.DailyBars(ctx, ticker, from, now)
	metrics.RecordFeedCall(s.source.Name(), time.Since(start), err, len(points) == 0)
	if err != nil {
		return nil, err
	}

	series := market_data.Normalize(points)
	s.log.Debugw("Loaded price history", "ticker", ticker, "bars", len(series))
	return series, nil
}

// Invalidate drops the cached series for ticker
func (s *Service) Invalidate(ctx context.Context, ticker string) {
	metrics.CacheInvalidations.Inc()
	if err := s.cache.Delete(ctx, cacheKey(ticker)); err != nil {
		s.log.Warnw("Failed to invalidate price cache", "ticker", ticker, "error", err)
	}
}

// InvalidateAll drops every cached series
func (s *Service) InvalidateAll(ctx context.Context) {
	metrics.CacheInvalidations.Inc()
	if err := s.cache.Clear(ctx, cachePrefix); err != nil {
		s.log.Warnw("Failed to clear price cache", "error", err)
	}
}

func cacheKey(ticker string) string {
	return cachePrefix + strings.ToUpper(ticker)
}
