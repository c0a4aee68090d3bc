package market_data

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypeindex/internal/cache"
	"hypeindex/internal/domain/market_data"
	"hypeindex/pkg/clock"
	"hypeindex/pkg/errors"
	"hypeindex/pkg/logger"
)

var now = time.Date(2026, time.October, 18, 14, 30, 0, 0, time.UTC)

type fakeSource struct {
	calls    int
	tickers  []string
	from, to time.Time
	points   []market_data.PricePoint
	err      error
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) DailyBars(_ context.Context, ticker string, from, to time.Time) ([]market_data.PricePoint, error) {
	f.calls++
	f.tickers = append(f.tickers, ticker)
	f.from, f.to = from, to
	return f.points, f.err
}

func twoBars() []market_data.PricePoint {
	return []market_data.PricePoint{
		{Date: time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC), Close: decimal.RequireFromString("105.00")},
		{Date: time.Date(2026, time.October, 16, 0, 0, 0, 0, time.UTC), Close: decimal.RequireFromString("100.00")},
	}
}

func newService(src *fakeSource, clk clock.Clock) *Service {
	return NewService(src, cache.NewMemoryStore(clk), clk, 60*time.Second, 90*24*time.Hour, logger.NewNop())
}

func TestDailyBars_LookbackWindow(t *testing.T) {
	src := &fakeSource{points: twoBars()}
	svc := newService(src, clock.NewFake(now))

	series := svc.DailyBars(context.Background(), "TSLA")
	require.Len(t, series, 2)
	assert.Equal(t, "2026-10-16", series[0].DateString(), "normalized ascending")

	assert.Equal(t, now, src.to)
	assert.Equal(t, now.AddDate(0, 0, -90), src.from)
}

func TestDailyBars_CachedForTTL(t *testing.T) {
	clk := clock.NewFake(now)
	src := &fakeSource{points: twoBars()}
	svc := newService(src, clk)
	ctx := context.Background()

	first := svc.DailyBars(ctx, "TSLA")
	clk.Advance(59 * time.Second)
	second := svc.DailyBars(ctx, "TSLA")

	assert.Equal(t, 1, src.calls)
	require.Len(t, second, 2)
	assert.True(t, first[1].Close.Equal(second[1].Close))

	clk.Advance(time.Second)
	svc.DailyBars(ctx, "TSLA")
	assert.Equal(t, 2, src.calls, "expired after 60s")
}

func TestDailyBars_PerTickerEntries(t *testing.T) {
	clk := clock.NewFake(now)
	src := &fakeSource{points: twoBars()}
	svc := newService(src, clk)
	ctx := context.Background()

	svc.DailyBars(ctx, "TSLA")
	clk.Advance(30 * time.Second)
	svc.DailyBars(ctx, "NVDA")
	clk.Advance(30 * time.Second)

	svc.DailyBars(ctx, "NVDA")
	svc.DailyBars(ctx, "TSLA")
	assert.Equal(t, []string{"TSLA", "NVDA", "TSLA"}, src.tickers)
}

func TestDailyBars_FailureDegradesToEmpty(t *testing.T) {
	src := &fakeSource{err: errors.NewUpstreamUnavailable("fake", 403)}
	svc := newService(src, clock.NewFake(now))

	series := svc.DailyBars(context.Background(), "TSLA")
	assert.NotNil(t, series)
	assert.Empty(t, series)

	svc.DailyBars(context.Background(), "TSLA")
	assert.Equal(t, 2, src.calls, "failures are not cached")
}

func TestDailyBars_EmptyNotCached(t *testing.T) {
	src := &fakeSource{}
	svc := newService(src, clock.NewFake(now))

	assert.Empty(t, svc.DailyBars(context.Background(), "ZZZZ"))
	assert.Empty(t, svc.DailyBars(context.Background(), "ZZZZ"))
	assert.Equal(t, 2, src.calls)
}

func TestInvalidate(t *testing.T) {
	src := &fakeSource{points: twoBars()}
	svc := newService(src, clock.NewFake(now))
	ctx := context.Background()

	svc.DailyBars(ctx, "TSLA")
	svc.DailyBars(ctx, "NVDA")
	svc.Invalidate(ctx, "tsla")
	svc.DailyBars(ctx, "TSLA")
	svc.DailyBars(ctx, "NVDA")
	assert.Equal(t, 3, src.calls)

	svc.InvalidateAll(ctx)
	svc.DailyBars(ctx, "TSLA")
	svc.DailyBars(ctx, "NVDA")
	assert.Equal(t, 5, src.calls)
}
