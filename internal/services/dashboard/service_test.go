package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hypeindex/internal/adapters/config"
	"hypeindex/internal/domain/market_data"
	"hypeindex/internal/domain/sentiment"
	"hypeindex/internal/metrics"
	sentimentsvc "hypeindex/internal/services/sentiment"
	"hypeindex/pkg/clock"
	"hypeindex/pkg/errors"
	"hypeindex/pkg/logger"
)

var now = time.Date(2026, time.October, 18, 14, 30, 0, 0, time.UTC)

type fakePrices struct {
	series      market_data.Series
	tickers     []string
	requestIDs  []string
	invalidated []string
	cleared     int
}

func (f *fakePrices) DailyBars(ctx context.Context, ticker string) market_data.Series {
	f.tickers = append(f.tickers, ticker)
	f.requestIDs = append(f.requestIDs, errors.RequestID(ctx))
	return f.series
}

func (f *fakePrices) Invalidate(_ context.Context, ticker string) {
	f.invalidated = append(f.invalidated, ticker)
}

func (f *fakePrices) InvalidateAll(context.Context) { f.cleared++ }

type fakeSentiment struct {
	result     sentimentsvc.Result
	err        error
	tickers    []string
	requestIDs []string
}

func (f *fakeSentiment) Analyze(ctx context.Context, ticker string) (sentimentsvc.Result, error) {
	f.tickers = append(f.tickers, ticker)
	f.requestIDs = append(f.requestIDs, errors.RequestID(ctx))
	return f.result, f.err
}

func bar(day int, open, high, low, close string, volume int64) market_data.PricePoint {
	return market_data.PricePoint{
		Date:   time.Date(2026, time.October, day, 0, 0, 0, 0, time.UTC),
		Open:   decimal.RequireFromString(open),
		High:   decimal.RequireFromString(high),
		Low:    decimal.RequireFromString(low),
		Close:  decimal.RequireFromString(close),
		Volume: volume,
	}
}

func resultOf(posts ...sentiment.Post) sentimentsvc.Result {
	classified := sentiment.ClassifyAll(posts)
	return sentimentsvc.Result{Posts: classified, Summary: sentiment.Summarize(classified)}
}

func newService(prices *fakePrices, sent *fakeSentiment, opts Options) *Service {
	if opts.DefaultTicker == "" {
		opts.DefaultTicker = "SOXL"
	}
	if opts.HotUpvotes == 0 {
		opts.HotUpvotes = 50
	}
	return NewService(prices, sent, clock.NewFake(now), opts, logger.NewNop())
}

func TestLoad_PriceMetric(t *testing.T) {
	prices := &fakePrices{series: market_data.Series{
		bar(16, "99", "101", "98", "100.00", 1200),
		bar(17, "100", "106", "99.5", "105.00", 1234567),
	}}
	svc := newService(prices, &fakeSentiment{result: resultOf()}, Options{})

	view := svc.Load(context.Background(), "tsla")

	assert.Equal(t, "TSLA", view.Ticker)
	assert.True(t, view.Price.Available)
	assert.Equal(t, "$105.00", view.Price.Latest)
	assert.Equal(t, "$100.00", view.Price.Previous)
	assert.Equal(t, "+5.00%", view.Price.Change)
	assert.Equal(t, "up", view.Price.Direction)

	require.Len(t, view.Candles, 2)
	assert.Equal(t, "2026-10-16", view.Candles[0].Date)
	assert.Equal(t, 106.0, view.Candles[1].High)
	assert.Equal(t, "1,234,567", view.Candles[1].VolumeLabel)
	assert.NotEmpty(t, view.RequestID)
	assert.Equal(t, now, view.GeneratedAt)
}

func TestLoad_PriceDrop(t *testing.T) {
	prices := &fakePrices{series: market_data.Series{
		bar(16, "1", "1", "1", "199", 1),
		bar(17, "1", "1", "1", "150", 1),
	}}
	view := newService(prices, &fakeSentiment{}, Options{}).Load(context.Background(), "X")

	assert.Equal(t, "-24.62%", view.Price.Change)
	assert.Equal(t, "down", view.Price.Direction)
}

func TestLoad_PricePlaceholder(t *testing.T) {
	for name, series := range map[string]market_data.Series{
		"no bars": nil,
		"one bar": {bar(17, "1", "1", "1", "10", 1)},
	} {
		t.Run(name, func(t *testing.T) {
			view := newService(&fakePrices{series: series}, &fakeSentiment{}, Options{}).
				Load(context.Background(), "AAPL")

			assert.False(t, view.Price.Available)
			assert.Equal(t, "-", view.Price.Latest)
			assert.Empty(t, view.Price.Previous)
			assert.Empty(t, view.Price.Change)
			assert.Len(t, view.Candles, len(series))
		})
	}
}

func TestLoad_HypeAndPosts(t *testing.T) {
	posted := now.Add(-2 * time.Hour)
	sent := &fakeSentiment{result: resultOf(
		sentiment.Post{Title: "SOXL to the moon", Timestamp: posted, Upvotes: 51, CommentCount: 4, Community: "wallstreetbets"},
		sentiment.Post{Title: "buy the dip", Timestamp: posted, Upvotes: 50, Community: "stocks"},
		sentiment.Post{Title: "rocket", Timestamp: posted, Upvotes: 1200, Community: "stocks"},
		sentiment.Post{Title: "it will crash", Timestamp: posted, Community: "investing"},
		sentiment.Post{Title: "earnings thoughts?", Timestamp: posted, Community: "investing"},
	)}
	view := newService(&fakePrices{}, sent, Options{}).Load(context.Background(), "SOXL")

	assert.Equal(t, 75, view.Hype.Index)
	assert.Equal(t, string(sentiment.MoodHype), view.Hype.Label)
	assert.Equal(t, "3 : 1", view.Hype.Ratio)
	assert.Equal(t, "Last 5 posts", view.Hype.PostsCaption)
	assert.True(t, view.Hype.HasSignal)
	assert.Equal(t, StatusOK, view.Status.Kind)

	require.Len(t, view.Posts, 5)
	first := view.Posts[0]
	assert.Equal(t, "Bullish", first.Sentiment)
	assert.Equal(t, "r/wallstreetbets", first.Community)
	assert.Equal(t, "10-18 12:30", first.Time)
	assert.Equal(t, "2 hours ago", first.Age)
	assert.True(t, first.Hot, "51 upvotes is hot")
	assert.False(t, view.Posts[1].Hot, "exactly 50 is not hot")
	assert.Equal(t, "1,200", view.Posts[2].UpvotesLabel)
	assert.Equal(t, "Bearish", view.Posts[3].Sentiment)
	assert.Equal(t, "Discussion", view.Posts[4].Sentiment)
}

func TestLoad_RequestIDReachesFeeds(t *testing.T) {
	prices := &fakePrices{}
	sent := &fakeSentiment{result: resultOf()}

	view := newService(prices, sent, Options{}).Load(context.Background(), "TSLA")

	require.NotEmpty(t, view.RequestID)
	assert.Equal(t, []string{view.RequestID}, prices.requestIDs)
	assert.Equal(t, []string{view.RequestID}, sent.requestIDs)
}

func TestLoad_HypeGaugeOnlyForCuratedSignal(t *testing.T) {
	metrics.HypeIndex.Reset()
	t.Cleanup(metrics.HypeIndex.Reset)

	withSignal := &fakeSentiment{result: resultOf(
		sentiment.Post{Title: "to the moon", Timestamp: now, Community: "stocks"},
	)}
	svc := newService(&fakePrices{}, withSignal, Options{Tickers: []config.Ticker{{Symbol: "TSLA"}}})

	for i := 0; i < 20; i++ {
		svc.Load(context.Background(), fmt.Sprintf("JUNK%d", i))
	}
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.HypeIndex), "uncurated tickers")

	newService(&fakePrices{}, &fakeSentiment{result: resultOf()}, Options{Tickers: []config.Ticker{{Symbol: "TSLA"}}}).
		Load(context.Background(), "TSLA")
	assert.Equal(t, 0, testutil.CollectAndCount(metrics.HypeIndex), "curated ticker without signal")

	view := svc.Load(context.Background(), "TSLA")
	require.True(t, view.Curated)
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.HypeIndex))
	assert.Equal(t, float64(view.Hype.Index), testutil.ToFloat64(metrics.HypeIndex.WithLabelValues("TSLA")))
}

func TestLoad_DisplayTimezone(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	sent := &fakeSentiment{result: resultOf(
		sentiment.Post{Title: "hold", Timestamp: time.Date(2026, time.October, 18, 20, 5, 0, 0, time.UTC), Community: "x"},
	)}
	view := newService(&fakePrices{}, sent, Options{Location: seoul}).Load(context.Background(), "T")

	require.Len(t, view.Posts, 1)
	assert.Equal(t, "10-19 05:05", view.Posts[0].Time)
}

func TestLoad_NoPosts(t *testing.T) {
	view := newService(&fakePrices{}, &fakeSentiment{result: resultOf()}, Options{}).
		Load(context.Background(), "O")

	assert.Equal(t, StatusNoData, view.Status.Kind)
	assert.Contains(t, view.Status.Message, "'O'")
	assert.NotEmpty(t, view.Status.Hint)
	assert.Equal(t, 0, view.Hype.Index)
	assert.False(t, view.Hype.HasSignal)
	assert.Equal(t, "0 : 0", view.Hype.Ratio)
	assert.Equal(t, "Last 0 posts", view.Hype.PostsCaption)
	assert.NotNil(t, view.Posts)
	assert.Empty(t, view.Posts)
}

func TestLoad_UpstreamUnavailable(t *testing.T) {
	sent := &fakeSentiment{
		result: sentimentsvc.Result{Posts: []sentiment.ClassifiedPost{}},
		err:    errors.Wrap(errors.NewUpstreamUnavailable("reddit", 429), "search posts"),
	}
	view := newService(&fakePrices{}, sent, Options{}).Load(context.Background(), "GME")

	assert.Equal(t, StatusUpstreamUnavailable, view.Status.Kind)
	assert.Equal(t, 429, view.Status.StatusCode)
	assert.Contains(t, view.Status.Message, "code 429")
	assert.Contains(t, view.Status.Message, "retry later")
	assert.Empty(t, view.Posts)
	assert.Equal(t, "0 : 0", view.Hype.Ratio)
}

func TestLoad_TickerNormalization(t *testing.T) {
	prices := &fakePrices{}
	sent := &fakeSentiment{}
	svc := newService(prices, sent, Options{
		Tickers: []config.Ticker{{Symbol: "NVDA", Name: "Nvidia"}},
	})

	view := svc.Load(context.Background(), " n v\tda ")
	assert.Equal(t, "NVDA", view.Ticker)
	assert.True(t, view.Curated)

	view = svc.Load(context.Background(), "   ")
	assert.Equal(t, "SOXL", view.Ticker)
	assert.False(t, view.Curated)

	assert.Equal(t, []string{"NVDA", "SOXL"}, prices.tickers)
	assert.Equal(t, []string{"NVDA", "SOXL"}, sent.tickers)
}

func TestRefresh(t *testing.T) {
	t.Run("clears all", func(t *testing.T) {
		prices := &fakePrices{}
		svc := newService(prices, &fakeSentiment{}, Options{RefreshAll: true})

		view := svc.Refresh(context.Background(), "tsla")
		assert.Equal(t, "TSLA", view.Ticker)
		assert.Equal(t, 1, prices.cleared)
		assert.Empty(t, prices.invalidated)
		assert.Equal(t, []string{"TSLA"}, prices.tickers)
	})

	t.Run("current ticker only", func(t *testing.T) {
		prices := &fakePrices{}
		svc := newService(prices, &fakeSentiment{}, Options{})

		svc.Refresh(context.Background(), "tsla")
		assert.Equal(t, 0, prices.cleared)
		assert.Equal(t, []string{"TSLA"}, prices.invalidated)
	})
}
