package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hypeindex/internal/adapters/config"
	"hypeindex/internal/domain/market_data"
	"hypeindex/internal/domain/sentiment"
	"hypeindex/internal/metrics"
	sentimentsvc "hypeindex/internal/services/sentiment"
	"hypeindex/pkg/clock"
	"hypeindex/pkg/errors"
	"hypeindex/pkg/logger"
)

const (
	placeholder   = "-"
	postTimeFmt   = "01-02 15:04"
	noDataHint    = "Tip: very short tickers (like O or T) or unpopular ones may not return search results."
	sentimentFeed = "Reddit"
)

// PriceSource is the cached price history used by the dashboard
type PriceSource interface {
	DailyBars(ctx context.Context, ticker string) market_data.Series
	Invalidate(ctx context.Context, ticker string)
	InvalidateAll(ctx context.Context)
}

// SentimentSource classifies the newest posts for a ticker
type SentimentSource interface {
	Analyze(ctx context.Context, ticker string) (sentimentsvc.Result, error)
}

// Options configures the dashboard
type Options struct {
	DefaultTicker string
	Tickers       []config.Ticker
	HotUpvotes    int
	Location      *time.Location
	RefreshAll    bool // refresh clears every cached ticker, not only the current one
}

// Service assembles the dashboard view for one ticker
type Service struct {
	prices    PriceSource
	sentiment SentimentSource
	clock     clock.Clock
	opts      Options
	curated   map[string]bool
	log       *logger.Logger
}

// NewService creates the dashboard service
func NewService(prices PriceSource, sent SentimentSource, clk clock.Clock, opts Options, log *logger.Logger) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	opts.DefaultTicker = config.NormalizeTicker(opts.DefaultTicker)

	curated := make(map[string]bool, len(opts.Tickers))
	for _, t := range opts.Tickers {
		curated[t.Symbol] = true
	}

	return &Service{
		prices:    prices,
		sentiment: sent,
		clock:     clk,
		opts:      opts,
		curated:   curated,
		log:       log.With("component", "dashboard"),
	}
}

// Tickers returns the curated ticker list
func (s *Service) Tickers() []config.Ticker {
	return s.opts.Tickers
}

// Ticker normalizes user input, falling back to the default ticker
func (s *Service) Ticker(input string) string {
	if t := config.NormalizeTicker(input); t != "" {
		return t
	}
	return s.opts.DefaultTicker
}

// Load fetches prices then posts for ticker and builds the view.
// It never fails: every feed problem ends up as a renderable state.
func (s *Service) Load(ctx context.Context, input string) View {
	start := time.Now()
	ticker := s.Ticker(input)
	requestID := uuid.New().String()
	ctx = errors.WithRequestID(ctx, requestID)
	log := s.log.With("request_id", requestID, "ticker", ticker)

	series := s.prices.DailyBars(ctx, ticker)
	result, sentErr := s.sentiment.Analyze(ctx, ticker)

	now := s.clock.Now()
	view := View{
		RequestID:   requestID,
		Ticker:      ticker,
		GeneratedAt: now,
		Tickers:     s.opts.Tickers,
		Curated:     s.curated[ticker],
		Price:       priceMetric(series),
		Hype:        hypeMetric(result),
		Candles:     candles(series),
		Posts:       s.posts(result.Posts, now),
		Status:      status(ticker, result, sentErr),
	}

	log.Infow("Dashboard rendered",
		"bars", len(series),
		"posts", view.Hype.PostCount,
		"hype_index", view.Hype.Index,
		"status", view.Status.Kind,
	)
	metrics.RecordDashboardRender(string(view.Status.Kind), time.Since(start))
	if view.Curated && view.Hype.HasSignal {
		metrics.RecordHypeIndex(ticker, view.Hype.Index)
	}

	return view
}

// Refresh drops cached prices and reloads the view
func (s *Service) Refresh(ctx context.Context, input string) View {
	ticker := s.Ticker(input)
	if s.opts.RefreshAll {
		s.prices.InvalidateAll(ctx)
	} else {
		s.prices.Invalidate(ctx, ticker)
	}
	s.log.Infow("Price cache invalidated", "ticker", ticker, "all", s.opts.RefreshAll)
	return s.Load(ctx, ticker)
}

func priceMetric(series market_data.Series) PriceMetric {
	change, ok := series.LatestChange()
	if !ok {
		return PriceMetric{Latest: placeholder}
	}

	direction := "flat"
	switch change.Percent.Sign() {
	case 1:
		direction = "up"
	case -1:
		direction = "down"
	}

	return PriceMetric{
		Available: true,
		Latest:    "$" + change.Latest.StringFixed(2),
		Previous:  "$" + change.Previous.StringFixed(2),
		Change:    signed(change.Percent) + "%",
		Direction: direction,
	}
}

func signed(d decimal.Decimal) string {
	if d.Sign() >= 0 {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

func hypeMetric(result sentimentsvc.Result) HypeMetric {
	sum := result.Summary
	n := len(result.Posts)
	return HypeMetric{
		Index:        sum.HypeIndex,
		Label:        string(sentiment.Label(sum.HypeIndex)),
		Bullish:      sum.BullishCount,
		Bearish:      sum.BearishCount,
		Ratio:        fmt.Sprintf("%d : %d", sum.BullishCount, sum.BearishCount),
		PostCount:    n,
		PostsCaption: fmt.Sprintf("Last %d posts", n),
		HasSignal:    sum.HasSignal(),
	}
}

func candles(series market_data.Series) []Candle {
	out := make([]Candle, 0, len(series))
	for _, p := range series {
		out = append(out, Candle{
			Date:        p.DateString(),
			Open:        p.Open.InexactFloat64(),
			High:        p.High.InexactFloat64(),
			Low:         p.Low.InexactFloat64(),
			Close:       p.Close.InexactFloat64(),
			Volume:      p.Volume,
			VolumeLabel: humanize.Comma(p.Volume),
		})
	}
	return out
}

func (s *Service) posts(posts []sentiment.ClassifiedPost, now time.Time) []PostView {
	out := make([]PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, PostView{
			Title:        p.Title,
			Sentiment:    string(p.Sentiment),
			Community:    "r/" + p.Community,
			Time:         p.Timestamp.In(s.opts.Location).Format(postTimeFmt),
			Age:          humanize.RelTime(p.Timestamp, now, "ago", "from now"),
			Upvotes:      p.Upvotes,
			UpvotesLabel: humanize.Comma(int64(p.Upvotes)),
			Comments:     p.CommentCount,
			Hot:          p.Upvotes > s.opts.HotUpvotes,
			Permalink:    p.Permalink,
		})
	}
	return out
}

func status(ticker string, result sentimentsvc.Result, err error) Status {
	var unavailable *errors.UpstreamUnavailableError
	if errors.As(err, &unavailable) {
		return Status{
			Kind:       StatusUpstreamUnavailable,
			StatusCode: unavailable.StatusCode,
			Message: fmt.Sprintf("%s connection failed (code %d), retry later",
				sentimentFeed, unavailable.StatusCode),
		}
	}
	if err != nil {
		return Status{
			Kind:    StatusUpstreamUnavailable,
			Message: sentimentFeed + " connection failed, retry later",
		}
	}
	if len(result.Posts) == 0 {
		return Status{
			Kind:    StatusNoData,
			Message: fmt.Sprintf("No recent %s posts found for '%s'", sentimentFeed, ticker),
			Hint:    noDataHint,
		}
	}
	return Status{Kind: StatusOK}
}
