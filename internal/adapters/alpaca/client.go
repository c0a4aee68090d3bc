// Package alpaca is an alternative daily-bar source backed by the Alpaca
// market-data API.
package alpaca

import (
	"context"
	"net/http"
	"time"

	alpacaapi "github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"

	"hypeindex/internal/adapters/ratelimit"
	"hypeindex/internal/domain/market_data"
	"hypeindex/pkg/errors"
	"hypeindex/pkg/logger"
)

const feedName = "alpaca"

// Client implements market_data.BarSource
type Client struct {
	client  *marketdata.Client
	feed    marketdata.Feed
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

// NewClient creates an Alpaca bar source. dataURL may be empty.
// The SDK's 429/500 retry loop is switched off; each DailyBars call is one request.
func NewClient(apiKey, apiSecret, dataURL, feed string, timeout time.Duration, limiter *ratelimit.Limiter, log *logger.Logger) *Client {
	opts := marketdata.ClientOpts{
		APIKey:     apiKey,
		APISecret:  apiSecret,
		RetryLimit: -1,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}

	return &Client{
		client:  marketdata.NewClient(opts),
		feed:    marketdata.Feed(feed),
		limiter: limiter,
		log:     log.With("component", "alpaca"),
	}
}

// Name implements market_data.BarSource
func (c *Client) Name() string {
	return feedName
}

// DailyBars implements market_data.BarSource
func (c *Client) DailyBars(ctx context.Context, ticker string, from, to time.Time) ([]market_data.PricePoint, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	c.log.Debugw("Fetching daily bars", "ticker", ticker, "from", from.Format(market_data.DateLayout), "to", to.Format(market_data.DateLayout))

	bars, err := c.client.GetBars(ticker, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     from,
		End:       to,
		Feed:      c.feed,
	})
	if err != nil {
		var apiErr *alpacaapi.APIError
		if errors.As(err, &apiErr) {
			c.log.Debugw("Bars endpoint returned error", "status", apiErr.StatusCode, "message", apiErr.Message)
			return nil, errors.NewUpstreamUnavailable(feedName, apiErr.StatusCode)
		}
		return nil, errors.Wrapf(errors.ErrUpstreamMalformed, "GetBars %s: %v", ticker, err)
	}

	return convertBars(bars), nil
}

func convertBars(bars []marketdata.Bar) []market_data.PricePoint {
	points := make([]market_data.PricePoint, 0, len(bars))
	for _, b := range bars {
		points = append(points, market_data.PricePoint{
			Date:   b.Timestamp.UTC(),
			Open:   decimal.NewFromFloat(b.Open),
			High:   decimal.NewFromFloat(b.High),
			Low:    decimal.NewFromFloat(b.Low),
			Close:  decimal.NewFromFloat(b.Close),
			Volume: int64(b.Volume),
		})
	}
	return points
}
