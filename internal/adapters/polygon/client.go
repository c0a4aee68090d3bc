// Package polygon fetches daily aggregate bars from the Polygon.io REST API.
package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"hypeindex/internal/adapters/ratelimit"
	"hypeindex/internal/domain/market_data"
	"hypeindex/pkg/errors"
	"hypeindex/pkg/logger"
)

const feedName = "polygon"

// Client implements market_data.BarSource against the aggregates endpoint
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	log        *logger.Logger
}

// NewClient creates a Polygon client. apiKey is only ever sent as a query
// parameter and is redacted from every logged URL and error.
func NewClient(baseURL, apiKey string, timeout time.Duration, limiter *ratelimit.Limiter, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		log:        log.With("component", "polygon"),
	}
}

// Name implements market_data.BarSource
func (c *Client) Name() string {
	return feedName
}

// aggregatesResponse is the /v2/aggs payload; Results is absent when the
// ticker has no bars in range
type aggregatesResponse struct {
	Status       string      `json:"status"`
	ResultsCount int         `json:"resultsCount"`
	Results      []aggregate `json:"results"`
}

type aggregate struct {
	Timestamp *int64           `json:"t"` // epoch milliseconds
	Open      *decimal.Decimal `json:"o"`
	High      *decimal.Decimal `json:"h"`
	Low       *decimal.Decimal `json:"l"`
	Close     *decimal.Decimal `json:"c"`
	Volume    *float64         `json:"v"`
}

// DailyBars implements market_data.BarSource
func (c *Client) DailyBars(ctx context.Context, ticker string, from, to time.Time) ([]market_data.PricePoint, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint := c.aggregatesURL(ticker, from, to)
	c.log.Debugw("Fetching daily bars", "ticker", ticker, "url", redact(endpoint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamMalformed, "create aggregates request: %v", scrub(err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamMalformed, "aggregates request failed: %v", scrub(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Debugw("Aggregates endpoint returned error", "status", resp.StatusCode, "body", string(body))
		return nil, errors.NewUpstreamUnavailable(feedName, resp.StatusCode)
	}

	var payload aggregatesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamMalformed, "decode aggregates: %v", err)
	}

	points := make([]market_data.PricePoint, 0, len(payload.Results))
	for i, a := range payload.Results {
		p, ok := a.toPoint()
		if !ok {
			return nil, errors.Wrapf(errors.ErrUpstreamMalformed, "aggregate %d is missing fields", i)
		}
		points = append(points, p)
	}

	return points, nil
}

func (a aggregate) toPoint() (market_data.PricePoint, bool) {
	if a.Timestamp == nil || a.Open == nil || a.High == nil || a.Low == nil || a.Close == nil || a.Volume == nil {
		return market_data.PricePoint{}, false
	}
	return market_data.PricePoint{
		Date:   time.UnixMilli(*a.Timestamp).UTC(),
		Open:   *a.Open,
		High:   *a.High,
		Low:    *a.Low,
		Close:  *a.Close,
		Volume: int64(*a.Volume),
	}, true
}

func (c *Client) aggregatesURL(ticker string, from, to time.Time) string {
	q := url.Values{}
	q.Set("adjusted", "true")
	q.Set("sort", "asc")
	q.Set("limit", "50000")
	q.Set("apiKey", c.apiKey)

	return fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?%s",
		c.baseURL,
		url.PathEscape(ticker),
		from.Format(market_data.DateLayout),
		to.Format(market_data.DateLayout),
		q.Encode(),
	)
}

// redact replaces the apiKey query value
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable url>"
	}
	q := u.Query()
	if q.Has("apiKey") {
		q.Set("apiKey", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// scrub strips the request URL (and its key) from transport errors
func scrub(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s %s: %w", urlErr.Op, redact(urlErr.URL), urlErr.Err)
	}
	return err
}
