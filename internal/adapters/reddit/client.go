// Package reddit searches Reddit's public JSON endpoint for posts mentioning a ticker.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hypeindex/internal/adapters/ratelimit"
	"hypeindex/internal/domain/sentiment"
	"hypeindex/pkg/errors"
	"hypeindex/pkg/logger"
)

const feedName = "reddit"

// DefaultUserAgent is sent when none is configured; Reddit rejects empty
// and library-default agents with 403/429
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultLimit is the number of newest posts requested
const DefaultLimit = 25

// Client implements sentiment.Feed
type Client struct {
	baseURL    string
	userAgent  string
	limit      int
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	log        *logger.Logger
}

// Options configures the client; zero values fall back to defaults
type Options struct {
	BaseURL   string
	UserAgent string
	Limit     int
	Timeout   time.Duration
	Limiter   *ratelimit.Limiter
}

// NewClient creates a Reddit search client
func NewClient(opts Options, log *logger.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://www.reddit.com"
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		limit:      opts.Limit,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    opts.Limiter,
		log:        log.With("component", "reddit"),
	}
}

// Reddit API post listing response
type listingResponse struct {
	Data *listingData `json:"data"`
}

type listingData struct {
	Children *[]listingChild `json:"children"`
	After    string          `json:"after"`
}

type listingChild struct {
	Kind string    `json:"kind"`
	Data *postData `json:"data"`
}

type postData struct {
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Subreddit   string  `json:"subreddit"`
	Upvotes     int     `json:"ups"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Permalink   string  `json:"permalink"`
}

// SearchPosts implements sentiment.Feed
func (c *Client) SearchPosts(ctx context.Context, ticker string) ([]sentiment.Post, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	endpoint := c.searchURL(ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create Reddit search request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamMalformed, "Reddit search request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warnw("Reddit search returned non-success status",
			"ticker", ticker,
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil, errors.NewUpstreamUnavailable(feedName, resp.StatusCode)
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, errors.Wrapf(errors.ErrUpstreamMalformed, "decode Reddit listing: %v", err)
	}
	if listing.Data == nil || listing.Data.Children == nil {
		return nil, errors.Wrap(errors.ErrUpstreamMalformed, "Reddit listing has no data.children")
	}

	children := *listing.Data.Children
	posts := make([]sentiment.Post, 0, len(children))
	for i, child := range children {
		if child.Data == nil {
			return nil, errors.Wrapf(errors.ErrUpstreamMalformed, "Reddit listing child %d has no data", i)
		}
		posts = append(posts, child.Data.toPost())
	}

	c.log.Debugw("Fetched Reddit posts", "ticker", ticker, "posts", len(posts))
	return posts, nil
}

func (p *postData) toPost() sentiment.Post {
	community := p.Subreddit
	if community == "" {
		community = "unknown"
	}

	var permalink string
	if p.Permalink != "" {
		permalink = "https://www.reddit.com" + p.Permalink
	}

	return sentiment.Post{
		Title:        p.Title,
		Body:         sentiment.TruncateBody(p.Selftext),
		Timestamp:    epochSeconds(p.CreatedUTC),
		Upvotes:      nonNegative(p.Upvotes),
		CommentCount: nonNegative(p.NumComments),
		Community:    community,
		Permalink:    permalink,
	}
}

func (c *Client) searchURL(ticker string) string {
	q := url.Values{}
	q.Set("q", ticker)
	q.Set("sort", "new")
	q.Set("limit", strconv.Itoa(c.limit))
	q.Set("type", "link")
	return fmt.Sprintf("%s/search.json?%s", c.baseURL, q.Encode())
}

func epochSeconds(v float64) time.Time {
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC()
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
