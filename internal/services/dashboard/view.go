package dashboard

import (
	"time"

	"hypeindex/internal/adapters/config"
)

// StatusKind classifies the sentiment section of a render
type StatusKind string

const (
	StatusOK                  StatusKind = "ok"
	StatusNoData              StatusKind = "no_data"
	StatusUpstreamUnavailable StatusKind = "upstream_unavailable"
)

// View is everything the page needs; every field is always renderable
type View struct {
	RequestID   string          `json:"request_id"`
	Ticker      string          `json:"ticker"`
	GeneratedAt time.Time       `json:"generated_at"`
	Tickers     []config.Ticker `json:"tickers"`
	Curated     bool            `json:"curated"` // ticker is in the curated list
	Price       PriceMetric     `json:"price"`
	Hype        HypeMetric      `json:"hype"`
	Candles     []Candle        `json:"candles"`
	Posts       []PostView      `json:"posts"`
	Status      Status          `json:"status"`
}

// PriceMetric is the latest close card
type PriceMetric struct {
	Available bool   `json:"available"`
	Latest    string `json:"latest"`    // "$105.00" or "-"
	Previous  string `json:"previous"`  // "$100.00" or ""
	Change    string `json:"change"`    // "+5.00%" or ""
	Direction string `json:"direction"` // up|down|flat|""
}

// HypeMetric is the hype index card plus the bull:bear card
type HypeMetric struct {
	Index        int    `json:"index"`
	Label        string `json:"label"`
	Bullish      int    `json:"bullish"`
	Bearish      int    `json:"bearish"`
	Ratio        string `json:"ratio"` // "3 : 1"
	PostCount    int    `json:"post_count"`
	PostsCaption string `json:"posts_caption"` // "Last 25 posts"
	HasSignal    bool   `json:"has_signal"`
}

// Candle is one chart bar
type Candle struct {
	Date        string  `json:"date"`
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Volume      int64   `json:"volume"`
	VolumeLabel string  `json:"volume_label"`
}

// PostView is one classified post in the scrollable list
type PostView struct {
	Title        string `json:"title"`
	Sentiment    string `json:"sentiment"`
	Community    string `json:"community"` // "r/wallstreetbets"
	Time         string `json:"time"`      // "MM-DD HH:MM"
	Age          string `json:"age"`
	Upvotes      int    `json:"upvotes"`
	UpvotesLabel string `json:"upvotes_label"`
	Comments     int    `json:"comments"`
	Hot          bool   `json:"hot"`
	Permalink    string `json:"permalink,omitempty"`
}

// Status carries the user-facing message for the sentiment section
type Status struct {
	Kind       StatusKind `json:"kind"`
	StatusCode int        `json:"status_code,omitempty"`
	Message    string     `json:"message,omitempty"`
	Hint       string     `json:"hint,omitempty"`
}
