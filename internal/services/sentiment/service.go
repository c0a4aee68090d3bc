package sentiment

import (
	"context"
	"time"

	"hypeindex/internal/domain/sentiment"
	"hypeindex/internal/metrics"
	"hypeindex/pkg/errors"
	"hypeindex/pkg/logger"
)

// Result is the classified outcome of one feed query
type Result struct {
	Posts   []sentiment.ClassifiedPost
	Summary sentiment.Summary
}

// Counts returns the (bullish, bearish) pair
func (r Result) Counts() (int, int) {
	return r.Summary.BullishCount, r.Summary.BearishCount
}

// Service fetches and classifies posts for a ticker
type Service struct {
	feed     sentiment.Feed
	feedName string
	log      *logger.Logger
}

// NewService creates a sentiment service over feed
func NewService(feed sentiment.Feed, feedName string, log *logger.Logger) *Service {
	return &Service{
		feed:     feed,
		feedName: feedName,
		log:      log.With("component", "sentiment"),
	}
}

// Analyze fetches the newest posts for ticker and classifies them.
//
// On a non-2xx feed answer it returns an empty Result and an error matching
// errors.ErrUpstreamUnavailable that carries the status code. Every other
// failure also yields an empty Result but a nil error, so callers see it as
// "no posts"; the cause is only logged and counted.
func (s *Service) Analyze(ctx context.Context, ticker string) (Result, error) {
	start := time.Now()
	posts, err := s.feed.SearchPosts(ctx, ticker)
	metrics.RecordFeedCall(s.feedName, time.Since(start), err, len(posts) == 0)

	if err != nil {
		if errors.Is(err, errors.ErrUpstreamUnavailable) {
			return emptyResult(), err
		}
		s.log.Warnw("Sentiment feed failed, treating as no posts",
			"ticker", ticker,
			"error", err,
		)
		return emptyResult(), nil
	}

	classified := sentiment.ClassifyAll(posts)
	summary := sentiment.Summarize(classified)

	s.log.Debugw("Classified posts",
		"ticker", ticker,
		"posts", summary.TotalPosts,
		"bullish", summary.BullishCount,
		"bearish", summary.BearishCount,
		"hype_index", summary.HypeIndex,
	)

	return Result{Posts: classified, Summary: summary}, nil
}

func emptyResult() Result {
	return Result{Posts: []sentiment.ClassifiedPost{}}
}
