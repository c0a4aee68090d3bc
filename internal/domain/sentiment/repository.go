package sentiment

import "context"

// Feed fetches recent posts mentioning a ticker from a social site.
// A non-2xx answer is reported as *errors.UpstreamUnavailableError; every
// other failure wraps errors.ErrUpstreamMalformed.
type Feed interface {
	SearchPosts(ctx context.Context, ticker string) ([]Post, error)
}
