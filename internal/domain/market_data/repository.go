package market_data

import (
	"context"
	"time"
)

// BarSource fetches daily bars from an external market-data provider.
// Implementations return raw (unnormalized) points or an error; callers
// decide how failures degrade.
type BarSource interface {
	// Name identifies the provider in logs and metrics
	Name() string

	// DailyBars returns bars for ticker with dates in [from, to]
	DailyBars(ctx context.Context, ticker string, from, to time.Time) ([]PricePoint, error)
}
