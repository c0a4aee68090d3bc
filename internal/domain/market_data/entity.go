package market_data

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for chart axes and lookback bounds
const DateLayout = "2006-01-02"

// PricePoint is one daily OHLCV bar
type PricePoint struct {
	Date   time.Time       `json:"date"` // UTC midnight of the trading day
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// DateString returns the bar date as YYYY-MM-DD
func (p PricePoint) DateString() string {
	return p.Date.Format(DateLayout)
}

// Series is an ascending, duplicate-free sequence of daily bars
type Series []PricePoint

// Normalize sorts points ascending by date, truncates each date to the day
// and keeps the first bar seen for any given date. Zero-dated bars are dropped.
func Normalize(points []PricePoint) Series {
	out := make(Series, 0, len(points))
	for _, p := range points {
		if p.Date.IsZero() {
			continue
		}
		y, m, d := p.Date.UTC().Date()
		p.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	deduped := out[:0]
	for i, p := range out {
		if i > 0 && p.Date.Equal(deduped[len(deduped)-1].Date) {
			continue
		}
		deduped = append(deduped, p)
	}
	return deduped
}

// Empty reports whether the series holds no bars
func (s Series) Empty() bool {
	return len(s) == 0
}

// Change describes the move between the two most recent closes
type Change struct {
	Latest   decimal.Decimal
	Previous decimal.Decimal
	Percent  decimal.Decimal // rounded to 2 decimal places
}

// LatestChange returns the latest/previous close move.
// ok is false when fewer than two bars exist or the previous close is zero.
func (s Series) LatestChange() (Change, bool) {
	if len(s) < 2 {
		return Change{}, false
	}
	latest := s[len(s)-1].Close
	previous := s[len(s)-2].Close
	if previous.IsZero() {
		return Change{}, false
	}

	pct := latest.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
	return Change{Latest: latest, Previous: previous, Percent: pct}, true
}
