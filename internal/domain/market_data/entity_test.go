package market_data

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func bar(date time.Time, close string) PricePoint {
	return PricePoint{Date: date, Close: decimal.RequireFromString(close)}
}

func TestNormalize_SortsAndDedupes(t *testing.T) {
	points := []PricePoint{
		bar(day(3), "103"),
		bar(day(1), "101"),
		bar(day(2).Add(14*time.Hour), "102"),
		bar(day(2).Add(20*time.Hour), "999"),
		{},
	}

	series := Normalize(points)
	require.Len(t, series, 3)
	assert.Equal(t, "2026-03-01", series[0].DateString())
	assert.Equal(t, "2026-03-02", series[1].DateString())
	assert.Equal(t, "2026-03-03", series[2].DateString())
	assert.True(t, series[1].Close.Equal(decimal.NewFromInt(102)), "first bar for a date wins")
}

func TestLatestChange_FivePercent(t *testing.T) {
	series := Normalize([]PricePoint{bar(day(1), "100.00"), bar(day(2), "105.00")})

	change, ok := series.LatestChange()
	require.True(t, ok)
	assert.Equal(t, "105", change.Latest.String())
	assert.Equal(t, "100", change.Previous.String())
	assert.Equal(t, "5.00", change.Percent.StringFixed(2))
}

func TestLatestChange_Negative(t *testing.T) {
	series := Normalize([]PricePoint{bar(day(1), "200"), bar(day(2), "199"), bar(day(3), "150")})

	change, ok := series.LatestChange()
	require.True(t, ok)
	assert.Equal(t, "-24.62", change.Percent.StringFixed(2))
}

func TestLatestChange_NeedsTwoBars(t *testing.T) {
	_, ok := Series(nil).LatestChange()
	assert.False(t, ok)

	_, ok = Normalize([]PricePoint{bar(day(1), "100")}).LatestChange()
	assert.False(t, ok)

	_, ok = Normalize([]PricePoint{bar(day(1), "0"), bar(day(2), "1")}).LatestChange()
	assert.False(t, ok, "zero previous close")
}
