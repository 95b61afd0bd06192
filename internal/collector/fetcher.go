package collector

import (
	"context"
	"time"

	"StockCompare/internal/model"
)

// Fetcher defines the interface for fetching daily price candles.
type Fetcher interface {
	// FetchDailyCandles returns the daily candles of ticker from the day starting
	// at start through the whole day starting at end, both midnights.
	// An empty result is reported as ErrNoCandles, never as an empty slice.
	FetchDailyCandles(ctx context.Context, ticker string, start, end time.Time) ([]model.Candle, error)
	Name() string
}
