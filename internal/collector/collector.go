package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"StockCompare/internal/date"
	"StockCompare/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	// ErrNoCandles is returned when the provider has no price for the range.
	ErrNoCandles = errors.New("no candles returned")
	// ErrInvalidCandle is returned for candles with a non-positive price.
	ErrInvalidCandle = errors.New("candle has a non-positive price")
)

// FetchError reports that no usable PriceSeries could be built for a ticker.
type FetchError struct {
	Ticker   string
	Provider string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s from %s: %v", e.Ticker, e.Provider, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64                   // base price of generated candles
	Candles map[string][]model.Candle // fixed candles per ticker, take precedence
	Errors  map[string]error          // forced failure per ticker
	Calls   []string                  // tickers requested, in order
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCandles(_ context.Context, ticker string, start, end time.Time) ([]model.Candle, error) {
	m.Calls = append(m.Calls, ticker)
	if err, ok := m.Errors[ticker]; ok {
		return nil, err
	}
	if candles, ok := m.Candles[ticker]; ok {
		if len(candles) == 0 {
			return nil, ErrNoCandles
		}
		return candles, nil
	}
	candles := generateMockCandles(m.Price, start, end)
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	return candles, nil
}

// generateMockCandles returns one slowly rising candle per weekday in [start, end].
func generateMockCandles(basePrice float64, start, end time.Time) []model.Candle {
	if basePrice <= 0 {
		basePrice = 100
	}
	var candles []model.Candle
	i := 0
	for t := start; !t.After(end); t = t.AddDate(0, 0, 1) {
		if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.001)
		candles = append(candles, model.Candle{
			Time:  t,
			Open:  decimal.NewFromFloat(p * 0.999).Round(2),
			Close: decimal.NewFromFloat(p).Round(2),
		})
		i++
	}
	return candles
}

// Collector turns provider candles into validated price series.
type Collector struct {
	Fetcher  Fetcher
	Location *time.Location // market time zone used to date candles
}

// NewCollector creates a new Collector. A nil location means UTC.
func NewCollector(fetcher Fetcher, loc *time.Location) *Collector {
	if loc == nil {
		loc = time.UTC
	}
	return &Collector{Fetcher: fetcher, Location: loc}
}

// Collect fetches the daily prices of ticker over [start, end].
// Every failure, including an empty answer, is returned as a *FetchError.
func (c *Collector) Collect(ctx context.Context, ticker string, start, end date.Date) (*model.PriceSeries, error) {
	fail := func(err error) (*model.PriceSeries, error) {
		return nil, &FetchError{Ticker: ticker, Provider: c.Fetcher.Name(), Err: err}
	}
	if end.Before(start) {
		return fail(fmt.Errorf("end date %s is before start date %s", end, start))
	}

	candles, err := c.Fetcher.FetchDailyCandles(ctx, ticker, start.In(c.Location), end.In(c.Location))
	if err != nil {
		return fail(err)
	}

	records := make([]model.PriceRecord, 0, len(candles))
	for _, candle := range candles {
		on := date.FromTime(candle.Time.In(c.Location))
		if on.Before(start) || on.After(end) {
			log.Debug().Str("ticker", ticker).Str("date", on.String()).Msg("dropping candle outside range")
			continue
		}
		if !candle.Open.IsPositive() || !candle.Close.IsPositive() {
			return fail(fmt.Errorf("%w: %s open=%s close=%s", ErrInvalidCandle, on, candle.Open, candle.Close))
		}
		records = append(records, model.PriceRecord{Date: on, Open: candle.Open, Close: candle.Close})
	}
	if len(records) == 0 {
		return fail(ErrNoCandles)
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })

	log.Info().Str("ticker", ticker).Int("days", len(records)).
		Str("from", records[0].Date.String()).Str("to", records[len(records)-1].Date.String()).
		Msg("collected price series")
	return &model.PriceSeries{
		Ticker:    ticker,
		Start:     start,
		End:       end,
		Records:   records,
		FetchedAt: time.Now(),
	}, nil
}
