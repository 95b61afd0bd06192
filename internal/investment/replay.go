package investment

import (
	"fmt"

	"StockCompare/internal/model"

	"github.com/shopspring/decimal"
)

// Track invests amount at the first open of series and replays every close,
// the first day included. The first trading day therefore contributes two
// history points: the seed at the open and the same-day close.
func Track(series *model.PriceSeries, amount decimal.Decimal) (*Tracker, error) {
	if series == nil || series.Len() == 0 {
		return nil, ErrEmptySeries
	}
	first := series.First()
	t, err := New(series.Ticker, amount, first.Open, first.Date)
	if err != nil {
		return nil, fmt.Errorf("track %s: %w", series.Ticker, err)
	}
	for _, rec := range series.Records {
		t.UpdateValue(rec.Close, rec.Date)
	}
	return t, nil
}
