// Package investment simulates a fixed-dollar, buy-and-hold position in a
// single ticker with fractional shares.
package investment

import (
	"fmt"

	"StockCompare/internal/calculator"
	"StockCompare/internal/date"
	"StockCompare/internal/model"

	"github.com/shopspring/decimal"
)

// Tracker follows the value of shares bought once on the first trading day.
//
// The share count never changes after New. The history is append-only: one
// seed point from New, then one point per UpdateValue.
type Tracker struct {
	ticker       string
	shareCount   decimal.Decimal
	currentValue decimal.Decimal
	history      []model.ValuePoint
}

// New buys initialInvestment worth of ticker at initialPrice on start.
func New(ticker string, initialInvestment, initialPrice decimal.Decimal, start date.Date) (*Tracker, error) {
	if ticker == "" {
		return nil, ErrEmptyTicker
	}
	if !initialInvestment.IsPositive() {
		return nil, fmt.Errorf("%s: %w", ticker, ErrInvalidAmount)
	}
	if !initialPrice.IsPositive() {
		return nil, fmt.Errorf("%s: %w: got %s", ticker, ErrInvalidPrice, initialPrice)
	}
	return &Tracker{
		ticker:       ticker,
		shareCount:   initialInvestment.Div(initialPrice),
		currentValue: initialInvestment,
		history:      []model.ValuePoint{{Date: start, Value: initialInvestment}},
	}, nil
}

// UpdateValue revalues the position at price and appends it to the history.
// Dates are not checked: callers replay prices in chronological order.
func (t *Tracker) UpdateValue(price decimal.Decimal, on date.Date) {
	t.currentValue = t.shareCount.Mul(price)
	t.history = append(t.history, model.ValuePoint{Date: on, Value: t.currentValue})
}

func (t *Tracker) Ticker() string                { return t.ticker }
func (t *Tracker) ShareCount() decimal.Decimal   { return t.shareCount }
func (t *Tracker) CurrentValue() decimal.Decimal { return t.currentValue }
func (t *Tracker) Len() int                      { return len(t.history) }

// History returns a copy of the value history, oldest first.
func (t *Tracker) History() []model.ValuePoint {
	out := make([]model.ValuePoint, len(t.history))
	copy(out, t.history)
	return out
}

// AnnualizedReturn returns the compounded yearly growth rate, in percent,
// between the first and last points of the history.
func (t *Tracker) AnnualizedReturn() (float64, error) {
	if len(t.history) < 2 {
		return 0, ErrInsufficientHistory
	}
	first, last := t.history[0], t.history[len(t.history)-1]
	years := calculator.YearFraction(first.Date, last.Date)

	total, err := calculator.CalculateTotalReturn(first.Value, last.Value)
	if err != nil {
		return 0, err
	}
	if !last.Date.After(first.Date) {
		return 0, fmt.Errorf("%w: %s to %s", ErrInvalidDuration, first.Date, last.Date)
	}
	return calculator.CalculateAnnualizedReturn(total.InexactFloat64(), years)
}

// Summary is the read-only report of a tracker.
type Summary struct {
	Ticker           string
	ShareCount       decimal.Decimal
	CurrentValue     decimal.Decimal
	AnnualizedReturn float64
	ReturnErr        error // set when the annualized return cannot be computed
}

// Summary collects the four reported fields.
func (t *Tracker) Summary() Summary {
	ret, err := t.AnnualizedReturn()
	return Summary{
		Ticker:           t.ticker,
		ShareCount:       t.shareCount,
		CurrentValue:     t.currentValue,
		AnnualizedReturn: ret,
		ReturnErr:        err,
	}
}

func (s Summary) String() string {
	ret := fmt.Sprintf("%.2f%%", s.AnnualizedReturn)
	if s.ReturnErr != nil {
		ret = "n/a (" + s.ReturnErr.Error() + ")"
	}
	return fmt.Sprintf("Ticker: %s\n Number of Shares: %s\n Current Value: %s\n Annualized Return: %s",
		s.Ticker, s.ShareCount.StringFixed(4), s.CurrentValue.StringFixed(2), ret)
}

func (t *Tracker) String() string { return t.Summary().String() }
