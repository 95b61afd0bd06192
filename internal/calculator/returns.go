package calculator

import (
	"errors"
	"math"

	"StockCompare/internal/date"

	"github.com/shopspring/decimal"
)

// DaysPerYear is the mean length of a Gregorian year.
const DaysPerYear = 365.2425

var (
	ErrDivisionByZero  = errors.New("starting value is zero")
	ErrInvalidDuration = errors.New("elapsed duration must be positive")
)

// YearFraction returns the elapsed calendar time between start and end in years.
// Whole years and months come from a calendar difference; the remaining days
// count the final day inclusively.
func YearFraction(start, end date.Date) float64 {
	y, m, d := date.Diff(start, end)
	return float64(y) + float64(m)/12 + float64(d+1)/DaysPerYear
}

// CalculateTotalReturn returns (end - start) / start.
func CalculateTotalReturn(start, end decimal.Decimal) (decimal.Decimal, error) {
	if start.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}
	return end.Sub(start).Div(start), nil
}

// CalculateAnnualizedReturn compounds totalReturn over years and returns the
// per-year growth rate as a percentage.
func CalculateAnnualizedReturn(totalReturn, years float64) (float64, error) {
	if years <= 0 {
		return 0, ErrInvalidDuration
	}
	return (math.Pow(1+totalReturn, 1/years) - 1) * 100, nil
}
