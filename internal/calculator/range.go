package calculator

import (
	"errors"

	"StockCompare/internal/model"

	"github.com/shopspring/decimal"
)

// CalculateRange scans a value history and returns its highest and lowest values.
func CalculateRange(points []model.ValuePoint) (high, low decimal.Decimal, err error) {
	if len(points) == 0 {
		return decimal.Zero, decimal.Zero, errors.New("no value points provided")
	}
	high, low = points[0].Value, points[0].Value
	for _, p := range points[1:] {
		if p.Value.GreaterThan(high) {
			high = p.Value
		}
		if p.Value.LessThan(low) {
			low = p.Value
		}
	}
	return high, low, nil
}

// CalculateMaxDrawdown returns the largest peak-to-trough decline of a value
// history as a percentage of the peak (0 when the value never fell).
func CalculateMaxDrawdown(points []model.ValuePoint) (float64, error) {
	if len(points) == 0 {
		return 0, errors.New("no value points provided")
	}
	peak := points[0].Value
	worst := decimal.Zero
	for _, p := range points {
		if p.Value.GreaterThan(peak) {
			peak = p.Value
		}
		if !peak.IsPositive() {
			continue
		}
		dd := peak.Sub(p.Value).Div(peak)
		if dd.GreaterThan(worst) {
			worst = dd
		}
	}
	return worst.Mul(decimal.NewFromInt(100)).InexactFloat64(), nil
}
