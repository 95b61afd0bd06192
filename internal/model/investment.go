package model

import (
	"StockCompare/internal/date"

	"github.com/shopspring/decimal"
)

// ValuePoint is the value of a position at the close of a day.
type ValuePoint struct {
	Date  date.Date       `json:"date"`
	Value decimal.Decimal `json:"value"`
}
