package model

import (
	"time"

	"StockCompare/internal/date"

	"github.com/shopspring/decimal"
)

// Candle is a single daily bar as returned by a price provider.
type Candle struct {
	Time  time.Time
	Open  decimal.Decimal
	Close decimal.Decimal
}

// PriceRecord is one trading day of a PriceSeries.
type PriceRecord struct {
	Date  date.Date       `json:"date"`
	Open  decimal.Decimal `json:"open"`
	Close decimal.Decimal `json:"close"`
}

// PriceSeries holds the daily prices of one ticker over [Start, End], oldest first.
type PriceSeries struct {
	Ticker    string
	Start     date.Date
	End       date.Date
	Records   []PriceRecord
	FetchedAt time.Time
}

// Len returns the number of trading days in the series.
func (s *PriceSeries) Len() int { return len(s.Records) }

// First returns the first trading day. It panics on an empty series.
func (s *PriceSeries) First() PriceRecord { return s.Records[0] }

// Last returns the last trading day. It panics on an empty series.
func (s *PriceSeries) Last() PriceRecord { return s.Records[len(s.Records)-1] }
