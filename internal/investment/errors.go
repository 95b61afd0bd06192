package investment

import (
	"errors"

	"StockCompare/internal/calculator"
)

var (
	ErrEmptyTicker         = errors.New("ticker is empty")
	ErrInvalidAmount       = errors.New("initial investment must be positive")
	ErrInvalidPrice        = errors.New("initial price must be positive")
	ErrInsufficientHistory = errors.New("at least two value points are required")
	ErrEmptySeries         = errors.New("price series has no records")

	ErrDivisionByZero  = calculator.ErrDivisionByZero
	ErrInvalidDuration = calculator.ErrInvalidDuration
)
