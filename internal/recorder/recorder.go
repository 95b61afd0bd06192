package recorder

import (
	"time"

	"StockCompare/internal/date"
	"StockCompare/internal/model"

	"github.com/shopspring/decimal"
)

// TrackerRecord holds the outcome of one ticker in a run.
type TrackerRecord struct {
	Ticker           string
	ShareCount       decimal.Decimal
	FinalValue       decimal.Decimal
	AnnualizedReturn *float64 // nil when it could not be computed
	Error            string   // why the ticker produced no tracker, if it did not
	History          []model.ValuePoint
}

// RunRecord holds all data of one comparison run.
type RunRecord struct {
	Trigger  string // "compare" or "watch"
	Start    date.Date
	End      date.Date
	Amount   decimal.Decimal
	Trackers []TrackerRecord
}

// RunSummary is a recorded run without value histories.
type RunSummary struct {
	ID        int64
	CreatedAt time.Time
	RunRecord
}

// Recorder persists comparison runs for later review.
type Recorder interface {
	RecordRun(run *RunRecord) (int64, error)
	ListRuns(limit int) ([]RunSummary, error)
	LoadHistory(runID int64, ticker string) ([]model.ValuePoint, error)
	Close() error
}
