// Package comparison runs one simulated investment per ticker over a shared
// date window.
package comparison

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"StockCompare/internal/collector"
	"StockCompare/internal/date"
	"StockCompare/internal/investment"
	"StockCompare/internal/model"
	"StockCompare/internal/recorder"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrAllFailed is returned when no ticker produced a tracker.
var ErrAllFailed = errors.New("no ticker could be tracked")

// Request describes one comparison.
type Request struct {
	Tickers []string
	Start   date.Date
	End     date.Date
	Amount  decimal.Decimal
}

// Normalize upper-cases tickers and drops duplicates, keeping the first occurrence.
func (r Request) Normalize() Request {
	seen := make(map[string]bool, len(r.Tickers))
	tickers := make([]string, 0, len(r.Tickers))
	for _, t := range r.Tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tickers = append(tickers, t)
	}
	r.Tickers = tickers
	return r
}

// Validate checks that the request can be run.
func (r Request) Validate() error {
	if len(r.Tickers) == 0 {
		return errors.New("at least one ticker is required")
	}
	for _, t := range r.Tickers {
		if strings.TrimSpace(t) == "" {
			return errors.New("ticker must not be empty")
		}
	}
	if r.Start.IsZero() || r.End.IsZero() {
		return errors.New("start and end dates are required")
	}
	if r.End.Before(r.Start) {
		return fmt.Errorf("end date %s is before start date %s", r.End.US(), r.Start.US())
	}
	if !r.Amount.IsPositive() {
		return errors.New("investment amount must be positive")
	}
	return nil
}

// Outcome is the result for a single ticker. Exactly one of Tracker and Err is set.
type Outcome struct {
	Ticker  string
	Series  *model.PriceSeries
	Tracker *investment.Tracker
	Err     error
}

// Result holds every outcome of a run, in request order.
type Result struct {
	Request  Request
	Outcomes []Outcome
	RunID    int64 // 0 when the run was not recorded
}

// Trackers returns the successful trackers in request order.
func (r *Result) Trackers() []*investment.Tracker {
	var out []*investment.Tracker
	for _, o := range r.Outcomes {
		if o.Tracker != nil {
			out = append(out, o.Tracker)
		}
	}
	return out
}

// Failures returns the outcomes that have no tracker.
func (r *Result) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Runner builds trackers from collected price series.
type Runner struct {
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Trigger   string // recorded with each run
}

// NewRunner creates a Runner. A nil recorder disables recording.
func NewRunner(col *collector.Collector, rec recorder.Recorder) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{Collector: col, Recorder: rec, Trigger: "compare"}
}

// Run processes tickers one after the other. A failing ticker does not stop
// the others; its error is kept on its Outcome.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res := &Result{Request: req}
	for _, ticker := range req.Tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Outcomes = append(res.Outcomes, r.runTicker(ctx, ticker, req))
	}

	id, err := r.Recorder.RecordRun(runRecord(r.Trigger, res))
	if err != nil {
		log.Error().Err(err).Msg("record run")
	}
	res.RunID = id

	if len(res.Trackers()) == 0 {
		return res, ErrAllFailed
	}
	return res, nil
}

func (r *Runner) runTicker(ctx context.Context, ticker string, req Request) Outcome {
	out := Outcome{Ticker: ticker}
	series, err := r.Collector.Collect(ctx, ticker, req.Start, req.End)
	if err != nil {
		log.Error().Err(err).Str("ticker", ticker).Msg("collect")
		out.Err = err
		return out
	}
	out.Series = series

	tracker, err := investment.Track(series, req.Amount)
	if err != nil {
		log.Error().Err(err).Str("ticker", ticker).Msg("track")
		out.Err = err
		return out
	}
	out.Tracker = tracker
	log.Info().Str("ticker", ticker).Str("shares", tracker.ShareCount().StringFixed(4)).
		Str("value", tracker.CurrentValue().StringFixed(2)).Msg("tracked investment")
	return out
}

func runRecord(trigger string, res *Result) *recorder.RunRecord {
	run := &recorder.RunRecord{
		Trigger: trigger,
		Start:   res.Request.Start,
		End:     res.Request.End,
		Amount:  res.Request.Amount,
	}
	for _, o := range res.Outcomes {
		rec := recorder.TrackerRecord{Ticker: o.Ticker}
		if o.Err != nil {
			rec.Error = o.Err.Error()
		}
		if t := o.Tracker; t != nil {
			rec.ShareCount = t.ShareCount()
			rec.FinalValue = t.CurrentValue()
			rec.History = t.History()
			if ret, err := t.AnnualizedReturn(); err == nil {
				rec.AnnualizedReturn = &ret
			}
		}
		run.Trackers = append(run.Trackers, rec)
	}
	return run
}
