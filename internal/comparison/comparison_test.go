package comparison

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"StockCompare/internal/collector"
	"StockCompare/internal/date"
	"StockCompare/internal/model"
	"StockCompare/internal/recorder"

	"github.com/shopspring/decimal"
)

func candle(on string, open, close int64) model.Candle {
	return model.Candle{
		Time:  date.MustParse(on).In(time.UTC).Add(14 * time.Hour),
		Open:  decimal.NewFromInt(open),
		Close: decimal.NewFromInt(close),
	}
}

func request(tickers ...string) Request {
	return Request{
		Tickers: tickers,
		Start:   date.MustParse("01/01/2020"),
		End:     date.MustParse("01/31/2020"),
		Amount:  decimal.NewFromInt(10000),
	}
}

func TestRun_EndToEnd(t *testing.T) {
	f := &collector.MockFetcher{Candles: map[string][]model.Candle{
		"SPY": {candle("2020-01-01", 100, 101), candle("2020-01-02", 102, 103)},
	}}
	r := NewRunner(collector.NewCollector(f, time.UTC), nil)

	res, err := r.Run(context.Background(), request("SPY"))
	if err != nil {
		t.Fatal(err)
	}
	trackers := res.Trackers()
	if len(trackers) != 1 {
		t.Fatalf("expected 1 tracker, got %d", len(trackers))
	}
	tr := trackers[0]
	if !tr.ShareCount().Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected 100 shares, got %s", tr.ShareCount())
	}
	want := []int64{10000, 10100, 10300}
	h := tr.History()
	if len(h) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(h))
	}
	for i, w := range want {
		if !h[i].Value.Equal(decimal.NewFromInt(w)) {
			t.Errorf("point %d: expected %d, got %s", i, w, h[i].Value)
		}
	}
	if h[0].Date != h[1].Date {
		t.Errorf("expected the first day twice, got %v and %v", h[0].Date, h[1].Date)
	}
	if !tr.CurrentValue().Equal(decimal.NewFromInt(10300)) {
		t.Errorf("expected 10300, got %s", tr.CurrentValue())
	}
}

func TestRun_FailingTickerDoesNotStopOthers(t *testing.T) {
	f := &collector.MockFetcher{
		Price:   50,
		Candles: map[string][]model.Candle{"ZZZ": {}},
	}
	r := NewRunner(collector.NewCollector(f, time.UTC), nil)

	res, err := r.Run(context.Background(), request("spy", "zzz", "qqq"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f.Calls, []string{"SPY", "ZZZ", "QQQ"}) {
		t.Errorf("expected sequential upper-cased calls, got %v", f.Calls)
	}
	if len(res.Trackers()) != 2 {
		t.Errorf("expected 2 trackers, got %d", len(res.Trackers()))
	}
	failures := res.Failures()
	if len(failures) != 1 || failures[0].Ticker != "ZZZ" {
		t.Fatalf("expected ZZZ to fail, got %+v", failures)
	}
	var fe *collector.FetchError
	if !errors.As(failures[0].Err, &fe) || !errors.Is(failures[0].Err, collector.ErrNoCandles) {
		t.Errorf("expected a FetchError with ErrNoCandles, got %v", failures[0].Err)
	}
	if failures[0].Tracker != nil || failures[0].Series != nil {
		t.Error("failed outcome must not carry a series or tracker")
	}
}

func TestRun_AllFailed(t *testing.T) {
	f := &collector.MockFetcher{Errors: map[string]error{"SPY": errors.New("down")}}
	r := NewRunner(collector.NewCollector(f, time.UTC), nil)
	res, err := r.Run(context.Background(), request("SPY"))
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("expected ErrAllFailed, got %v", err)
	}
	if res == nil || len(res.Failures()) != 1 {
		t.Errorf("expected the failed outcome to be returned, got %+v", res)
	}
}

func TestRun_InvalidRequest(t *testing.T) {
	r := NewRunner(collector.NewCollector(&collector.MockFetcher{}, time.UTC), nil)
	bad := []Request{
		{},
		{Tickers: []string{" "}, Start: date.MustParse("2020-01-01"), End: date.MustParse("2020-02-01"), Amount: decimal.NewFromInt(1)},
		{Tickers: []string{"SPY"}, Start: date.MustParse("2020-02-01"), End: date.MustParse("2020-01-01"), Amount: decimal.NewFromInt(1)},
		{Tickers: []string{"SPY"}, Start: date.MustParse("2020-01-01"), End: date.MustParse("2020-02-01"), Amount: decimal.Zero},
	}
	for i, req := range bad {
		if _, err := r.Run(context.Background(), req); err == nil {
			t.Errorf("request %d: expected error", i)
		}
	}
}

func TestRun_Cancelled(t *testing.T) {
	r := NewRunner(collector.NewCollector(&collector.MockFetcher{Price: 10}, time.UTC), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Run(ctx, request("SPY")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	got := Request{Tickers: []string{"spy", " QQQ ", "SPY", ""}}.Normalize().Tickers
	if !reflect.DeepEqual(got, []string{"SPY", "QQQ"}) {
		t.Errorf("unexpected tickers %v", got)
	}
}

func TestRun_Recorded(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Close()

	f := &collector.MockFetcher{
		Price:   20,
		Candles: map[string][]model.Candle{"ZZZ": {}},
	}
	r := NewRunner(collector.NewCollector(f, time.UTC), rec)
	res, err := r.Run(context.Background(), request("SPY", "ZZZ"))
	if err != nil {
		t.Fatal(err)
	}
	if res.RunID == 0 {
		t.Fatal("expected run to be recorded")
	}

	runs, err := rec.ListRuns(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || len(runs[0].Trackers) != 2 {
		t.Fatalf("unexpected runs %+v", runs)
	}
	if runs[0].Trackers[1].Error == "" {
		t.Error("expected the failure to be recorded")
	}
	history, err := rec.LoadHistory(res.RunID, "SPY")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != res.Trackers()[0].Len() {
		t.Errorf("expected %d recorded points, got %d", res.Trackers()[0].Len(), len(history))
	}
}
