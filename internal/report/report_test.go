package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"StockCompare/internal/comparison"
	"StockCompare/internal/date"
	"StockCompare/internal/investment"
	"StockCompare/internal/model"

	"github.com/shopspring/decimal"
)

func tracker(t *testing.T, ticker string, closes ...int64) *investment.Tracker {
	t.Helper()
	start := date.New(2020, 1, 1)
	tr, err := investment.New(ticker, decimal.NewFromInt(10000), decimal.NewFromInt(100), start)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range closes {
		tr.UpdateValue(decimal.NewFromInt(c), start.Add(i))
	}
	return tr
}

func result(t *testing.T) *comparison.Result {
	spy := tracker(t, "SPY", 101, 103)
	return &comparison.Result{
		Request: comparison.Request{
			Tickers: []string{"SPY", "ZZZ"},
			Start:   date.New(2020, 1, 1),
			End:     date.New(2020, 1, 2),
			Amount:  decimal.NewFromInt(10000),
		},
		Outcomes: []comparison.Outcome{
			{Ticker: "SPY", Tracker: spy},
			{Ticker: "ZZZ", Err: errors.New("no <candles>")},
		},
		RunID: 7,
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10300", "$10,300.00"},
		{"0.5", "$0.50"},
		{"1234567.891", "$1,234,567.89"},
	}
	for _, tt := range tests {
		if got := Money(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("Money(%s): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestNewRow(t *testing.T) {
	r := NewRow(tracker(t, "SPY", 90, 120))
	if r.TotalReturn != 20 {
		t.Errorf("expected total return 20, got %v", r.TotalReturn)
	}
	if !r.High.Equal(decimal.NewFromInt(12000)) || !r.Low.Equal(decimal.NewFromInt(9000)) {
		t.Errorf("unexpected range %s-%s", r.Low, r.High)
	}
	if r.MaxDrawdown != 10 {
		t.Errorf("expected drawdown 10, got %v", r.MaxDrawdown)
	}
}

func TestFormatSummaries(t *testing.T) {
	out := FormatSummaries([]*investment.Tracker{tracker(t, "SPY", 101), tracker(t, "QQQ", 99)})
	for _, want := range []string{"Ticker: SPY", "Ticker: QQQ", "Number of Shares: 100.0000", "Current Value: 10100.00", "Annualized Return:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestFormatComparison(t *testing.T) {
	out := FormatComparison(result(t))
	for _, want := range []string{"$10,000.00 invested on 01/01/2020", "SPY", "$10,300.00", "+3.00%", "ZZZ: no <candles>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestFormatTelegram(t *testing.T) {
	out := FormatTelegram(result(t))
	for _, want := range []string{"<b>SPY</b>: $10,300.00", "ZZZ: no &lt;candles&gt;", "run #7"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestPriceChartData(t *testing.T) {
	series := &model.PriceSeries{
		Ticker: "SPY",
		Records: []model.PriceRecord{
			{Date: date.New(2020, 1, 2), Open: decimal.NewFromInt(1), Close: decimal.NewFromInt(2)},
			{Date: date.New(2020, 1, 3), Open: decimal.NewFromInt(3), Close: decimal.NewFromInt(4)},
		},
	}
	cs := PriceChartData(series)
	if cs.Name != "SPY" || len(cs.Points) != 2 || !cs.Points[1].Value.Equal(decimal.NewFromInt(4)) {
		t.Errorf("unexpected chart series %+v", cs)
	}
}

func TestSaveChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.png")
	data := ChartData([]*investment.Tracker{tracker(t, "SPY", 101, 103), tracker(t, "QQQ", 99, 104)})
	if len(data) != 2 || data[1].Name != "QQQ" {
		t.Fatalf("unexpected chart data %+v", data)
	}
	if err := SaveChart(path, "Growth", data, 6, 4); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("expected a non-empty image")
	}
}

func TestSaveChart_NoData(t *testing.T) {
	err := SaveChart(filepath.Join(t.TempDir(), "c.png"), "x", []ChartSeries{{Name: "SPY"}}, 6, 4)
	if !errors.Is(err, ErrNoChartData) {
		t.Errorf("expected ErrNoChartData, got %v", err)
	}
}
