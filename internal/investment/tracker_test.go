package investment

import (
	"errors"
	"math"
	"strings"
	"testing"

	"StockCompare/internal/date"
	"StockCompare/internal/model"

	"github.com/shopspring/decimal"
)

func d(s string) date.Date { return date.MustParse(s) }

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestNew_ShareCountAndSeed(t *testing.T) {
	tests := []struct {
		amount, price float64
		shares        string
	}{
		{10000, 100, "100"},
		{100000, 250, "400"},
		{1000, 3, "333.3333333333333333"},
		{50, 0.5, "100"},
	}
	for _, tt := range tests {
		tr, err := New("SPY", dec(tt.amount), dec(tt.price), d("2020-01-02"))
		if err != nil {
			t.Fatalf("amount %v price %v: unexpected error %v", tt.amount, tt.price, err)
		}
		if tr.ShareCount().String() != tt.shares {
			t.Errorf("amount %v price %v: expected shares %s, got %s", tt.amount, tt.price, tt.shares, tr.ShareCount())
		}
		if !tr.CurrentValue().Equal(dec(tt.amount)) {
			t.Errorf("expected current value %v, got %s", tt.amount, tr.CurrentValue())
		}
		h := tr.History()
		if len(h) != 1 || h[0].Date != d("2020-01-02") || !h[0].Value.Equal(dec(tt.amount)) {
			t.Errorf("unexpected seed history %+v", h)
		}
	}
}

func TestNew_InvalidInput(t *testing.T) {
	tests := []struct {
		name          string
		ticker        string
		amount, price float64
		want          error
	}{
		{"zero price", "SPY", 1000, 0, ErrInvalidPrice},
		{"negative price", "SPY", 1000, -5, ErrInvalidPrice},
		{"zero amount", "SPY", 0, 10, ErrInvalidAmount},
		{"empty ticker", "", 1000, 10, ErrEmptyTicker},
	}
	for _, tt := range tests {
		_, err := New(tt.ticker, dec(tt.amount), dec(tt.price), d("2020-01-01"))
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestUpdateValue(t *testing.T) {
	tr, _ := New("QQQ", dec(1000), dec(10), d("2020-01-01"))
	prices := []float64{10.5, 9.75, 12, 12}
	for i, p := range prices {
		tr.UpdateValue(dec(p), d("2020-01-01").Add(i))
		want := tr.ShareCount().Mul(dec(p))
		if !tr.CurrentValue().Equal(want) {
			t.Errorf("step %d: expected value %s, got %s", i, want, tr.CurrentValue())
		}
		if tr.Len() != i+2 {
			t.Errorf("step %d: expected history length %d, got %d", i, i+2, tr.Len())
		}
	}
}

func TestUpdateValue_SameDayAppendsTwice(t *testing.T) {
	tr, _ := New("IWM", dec(1000), dec(10), d("2020-01-01"))
	tr.UpdateValue(dec(11), d("2020-01-02"))
	tr.UpdateValue(dec(11), d("2020-01-02"))
	h := tr.History()
	if len(h) != 3 {
		t.Fatalf("expected 3 points, got %d", len(h))
	}
	if h[1].Date != h[2].Date || !h[1].Value.Equal(h[2].Value) {
		t.Errorf("expected identical points, got %+v and %+v", h[1], h[2])
	}
}

func TestHistory_IsCopy(t *testing.T) {
	tr, _ := New("SPY", dec(1000), dec(10), d("2020-01-01"))
	h := tr.History()
	h[0].Value = dec(1)
	if !tr.History()[0].Value.Equal(dec(1000)) {
		t.Error("mutating History() result changed the tracker")
	}
}

func TestAnnualizedReturn_InsufficientHistory(t *testing.T) {
	tr, _ := New("SPY", dec(1000), dec(10), d("2020-01-01"))
	if _, err := tr.AnnualizedReturn(); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestAnnualizedReturn_Flat(t *testing.T) {
	for _, end := range []string{"2020-01-02", "2020-06-30", "2025-03-17"} {
		tr, _ := New("SPY", dec(100000), dec(100), d("2020-01-01"))
		tr.UpdateValue(dec(100), d(end))
		got, err := tr.AnnualizedReturn()
		if err != nil {
			t.Fatalf("%s: unexpected error %v", end, err)
		}
		if got != 0 {
			t.Errorf("%s: expected 0, got %v", end, got)
		}
	}
}

func TestAnnualizedReturn_Growth(t *testing.T) {
	tr, _ := New("SPY", dec(100000), dec(100), d("2020-01-01"))
	tr.UpdateValue(dec(150), d("2020-12-31"))
	got, err := tr.AnnualizedReturn()
	if err != nil {
		t.Fatal(err)
	}
	years := 11.0/12 + 31/365.2425
	want := (math.Pow(1.5, 1/years) - 1) * 100
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %.6f, got %.6f", want, got)
	}
	if got < 49 || got > 50 {
		t.Errorf("expected roughly 50%%, got %.4f", got)
	}
}

func TestAnnualizedReturn_SameDay(t *testing.T) {
	tr, _ := New("SPY", dec(1000), dec(10), d("2020-01-01"))
	tr.UpdateValue(dec(11), d("2020-01-01"))
	if _, err := tr.AnnualizedReturn(); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestAnnualizedReturn_Inverted(t *testing.T) {
	tr, _ := New("SPY", dec(1000), dec(10), d("2020-06-01"))
	tr.UpdateValue(dec(11), d("2020-01-01"))
	if _, err := tr.AnnualizedReturn(); !errors.Is(err, ErrInvalidDuration) {
		t.Errorf("expected ErrInvalidDuration, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	tr, _ := New("SPY", dec(10000), dec(100), d("2020-01-01"))
	s := tr.Summary()
	if s.Ticker != "SPY" || !s.ShareCount.Equal(dec(100)) || !s.CurrentValue.Equal(dec(10000)) {
		t.Errorf("unexpected summary %+v", s)
	}
	if !errors.Is(s.ReturnErr, ErrInsufficientHistory) {
		t.Errorf("expected ErrInsufficientHistory, got %v", s.ReturnErr)
	}

	tr.UpdateValue(dec(110), d("2021-01-01"))
	out := tr.String()
	for _, want := range []string{"Ticker: SPY", "Number of Shares: 100.0000", "Current Value: 11000.00", "Annualized Return: "} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "n/a") {
		t.Errorf("unexpected n/a in %q", out)
	}
}

func series(ticker string, recs ...model.PriceRecord) *model.PriceSeries {
	return &model.PriceSeries{Ticker: ticker, Start: recs[0].Date, End: recs[len(recs)-1].Date, Records: recs}
}

func TestTrack_EndToEnd(t *testing.T) {
	s := series("SPY",
		model.PriceRecord{Date: d("2020-01-01"), Open: dec(100), Close: dec(101)},
		model.PriceRecord{Date: d("2020-01-02"), Open: dec(102), Close: dec(103)},
	)
	tr, err := Track(s, dec(10000))
	if err != nil {
		t.Fatal(err)
	}
	if !tr.ShareCount().Equal(dec(100)) {
		t.Errorf("expected 100 shares, got %s", tr.ShareCount())
	}
	want := []struct {
		on    string
		value float64
	}{
		{"2020-01-01", 10000},
		{"2020-01-01", 10100},
		{"2020-01-02", 10300},
	}
	h := tr.History()
	if len(h) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(h))
	}
	for i, w := range want {
		if h[i].Date != d(w.on) || !h[i].Value.Equal(dec(w.value)) {
			t.Errorf("point %d: expected %s %v, got %s %s", i, w.on, w.value, h[i].Date, h[i].Value)
		}
	}
	if !tr.CurrentValue().Equal(dec(10300)) {
		t.Errorf("expected final value 10300, got %s", tr.CurrentValue())
	}
}

func TestTrack_Errors(t *testing.T) {
	if _, err := Track(nil, dec(1000)); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("nil series: expected ErrEmptySeries, got %v", err)
	}
	if _, err := Track(&model.PriceSeries{Ticker: "SPY"}, dec(1000)); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("empty series: expected ErrEmptySeries, got %v", err)
	}
	bad := series("SPY", model.PriceRecord{Date: d("2020-01-01"), Open: decimal.Zero, Close: dec(1)})
	if _, err := Track(bad, dec(1000)); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("zero open: expected ErrInvalidPrice, got %v", err)
	}
}
