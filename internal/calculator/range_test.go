package calculator

import (
	"testing"

	"StockCompare/internal/date"
	"StockCompare/internal/model"

	"github.com/shopspring/decimal"
)

func points(values ...int64) []model.ValuePoint {
	start := date.MustParse("2020-01-01")
	out := make([]model.ValuePoint, len(values))
	for i, v := range values {
		out[i] = model.ValuePoint{Date: start.Add(i), Value: decimal.NewFromInt(v)}
	}
	return out
}

func TestCalculateRange(t *testing.T) {
	high, low, err := CalculateRange(points(100, 120, 90, 110))
	if err != nil {
		t.Fatal(err)
	}
	if !high.Equal(decimal.NewFromInt(120)) || !low.Equal(decimal.NewFromInt(90)) {
		t.Errorf("expected 120/90, got %s/%s", high, low)
	}
	if _, _, err := CalculateRange(nil); err == nil {
		t.Error("expected error for empty history")
	}
}

func TestCalculateMaxDrawdown(t *testing.T) {
	tests := []struct {
		values []int64
		want   float64
	}{
		{[]int64{100, 110, 120}, 0},
		{[]int64{100, 50, 200, 150}, 50},
		{[]int64{200, 150, 300, 240, 250}, 25},
	}
	for _, tt := range tests {
		got, err := CalculateMaxDrawdown(points(tt.values...))
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("%v: expected %.2f, got %.2f", tt.values, tt.want, got)
		}
	}
}
