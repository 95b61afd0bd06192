package report

import (
	"errors"
	"fmt"
	"time"

	"StockCompare/internal/investment"
	"StockCompare/internal/model"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNoChartData is returned when there is nothing to draw.
var ErrNoChartData = errors.New("no chart data")

// ChartSeries is one line of a chart.
type ChartSeries struct {
	Name   string
	Points []model.ValuePoint
}

// ChartData returns the value history of each tracker, one line per ticker.
func ChartData(trackers []*investment.Tracker) []ChartSeries {
	out := make([]ChartSeries, 0, len(trackers))
	for _, t := range trackers {
		out = append(out, ChartSeries{Name: t.Ticker(), Points: t.History()})
	}
	return out
}

// PriceChartData returns the daily close prices of series.
func PriceChartData(series *model.PriceSeries) ChartSeries {
	cs := ChartSeries{Name: series.Ticker, Points: make([]model.ValuePoint, 0, series.Len())}
	for _, r := range series.Records {
		cs.Points = append(cs.Points, model.ValuePoint{Date: r.Date, Value: r.Close})
	}
	return cs
}

// NewChart builds a time-axis line chart with one legend entry per series.
func NewChart(title, yLabel string, series []ChartSeries) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, ErrNoChartData
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = yLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	lines := 0
	for i, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			xys[j].X = float64(pt.Date.In(time.UTC).Unix())
			xys[j].Y = pt.Value.InexactFloat64()
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Name, line)
		lines++
	}
	if lines == 0 {
		return nil, ErrNoChartData
	}
	return p, nil
}

// SaveChart renders series to path. The image format follows the file
// extension (png, svg, pdf); sizes are in inches.
func SaveChart(path, title string, series []ChartSeries, width, height float64) error {
	p, err := NewChart(title, "Value ($)", series)
	if err != nil {
		return err
	}
	if err := p.Save(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}
