// Package report renders comparison results as text, Telegram HTML and charts.
package report

import (
	"fmt"
	"html"
	"io"
	"strings"
	"text/tabwriter"

	"StockCompare/internal/calculator"
	"StockCompare/internal/comparison"
	"StockCompare/internal/investment"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency used for amounts; prices from the provider are quoted in it.
const Currency = money.USD

// Money formats an amount in Currency, e.g. "$10,300.00".
func Money(amount decimal.Decimal) string {
	cur := money.New(0, Currency).Currency()
	return cur.Formatter().Format(amount.Shift(int32(cur.Fraction)).Round(0).IntPart())
}

// Row holds the derived figures of one tracker.
type Row struct {
	Summary     investment.Summary
	TotalReturn float64 // percent
	High, Low   decimal.Decimal
	MaxDrawdown float64 // percent
}

// NewRow computes the figures shown for t.
func NewRow(t *investment.Tracker) Row {
	r := Row{Summary: t.Summary()}
	history := t.History()
	if len(history) == 0 {
		return r
	}
	if total, err := calculator.CalculateTotalReturn(history[0].Value, t.CurrentValue()); err == nil {
		r.TotalReturn = total.Shift(2).InexactFloat64()
	}
	r.High, r.Low, _ = calculator.CalculateRange(history)
	r.MaxDrawdown, _ = calculator.CalculateMaxDrawdown(history)
	return r
}

func (r Row) annualized() string {
	if r.Summary.ReturnErr != nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", r.Summary.AnnualizedReturn)
}

// FormatSummaries prints the four-field summary of every tracker, one block each.
func FormatSummaries(trackers []*investment.Tracker) string {
	blocks := make([]string, 0, len(trackers))
	for _, t := range trackers {
		blocks = append(blocks, t.String())
	}
	return strings.Join(blocks, "\n\n")
}

// WriteComparison writes a table of all outcomes of res, failures last.
func WriteComparison(w io.Writer, res *comparison.Result) error {
	req := res.Request
	fmt.Fprintf(w, "%s invested on %s, valued on %s\n\n", Money(req.Amount), req.Start.US(), req.End.US())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Ticker\tShares\tValue\tTotal\tAnnualized\tHigh\tLow\tMax DD")
	fmt.Fprintln(tw, "------\t------\t-----\t-----\t----------\t----\t---\t------")
	for _, t := range res.Trackers() {
		r := NewRow(t)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%+.2f%%\t%s\t%s\t%s\t%.2f%%\n",
			r.Summary.Ticker, r.Summary.ShareCount.StringFixed(4), Money(r.Summary.CurrentValue),
			r.TotalReturn, r.annualized(), Money(r.High), Money(r.Low), r.MaxDrawdown)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	failures := res.Failures()
	if len(failures) > 0 {
		fmt.Fprintln(w)
		for _, f := range failures {
			fmt.Fprintf(w, "%s: %v\n", f.Ticker, f.Err)
		}
	}
	return nil
}

// FormatComparison returns WriteComparison as a string.
func FormatComparison(res *comparison.Result) string {
	var b strings.Builder
	WriteComparison(&b, res)
	return b.String()
}

// FormatTelegram formats res as a Telegram HTML message.
func FormatTelegram(res *comparison.Result) string {
	req := res.Request
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>StockCompare</b> | %s → %s\n", req.Start.US(), req.End.US()))
	b.WriteString(fmt.Sprintf("Initial investment: %s each\n\n", Money(req.Amount)))

	for _, t := range res.Trackers() {
		r := NewRow(t)
		b.WriteString(fmt.Sprintf("<b>%s</b>: %s (%+.2f%%)\n", html.EscapeString(r.Summary.Ticker), Money(r.Summary.CurrentValue), r.TotalReturn))
		b.WriteString(fmt.Sprintf("  shares %s | annualized %s | max DD %.2f%%\n",
			r.Summary.ShareCount.StringFixed(4), r.annualized(), r.MaxDrawdown))
	}

	if failures := res.Failures(); len(failures) > 0 {
		b.WriteString("\n⚠️ <b>Failed</b>\n")
		for _, f := range failures {
			b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(f.Ticker), html.EscapeString(f.Err.Error())))
		}
	}
	if res.RunID != 0 {
		b.WriteString(fmt.Sprintf("\nrun #%d", res.RunID))
	}
	return b.String()
}
