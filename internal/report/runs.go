package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"StockCompare/internal/recorder"
)

// WriteRuns lists recorded runs, one line per run.
func WriteRuns(w io.Writer, runs []recorder.RunSummary) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no recorded runs")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWhen\tTrigger\tPeriod\tAmount\tBest")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s-%s\t%s\t%s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.Trigger,
			r.Start.US(), r.End.US(), Money(r.Amount), best(r.Trackers))
	}
	return tw.Flush()
}

// best names the tracker with the highest final value.
func best(trackers []recorder.TrackerRecord) string {
	var top *recorder.TrackerRecord
	for i := range trackers {
		t := &trackers[i]
		if t.Error != "" {
			continue
		}
		if top == nil || t.FinalValue.GreaterThan(top.FinalValue) {
			top = t
		}
	}
	if top == nil {
		return "-"
	}
	return fmt.Sprintf("%s %s", top.Ticker, Money(top.FinalValue))
}

// FormatRuns returns WriteRuns as a string.
func FormatRuns(runs []recorder.RunSummary) string {
	var b strings.Builder
	WriteRuns(&b, runs)
	return b.String()
}
