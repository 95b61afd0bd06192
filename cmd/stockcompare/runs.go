package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"StockCompare/internal/recorder"
	"StockCompare/internal/report"

	"github.com/google/subcommands"
)

// runsCmd holds the flags for the 'runs' subcommand.
type runsCmd struct {
	limit  int
	runID  int64
	ticker string
}

func (*runsCmd) Name() string     { return "runs" }
func (*runsCmd) Synopsis() string { return "list recorded comparison runs" }
func (*runsCmd) Usage() string {
	return `stockcompare runs [-n 10] [-id <run> -ticker <ticker>]

  Lists the most recent recorded runs, or prints the value history of one
  ticker in one run.
`
}

func (c *runsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 10, "number of runs to list")
	f.Int64Var(&c.runID, "id", 0, "run to show the value history of")
	f.StringVar(&c.ticker, "ticker", "", "ticker to show the value history of, with -id")
}

func (c *runsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp("runs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	if c.runID != 0 {
		if c.ticker == "" {
			fmt.Fprintln(os.Stderr, "Error: -ticker is required with -id")
			return subcommands.ExitUsageError
		}
		if err := writeHistory(os.Stdout, a.recorder, c.runID, c.ticker); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading history: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	runs, err := a.recorder.ListRuns(c.limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing runs: %v\n", err)
		return subcommands.ExitFailure
	}
	report.WriteRuns(os.Stdout, runs)
	return subcommands.ExitSuccess
}

// writeHistory prints the recorded value history of ticker in run id.
// Tickers are stored upper-cased, so ticker is matched case-insensitively.
func writeHistory(w io.Writer, rec recorder.Recorder, id int64, ticker string) error {
	history, err := rec.LoadHistory(id, strings.ToUpper(ticker))
	if err != nil {
		return err
	}
	for _, p := range history {
		fmt.Fprintf(w, "%s  %s\n", p.Date.US(), report.Money(p.Value))
	}
	return nil
}
