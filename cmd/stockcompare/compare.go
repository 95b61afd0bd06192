package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"StockCompare/internal/comparison"
	"StockCompare/internal/config"
	"StockCompare/internal/date"
	"StockCompare/internal/prompt"
	"StockCompare/internal/report"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"golang.org/x/term"
)

// compareCmd holds the flags for the 'compare' subcommand.
type compareCmd struct {
	tickers string
	start   string
	end     string
	amount  string
	chart   string
	prices  bool
}

func (*compareCmd) Name() string { return "compare" }
func (*compareCmd) Synopsis() string {
	return "compare the growth of the same investment in several tickers"
}
func (*compareCmd) Usage() string {
	return `stockcompare compare [-tickers SPY,QQQ] [-start mm/dd/yyyy] [-end mm/dd/yyyy] [-amount 100000] [-chart out.png] [-prices]

  Invests the same amount in every ticker at the first open of the period and
  tracks its value at every close. Missing values are taken from the config
  file, then asked for interactively.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "tickers", "", "comma separated tickers, e.g. SPY,QQQ")
	f.StringVar(&c.start, "start", "", "start date, mm/dd/yyyy")
	f.StringVar(&c.end, "end", "", "end date, mm/dd/yyyy")
	f.StringVar(&c.amount, "amount", "", "starting investment in each ticker")
	f.StringVar(&c.chart, "chart", "", "save the value chart to this file (png, svg or pdf)")
	f.BoolVar(&c.prices, "prices", false, "also chart the close prices of each ticker")
}

func (c *compareCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp("compare")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	req, err := c.request(a.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	res, err := a.runner.Run(ctx, req)
	if res == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Println(report.FormatSummaries(res.Trackers()))
	fmt.Println()
	report.WriteComparison(os.Stdout, res)

	if path := c.chartPath(a.cfg); path != "" && len(res.Trackers()) > 0 {
		if err := c.saveCharts(path, a.cfg, res); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *compareCmd) chartPath(cfg *config.Config) string {
	if c.chart != "" {
		return c.chart
	}
	return cfg.Chart.Path
}

func (c *compareCmd) saveCharts(path string, cfg *config.Config, res *comparison.Result) error {
	title := fmt.Sprintf("Growth of %s", report.Money(res.Request.Amount))
	if err := report.SaveChart(path, title, report.ChartData(res.Trackers()), cfg.Chart.Width, cfg.Chart.Height); err != nil {
		return err
	}
	fmt.Printf("\nchart saved to %s\n", path)
	if !c.prices {
		return nil
	}
	for _, o := range res.Outcomes {
		if o.Series == nil {
			continue
		}
		p := withSuffix(path, "-"+o.Ticker)
		data := []report.ChartSeries{report.PriceChartData(o.Series)}
		if err := report.SaveChart(p, o.Ticker+" close", data, cfg.Chart.Width, cfg.Chart.Height); err != nil {
			return err
		}
		fmt.Printf("price chart saved to %s\n", p)
	}
	return nil
}

// request merges flags, config and interactive answers, in that order of precedence.
func (c *compareCmd) request(cfg *config.Config) (comparison.Request, error) {
	var req comparison.Request
	var err error

	tickers := cfg.Comparison.Tickers
	if c.tickers != "" {
		tickers = config.SplitTickers(c.tickers)
	}
	req.Tickers = tickers

	start, end := cfg.Comparison.StartDate, cfg.Comparison.EndDate
	if c.start != "" {
		start = c.start
	}
	if c.end != "" {
		end = c.end
	}
	if start != "" {
		if req.Start, err = date.ParseUS(start); err != nil {
			return req, err
		}
	}
	if end != "" {
		if req.End, err = date.ParseUS(end); err != nil {
			return req, err
		}
	}

	if c.amount != "" {
		if req.Amount, err = decimal.NewFromString(c.amount); err != nil {
			return req, fmt.Errorf("invalid amount %q: %w", c.amount, err)
		}
	} else if cfg.Comparison.Amount > 0 {
		req.Amount = decimal.NewFromFloat(cfg.Comparison.Amount)
	}

	if len(req.Tickers) > 0 && !req.Start.IsZero() && !req.End.IsZero() && !req.Amount.IsZero() {
		return req, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return req, errors.New("missing tickers, dates or amount and stdin is not a terminal")
	}
	return askMissing(prompt.New(os.Stdin, os.Stdout), req)
}

// askMissing prompts for every unset field of req.
func askMissing(p *prompt.Prompter, req comparison.Request) (comparison.Request, error) {
	var err error
	if len(req.Tickers) == 0 {
		if req.Tickers, err = p.Tickers(); err != nil {
			return req, err
		}
	}
	if req.Start.IsZero() {
		if req.Start, err = p.Date("Enter the starting investment date in the format mm/dd/yyyy: "); err != nil {
			return req, err
		}
	}
	if req.End.IsZero() {
		if req.End, err = p.DateFrom("Enter the ending investment date in the format mm/dd/yyyy: ", req.Start); err != nil {
			return req, err
		}
	}
	if req.Amount.IsZero() {
		if req.Amount, err = p.Amount(); err != nil {
			return req, err
		}
	}
	return req, nil
}

// withSuffix inserts suffix before the extension of path.
func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
