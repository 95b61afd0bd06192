package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"StockCompare/internal/comparison"
	"StockCompare/internal/date"
	"StockCompare/internal/notifier"
	"StockCompare/internal/scheduler"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// watchCmd holds the flags for the 'watch' subcommand.
type watchCmd struct {
	runOnStart bool
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "re-run the configured comparison on a cron schedule" }
func (*watchCmd) Usage() string {
	return `stockcompare watch [-now]

  Runs the comparison from the config file on schedule.watch_cron, up to
  today, and sends every report to Telegram when it is configured.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.runOnStart, "now", os.Getenv("RUN_ON_START") == "true", "also run once at start")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp("watch")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close()

	cfg := a.cfg
	req := comparison.Request{
		Tickers: cfg.Comparison.Tickers,
		Amount:  decimal.NewFromFloat(cfg.Comparison.Amount),
	}
	if req.Start, err = date.ParseUS(cfg.Comparison.StartDate); err != nil {
		fmt.Fprintf(os.Stderr, "Error: comparison.start_date: %v\n", err)
		return subcommands.ExitUsageError
	}
	if cfg.Comparison.EndDate != "" {
		req.End, _ = date.ParseUS(cfg.Comparison.EndDate)
	}
	probe := req
	if probe.End.IsZero() {
		probe.End = date.Today(a.loc)
	}
	if err := probe.Normalize().Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: comparison: %v\n", err)
		return subcommands.ExitUsageError
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tn *notifier.TelegramNotifier
	var n scheduler.Notifier
	if cfg.Telegram.BotToken != "" {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	}

	sched := scheduler.NewScheduler(ctx, a.runner, n, req, a.loc)
	sched.Out = os.Stdout
	sched.Chart = scheduler.Chart{Path: cfg.Chart.Path, Width: cfg.Chart.Width, Height: cfg.Chart.Height}
	if err := sched.Register(cfg.Schedule.WatchCron); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}
	if c.runOnStart {
		go sched.RunNow()
	}

	log.Info().Str("cron", cfg.Schedule.WatchCron).Msg("watching, press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}
	log.Info().Msg("shutdown signal received, stopping")
	cancel()
	return subcommands.ExitSuccess
}
