package scheduler

import (
	"context"
	"fmt"
	"html"
	"io"
	"sync"
	"time"

	"StockCompare/internal/comparison"
	"StockCompare/internal/date"
	"StockCompare/internal/report"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Notifier delivers reports to a chat.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
	SendPhoto(ctx context.Context, path, caption string) error
}

// Chart configures the optional chart produced by each run.
type Chart struct {
	Path          string
	Width, Height float64
}

// Scheduler re-runs a comparison on a cron schedule.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *comparison.Runner
	Notifier Notifier // nil disables delivery
	Request  comparison.Request
	Location *time.Location
	Chart    Chart
	Out      io.Writer // console copy of every report, may be nil
	Ctx      context.Context

	running sync.Mutex // held for the duration of a comparison
	mu      sync.Mutex
	last    *comparison.Result
}

// NewScheduler creates a Scheduler for req. A zero req.End means "today" at
// each run, in loc.
func NewScheduler(ctx context.Context, runner *comparison.Runner, n Notifier, req comparison.Request, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
		),
		Runner:   runner,
		Notifier: n,
		Request:  req,
		Location: loc,
		Ctx:      ctx,
	}
}

// Register adds the comparison task under spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// Last returns the most recent result, or nil.
func (s *Scheduler) Last() *comparison.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// request resolves the open end date of the configured request.
func (s *Scheduler) request() comparison.Request {
	req := s.Request
	if req.End.IsZero() {
		req.End = date.Today(s.Location)
	}
	return req
}

// RunNow executes the comparison immediately. It returns false without
// running when another comparison is still in progress.
func (s *Scheduler) RunNow() bool {
	if !s.running.TryLock() {
		log.Warn().Msg("comparison already running, skipped")
		return false
	}
	defer s.running.Unlock()

	req := s.request()
	log.Info().Strs("tickers", req.Tickers).Str("start", req.Start.String()).Str("end", req.End.String()).Msg("running comparison")

	res, err := s.Runner.Run(s.Ctx, req)
	if res == nil {
		log.Error().Err(err).Msg("comparison failed")
		s.trySend(fmt.Sprintf("❌ comparison failed: %s", html.EscapeString(err.Error())))
		return true
	}
	if err != nil {
		log.Warn().Err(err).Msg("comparison finished with errors")
	}

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()

	if s.Out != nil {
		report.WriteComparison(s.Out, res)
	}
	s.trySend(report.FormatTelegram(res))
	s.sendChart(res)
	return true
}

func (s *Scheduler) sendChart(res *comparison.Result) {
	if s.Chart.Path == "" || len(res.Trackers()) == 0 {
		return
	}
	title := fmt.Sprintf("Growth of %s, %s to %s", report.Money(res.Request.Amount), res.Request.Start.US(), res.Request.End.US())
	if err := report.SaveChart(s.Chart.Path, title, report.ChartData(res.Trackers()), s.Chart.Width, s.Chart.Height); err != nil {
		log.Error().Err(err).Msg("save chart")
		return
	}
	log.Info().Str("path", s.Chart.Path).Msg("chart saved")
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendPhoto(s.Ctx, s.Chart.Path, ""); err != nil {
		log.Error().Err(err).Msg("send chart")
	}
}

// HandleCommand answers a chat command.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/run":
		if !s.RunNow() {
			return "a comparison is already running"
		}
		return ""
	case "/last":
		if last := s.Last(); last != nil {
			return report.FormatTelegram(last)
		}
		return "no comparison has run yet"
	case "/runs":
		runs, err := s.Runner.Recorder.ListRuns(5)
		if err != nil {
			return fmt.Sprintf("❌ list runs: %s", html.EscapeString(err.Error()))
		}
		return "<pre>" + html.EscapeString(report.FormatRuns(runs)) + "</pre>"
	default:
		return "Commands:\n• /run compare now\n• /last show the last comparison\n• /runs list recorded runs"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}

// cronLogger routes cron's own messages to zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
