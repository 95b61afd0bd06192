package main

import (
	"fmt"
	"os"
	"time"

	"StockCompare/internal/collector"
	"StockCompare/internal/comparison"
	"StockCompare/internal/config"
	"StockCompare/internal/recorder"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// app holds the collaborators shared by all subcommands.
type app struct {
	cfg      *config.Config
	loc      *time.Location
	recorder recorder.Recorder
	runner   *comparison.Runner
}

func loadConfig() (*config.Config, error) {
	p := *configPath
	if p == "" {
		p = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			p = v
		}
	}
	cfg, err := config.Load(p)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	return cfg, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.Provider.Name {
	case "mock":
		return &collector.MockFetcher{Price: cfg.Provider.MockPrice}
	case "yahoo":
		f := collector.NewYahooFetcher(cfg.Provider.BaseURL, cfg.Proxy, cfg.Provider.RequestsPerMinute)
		if cfg.Provider.Cache {
			f.EnableCache(cfg.Provider.CacheDir)
		}
		return f
	default:
		f := collector.NewTDAmeritradeFetcher(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Proxy, cfg.Provider.RequestsPerMinute)
		if cfg.Provider.Cache {
			f.EnableCache(cfg.Provider.CacheDir)
		}
		return f
	}
}

func newRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

// newApp loads the configuration and builds the collaborators. The caller
// must call close.
func newApp(trigger string) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	fetcher := newFetcher(cfg)
	log.Info().Str("provider", fetcher.Name()).Str("timezone", loc.String()).Msg("data source")

	rec := newRecorder(cfg)
	runner := comparison.NewRunner(collector.NewCollector(fetcher, loc), rec)
	runner.Trigger = trigger
	return &app{cfg: cfg, loc: loc, recorder: rec, runner: runner}, nil
}

func (a *app) close() {
	if err := a.recorder.Close(); err != nil {
		log.Error().Err(err).Msg("close recorder")
	}
}
