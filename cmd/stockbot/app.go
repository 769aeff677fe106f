package main

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"stockbot/internal/advisor/ai"
	"stockbot/internal/collector"
	"stockbot/internal/config"
	"stockbot/internal/metrics"
	"stockbot/internal/notifier"
	"stockbot/internal/recorder"
	"stockbot/internal/report"
	"stockbot/internal/scheduler"
	"stockbot/internal/state"
)

// app holds the wired components for one process.
type app struct {
	cfg      *config.Config
	runner   *scheduler.Runner
	recorder recorder.Recorder
	ledger   *state.Ledger
	telegram *notifier.TelegramNotifier
}

func loadConfig(path string, validate bool) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config validation: %w", err)
		}
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	log.SetLevel(level)
	return cfg, nil
}

func openRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Warnf("init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

func newApp(ctx context.Context, cfg *config.Config, dryRun bool) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	fetcher := collector.NewYahooFetcher(cfg.Proxy, cfg.Market.RequestsPerSecond)
	log.Infof("data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher, cfg.Market.IndexSymbol)

	a := &app{cfg: cfg}
	runner := &scheduler.Runner{
		Holders:        cfg.Holders,
		HoldingsFile:   cfg.Input.HoldingsFile,
		HolidayFile:    cfg.Input.HolidayFile,
		Location:       loc,
		Settings:       cfg.AdvisorSettings(),
		OutputDir:      cfg.OutputDir,
		EmailHour:      cfg.EmailDue,
		Market:         col,
		WritePDF:       report.WritePDF,
		Metrics:        metrics.New(),
		PushgatewayURL: cfg.Metrics.PushgatewayURL,
		MetricsJob:     cfg.Metrics.Job,
		DryRun:         dryRun,
	}

	gemini, err := ai.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Warnf("AI commentary disabled: %v", err)
	} else if gemini != nil {
		runner.AI = &ai.Advisor{Gen: gemini}
	}

	switch cfg.Chat.Backend {
	case "greenapi":
		g := cfg.Chat.GreenAPI
		runner.Chat = notifier.WithBreaker(notifier.NewGreenAPINotifier(g.BaseURL, g.MediaURL, g.IDInstance, g.APIToken), 3, 10*time.Minute)
	default:
		a.telegram = notifier.NewTelegramNotifier(cfg.Chat.Telegram.BotToken, cfg.Proxy)
		runner.Chat = notifier.WithBreaker(a.telegram, 3, 10*time.Minute)
	}

	if cfg.Speech.Enabled {
		runner.Speech = notifier.NewSynthesizer(cfg.Speech.BaseURL, cfg.Speech.Language)
	}
	if cfg.Email.Username != "" {
		e := cfg.Email
		runner.Mail = notifier.NewEmailSender(e.Host, e.Port, e.Username, e.Password, e.From)
	}

	if dryRun {
		a.recorder = recorder.NewNoopRecorder()
	} else {
		a.recorder = openRecorder(cfg.Database.SQLitePath)
		ledger, err := state.NewLedger(cfg.State.File)
		if err != nil {
			a.recorder.Close()
			return nil, err
		}
		a.ledger = ledger
		runner.Ledger = ledger
	}
	runner.Recorder = a.recorder
	a.runner = runner
	return a, nil
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Warnf("close recorder: %v", err)
	}
}
