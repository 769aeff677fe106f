package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"stockbot/internal/advisor"
	"stockbot/internal/config"
	"stockbot/internal/metrics"
	"stockbot/internal/model"
	"stockbot/internal/notifier"
	"stockbot/internal/portfolio"
	"stockbot/internal/recorder"
	"stockbot/internal/state"
)

// MarketSource is the market data the run needs; *collector.Collector implements it.
type MarketSource interface {
	Quote(ctx context.Context, ticker string) (model.Quote, error)
	Fundamentals(ctx context.Context, ticker string) *model.Fundamentals
	Headlines(ctx context.Context, ticker string) []string
	Market(ctx context.Context) *model.MarketContext
}

// Commentator produces AI commentary; *ai.Advisor implements it.
type Commentator interface {
	NewsCommentary(ctx context.Context, holder, ticker string, headlines []string) model.Commentary
	ExpertAdvice(ctx context.Context, snap *model.PortfolioSnapshot) model.Commentary
}

// Speaker turns a script into MP3 audio.
type Speaker interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// PDFWriter renders a snapshot to a file and returns its path.
type PDFWriter func(snap *model.PortfolioSnapshot, dir, prefix string) (string, error)

// Result summarizes one batch run.
type Result struct {
	RunID         string
	Holiday       string // set when the calendar suppressed the run
	Snapshots     []*model.PortfolioSnapshot
	FailedTickers int
}

// Runner executes one batch: evaluate every holder's portfolio, persist it and deliver the reports.
type Runner struct {
	Holders      []config.Holder
	HoldingsFile string
	HolidayFile  string
	Location     *time.Location
	Settings     advisor.Settings
	OutputDir    string
	EmailHour    func(time.Time) bool // reports whether t falls in an email window

	Market   MarketSource
	AI       Commentator // optional
	Chat     notifier.Messenger
	Speech   Speaker         // optional
	Mail     notifier.Mailer // optional
	WritePDF PDFWriter
	Recorder recorder.Recorder
	Ledger   *state.Ledger // optional; without it every run in an email hour sends mail
	Metrics  *metrics.Registry

	PushgatewayURL string
	MetricsJob     string

	// DryRun evaluates without persisting or delivering anything.
	DryRun bool
	Now    func() time.Time
}

func (r *Runner) now() time.Time {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

// Run executes one batch. Only a missing holdings table is returned as an error;
// every other failure is logged and the run continues with the next ticker, channel or holder.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	now := r.now()
	res := &Result{RunID: uuid.NewString()}
	logger := log.WithField("run_id", res.RunID)
	logger.Infof("starting run at %s", now.Format(time.RFC3339))

	if msg, ok := r.holiday(now); ok {
		logger.Info("holiday calendar matched, sending greetings only")
		res.Holiday = msg
		if r.DryRun {
			return res, nil
		}
		for _, h := range r.Holders {
			r.send(ctx, "chat", h, func() error {
				return r.Chat.Send(ctx, h.ChatID, notifier.FormatHoliday(h.Name, msg))
			})
		}
		return res, nil
	}

	holdings, err := portfolio.LoadHoldings(r.HoldingsFile)
	if err != nil {
		return nil, err
	}

	market := r.Market.Market(ctx)
	if market.Err != nil {
		logger.Warnf("index data unavailable: %v", market.Err)
	}

	for _, h := range r.Holders {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		own := portfolio.ForHolder(holdings, h.Name)
		if len(own) == 0 {
			logger.WithField("holder", h.Name).Warn("no holdings, skipping")
			continue
		}
		snap := r.evaluate(ctx, h, own, market, now, res.RunID)
		res.FailedTickers += len(snap.FailedTickers)
		if len(snap.Results) == 0 {
			logger.WithField("holder", h.Name).Warn("no prices fetched, skipping delivery")
			continue
		}
		res.Snapshots = append(res.Snapshots, snap)
		if r.Metrics != nil {
			r.Metrics.PortfolioValue.WithLabelValues(h.Name).Set(snap.TotalValue.InexactFloat64())
		}
		if !r.DryRun {
			r.persist(ctx, snap)
			r.deliver(ctx, h, snap, now)
		}
	}

	if !r.DryRun {
		if r.Ledger != nil {
			r.Ledger.MarkRun(res.RunID)
		}
		if r.Metrics != nil {
			r.Metrics.RunFinished(started, time.Now())
			if err := r.Metrics.Push(r.PushgatewayURL, r.MetricsJob); err != nil {
				logger.Warn(err)
			}
		}
	}
	logger.Infof("run finished: %d holders reported, %d tickers failed", len(res.Snapshots), res.FailedTickers)
	return res, nil
}

func (r *Runner) holiday(now time.Time) (string, bool) {
	if r.HolidayFile == "" {
		return "", false
	}
	holidays, err := portfolio.LoadHolidays(r.HolidayFile)
	if err != nil {
		log.Debugf("no holiday calendar: %v", err)
		return "", false
	}
	return portfolio.HolidayOn(holidays, now)
}

func (r *Runner) evaluate(ctx context.Context, h config.Holder, own []model.Holding, market *model.MarketContext, now time.Time, runID string) *model.PortfolioSnapshot {
	snap := &model.PortfolioSnapshot{RunID: runID, Holder: h.Name, RunAt: now}

	for _, hold := range own {
		entry := log.WithFields(log.Fields{"holder": h.Name, "ticker": hold.Ticker})
		q, err := r.Market.Quote(ctx, hold.Ticker)
		if err != nil {
			entry.Warnf("price fetch failed: %v", err)
			snap.FailedTickers = append(snap.FailedTickers, hold.Ticker)
			if r.Metrics != nil {
				r.Metrics.TickerFailures.WithLabelValues(hold.Ticker).Inc()
			}
			continue
		}
		result := advisor.EvaluateHolding(hold, q, r.Market.Fundamentals(ctx, hold.Ticker), now, r.Settings)
		if r.AI != nil {
			result.News = r.AI.NewsCommentary(ctx, h.Name, hold.Ticker, r.Market.Headlines(ctx, hold.Ticker))
		}
		snap.Results = append(snap.Results, result)
		if r.Metrics != nil {
			r.Metrics.HoldingsEvaluated.Inc()
		}
		entry.Debugf("live %s, P/L %s", result.LivePrice, result.ProfitLoss)
	}

	advisor.EvaluatePortfolio(snap, market, r.Settings)
	if r.AI != nil && len(snap.Results) > 0 {
		snap.ExpertAdvice = r.AI.ExpertAdvice(ctx, snap)
	}
	return snap
}

func (r *Runner) persist(ctx context.Context, snap *model.PortfolioSnapshot) {
	if err := r.Recorder.RecordSnapshot(ctx, snap); err != nil {
		log.WithField("holder", snap.Holder).Errorf("record snapshot: %v", err)
	}
}

func (r *Runner) deliver(ctx context.Context, h config.Holder, snap *model.PortfolioSnapshot, now time.Time) {
	r.send(ctx, "chat", h, func() error {
		return r.Chat.Send(ctx, h.ChatID, notifier.FormatReport(snap))
	})

	if r.Speech != nil {
		r.send(ctx, "voice", h, func() error {
			audio, err := r.Speech.Synthesize(ctx, notifier.SpeechScript(snap))
			if err != nil {
				return err
			}
			if err := r.saveArtifact(h.Prefix+"_voice_report.mp3", audio); err != nil {
				log.WithField("holder", h.Name).Warnf("save voice report: %v", err)
			}
			return r.Chat.SendAudio(ctx, h.ChatID, h.Name+"_Market_Report.mp3", audio)
		})
	}

	if r.Mail != nil && h.Email != "" && r.emailWindow(h, now) {
		r.send(ctx, "email", h, func() error {
			path, err := r.WritePDF(snap, r.OutputDir, h.Prefix)
			if err != nil {
				return err
			}
			if err := r.Mail.SendReport(ctx, h.Email, h.Name, path); err != nil {
				return err
			}
			if r.Ledger != nil {
				r.Ledger.MarkEmailed(h.Name, now)
			}
			return nil
		})
	}
}

func (r *Runner) emailWindow(h config.Holder, now time.Time) bool {
	if r.EmailHour == nil || !r.EmailHour(now) {
		return false
	}
	return r.Ledger == nil || r.Ledger.EmailDue(h.Name, now)
}

func (r *Runner) saveArtifact(name string, data []byte) error {
	if r.OutputDir == "" {
		return nil
	}
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.OutputDir, name), data, 0o644)
}

// send runs one delivery, logging and counting its outcome.
func (r *Runner) send(ctx context.Context, channel string, h config.Holder, fn func() error) {
	err := fn()
	if r.Metrics != nil {
		r.Metrics.Delivered(channel, err)
	}
	entry := log.WithFields(log.Fields{"holder": h.Name, "channel": channel})
	switch {
	case err == nil:
		entry.Info("delivered")
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		entry.Warnf("delivery cancelled: %v", err)
	default:
		entry.Errorf("delivery failed: %v", fmt.Errorf("%s: %w", channel, err))
	}
}
