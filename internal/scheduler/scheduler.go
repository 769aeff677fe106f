package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"stockbot/internal/notifier"
	"stockbot/internal/recorder"
	"stockbot/internal/state"
)

// ErrRunInProgress is returned when a run is requested while another is still going.
var ErrRunInProgress = errors.New("a run is already in progress")

const historyLimit = 10

// Scheduler triggers batch runs from cron and chat commands, never two at a time.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *Runner
	Recorder recorder.Recorder
	Ledger   *state.Ledger
	Ctx      context.Context

	mu sync.Mutex
}

// NewScheduler creates a new Scheduler evaluating cron specs in loc.
func NewScheduler(ctx context.Context, runner *Runner, rec recorder.Recorder, ledger *state.Ledger, loc *time.Location) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Runner:   runner,
		Recorder: rec,
		Ledger:   ledger,
		Ctx:      ctx,
	}
}

// RegisterAll registers the batch run.
func (s *Scheduler) RegisterAll(runCron string) error {
	if _, err := s.Cron.AddFunc(runCron, s.runTask); err != nil {
		return fmt.Errorf("register run task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// RunNow executes one batch unless another is in progress.
func (s *Scheduler) RunNow(ctx context.Context) (*Result, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()
	return s.Runner.Run(ctx)
}

func (s *Scheduler) runTask() {
	log.Info("running scheduled batch")
	if _, err := s.RunNow(s.Ctx); err != nil {
		log.Errorf("scheduled run: %v", err)
	}
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch strings.ToLower(fields[0]) {
	case "/run":
		res, err := s.RunNow(ctx)
		if err != nil {
			return "❌ Run failed: " + notifier.StripMarkup(err.Error())
		}
		if res.Holiday != "" {
			return "🏖️ Holiday today, greetings sent."
		}
		return fmt.Sprintf("✅ Run %s finished: %d reports, %d tickers failed.",
			shortID(res.RunID), len(res.Snapshots), res.FailedTickers)
	case "/history":
		if len(fields) < 2 {
			return "Usage: /history <ticker>"
		}
		rows, err := s.Recorder.History(ctx, recorder.Query{Ticker: fields[1], Limit: historyLimit})
		if err != nil {
			return "❌ History unavailable: " + notifier.StripMarkup(err.Error())
		}
		return notifier.FormatHistory(rows)
	case "/status":
		if s.Ledger == nil {
			return "No run recorded yet."
		}
		st := s.Ledger.Snapshot()
		if st.LastRunID == "" {
			return "No run recorded yet."
		}
		return fmt.Sprintf("Last run %s at %s.", shortID(st.LastRunID), st.UpdatedAt.Format("2006-01-02 15:04"))
	default:
		return helpText
	}
}

const helpText = "Available commands:\n• /run - run the report now\n• /history <ticker> - last 10 records\n• /status - last run"

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
