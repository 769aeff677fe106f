package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/glamour"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"stockbot/internal/notifier"
	"stockbot/internal/recorder"
	"stockbot/internal/scheduler"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func render(md string) string {
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return out
}

func newRunCmd(cfgPath *string) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one batch now",
		Long:  "Evaluate every holder's portfolio once, persist the snapshot and deliver the reports.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*cfgPath, !dryRun)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			a, err := newApp(ctx, cfg, dryRun)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.runner.Run(ctx)
			if err != nil {
				return err
			}
			if dryRun {
				printDryRun(cmd, res)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the chat reports instead of delivering or persisting them")
	return cmd
}

func printDryRun(cmd *cobra.Command, res *scheduler.Result) {
	out := cmd.OutOrStdout()
	if res.Holiday != "" {
		fmt.Fprint(out, render("# Holiday\n\n"+res.Holiday))
		return
	}
	for _, snap := range res.Snapshots {
		fmt.Fprint(out, render(notifier.FormatReport(snap)))
		fmt.Fprint(out, render("> "+notifier.SpeechScript(snap)))
	}
}

func newServeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run batches on the configured cron schedule",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*cfgPath, true)
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			a, err := newApp(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			sched := scheduler.NewScheduler(ctx, a.runner, a.recorder, a.ledger, a.runner.Location)
			if err := sched.RegisterAll(cfg.Schedule.RunCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if a.telegram != nil && cfg.Chat.Telegram.Polling {
				go a.telegram.StartPolling(ctx, cfg.Chat.Telegram.AdminID, sched.HandleCommand)
				log.Info("telegram polling started")
			}

			if os.Getenv("RUN_ON_START") == "true" {
				log.Info("RUN_ON_START enabled, running batch now")
				go func() {
					if _, err := sched.RunNow(ctx); err != nil {
						log.Errorf("startup run: %v", err)
					}
				}()
			}

			log.Infof("stockbot is running on %q. Press Ctrl+C to stop.", cfg.Schedule.RunCron)
			<-ctx.Done()
			log.Info("shutdown signal received, stopping...")
			return nil
		},
	}
}

func newHistoryCmd(cfgPath *string) *cobra.Command {
	var (
		holder string
		ticker string
		limit  int
		raw    bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded evaluations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*cfgPath, false)
			if err != nil {
				return err
			}
			rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
			if err != nil {
				return err
			}
			defer rec.Close()

			rows, err := rec.History(cmd.Context(), recorder.Query{
				Holder: holder,
				Ticker: ticker,
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			md := notifier.FormatHistory(rows)
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), render(md))
			return nil
		},
	}
	cmd.Flags().StringVar(&holder, "holder", "", "Only this holder")
	cmd.Flags().StringVar(&ticker, "ticker", "", "Only this ticker")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows, 0 for all")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print markdown without terminal styling")
	return cmd
}
