package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"quiz-backend/internal/cli"
	"quiz-backend/internal/config"
	"quiz-backend/internal/jobs"
	"quiz-backend/internal/logging"
	"quiz-backend/internal/notify"
	"quiz-backend/internal/quiz/sqlite"
	"quiz-backend/internal/report"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logger.Close()

	store, err := sqlite.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	reports := report.NewService(store)
	runner := jobs.NewRunner(store, reports, notify.NewSender(cfg.SMTP, nil, logger), logger, jobs.Options{
		InactiveDays:         cfg.InactiveDays,
		AbandonedAttemptDays: cfg.AbandonedAttemptDays,
		SendInterval:         cfg.SendInterval,
		AppURL:               cfg.AppURL,
	})
	scheduler, err := jobs.NewScheduler(jobs.DefaultJobs(runner, cfg.Schedule), cfg.Schedule.PollInterval, cfg.Schedule.Location, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.App{
		Runner:    runner,
		Scheduler: scheduler,
		Log:       logger,
		Out:       os.Stdout,
	}
	return app.Run(ctx, os.Args[1:])
}
