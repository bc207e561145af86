package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-backend/internal/auth"
	"quiz-backend/internal/config"
	"quiz-backend/internal/httpapi"
	"quiz-backend/internal/jobs"
	"quiz-backend/internal/logging"
	"quiz-backend/internal/notify"
	"quiz-backend/internal/opentdb"
	"quiz-backend/internal/quiz"
	"quiz-backend/internal/quiz/sqlite"
	"quiz-backend/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	flag.Parse()

	logger, err := logging.New(cfg.LogFile)
	if err != nil {
		log.Fatalf("open log file: %v", err)
	}
	defer logger.Close()

	store, err := sqlite.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		logger.Errorf("open database %s: %v", cfg.DBPath, err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trivia := opentdb.NewClient(&http.Client{Timeout: 10 * time.Second}, opentdb.WithBaseURL(cfg.TriviaURL))
	service := quiz.NewService(store, auth.BcryptHasher{}, trivia.FetchQuestions)
	if cfg.Bootstrap.AdminPassword != "" {
		_, created, err := service.EnsureAdmin(ctx, quiz.Registration{
			Username: cfg.Bootstrap.AdminUsername,
			Email:    cfg.Bootstrap.AdminEmail,
			Password: cfg.Bootstrap.AdminPassword,
		})
		if err != nil {
			logger.Errorf("bootstrap admin %s: %v", cfg.Bootstrap.AdminUsername, err)
			os.Exit(1)
		}
		if created {
			logger.Infof("created bootstrap admin %s", cfg.Bootstrap.AdminUsername)
		}
	}

	reports := report.NewService(store)
	sender := notify.NewSender(cfg.SMTP, nil, logger)
	runner := jobs.NewRunner(store, reports, sender, logger, jobs.Options{
		InactiveDays:         cfg.InactiveDays,
		AbandonedAttemptDays: cfg.AbandonedAttemptDays,
		SendInterval:         cfg.SendInterval,
		AppURL:               cfg.AppURL,
	})
	scheduler, err := jobs.NewScheduler(jobs.DefaultJobs(runner, cfg.Schedule), cfg.Schedule.PollInterval, cfg.Schedule.Location, logger)
	if err != nil {
		logger.Errorf("configure scheduler: %v", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	server := &http.Server{
		Addr:              *addr,
		Handler:           httpapi.NewRouter(httpapi.NewAPI(service, reports, runner, tokens, logger)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("server shutdown: %v", err)
		}
	}()

	logger.Infof("quiz-service listening on %s", *addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("server failed: %v", err)
		return
	}
	logger.Infof("quiz-service stopped")
}
