package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"quiz-backend/internal/jobs"
	"quiz-backend/internal/logging"
	"quiz-backend/internal/quiz"
	"quiz-backend/internal/report"
)

const usage = `usage: quiz-jobs <command>

commands:
  test-reminders       send reminder emails to inactive users now
  test-admin-report    send the daily admin report now
  test-cleanup         delete abandoned attempts now
  test-inactive-users  list users who would receive a reminder
  test-stats           print the daily statistics used by the admin report
  start                run the scheduler in the foreground until interrupted`

var ErrUsage = errors.New("unknown or missing command")

// Runner is satisfied by *jobs.Runner.
type Runner interface {
	SendUserReminders(ctx context.Context) (int, error)
	SendAdminReport(ctx context.Context) (int, error)
	Cleanup(ctx context.Context) bool
	InactiveUsers(ctx context.Context) ([]quiz.InactiveUser, error)
	DailyStats(ctx context.Context) (report.DailyStats, error)
}

// Scheduler is satisfied by *jobs.Scheduler.
type Scheduler interface {
	Start(ctx context.Context)
	Stop()
	Registered() []string
}

type App struct {
	Runner    Runner
	Scheduler Scheduler
	Log       *logging.Logger
	Out       io.Writer
}

// Run dispatches a single command. start blocks until ctx is canceled.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.Out, usage)
		return ErrUsage
	}

	switch args[0] {
	case "test-reminders":
		return a.track(ctx, jobs.JobUserReminders, func(ctx context.Context) error {
			sent, err := a.Runner.SendUserReminders(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "Sent %d reminder emails\n", sent)
			return nil
		})
	case "test-admin-report":
		return a.track(ctx, jobs.JobAdminReport, func(ctx context.Context) error {
			sent, err := a.Runner.SendAdminReport(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "Sent %d admin report emails\n", sent)
			return nil
		})
	case "test-cleanup":
		return a.track(ctx, jobs.JobCleanup, func(ctx context.Context) error {
			if !a.Runner.Cleanup(ctx) {
				return errors.New("weekly cleanup failed, see log for details")
			}
			fmt.Fprintln(a.Out, "Weekly cleanup completed successfully")
			return nil
		})
	case "test-inactive-users":
		return a.track(ctx, "inactive-users", func(ctx context.Context) error {
			users, err := a.Runner.InactiveUsers(ctx)
			if err != nil {
				return err
			}
			printInactiveUsers(a.Out, users)
			return nil
		})
	case "test-stats":
		return a.track(ctx, "daily-stats", func(ctx context.Context) error {
			stats, err := a.Runner.DailyStats(ctx)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(a.Out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(stats)
		})
	case "start":
		return a.start(ctx)
	default:
		fmt.Fprintln(a.Out, usage)
		return fmt.Errorf("%w: %q", ErrUsage, args[0])
	}
}

func (a *App) track(ctx context.Context, name string, run func(ctx context.Context) error) error {
	return jobs.Track(ctx, a.Log, "manual-"+name, run)
}

func (a *App) start(ctx context.Context) error {
	if a.Scheduler == nil {
		return errors.New("scheduler is not configured")
	}

	a.Scheduler.Start(ctx)
	fmt.Fprintf(a.Out, "Scheduler running with jobs %v. Press Ctrl+C to stop.\n", a.Scheduler.Registered())

	<-ctx.Done()
	a.Scheduler.Stop()
	fmt.Fprintln(a.Out, "Scheduler stopped")
	return nil
}

func printInactiveUsers(out io.Writer, users []quiz.InactiveUser) {
	fmt.Fprintf(out, "Found %d inactive users\n", len(users))
	if len(users) == 0 {
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tLAST ATTEMPT\tATTEMPTS")
	for _, user := range users {
		last := "never"
		if user.LastAttempt != nil {
			last = user.LastAttempt.Format(time.DateOnly)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", user.ID, user.Username, user.Email, last, user.TotalAttempts)
	}
	_ = tw.Flush()
}
